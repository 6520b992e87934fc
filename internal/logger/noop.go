package logger

import "github.com/shikigami12/extsort/internal/models"

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogInfo is a no-op implementation.
func (n *NoOpLogger) LogInfo(message string) {
}

// LogWarn is a no-op implementation.
func (n *NoOpLogger) LogWarn(message string) {
}

// LogError is a no-op implementation.
func (n *NoOpLogger) LogError(message string) {
}

// LogCopyResult is a no-op implementation.
func (n *NoOpLogger) LogCopyResult(result models.CopyResult) error {
	return nil
}

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(result models.RunResult) {
}
