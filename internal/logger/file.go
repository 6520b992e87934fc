package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shikigami12/extsort/internal/models"
)

// FileLogger logs run events to timestamped files in a log directory and
// maintains a latest.log symlink pointing to the most recent run. Each run
// log carries a unique run ID in its header so overlapping runs can be told
// apart. It is thread-safe and implements the executor.Logger interface.
type FileLogger struct {
	logDir   string
	runID    string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to logDir with the given log
// level. It creates the log directory if it doesn't exist, opens a
// timestamped run log file, and creates/updates the latest.log symlink.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Timestamped filename with a short run ID suffix so runs starting in
	// the same second get distinct log files: run-YYYYMMDD-HHMMSS-xxxxxxxx.log
	runID := uuid.New().String()
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s-%s.log", ts, runID[:8]))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Create/update latest.log symlink
	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runID:    runID,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
		mu:       sync.Mutex{},
	}

	fl.write("=== extsort Run Log ===\n")
	fl.write(fmt.Sprintf("Run ID: %s\n", fl.runID))
	fl.write(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// RunID returns the unique identifier of this run's log.
func (fl *FileLogger) RunID() string {
	return fl.runID
}

// Path returns the path of the run log file.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

// Close closes the underlying run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

// LogInfo logs an info-level message to the run log.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message to the run log.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message to the run log.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

// LogCopyResult logs the outcome of one copy task to the run log.
func (fl *FileLogger) LogCopyResult(result models.CopyResult) error {
	var level, message string
	if result.Status == models.StatusCopied {
		level = "INFO"
		message = fmt.Sprintf("Copied %s to %s", result.Task.Entry.Path, result.Dest)
	} else {
		level = "ERROR"
		message = fmt.Sprintf("Failed to copy %s: %v", result.Task.Entry.Path, result.Error)
	}

	if !fl.shouldLog(strings.ToLower(level)) {
		return nil
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()
	return fl.writeLine(level, message)
}

// LogSummary logs the run summary to the run log.
func (fl *FileLogger) LogSummary(result models.RunResult) {
	if !fl.shouldLog("info") {
		return
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()

	fl.writeLine("INFO", fmt.Sprintf("Processed %d files in %s", result.TotalFiles, formatDuration(result.Duration)))
	fl.writeLine("INFO", fmt.Sprintf("Copied: %d", result.Copied))
	if result.Failed > 0 {
		fl.writeLine("INFO", fmt.Sprintf("Failed: %d", result.Failed))
	}
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

func (fl *FileLogger) logWithLevel(level, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()
	fl.writeLine(level, message)
}

// writeLine writes one timestamped log line. Caller must hold fl.mu.
func (fl *FileLogger) writeLine(level, message string) error {
	return fl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// write appends raw text to the run log. Caller must hold fl.mu when called
// concurrently.
func (fl *FileLogger) write(text string) error {
	if fl.runLog == nil {
		return nil
	}
	_, err := fl.runLog.WriteString(text)
	return err
}
