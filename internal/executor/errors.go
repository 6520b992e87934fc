package executor

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CopyError represents an error that occurred while copying a single file.
// It includes context about which source path failed and when.
type CopyError struct {
	Path      string    // Source path of the file that failed to copy
	Message   string    // Human-readable error message
	Err       error     // Underlying error (optional)
	Timestamp time.Time // When the error occurred
}

// NewCopyError creates a new CopyError with the current timestamp.
func NewCopyError(path, msg string, err error) *CopyError {
	return &CopyError{
		Path:      path,
		Message:   msg,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface for CopyError.
func (e *CopyError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("copy %s: %s", e.Path, e.Message))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *CopyError) Unwrap() error {
	return e.Err
}

// IsCopyError checks if the error is or wraps a CopyError.
func IsCopyError(err error) bool {
	if err == nil {
		return false
	}
	var ce *CopyError
	return errors.As(err, &ce)
}
