package models

import (
	"errors"
	"path/filepath"
	"time"
)

// Copy task lifecycle status constants
const (
	TaskPending   = "pending"   // Task created, not yet started
	TaskRunning   = "running"   // Copy in progress
	TaskCompleted = "completed" // Copy finished (successfully or not)
)

// Copy result status constants
const (
	StatusCopied = "COPIED" // File copied successfully
	StatusFailed = "FAILED" // Copy failed at some step
)

// CopyTask is the unit of work associating one FileEntry with the output
// root. Tasks are created once traversal finishes and are never retried;
// no task outlives the process.
type CopyTask struct {
	Entry      FileEntry // The file to copy
	OutputRoot string    // Root of the sorted output tree
	Status     string    // Lifecycle status: pending, running, completed
}

// NewCopyTask creates a pending CopyTask for the given entry and output root.
func NewCopyTask(entry FileEntry, outputRoot string) CopyTask {
	return CopyTask{
		Entry:      entry,
		OutputRoot: outputRoot,
		Status:     TaskPending,
	}
}

// Validate checks that the task has all required fields.
func (t *CopyTask) Validate() error {
	if t.Entry.Path == "" {
		return errors.New("task entry path is required")
	}
	if t.OutputRoot == "" {
		return errors.New("task output root is required")
	}
	return nil
}

// DestinationDir returns the extension bucket directory for this task.
func (t CopyTask) DestinationDir() string {
	return filepath.Join(t.OutputRoot, t.Entry.ExtensionKey())
}

// DestinationPath returns the full destination path for this task:
// <output_root>/<extension_key>/<basename>. The mapping is deterministic and
// stateless; it depends only on the file's name and the output root.
func (t CopyTask) DestinationPath() string {
	return filepath.Join(t.DestinationDir(), t.Entry.Name())
}

// CopyResult represents the outcome of one copy task
type CopyResult struct {
	Task     CopyTask      // The task that was executed
	Status   string        // Status: "COPIED" or "FAILED"
	Dest     string        // Destination path (set on success)
	Error    error         // Error if the copy failed
	Duration time.Duration // Time taken to copy
}

// RunResult represents the aggregate result of one sorting run
type RunResult struct {
	TotalFiles   int           // Total number of files discovered
	Copied       int           // Number of files copied successfully
	Failed       int           // Number of files that failed to copy
	Duration     time.Duration // Total run time
	FailedCopies []CopyResult  // Details of failed copies
}
