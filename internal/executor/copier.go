package executor

import (
	"context"
	"os"
	"time"

	"github.com/shikigami12/extsort/internal/models"
)

// FileCopier defines the behavior required to copy a single file into the
// sorted output tree.
type FileCopier interface {
	Copy(ctx context.Context, task models.CopyTask) models.CopyResult
}

// DefaultFileCopier copies files by reading the entire source into memory and
// writing it to the destination. Whole-file buffering keeps the copy path
// simple; it is not designed for arbitrarily large files.
type DefaultFileCopier struct{}

// NewFileCopier constructs a DefaultFileCopier.
func NewFileCopier() *DefaultFileCopier {
	return &DefaultFileCopier{}
}

// Copy performs one copy task: derive the extension bucket, ensure the
// bucket directory exists, read the source, and write the destination.
// Failures at any step terminate the copy for this file only and are
// reported in the returned result, never as a panic or process-level error.
// An existing destination file is overwritten without warning; on a write
// failure a half-written destination may remain.
func (c *DefaultFileCopier) Copy(ctx context.Context, task models.CopyTask) models.CopyResult {
	start := time.Now()
	task.Status = models.TaskRunning

	result := models.CopyResult{
		Task: task,
	}

	if err := ctx.Err(); err != nil {
		return c.fail(result, start, NewCopyError(task.Entry.Path, "copy cancelled", err))
	}

	// Concurrent tasks may race to create the same bucket directory;
	// MkdirAll tolerates it already existing.
	destDir := task.DestinationDir()
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return c.fail(result, start, NewCopyError(task.Entry.Path, "failed to create destination directory", err))
	}

	data, err := os.ReadFile(task.Entry.Path)
	if err != nil {
		return c.fail(result, start, NewCopyError(task.Entry.Path, "failed to read source file", err))
	}

	dest := task.DestinationPath()
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return c.fail(result, start, NewCopyError(task.Entry.Path, "failed to write destination file", err))
	}

	result.Task.Status = models.TaskCompleted
	result.Status = models.StatusCopied
	result.Dest = dest
	result.Duration = time.Since(start)
	return result
}

func (c *DefaultFileCopier) fail(result models.CopyResult, start time.Time, err *CopyError) models.CopyResult {
	result.Task.Status = models.TaskCompleted
	result.Status = models.StatusFailed
	result.Error = err
	result.Duration = time.Since(start)
	return result
}
