package executor

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shikigami12/extsort/internal/fileutil"
	"github.com/shikigami12/extsort/internal/models"
)

// Logger defines the interface for logging run progress and results.
type Logger interface {
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogCopyResult(result models.CopyResult) error
	LogSummary(result models.RunResult)
}

// PoolRunner defines the behavior required to execute a batch of copy tasks.
type PoolRunner interface {
	Run(ctx context.Context, tasks []models.CopyTask) []models.CopyResult
}

// Orchestrator coordinates a sorting run: it validates the source
// precondition, scans the tree, fans out copy tasks, handles graceful
// shutdown, and aggregates results.
type Orchestrator struct {
	pool   PoolRunner
	logger Logger
	scan   func(dir string) (*fileutil.ScanResult, error)
}

// NewOrchestrator creates a new Orchestrator instance.
// The logger parameter is optional and can be nil.
func NewOrchestrator(pool PoolRunner, logger Logger) *Orchestrator {
	if pool == nil {
		panic("pool cannot be nil")
	}

	return &Orchestrator{
		pool:   pool,
		logger: logger,
		scan:   fileutil.ScanDirectory,
	}
}

// Run sorts every regular file under source into output, one subdirectory
// per extension. It returns a non-nil error only when the source
// precondition fails; traversal failures and per-file copy failures degrade
// to log lines and an aggregate result. The output root is never created
// when there is nothing to copy.
func (o *Orchestrator) Run(ctx context.Context, source, output string) (*models.RunResult, error) {
	// Precondition: the source root must exist and be a directory.
	info, err := os.Stat(source)
	if err != nil {
		o.logError(fmt.Sprintf("Source directory does not exist: %s", source))
		return nil, fmt.Errorf("source directory does not exist: %s", source)
	}
	if !info.IsDir() {
		o.logError(fmt.Sprintf("Source path is not a directory: %s", source))
		return nil, fmt.Errorf("source path is not a directory: %s", source)
	}

	// Set up context with cancellation for signal handling
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			if o.logger != nil {
				o.logger.LogWarn("Received interrupt signal, stopping...")
			}
			cancel()
		case <-ctx.Done():
			// Context already cancelled
		}
	}()

	startTime := time.Now()

	scan, err := o.scan(source)
	if err != nil {
		// Traversal failure degrades to "nothing to copy" rather than a
		// process-level error.
		o.logError(fmt.Sprintf("Error while scanning %s: %v", source, err))
		o.logInfo("No files found to copy.")
		return &models.RunResult{Duration: time.Since(startTime)}, nil
	}

	for _, scanErr := range scan.Errors {
		o.logWarn(fmt.Sprintf("Skipping inaccessible entry: %v", scanErr))
	}

	if len(scan.Entries) == 0 {
		o.logInfo("No files found to copy.")
		return &models.RunResult{Duration: time.Since(startTime)}, nil
	}

	tasks := make([]models.CopyTask, 0, len(scan.Entries))
	for _, entry := range scan.Entries {
		tasks = append(tasks, models.NewCopyTask(entry, output))
	}

	o.logInfo(fmt.Sprintf("Copying %d files from '%s' to '%s'", len(tasks), source, output))

	results := o.pool.Run(ctx, tasks)

	runResult := o.aggregateResults(tasks, results, time.Since(startTime))

	if ctx.Err() != nil {
		o.logWarn("Run interrupted; some files may be missing or partially written.")
	}

	if o.logger != nil {
		o.logger.LogSummary(*runResult)
	}

	return runResult, nil
}

// aggregateResults processes copy results and creates a RunResult summary.
func (o *Orchestrator) aggregateResults(tasks []models.CopyTask, results []models.CopyResult, duration time.Duration) *models.RunResult {
	runResult := &models.RunResult{
		TotalFiles:   len(tasks),
		Duration:     duration,
		FailedCopies: []models.CopyResult{},
	}

	for _, result := range results {
		switch result.Status {
		case models.StatusCopied:
			runResult.Copied++
		case models.StatusFailed:
			runResult.Failed++
			runResult.FailedCopies = append(runResult.FailedCopies, result)
		}
	}

	return runResult
}

func (o *Orchestrator) logInfo(message string) {
	if o.logger != nil {
		o.logger.LogInfo(message)
	}
}

func (o *Orchestrator) logWarn(message string) {
	if o.logger != nil {
		o.logger.LogWarn(message)
	}
}

func (o *Orchestrator) logError(message string) {
	if o.logger != nil {
		o.logger.LogError(message)
	}
}
