package executor

import (
	"context"
	"sync"

	"github.com/shikigami12/extsort/internal/models"
)

// Pool fans out copy tasks as concurrent goroutines and aggregates their
// results. Concurrency is gated by a semaphore channel: maxConcurrency <= 0
// launches one goroutine per task with no cap, matching the unbounded
// fan-out of the original pipeline; a positive value bounds the number of
// in-flight copies.
type Pool struct {
	copier         FileCopier
	logger         Logger
	maxConcurrency int
}

// NewPool constructs a Pool with the provided copier implementation.
// The logger parameter is optional and can be nil to disable logging.
func NewPool(copier FileCopier, logger Logger, maxConcurrency int) *Pool {
	return &Pool{
		copier:         copier,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// Run executes all copy tasks concurrently and waits for every one to finish
// regardless of individual outcomes. Per-task failures are reported in the
// returned results, never as an error. Once ctx is cancelled no further
// tasks are launched; tasks already in flight may still complete or abandon.
// Results are returned in task order; log output reflects completion order.
func (p *Pool) Run(ctx context.Context, tasks []models.CopyTask) []models.CopyResult {
	taskCount := len(tasks)
	if taskCount == 0 {
		return []models.CopyResult{}
	}

	maxConcurrency := p.maxConcurrency
	if maxConcurrency <= 0 || maxConcurrency > taskCount {
		maxConcurrency = taskCount
	}

	semaphore := make(chan struct{}, maxConcurrency)
	resultsCh := make(chan models.CopyResult, taskCount)

	var wg sync.WaitGroup
	launched := 0

	for _, task := range tasks {
		if ctx.Err() != nil {
			break
		}

		// Check context again before acquiring the semaphore to avoid
		// blocking on a cancelled context
		select {
		case <-ctx.Done():
		case semaphore <- struct{}{}:
			wg.Add(1)
			launched++
			go func(task models.CopyTask) {
				defer wg.Done()
				defer func() { <-semaphore }()

				result := p.copier.Copy(ctx, task)
				resultsCh <- result
			}(task)
			continue
		}
		break
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	resultMap := make(map[string]models.CopyResult, launched)
	for result := range resultsCh {
		resultMap[result.Task.Entry.Path] = result

		// Log each result as it completes
		if p.logger != nil {
			p.logger.LogCopyResult(result)
		}
	}

	// Return results in task order for callers; tasks never launched due to
	// cancellation produce no result
	results := make([]models.CopyResult, 0, launched)
	for _, task := range tasks {
		if result, ok := resultMap[task.Entry.Path]; ok {
			results = append(results, result)
		}
	}

	return results
}
