package executor

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shikigami12/extsort/internal/models"
)

// trackingCopier is a FileCopier fake that records concurrency for tests.
type trackingCopier struct {
	delay    time.Duration
	inFlight int32
	peak     int32
	calls    int32
}

func (c *trackingCopier) Copy(ctx context.Context, task models.CopyTask) models.CopyResult {
	atomic.AddInt32(&c.calls, 1)
	current := atomic.AddInt32(&c.inFlight, 1)
	for {
		peak := atomic.LoadInt32(&c.peak)
		if current <= peak || atomic.CompareAndSwapInt32(&c.peak, peak, current) {
			break
		}
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	atomic.AddInt32(&c.inFlight, -1)

	task.Status = models.TaskCompleted
	return models.CopyResult{
		Task:   task,
		Status: models.StatusCopied,
		Dest:   task.DestinationPath(),
	}
}

// countingLogger counts copy result log lines.
type countingLogger struct {
	mu      sync.Mutex
	results []models.CopyResult
}

func (l *countingLogger) LogInfo(message string)  {}
func (l *countingLogger) LogWarn(message string)  {}
func (l *countingLogger) LogError(message string) {}
func (l *countingLogger) LogCopyResult(result models.CopyResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, result)
	return nil
}
func (l *countingLogger) LogSummary(result models.RunResult) {}

func makeTasks(paths ...string) []models.CopyTask {
	tasks := make([]models.CopyTask, 0, len(paths))
	for _, p := range paths {
		tasks = append(tasks, models.NewCopyTask(models.FileEntry{Path: p}, "dist"))
	}
	return tasks
}

func TestPoolRunsAllTasks(t *testing.T) {
	copier := &trackingCopier{}
	logger := &countingLogger{}
	pool := NewPool(copier, logger, 0)

	tasks := makeTasks("a.txt", "b.txt", "c.txt", "d.txt")
	results := pool.Run(context.Background(), tasks)

	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d", len(results), len(tasks))
	}
	if got := atomic.LoadInt32(&copier.calls); got != int32(len(tasks)) {
		t.Errorf("copier called %d times, want %d", got, len(tasks))
	}
	if len(logger.results) != len(tasks) {
		t.Errorf("logged %d results, want %d", len(logger.results), len(tasks))
	}

	// Results come back in task order regardless of completion order
	for i, task := range tasks {
		if results[i].Task.Entry.Path != task.Entry.Path {
			t.Errorf("result[%d] for %q, want %q", i, results[i].Task.Entry.Path, task.Entry.Path)
		}
	}
}

func TestPoolEmptyTasks(t *testing.T) {
	pool := NewPool(&trackingCopier{}, nil, 0)
	results := pool.Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("got %d results for no tasks, want 0", len(results))
	}
}

func TestPoolRespectsConcurrencyCap(t *testing.T) {
	copier := &trackingCopier{delay: 20 * time.Millisecond}
	pool := NewPool(copier, nil, 2)

	tasks := makeTasks("a", "b", "c", "d", "e", "f")
	pool.Run(context.Background(), tasks)

	if peak := atomic.LoadInt32(&copier.peak); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestPoolUnboundedLaunchesEverything(t *testing.T) {
	copier := &trackingCopier{delay: 10 * time.Millisecond}
	pool := NewPool(copier, nil, 0)

	tasks := makeTasks("a", "b", "c", "d", "e", "f", "g", "h")
	results := pool.Run(context.Background(), tasks)

	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d", len(results), len(tasks))
	}
}

func TestPoolCancelledContextLaunchesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	copier := &trackingCopier{}
	pool := NewPool(copier, nil, 0)
	results := pool.Run(ctx, makeTasks("a", "b", "c"))

	if len(results) != 0 {
		t.Errorf("got %d results after pre-cancelled context, want 0", len(results))
	}
	if got := atomic.LoadInt32(&copier.calls); got != 0 {
		t.Errorf("copier called %d times after pre-cancelled context, want 0", got)
	}
}

func TestPoolFailureIsolation(t *testing.T) {
	tmpDir := t.TempDir()
	good := filepath.Join(tmpDir, "good.txt")
	if err := os.WriteFile(good, []byte("fine"), 0644); err != nil {
		t.Fatalf("failed to create source: %v", err)
	}
	missing := filepath.Join(tmpDir, "missing.txt")
	output := filepath.Join(tmpDir, "dist")

	tasks := []models.CopyTask{
		models.NewCopyTask(models.FileEntry{Path: good}, output),
		models.NewCopyTask(models.FileEntry{Path: missing}, output),
	}

	pool := NewPool(NewFileCopier(), nil, 0)
	results := pool.Run(context.Background(), tasks)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Status != models.StatusCopied {
		t.Errorf("good copy status = %q, want %q (err: %v)", results[0].Status, models.StatusCopied, results[0].Error)
	}
	if results[1].Status != models.StatusFailed {
		t.Errorf("missing copy status = %q, want %q", results[1].Status, models.StatusFailed)
	}
}
