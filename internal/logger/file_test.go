package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shikigami12/extsort/internal/models"
)

func TestNewFileLoggerCreatesRunLog(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	fl, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer fl.Close()

	if fl.RunID() == "" {
		t.Error("run ID is empty")
	}

	matches, err := filepath.Glob(filepath.Join(logDir, "run-*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one run log file, got %v (err: %v)", matches, err)
	}
	if fl.Path() != matches[0] {
		t.Errorf("Path() = %q, want %q", fl.Path(), matches[0])
	}

	// latest.log symlink points at the run log
	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("latest.log symlink missing: %v", err)
	}
	if target != filepath.Base(matches[0]) {
		t.Errorf("latest.log points at %q, want %q", target, filepath.Base(matches[0]))
	}
}

func TestFileLoggerWritesHeaderAndLines(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	fl, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	fl.LogInfo("scan started")
	fl.LogCopyResult(models.CopyResult{
		Task:   models.NewCopyTask(models.FileEntry{Path: "/src/a.txt"}, "dist"),
		Status: models.StatusCopied,
		Dest:   "dist/txt/a.txt",
	})
	fl.LogSummary(models.RunResult{TotalFiles: 1, Copied: 1})

	if err := fl.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(fl.Path())
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"=== extsort Run Log ===",
		"Run ID: " + fl.RunID(),
		"scan started",
		"Copied /src/a.txt to dist/txt/a.txt",
		"Processed 1 files",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("run log missing %q:\n%s", want, content)
		}
	}
}

func TestFileLoggerLevelFiltering(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")
	fl, err := NewFileLogger(logDir, "error")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	fl.LogInfo("not this one")
	fl.LogError("but this one")
	fl.Close()

	data, err := os.ReadFile(fl.Path())
	if err != nil {
		t.Fatalf("failed to read run log: %v", err)
	}
	content := string(data)

	if strings.Contains(content, "not this one") {
		t.Error("info line written despite error level")
	}
	if !strings.Contains(content, "but this one") {
		t.Error("error line missing")
	}
}

func TestFileLoggerCloseIsIdempotent(t *testing.T) {
	fl, err := NewFileLogger(filepath.Join(t.TempDir(), "logs"), "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	// Logging after close must not panic
	fl.LogInfo("dropped")
}

func TestFileLoggerDistinctFilesWithinSameSecond(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	// Back-to-back creation lands inside one clock second; the run ID
	// suffix must still keep the log files apart.
	first, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer first.Close()

	second, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("second NewFileLogger() error = %v", err)
	}
	defer second.Close()

	if first.Path() == second.Path() {
		t.Errorf("both runs share log file %q", first.Path())
	}

	matches, err := filepath.Glob(filepath.Join(logDir, "run-*.log"))
	if err != nil || len(matches) != 2 {
		t.Fatalf("expected two run log files, got %v (err: %v)", matches, err)
	}
}

func TestFileLoggerLatestSymlinkReplaced(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	first, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	first.Close()

	second, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("second NewFileLogger() error = %v", err)
	}
	second.Close()

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("latest.log symlink missing: %v", err)
	}
	if target != filepath.Base(second.Path()) {
		t.Errorf("latest.log points at %q, want %q", target, filepath.Base(second.Path()))
	}
}
