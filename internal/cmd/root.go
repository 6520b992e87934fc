// Package cmd wires the extsort CLI surface to the copy pipeline.
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/shikigami12/extsort/internal/config"
	"github.com/shikigami12/extsort/internal/executor"
	"github.com/shikigami12/extsort/internal/filelock"
	"github.com/shikigami12/extsort/internal/fileutil"
	"github.com/shikigami12/extsort/internal/logger"
	"github.com/shikigami12/extsort/internal/models"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for extsort
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extsort",
		Short: "Sort files into per-extension directories",
		Long: `extsort recursively scans a source directory, classifies every regular
file by its name extension, and copies it into an output tree with one
subdirectory per extension. Files without an extension land under
"no_extension". Copies run concurrently; an existing destination file with
the same name is overwritten.

Configuration is loaded from .extsort/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  extsort --source ~/Downloads
  extsort -s ~/Downloads -o ~/sorted
  extsort -s ./inbox --max-concurrency 64   # Bound in-flight copies
  extsort -s ./inbox --dry-run              # Show the planned tree only
  extsort -s ./inbox --log-dir ./logs       # Also write a run log file`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		RunE:         runSort,
	}

	cmd.Flags().StringP("source", "s", "", "Directory to scan (required)")
	cmd.Flags().StringP("output", "o", "dist", "Root of the sorted output tree")
	cmd.Flags().String("config", "", "Path to config file (default: .extsort/config.yaml)")
	cmd.Flags().Int("max-concurrency", 0, "Maximum number of concurrent copies (0 = unlimited)")
	cmd.Flags().Bool("dry-run", false, "List the planned destination tree without copying")
	cmd.Flags().Bool("verbose", false, "Show detailed progress (debug logging)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for run log files")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

// runSort implements the sorting run
func runSort(cmd *cobra.Command, args []string) error {
	// Load configuration from file
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Build flag pointers for merge (only values the user changed)
	var outputPtr *string
	if cmd.Flags().Changed("output") {
		output, _ := cmd.Flags().GetString("output")
		outputPtr = &output
	}

	var maxConcurrencyPtr *int
	if cmd.Flags().Changed("max-concurrency") {
		maxConcurrency, _ := cmd.Flags().GetInt("max-concurrency")
		maxConcurrencyPtr = &maxConcurrency
	}

	var logLevelPtr *string
	if cmd.Flags().Changed("log-level") {
		logLevel, _ := cmd.Flags().GetString("log-level")
		logLevelPtr = &logLevel
	}

	var logDirPtr *string
	if cmd.Flags().Changed("log-dir") {
		logDir, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &logDir
	}

	var dryRunPtr *bool
	if cmd.Flags().Changed("dry-run") {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		dryRunPtr = &dryRun
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(outputPtr, maxConcurrencyPtr, logLevelPtr, logDirPtr, dryRunPtr)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Verbose flag overrides the configured log level
	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}

	source, _ := cmd.Flags().GetString("source")

	if cfg.DryRun {
		return dryRun(cmd, source, cfg.Output)
	}

	// Console logger for real-time progress
	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), logLevel)

	loggers := []executor.Logger{consoleLog}

	// Optional file logger for detailed run logs
	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLogger(cfg.LogDir, logLevel)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		loggers = append(loggers, fileLog)
	}

	multiLog := &multiLogger{loggers: loggers}

	// Serialize whole runs against each other across processes. The lock
	// file lives next to the output root, so taking it never creates the
	// output tree.
	lock := filelock.NewRunLock(cfg.Output)
	acquired, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock output root: %w", err)
	}
	if !acquired {
		multiLog.LogError(fmt.Sprintf("Another run is already writing to %s", cfg.Output))
		return fmt.Errorf("output root %s is locked by another run", cfg.Output)
	}
	defer lock.Unlock()

	pool := executor.NewPool(executor.NewFileCopier(), multiLog, cfg.MaxConcurrency)
	orch := executor.NewOrchestrator(pool, multiLog)

	multiLog.LogInfo(fmt.Sprintf("Starting sort from '%s' to '%s'", source, cfg.Output))

	if _, err := orch.Run(cmd.Context(), source, cfg.Output); err != nil {
		return err
	}

	multiLog.LogInfo("Sorting complete.")
	return nil
}

// dryRun prints the planned destination tree without copying anything.
func dryRun(cmd *cobra.Command, source, output string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("source directory does not exist: %s", source)
	}
	if !info.IsDir() {
		return fmt.Errorf("source path is not a directory: %s", source)
	}

	scan, err := fileutil.ScanDirectory(source)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", source, err)
	}

	if len(scan.Entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No files found to copy.\n")
		return nil
	}

	// Group planned destinations by extension bucket
	buckets := make(map[string][]string)
	for _, entry := range scan.Entries {
		key := entry.ExtensionKey()
		buckets[key] = append(buckets[key], entry.Name())
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	colorOutput := isatty.IsTerminal(os.Stdout.Fd())

	fmt.Fprintf(cmd.OutOrStdout(), "Dry-run: %d files would be copied to %s\n", len(scan.Entries), output)
	for _, key := range keys {
		header := key
		if colorOutput {
			header = color.New(color.Bold).Sprint(key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %s/ (%d files)\n", header, len(buckets[key]))
		for _, name := range buckets[key] {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", name)
		}
	}

	return nil
}

// multiLogger implements executor.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []executor.Logger
}

// LogInfo forwards to all loggers
func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

// LogWarn forwards to all loggers
func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogError forwards to all loggers
func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogCopyResult forwards to all loggers
func (ml *multiLogger) LogCopyResult(result models.CopyResult) error {
	var lastErr error
	for _, l := range ml.loggers {
		if err := l.LogCopyResult(result); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(result models.RunResult) {
	for _, l := range ml.loggers {
		l.LogSummary(result)
	}
}
