package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shikigami12/extsort/internal/models"
)

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Entries contains every regular file discovered under the root
	Entries []models.FileEntry
	// Errors contains non-fatal errors encountered during scanning
	Errors []error
}

// ScanDirectory walks the directory tree rooted at dir and returns a
// FileEntry for every regular file it can reach. Inaccessible entries are
// recorded in ScanResult.Errors and excluded from Entries; the walk
// continues past them. A failure to access the root itself is returned as
// the scan error.
func ScanDirectory(dir string) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	result := &ScanResult{
		Entries: make([]models.FileEntry, 0),
		Errors:  make([]error, 0),
	}

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		// Skip the root directory itself
		if path == dir {
			return nil
		}

		if d.IsDir() {
			return nil
		}

		// Only regular files are copied; symlinks, sockets, devices and the
		// like never produce a destination entry
		if !d.Type().IsRegular() {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}

		result.Entries = append(result.Entries, models.FileEntry{Path: absPath})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	// Sort entries for consistent output
	sort.Slice(result.Entries, func(i, j int) bool {
		return result.Entries[i].Path < result.Entries[j].Path
	})

	return result, nil
}
