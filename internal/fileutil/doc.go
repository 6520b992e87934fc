// Package fileutil provides the recursive directory scanner that feeds the
// copy pipeline.
//
// The scanner walks a source tree and collects every regular file reachable
// from the root. Directories, symlinks, and other non-regular entries are
// skipped silently. Entries that cannot be accessed (permission denied,
// vanished mid-walk) are collected as non-fatal errors and the walk
// continues; only a failure to enumerate the root itself is fatal to the
// scan. Output is sorted alphabetically for deterministic results.
package fileutil
