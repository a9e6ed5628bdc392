// Package ioutils provides file system utilities for snapstash.
//
// This package contains functions for:
//   - Acquiring write access to a destination directory
//   - Atomic file writes
//   - Setting file timestamps
//   - Directory creation
package ioutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotDirectory is returned by AcquireDir when the path is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DirGrant is write access to a destination directory, held for the
// duration of a batch. Release must be called exactly once.
type DirGrant struct {
	Path string
}

// AcquireDir checks that dir exists, is a directory and accepts new files.
//
// The check creates and removes a probe file, so a read-only mount or a
// directory without write permission fails here instead of once per file.
//
// Example:
//
//	grant, err := AcquireDir("/Volumes/Backup/Memories")
//	if err != nil {
//	    return err
//	}
//	defer grant.Release()
func AcquireDir(dir string) (*DirGrant, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	probe, err := os.CreateTemp(dir, ".snapstash-probe-*")
	if err != nil {
		return nil, err
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return nil, err
	}

	return &DirGrant{Path: dir}, nil
}

// Release gives the directory back. Plain paths need no teardown; the
// method keeps acquisition and release paired at the call site.
func (g *DirGrant) Release() {}

// Exists reports whether anything is present at path.
//
// Only a definite "not exist" counts as absent; a permission error on
// stat is treated as present so the caller never overwrites it.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// WriteFileAtomic writes data to path so that the file is either absent
// or complete.
//
// Pattern: temp file in the same directory → write → fsync → close →
// rename. The temp file is removed on any error.
//
// Example:
//
//	err := WriteFileAtomic("/memories/2024-03-05_10-15-30.jpg", data)
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// SetFileTime sets both access and modification time of path to t.
//
// On APFS and HFS+ moving the modification time before the birth time
// also moves the birth time, so Finder shows t as the creation date.
func SetFileTime(path string, t time.Time) error {
	return os.Chtimes(path, t, t)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
