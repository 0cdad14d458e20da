// Package fileutil provides the whole-file read and atomic write helpers.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrIOFailure wraps every read or write error reported by this package.
var ErrIOFailure = errors.New("i/o failure")

// OwnerReadWrite is the permission of files written by WriteAtomic.
const OwnerReadWrite os.FileMode = 0o600

// ReadFile reads the whole file into memory.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", ErrIOFailure, path, err)
	}

	return data, nil
}

// TempContext holds state for an atomic file write operation.
type TempContext struct {
	TmpFile *os.File
	TmpName string
}

// NewTempContext creates a temp file next to outPath for atomic writing.
// Caller must defer CleanupOnError.
func NewTempContext(outPath string) (*TempContext, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(outPath), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temporary file: %w", ErrIOFailure, err)
	}

	return &TempContext{
		TmpFile: tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tc *TempContext) CleanupOnError(errp *error) {
	tc.TmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(tc.TmpName) //nolint:errcheck,gosec // best-effort cleanup
	}
}

// WriteAtomic writes data to a temporary file in the target directory and renames it
// over path, so a failed write never leaves a partial output file behind.
// It returns the size of the written file.
func WriteAtomic(path string, data []byte) (size int64, err error) {
	tc, err := NewTempContext(path)
	if err != nil {
		return 0, err
	}

	defer tc.CleanupOnError(&err)

	if _, err := tc.TmpFile.Write(data); err != nil {
		return 0, fmt.Errorf("%w: writing temporary file: %w", ErrIOFailure, err)
	}

	if err := tc.TmpFile.Chmod(OwnerReadWrite); err != nil {
		return 0, fmt.Errorf("%w: setting file permissions: %w", ErrIOFailure, err)
	}

	if err := tc.TmpFile.Close(); err != nil {
		return 0, fmt.Errorf("%w: closing temporary file: %w", ErrIOFailure, err)
	}

	if err := os.Rename(tc.TmpName, path); err != nil {
		return 0, fmt.Errorf("%w: renaming output file: %w", ErrIOFailure, err)
	}

	return FinalizeOutput(path)
}

// FinalizeOutput returns the size of the output file.
func FinalizeOutput(outPath string) (int64, error) {
	outInfo, err := os.Stat(outPath)
	if err != nil {
		return 0, fmt.Errorf("%w: stat output %q: %w", ErrIOFailure, outPath, err)
	}

	return outInfo.Size(), nil
}
