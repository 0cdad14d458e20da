package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/idelchi/fcrypt/internal/fileutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	size, err := fileutil.WriteAtomic(path, []byte("payload"))
	if err != nil {
		t.Fatalf("WriteAtomic() error: %v", err)
	}

	if size != int64(len("payload")) {
		t.Errorf("WriteAtomic() size = %d, want %d", size, len("payload"))
	}

	got, err := fileutil.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	if string(got) != "payload" {
		t.Errorf("ReadFile() = %q, want %q", got, "payload")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if perm := info.Mode().Perm(); perm != fileutil.OwnerReadWrite {
		t.Errorf("permissions = %v, want %v", perm, fileutil.OwnerReadWrite)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the output", len(entries))
	}
}

func TestWriteAtomicMissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "out.bin")

	if _, err := fileutil.WriteAtomic(path, []byte("x")); !errors.Is(err, fileutil.ErrIOFailure) {
		t.Fatalf("WriteAtomic() error = %v, want %v", err, fileutil.ErrIOFailure)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output exists after failed write: %v", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := fileutil.ReadFile(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, fileutil.ErrIOFailure) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want %v wrapping %v", err, fileutil.ErrIOFailure, os.ErrNotExist)
	}
}
