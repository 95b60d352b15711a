// Package mountpoint creates the entries that bind mounts are mounted from.
package mountpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nixpig/bindroot/internal/entry"
	"github.com/nixpig/bindroot/internal/platform"
)

// MaxCreateAttempts bounds how many times directory creation is retried after
// an "already exists" failure. Concurrent creators only produce a handful of
// these; the bound stops a livelock when a non-directory sits in the chain.
const MaxCreateAttempts = 64

// Materializer creates mountpoints. The zero value uses os.MkdirAll and
// platform.Sync.
type Materializer struct {
	// MkdirAll creates a directory chain. Defaults to os.MkdirAll.
	MkdirAll func(path string, perm os.FileMode) error
	// Sync flushes filesystems after a mountpoint is created. Defaults to
	// platform.Sync.
	Sync func() error
}

// Ensure creates a mountpoint at path matching typ, using the default
// Materializer.
func Ensure(path string, typ entry.Type) (bool, error) {
	return Materializer{}.Ensure(path, typ)
}

// Ensure creates a mountpoint at path of the given type if nothing exists
// there yet. An existing entry of any type is left untouched. Directories are
// created with their full chain; files get their parent chain created and are
// created empty. Filesystems are synced after a successful creation. The
// returned bool is true only if an entry was created.
func (m Materializer) Ensure(path string, typ entry.Type) (bool, error) {
	if _, err := os.Lstat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	switch typ {
	case entry.Directory:
		if err := m.mkdirAll(path); err != nil {
			return false, err
		}
	case entry.File:
		if err := m.mkdirAll(filepath.Dir(path)); err != nil {
			return false, err
		}

		if err := createEmptyFile(path); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("%w: %s (%s)", entry.ErrUnsupportedType, path, typ)
	}

	sync := m.Sync
	if sync == nil {
		sync = platform.Sync
	}

	if err := sync(); err != nil {
		return true, fmt.Errorf("sync filesystems: %w", err)
	}

	return true, nil
}

// mkdirAll creates the directory chain at path, retrying while the failure
// is caused by another process creating part of the same chain.
func (m Materializer) mkdirAll(path string) error {
	mkdirAll := m.MkdirAll
	if mkdirAll == nil {
		mkdirAll = os.MkdirAll
	}

	var err error
	for i := 0; i < MaxCreateAttempts; i++ {
		err = mkdirAll(path, 0o755)
		if err == nil {
			return nil
		}

		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("make dir (%s): %w", path, err)
		}
	}

	return fmt.Errorf("make dir (%s) after %d attempts: %w", path, MaxCreateAttempts, err)
}

func createEmptyFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}

		return fmt.Errorf("make mount target file (%s): %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close mount target file (%s): %w", path, err)
	}

	return nil
}
