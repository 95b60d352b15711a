// Package entry inspects filesystem entries without following symlinks.
package entry

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnsupportedType is returned for entries that are neither a regular file
// nor a directory, e.g. symlinks, sockets and device nodes.
var ErrUnsupportedType = errors.New("unsupported entry type")

// Type is the kind of a filesystem entry.
type Type int

const (
	Other Type = iota
	Directory
	File
)

func (t Type) String() string {
	switch t {
	case Directory:
		return "directory"
	case File:
		return "file"
	default:
		return "other"
	}
}

// TypeOf maps file mode bits to a Type.
func TypeOf(mode os.FileMode) Type {
	switch {
	case mode.IsDir():
		return Directory
	case mode.IsRegular():
		return File
	default:
		return Other
	}
}

// Classify returns the Type of the entry at path. Symlinks are classified as
// Other rather than being resolved.
func Classify(path string) (Type, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return Other, fmt.Errorf("stat %s: %w", path, err)
	}

	return TypeOf(fi.Mode()), nil
}

// IsEmpty reports whether the entry at path is empty. A directory is empty
// when it has no children and a file is empty when its size is zero. Any
// other type of entry returns ErrUnsupportedType.
func IsEmpty(path string) (bool, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	switch TypeOf(fi.Mode()) {
	case Directory:
		return dirIsEmpty(path)
	case File:
		return fi.Size() == 0, nil
	default:
		return false, fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, path, fi.Mode().Type())
	}
}

func dirIsEmpty(path string) (bool, error) {
	d, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open dir %s: %w", path, err)
	}
	defer d.Close()

	if _, err := d.Readdirnames(1); err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}

		return false, fmt.Errorf("read dir %s: %w", path, err)
	}

	return false, nil
}
