// Package mounttable answers whether a path is currently a mount point by
// reading the kernel's mount table.
package mounttable

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// DefaultPath is the mount table exposed by procfs for the calling process.
const DefaultPath = "/proc/mounts"

var (
	// ErrIO is returned when the mount table can't be opened or read.
	ErrIO = errors.New("mount table unreadable")
	// ErrFormat is returned when a line in the mount table doesn't have the
	// expected fields.
	ErrFormat = errors.New("malformed mount table entry")
)

// Reader reads a mount table in /proc/mounts format.
type Reader struct {
	// Path of the mount table. Defaults to DefaultPath when empty.
	Path string
}

// New creates a Reader for the default mount table.
func New() *Reader {
	return &Reader{Path: DefaultPath}
}

// IsMounted reports whether path appears as the destination of any entry in
// the mount table. The comparison is an exact string match against the
// second field; no path canonicalisation is done on either side.
func (r *Reader) IsMounted(path string) (bool, error) {
	tablePath := r.Path
	if tablePath == "" {
		tablePath = DefaultPath
	}

	f, err := os.Open(tablePath)
	if err != nil {
		return false, fmt.Errorf("%w: open %s: %w", ErrIO, tablePath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	line := 0
	for scanner.Scan() {
		line++

		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			return false, fmt.Errorf(
				"%w: %s line %d: %q",
				ErrFormat, tablePath, line, scanner.Text(),
			)
		}

		if fields[1] == path {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("%w: read %s: %w", ErrIO, tablePath, err)
	}

	return false, nil
}
