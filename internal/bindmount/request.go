package bindmount

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Request describes a single bind mount operation. Build one with
// NewRequest; the zero value is not usable.
type Request struct {
	command        Command
	bindRoot       string
	rootMountpoint string
	bindMountpoint string
}

// NewRequest builds a Request for target mirrored under bindRoot. The root
// mountpoint is target made absolute and cleaned; the bind mountpoint is the
// root mountpoint joined onto bindRoot.
func NewRequest(target, bindRoot string, cmd Command) (Request, error) {
	if target == "" {
		return Request{}, errors.New("empty target")
	}

	if !filepath.IsAbs(bindRoot) {
		return Request{}, fmt.Errorf("bind root must be an absolute path: %q", bindRoot)
	}

	root := filepath.Clean("/" + target)

	return Request{
		command:        cmd,
		bindRoot:       filepath.Clean(bindRoot),
		rootMountpoint: root,
		bindMountpoint: filepath.Join(bindRoot, strings.TrimPrefix(root, "/")),
	}, nil
}

// Command is the action the request performs.
func (r Request) Command() Command {
	return r.command
}

// BindRoot is the directory the mirrored entries live under.
func (r Request) BindRoot() string {
	return r.bindRoot
}

// RootMountpoint is the path that gets mounted over.
func (r Request) RootMountpoint() string {
	return r.rootMountpoint
}

// BindMountpoint is the path under the bind root that is mounted from.
func (r Request) BindMountpoint() string {
	return r.bindMountpoint
}
