// Package bindmount drives a bind mount of a path from its mirror under a bind
// root, or the unmount of it, to completion.
//
// Both commands are idempotent: mounting something already mounted and
// unmounting something not mounted succeed without touching anything. The
// mount table is read once per Run, so another process mounting or unmounting
// the same target between that read and the syscall shows up as a syscall
// error.
package bindmount

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nixpig/bindroot/internal/entry"
	"github.com/nixpig/bindroot/internal/mountpoint"
	"github.com/nixpig/bindroot/internal/mounttable"
	"github.com/nixpig/bindroot/internal/platform"
)

var (
	// ErrPreconditionFailed is returned when a mount is requested for a
	// target that doesn't exist.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrMountSyscall is returned when the kernel rejects the bind mount.
	ErrMountSyscall = errors.New("mount failed")
	// ErrUnmountSyscall is returned when the kernel rejects the unmount.
	ErrUnmountSyscall = errors.New("unmount failed")
)

// Reporter receives the messages produced during a Run. *slog.Logger
// satisfies it.
type Reporter interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MountTable reports whether a path is a mount point.
type MountTable interface {
	IsMounted(path string) (bool, error)
}

// Mounter performs the raw mount and unmount.
type Mounter interface {
	BindMount(source, target string) error
	Unmount(target string) error
}

// Materializer creates the bind mountpoint if it's missing.
type Materializer interface {
	Ensure(path string, typ entry.Type) (bool, error)
}

// Orchestrator runs bind mount Requests.
type Orchestrator struct {
	reporter     Reporter
	table        MountTable
	mounter      Mounter
	materializer Materializer
	capCheck     func() (bool, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMountTable sets the mount table used to detect existing mounts.
func WithMountTable(t MountTable) Option {
	return func(o *Orchestrator) { o.table = t }
}

// WithMounter sets the implementation of the mount syscalls.
func WithMounter(m Mounter) Option {
	return func(o *Orchestrator) { o.mounter = m }
}

// WithMaterializer sets how missing bind mountpoints are created.
func WithMaterializer(m Materializer) Option {
	return func(o *Orchestrator) { o.materializer = m }
}

// WithCapabilityCheck sets the probe used to warn when the process lacks the
// privileges to mount. A nil check disables the warning.
func WithCapabilityCheck(check func() (bool, error)) Option {
	return func(o *Orchestrator) { o.capCheck = check }
}

// New creates an Orchestrator that reports to r. Without options it uses
// /proc/mounts, the real syscalls and the default mountpoint Materializer.
func New(r Reporter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reporter:     r,
		table:        mounttable.New(),
		mounter:      platform.Mounter{},
		materializer: mountpoint.Materializer{},
		capCheck:     platform.HasSysAdmin,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run executes req. On failure the error is reported at error level and
// returned.
func (o *Orchestrator) Run(req Request) (Outcome, error) {
	outcome, err := o.run(req)
	if err != nil {
		o.reporter.Error(err.Error(), "command", req.Command().String())
		return outcome, err
	}

	o.reporter.Info(
		fmt.Sprintf("%s %s", req.RootMountpoint(), outcome),
		"source", req.BindMountpoint(),
	)

	return outcome, nil
}

func (o *Orchestrator) run(req Request) (Outcome, error) {
	root := req.RootMountpoint()
	bind := req.BindMountpoint()

	switch req.Command() {
	case Mount:
		o.reporter.Info(fmt.Sprintf("bind mounting %s in %s", bind, root))
	case Unmount:
		o.reporter.Info(fmt.Sprintf("unmounting %s", root))
	default:
		return 0, fmt.Errorf("invalid command: %s", req.Command())
	}

	mounted, mountedErr := o.table.IsMounted(root)

	if req.Command() == Unmount {
		if mountedErr != nil {
			return 0, fmt.Errorf("could not check if %s is mounted: %w", root, mountedErr)
		}

		return o.unmount(root, mounted)
	}

	if _, err := os.Lstat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s doesn't exist, nothing to mount: %w", ErrPreconditionFailed, root, err)
		}

		return 0, fmt.Errorf("stat %s: %w", root, err)
	}

	if mountedErr != nil {
		return 0, fmt.Errorf("could not check if %s is mounted: %w", root, mountedErr)
	}

	return o.mount(root, bind, mounted)
}

func (o *Orchestrator) mount(root, bind string, mounted bool) (Outcome, error) {
	if mounted {
		return AlreadyMounted, nil
	}

	o.warnIfUnprivileged()

	if empty, err := entry.IsEmpty(root); err != nil {
		o.reporter.Warn(fmt.Sprintf("check if %s is empty failed", root), "err", err)
	} else if !empty {
		o.reporter.Warn(fmt.Sprintf("%s is not an empty entry, content will be shadowed", root))
	}

	typ, err := entry.Classify(root)
	if err != nil {
		return 0, fmt.Errorf("classify %s: %w", root, err)
	}

	created, err := o.materializer.Ensure(bind, typ)
	if err != nil {
		return 0, fmt.Errorf("could not create bind mountpoint: %w", err)
	}

	if created {
		o.reporter.Info(
			fmt.Sprintf("created %s mountpoint and synced filesystems", bind),
			"type", typ.String(),
		)
	} else {
		o.reporter.Info(fmt.Sprintf("%s mountpoint already in place", bind))
	}

	if err := o.mounter.BindMount(bind, root); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrMountSyscall, root, err)
	}

	return Mounted, nil
}

func (o *Orchestrator) unmount(root string, mounted bool) (Outcome, error) {
	if !mounted {
		return AlreadyUnmounted, nil
	}

	o.warnIfUnprivileged()

	if err := o.mounter.Unmount(root); err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrUnmountSyscall, root, err)
	}

	return Unmounted, nil
}

func (o *Orchestrator) warnIfUnprivileged() {
	if o.capCheck == nil {
		return
	}

	ok, err := o.capCheck()
	if err != nil {
		o.reporter.Warn("check capabilities failed", "err", err)
		return
	}

	if !ok {
		o.reporter.Warn("missing CAP_SYS_ADMIN, mount syscalls are likely to be denied")
	}
}
