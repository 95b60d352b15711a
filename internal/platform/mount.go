package platform

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Mounter performs bind mounts and unmounts with the raw syscalls.
type Mounter struct{}

// BindMount bind mounts source onto target.
func (Mounter) BindMount(source, target string) error {
	return BindMount(source, target)
}

// Unmount unmounts target.
func (Mounter) Unmount(target string) error {
	return Unmount(target)
}

func mount(source, target, fstype string, flags uintptr, data string) error {
	if err := unix.Mount(source, target, fstype, flags, data); err != nil {
		return fmt.Errorf(
			"mount %s to %s (type=%s, flags=%#x): %w",
			source, target, fstype, flags, err,
		)
	}

	return nil
}

// BindMount bind mounts the source to target. Only a plain, non-recursive
// bind is performed and no propagation flags are applied. The filesystem
// type is ignored by the kernel for MS_BIND so none is passed.
func BindMount(source, target string) error {
	return mount(source, target, "", unix.MS_BIND, "")
}

// Unmount unmounts the filesystem mounted at target.
func Unmount(target string) error {
	if err := unix.Unmount(target, 0); err != nil {
		return fmt.Errorf("unmount %s: %w", target, err)
	}

	return nil
}

// Sync commits filesystem caches for all mounted filesystems to disk.
func Sync() error {
	unix.Sync()

	return nil
}
