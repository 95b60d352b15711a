// Package platform provides the low-level Linux operations bindroot needs:
// bind mounting, unmounting, syncing filesystems and probing capabilities.
// `unix` functions are used preferentially over their `os` equivalent for
// consistency.
package platform
