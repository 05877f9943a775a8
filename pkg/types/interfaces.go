package types

import (
	"context"
	"io"
	"io/fs"
)

// FS abstracts filesystem operations so the engine can run against the real
// OS or an in-memory filesystem in tests.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error

	// Rename is used for atomic replace of state and target files.
	Rename(oldpath, newpath string) error

	Remove(name string) error
}

// CommandRunner executes one shell step. The step string is handed verbatim
// to a command interpreter; stdout and stderr stream to the given writers and
// only the exit status is interpreted by callers.
//
// Steps are arbitrary user-authored commands, so execution is a blocking call
// with no mid-step cancellation beyond the context's process-level interrupt.
type CommandRunner interface {
	Run(ctx context.Context, command string, stdout, stderr io.Writer) error
}

// OverwritePolicy decides what happens when a target path already exists
// with different content.
type OverwritePolicy string

const (
	// OverwriteAlways replaces the existing file, no backup.
	OverwriteAlways OverwritePolicy = "always"

	// OverwriteNever leaves the existing file alone unless the apply is
	// forced; the unit is reported as skipped.
	OverwriteNever OverwritePolicy = "never"
)
