// Package filesystem provides types.FS implementations: one backed by the OS
// and one backed by afero for in-memory testing.
package filesystem
