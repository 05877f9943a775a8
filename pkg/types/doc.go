// Package types defines the core data model for jtd: the manifest and its
// install units, execution results, persisted install records, and the
// capability interfaces (filesystem, command runner) that let the engine be
// tested without touching the real system.
package types
