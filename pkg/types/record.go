package types

import "time"

// InstallRecord is the persisted per-unit entry in the install state file.
// It is owned by the state store; the on-disk file is the single source of
// truth across invocations.
type InstallRecord struct {
	// Fingerprint is the step fingerprint recorded after the last fully
	// successful apply of this unit.
	Fingerprint string `yaml:"fingerprint"`

	// Target is the manifest target path the unit was last applied to.
	// A retargeted unit must be re-applied even if its steps are unchanged.
	Target string `yaml:"target,omitempty"`

	// ContentHash is the checksum of the file contents as placed. The sync
	// diff reporter compares against it to detect local edits.
	ContentHash string `yaml:"content_hash,omitempty"`

	// InstalledAt is when the unit was last fully applied.
	InstalledAt time.Time `yaml:"installed_at"`

	// Extra preserves fields written by newer versions of jtd so that
	// rewriting the state file does not drop them.
	Extra map[string]interface{} `yaml:",inline"`
}
