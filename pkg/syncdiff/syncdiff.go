// Package syncdiff compares the files placed on the local system against the
// content they had when last installed or synced. Its report drives the
// sync commit: which files to copy back into the repository working tree and
// what the commit message should say. Diffing itself has no side effects.
package syncdiff

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/jtd/pkg/config"
	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/fingerprint"
	"github.com/arthur-debert/jtd/pkg/paths"
	"github.com/arthur-debert/jtd/pkg/state"
	"github.com/arthur-debert/jtd/pkg/types"
)

// ChangeKind classifies how a placed file diverged.
type ChangeKind string

const (
	// ChangeModified means the placed file's content differs from the
	// last-synced content.
	ChangeModified ChangeKind = "modified"

	// ChangeMissing means the unit was installed but its target no longer
	// exists.
	ChangeMissing ChangeKind = "missing"

	// ChangeUntracked means the unit is in the manifest but was never
	// installed on this machine.
	ChangeUntracked ChangeKind = "untracked"
)

// ChangedFile is one entry in the diff report.
type ChangedFile struct {
	Unit   string
	Target string
	Kind   ChangeKind
}

// Diff reports every unit whose local file state diverged from the install
// records, in manifest order. Unchanged units are absent from the result.
func Diff(m *types.Manifest, store *state.Store, fsys types.FS) ([]ChangedFile, error) {
	var changes []ChangedFile

	for _, unit := range m.Units() {
		rec, ok := store.Get(unit.Name)
		if !ok {
			changes = append(changes, ChangedFile{Unit: unit.Name, Target: unit.Target, Kind: ChangeUntracked})
			continue
		}

		target, err := paths.ExpandHome(unit.Target)
		if err != nil {
			return nil, err
		}

		data, err := fsys.ReadFile(target)
		if err != nil {
			changes = append(changes, ChangedFile{Unit: unit.Name, Target: unit.Target, Kind: ChangeMissing})
			continue
		}

		if fingerprint.Content(data) != rec.ContentHash {
			changes = append(changes, ChangedFile{Unit: unit.Name, Target: unit.Target, Kind: ChangeModified})
		}
	}

	return changes, nil
}

// SyncedFile is one modified file staged into the working tree by CopyBack:
// the unit it belongs to, its repo-relative source path, and the content hash
// to record once the commit actually lands.
type SyncedFile struct {
	Unit        string
	Path        string
	ContentHash string
}

// CopyBack copies each modified file into the repository working tree at the
// unit's source path. It does not touch the state store: the recorded content
// hash must only move forward after version control has accepted the change,
// otherwise a failed commit or push would leave the edit invisible to every
// later sync. Callers persist via MarkSynced after the commit succeeds.
func CopyBack(m *types.Manifest, fsys types.FS, repoDir string, changes []ChangedFile) ([]SyncedFile, error) {
	var synced []SyncedFile

	for _, change := range changes {
		if change.Kind != ChangeModified {
			continue
		}

		unit, ok := m.Get(change.Unit)
		if !ok {
			return nil, errors.Newf(errors.ErrNotFound, "unit %q was not found in the manifest", change.Unit)
		}

		target, err := paths.ExpandHome(unit.Target)
		if err != nil {
			return nil, err
		}
		data, err := fsys.ReadFile(target)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "could not read %s", target)
		}

		dest := filepath.Join(repoDir, unit.File)
		if err := fsys.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "could not create directories for %s", dest)
		}
		if err := fsys.WriteFile(dest, data, 0644); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "could not write %s", dest)
		}

		synced = append(synced, SyncedFile{
			Unit:        unit.Name,
			Path:        unit.File,
			ContentHash: fingerprint.Content(data),
		})
	}

	return synced, nil
}

// MarkSynced refreshes the recorded content hashes for files whose commit
// reached version control, so the next diff is clean for them.
func MarkSynced(store *state.Store, synced []SyncedFile) error {
	for _, file := range synced {
		rec, _ := store.Get(file.Unit)
		rec.ContentHash = file.ContentHash
		if err := store.Record(file.Unit, rec); err != nil {
			return err
		}
	}
	return nil
}

// CommitMessage builds the human-readable commit message for a sync.
func CommitMessage(cfg config.Config, names []string) string {
	switch len(names) {
	case 0:
		return cfg.CommitPrefix + "Sync dotfiles"
	case 1:
		return fmt.Sprintf("%sSync %s dotfile", cfg.CommitPrefix, names[0])
	default:
		head := strings.Join(names[:len(names)-1], ", ")
		return fmt.Sprintf("%sSync dotfiles for %s and %s", cfg.CommitPrefix, head, names[len(names)-1])
	}
}
