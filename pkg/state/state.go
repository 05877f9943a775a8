// Package state persists which manifest units have been applied, and with
// which step fingerprint. The on-disk file is the single source of truth
// across invocations; it is rewritten atomically so a crash mid-write never
// leaves it half-written.
package state

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/fingerprint"
	"github.com/arthur-debert/jtd/pkg/logging"
	"github.com/arthur-debert/jtd/pkg/types"
)

const header = "# jtd install state. Automatically generated, do not edit.\n"

// Store is the install state store: a mapping of unit name to InstallRecord
// backed by a YAML file.
type Store struct {
	fs      types.FS
	path    string
	records map[string]types.InstallRecord
	logger  zerolog.Logger
}

// Load reads the state file at path. It fails soft: a missing file means a
// first run and an unreadable or unparseable file is treated as empty state,
// so every unit reports NeedsRun rather than the run aborting.
func Load(fsys types.FS, path string) *Store {
	s := &Store{
		fs:      fsys,
		path:    path,
		records: make(map[string]types.InstallRecord),
		logger:  logging.GetLogger("state"),
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		// First run or unreadable; either way, start empty.
		s.logger.Debug().Str("path", path).Msg("no prior install state")
		return s
	}

	var records map[string]types.InstallRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		s.logger.Warn().Err(err).Str("path", path).
			Msg("install state is corrupt, treating as empty (all units will re-run)")
		return s
	}
	if records != nil {
		s.records = records
	}
	return s
}

// Get returns the record for a unit, if one exists.
func (s *Store) Get(name string) (types.InstallRecord, bool) {
	rec, ok := s.records[name]
	return rec, ok
}

// Len returns the number of recorded units.
func (s *Store) Len() int {
	return len(s.records)
}

// NeedsRun reports whether a unit must be (re-)applied: no record exists,
// the stored fingerprint differs from the unit's current one, or the unit
// was retargeted since it was last applied.
func (s *Store) NeedsRun(unit types.Dotfile) bool {
	rec, ok := s.records[unit.Name]
	if !ok {
		return true
	}
	if rec.Fingerprint != fingerprint.Steps(unit) {
		return true
	}
	if rec.Target != "" && rec.Target != unit.Target {
		return true
	}
	return false
}

// Record stores a unit's record and persists the whole store atomically.
func (s *Store) Record(name string, rec types.InstallRecord) error {
	if rec.InstalledAt.IsZero() {
		rec.InstalledAt = time.Now().UTC()
	}
	s.records[name] = rec
	return s.save()
}

// save writes to a temp file and renames it over the state file.
func (s *Store) save() error {
	out, err := yaml.Marshal(s.records)
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "could not serialize install state")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "could not create state directory %s", filepath.Dir(s.path))
	}

	data := append([]byte(header), out...)
	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "could not write temp state file %s", tmp)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrStateWrite, "could not replace state file %s", s.path)
	}
	return nil
}
