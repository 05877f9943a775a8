// Package trust gates the execution of manifests that carry shell steps.
// Steps come from a possibly-third-party repository, so a manifest with any
// executable payload needs a one-time human confirmation, re-vetted whenever
// the step content changes.
package trust

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

// Decision is the outcome of evaluating the trust gate.
type Decision string

const (
	// Allow means execution may proceed without prompting.
	Allow Decision = "allow"

	// Deny means the user declined this manifest; the run is a no-op.
	Deny Decision = "deny"

	// PromptRequired means no valid stored decision exists; the CLI must
	// ask the user and feed the answer back via Store.Remember.
	PromptRequired Decision = "prompt_required"
)

const header = "# jtd trust decisions. Automatically generated, do not edit.\n"

// entry is one persisted trust decision, keyed by repository identity.
// The step hash pins the decision to the exact executable payload it was
// made for.
type entry struct {
	StepHash  string    `yaml:"step_hash"`
	Trusted   bool      `yaml:"trusted"`
	DecidedAt time.Time `yaml:"decided_at"`
}

// Store persists trust decisions beside the install state.
type Store struct {
	fs      types.FS
	path    string
	entries map[string]entry
	logger  zerolog.Logger
}

// LoadStore reads the trust file at path, failing soft to an empty store.
func LoadStore(fsys types.FS, path string) *Store {
	s := &Store{
		fs:      fsys,
		path:    path,
		entries: make(map[string]entry),
		logger:  logging.GetLogger("trust"),
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return s
	}

	var entries map[string]entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		s.logger.Warn().Err(err).Str("path", path).
			Msg("trust state is corrupt, treating as empty (decisions will be re-prompted)")
		return s
	}
	if entries != nil {
		s.entries = entries
	}
	return s
}

// Remember persists the user's decision for a repository and step payload.
func (s *Store) Remember(repoID, stepHash string, trusted bool) error {
	s.entries[repoID] = entry{
		StepHash:  stepHash,
		Trusted:   trusted,
		DecidedAt: time.Now().UTC(),
	}
	return s.save()
}

// Evaluate decides whether the given units may execute their steps.
// Selections without any steps are always allowed; nothing executable means
// nothing to vet. Otherwise a stored decision applies only while the
// aggregate step hash is unchanged.
func Evaluate(units []types.Dotfile, repoID string, store *Store) Decision {
	hasSteps := false
	for _, unit := range units {
		if unit.HasSteps() {
			hasSteps = true
			break
		}
	}
	if !hasSteps {
		return Allow
	}

	agg := fingerprint.Aggregate(units)
	if e, ok := store.entries[repoID]; ok && e.StepHash == agg {
		if e.Trusted {
			return Allow
		}
		return Deny
	}
	return PromptRequired
}

// StepHash returns the aggregate hash a decision about these units should be
// keyed on.
func StepHash(units []types.Dotfile) string {
	return fingerprint.Aggregate(units)
}

func (s *Store) save() error {
	out, err := yaml.Marshal(s.entries)
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "could not serialize trust state")
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "could not create trust directory %s", filepath.Dir(s.path))
	}

	data := append([]byte(header), out...)
	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "could not write temp trust file %s", tmp)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrStateWrite, "could not replace trust file %s", s.path)
	}
	return nil
}
