// Package config loads jtd's user configuration and merges it with the
// manifest-embedded ".config" section. User config lives in a TOML file under
// the XDG config directory; the manifest section wins where both are set.
package config

import (
	stderrors "errors"
	"io/fs"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/types"
)

// Config holds the effective settings for a run.
type Config struct {
	// CommitPrefix is prepended to generated sync commit messages.
	CommitPrefix string `toml:"commit_prefix"`

	// SquashCommits collapses per-unit sync commits into one.
	SquashCommits bool `toml:"squash_commits"`

	// Overwrite decides what happens when a target file already exists
	// with different content: "always" or "never".
	Overwrite types.OverwritePolicy `toml:"overwrite"`

	// Manifest is the manifest file name looked up in the repository.
	Manifest string `toml:"manifest"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CommitPrefix:  "🔁 ",
		SquashCommits: true,
		Overwrite:     types.OverwriteAlways,
		Manifest:      "jtd.yaml",
	}
}

// Load reads the user config file, layering it over the defaults. A missing
// file is not an error; a malformed one is.
func Load(fsys types.FS, path string) (Config, error) {
	cfg := Default()

	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, errors.ErrConfigLoad, "could not read config file %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrapf(err, errors.ErrConfigParse, "could not parse config file %s", path)
	}

	if cfg.Overwrite != types.OverwriteAlways && cfg.Overwrite != types.OverwriteNever {
		return Default(), errors.Newf(errors.ErrConfigParse, "invalid overwrite policy %q (want %q or %q)",
			cfg.Overwrite, types.OverwriteAlways, types.OverwriteNever)
	}

	return cfg, nil
}

// MergeManifest layers a manifest's .config section over this configuration.
func (c Config) MergeManifest(mc types.ManifestConfig) Config {
	merged := c
	if mc.CommitPrefix != "" {
		merged.CommitPrefix = mc.CommitPrefix
	}
	if mc.SquashCommits != nil {
		merged.SquashCommits = *mc.SquashCommits
	}
	return merged
}
