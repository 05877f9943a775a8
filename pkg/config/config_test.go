package config_test

import (
	"testing"

	"github.com/arthur-debert/jtd/pkg/config"
	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/filesystem"
	"github.com/arthur-debert/jtd/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	fsys := filesystem.NewMemory()

	cfg, err := config.Load(fsys, "/config/jtd/config.toml")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Equal(t, "jtd.yaml", cfg.Manifest)
	assert.True(t, cfg.SquashCommits)
	assert.Equal(t, types.OverwriteAlways, cfg.Overwrite)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	fsys := filesystem.NewMemory()
	content := `
commit_prefix = "dotfiles: "
squash_commits = false
overwrite = "never"
manifest = "dots.yaml"
`
	require.NoError(t, fsys.WriteFile("/config/jtd/config.toml", []byte(content), 0644))

	cfg, err := config.Load(fsys, "/config/jtd/config.toml")
	require.NoError(t, err)
	assert.Equal(t, "dotfiles: ", cfg.CommitPrefix)
	assert.False(t, cfg.SquashCommits)
	assert.Equal(t, types.OverwriteNever, cfg.Overwrite)
	assert.Equal(t, "dots.yaml", cfg.Manifest)
}

func TestLoad_Malformed(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/config.toml", []byte("not == toml"), 0644))

	_, err := config.Load(fsys, "/config.toml")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigParse, errors.GetCode(err))
}

func TestLoad_InvalidOverwritePolicy(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/config.toml", []byte(`overwrite = "sometimes"`), 0644))

	_, err := config.Load(fsys, "/config.toml")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigParse, errors.GetCode(err))
}

func TestMergeManifest(t *testing.T) {
	base := config.Default()

	squash := false
	merged := base.MergeManifest(types.ManifestConfig{
		CommitPrefix:  "sync: ",
		SquashCommits: &squash,
	})
	assert.Equal(t, "sync: ", merged.CommitPrefix)
	assert.False(t, merged.SquashCommits)

	// Empty manifest section leaves the base untouched.
	untouched := base.MergeManifest(types.ManifestConfig{})
	assert.Equal(t, base, untouched)
}
