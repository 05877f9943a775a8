package manifest_test

import (
	"testing"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/filesystem"
	"github.com/arthur-debert/jtd/pkg/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
kitty:
  file: kitty.conf
  target: ~/.config/kitty/kitty.conf
  pre_install:
    - apt install kitty
  post_install:
    - kitty --version
vim:
  file: vimrc
  target: ~/.vimrc
zsh:
  file: zshrc
  target: ~/.zshrc
`

func TestParse_PreservesOrder(t *testing.T) {
	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, []string{"kitty", "vim", "zsh"}, m.Names())
}

func TestParse_UnitFields(t *testing.T) {
	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)

	kitty, ok := m.Get("kitty")
	require.True(t, ok)
	assert.Equal(t, "kitty.conf", kitty.File)
	assert.Equal(t, "~/.config/kitty/kitty.conf", kitty.Target)
	assert.Equal(t, []string{"apt install kitty"}, kitty.PreInstall)
	assert.Equal(t, []string{"kitty --version"}, kitty.PostInstall)
	assert.True(t, kitty.HasSteps())

	vim, ok := m.Get("vim")
	require.True(t, ok)
	assert.False(t, vim.HasSteps())
}

func TestParse_ConfigSection(t *testing.T) {
	input := `
.config:
  commit_prefix: "sync: "
  squash_commits: false
kitty:
  file: kitty.conf
  target: ~/.config/kitty/kitty.conf
`
	m, err := manifest.Parse([]byte(input))
	require.NoError(t, err)

	// .config is configuration, not a unit.
	assert.Equal(t, []string{"kitty"}, m.Names())
	assert.Equal(t, "sync: ", m.Config().CommitPrefix)
	require.NotNil(t, m.Config().SquashCommits)
	assert.False(t, *m.Config().SquashCommits)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.ErrorCode
	}{
		{
			name:  "missing target",
			input: "kitty:\n  file: kitty.conf\n",
			code:  errors.ErrManifestInvalid,
		},
		{
			name:  "empty target",
			input: "kitty:\n  file: kitty.conf\n  target: \"\"\n",
			code:  errors.ErrManifestInvalid,
		},
		{
			name:  "missing file",
			input: "kitty:\n  target: ~/.config/kitty.conf\n",
			code:  errors.ErrManifestInvalid,
		},
		{
			name:  "duplicate unit",
			input: "kitty:\n  file: a\n  target: /a\nkitty:\n  file: b\n  target: /b\n",
			code:  errors.ErrManifestInvalid,
		},
		{
			name:  "not a mapping",
			input: "- one\n- two\n",
			code:  errors.ErrManifestParse,
		},
		{
			name:  "malformed yaml",
			input: "kitty: [unclosed\n",
			code:  errors.ErrManifestParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	m, err := manifest.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, m.Units())
	assert.False(t, m.HasSteps())
}

func TestLoad(t *testing.T) {
	fsys := filesystem.NewMemory()
	require.NoError(t, fsys.WriteFile("/repo/jtd.yaml", []byte(sampleManifest), 0644))

	m, err := manifest.Load(fsys, "/repo/jtd.yaml")
	require.NoError(t, err)
	assert.Len(t, m.Units(), 3)

	_, err = manifest.Load(fsys, "/repo/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, errors.ErrFileNotFound, errors.GetCode(err))
}
