package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EnvOverrides(t *testing.T) {
	dataDir := t.TempDir()
	configDir := t.TempDir()
	t.Setenv(EnvDataDir, dataDir)
	t.Setenv(EnvConfigDir, configDir)

	p := New()

	assert.Equal(t, dataDir, p.DataDir())
	assert.Equal(t, configDir, p.ConfigDir())
	assert.Equal(t, filepath.Join(dataDir, "state.yaml"), p.StateFilePath())
	assert.Equal(t, filepath.Join(dataDir, "trust.yaml"), p.TrustFilePath())
	assert.Equal(t, filepath.Join(configDir, "config.toml"), p.ConfigFilePath())
}

func TestNew_XDGFallback(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvConfigDir, "")

	p := New()

	assert.Contains(t, p.DataDir(), AppDirName)
	assert.Contains(t, p.ConfigDir(), AppDirName)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare tilde", "~", home},
		{"home relative", "~/.config/kitty/kitty.conf", filepath.Join(home, ".config/kitty/kitty.conf")},
		{"absolute untouched", "/etc/hosts", "/etc/hosts"},
		{"relative untouched", "conf/file", "conf/file"},
		{"tilde in middle untouched", "/some/~thing", "/some/~thing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
