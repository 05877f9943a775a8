package vcs_test

import (
	"testing"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostURL(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		method vcs.Method
		repo   string
		want   string
	}{
		{"github ssh", "github", vcs.MethodSSH, "someone/dotfiles", "git@github.com:someone/dotfiles"},
		{"github https", "github", vcs.MethodHTTPS, "someone/dotfiles", "https://github.com/someone/dotfiles"},
		{"gitlab ssh", "gitlab", vcs.MethodSSH, "someone/dotfiles", "git@gitlab.com:someone/dotfiles"},
		{"gitlab https", "gitlab", vcs.MethodHTTPS, "someone/dotfiles", "https://gitlab.com/someone/dotfiles"},
		{"host is case insensitive", "GitHub", vcs.MethodHTTPS, "someone/dotfiles", "https://github.com/someone/dotfiles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vcs.HostURL(tt.host, tt.method, tt.repo)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostURL_Errors(t *testing.T) {
	_, err := vcs.HostURL("bitkeeper", vcs.MethodSSH, "someone/dotfiles")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetCode(err))

	_, err = vcs.HostURL("github", vcs.MethodSSH, "not-a-repo")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetCode(err))

	_, err = vcs.HostURL("github", vcs.Method("carrier-pigeon"), "someone/dotfiles")
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInput, errors.GetCode(err))
}

func TestRepoIdentity(t *testing.T) {
	assert.Equal(t, "github.com/someone/dotfiles", vcs.RepoIdentity("github", "someone/dotfiles"))
	assert.Equal(t, "gitlab.com/someone/dotfiles", vcs.RepoIdentity("gitlab", "someone/dotfiles"))
	// Unknown hosts fall back to the raw value.
	assert.Equal(t, "https://example.com/r.git", vcs.RepoIdentity("", "https://example.com/r.git"))
}
