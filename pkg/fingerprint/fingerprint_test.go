package fingerprint_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/jtd/pkg/fingerprint"
	"github.com/arthur-debert/jtd/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestSteps_InsensitiveToNameAndPaths(t *testing.T) {
	steps := []string{"apt install kitty", "kitty --version"}

	a := types.Dotfile{
		Name:        "kitty",
		File:        "kitty.conf",
		Target:      "~/.config/kitty/kitty.conf",
		PreInstall:  steps,
		PostInstall: []string{"echo done"},
	}
	b := types.Dotfile{
		Name:        "renamed",
		File:        "other/path.conf",
		Target:      "/somewhere/else",
		PreInstall:  steps,
		PostInstall: []string{"echo done"},
	}

	assert.Equal(t, fingerprint.Steps(a), fingerprint.Steps(b))
}

func TestSteps_SensitiveToAnyCharacter(t *testing.T) {
	base := types.Dotfile{PreInstall: []string{"echo hello"}}
	changed := types.Dotfile{PreInstall: []string{"echo hello "}}

	assert.NotEqual(t, fingerprint.Steps(base), fingerprint.Steps(changed))
}

func TestSteps_SensitiveToOrder(t *testing.T) {
	a := types.Dotfile{PreInstall: []string{"first", "second"}}
	b := types.Dotfile{PreInstall: []string{"second", "first"}}

	assert.NotEqual(t, fingerprint.Steps(a), fingerprint.Steps(b))
}

func TestSteps_StageMatters(t *testing.T) {
	pre := types.Dotfile{PreInstall: []string{"echo hi"}}
	post := types.Dotfile{PostInstall: []string{"echo hi"}}

	assert.NotEqual(t, fingerprint.Steps(pre), fingerprint.Steps(post))
}

func TestSteps_SplittingStepsChangesDigest(t *testing.T) {
	joined := types.Dotfile{PreInstall: []string{"ab"}}
	split := types.Dotfile{PreInstall: []string{"a", "b"}}

	assert.NotEqual(t, fingerprint.Steps(joined), fingerprint.Steps(split))
}

func TestSteps_EmptyIsStable(t *testing.T) {
	a := fingerprint.Steps(types.Dotfile{Name: "a"})
	b := fingerprint.Steps(types.Dotfile{Name: "b"})

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "sha256:"))
	assert.Len(t, a, len("sha256:")+64)
}

func TestAggregate_ChangesWhenAnyUnitGainsStep(t *testing.T) {
	units := []types.Dotfile{
		{Name: "kitty", File: "kitty.conf", Target: "~/.config/kitty.conf"},
		{Name: "vim", File: "vimrc", Target: "~/.vimrc", PreInstall: []string{"apt install vim"}},
	}
	before := fingerprint.Aggregate(units)

	units[0].PostInstall = []string{"kitty --reload"}
	after := fingerprint.Aggregate(units)

	assert.NotEqual(t, before, after)
}

func TestContent(t *testing.T) {
	assert.Equal(t, fingerprint.Content([]byte("hello")), fingerprint.Content([]byte("hello")))
	assert.NotEqual(t, fingerprint.Content([]byte("hello")), fingerprint.Content([]byte("hello!")))
	// Well-known empty-input digest.
	assert.Equal(t,
		"sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		fingerprint.Content(nil))
}
