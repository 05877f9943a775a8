package install_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/executor"
	"github.com/arthur-debert/jtd/pkg/filesystem"
	"github.com/arthur-debert/jtd/pkg/install"
	"github.com/arthur-debert/jtd/pkg/manifest"
	"github.com/arthur-debert/jtd/pkg/shell"
	"github.com/arthur-debert/jtd/pkg/state"
	"github.com/arthur-debert/jtd/pkg/trust"
	"github.com/arthur-debert/jtd/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repoID = "github.com/someone/dotfiles"

const threeUnits = `
kitty:
  file: kitty.conf
  target: /home/user/.config/kitty/kitty.conf
vim:
  file: vimrc
  target: /home/user/.vimrc
  post_install:
    - vim +PlugInstall +qall
zsh:
  file: zshrc
  target: /home/user/.zshrc
`

type fixture struct {
	fs       types.FS
	runner   *shell.RecordingRunner
	store    *state.Store
	trust    *trust.Store
	manifest *types.Manifest
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fsys := filesystem.NewMemory()
	for _, file := range []string{"kitty.conf", "vimrc", "zshrc"} {
		require.NoError(t, fsys.WriteFile("/repo/"+file, []byte("content of "+file+"\n"), 0644))
	}

	m, err := manifest.Parse([]byte(threeUnits))
	require.NoError(t, err)

	return &fixture{
		fs:       fsys,
		runner:   shell.NewRecorder(),
		store:    state.Load(fsys, "/data/jtd/state.yaml"),
		trust:    trust.LoadStore(fsys, "/data/jtd/trust.yaml"),
		manifest: m,
	}
}

func (f *fixture) orchestrator(prompter install.Prompter) *install.Orchestrator {
	exec := executor.New(executor.Config{
		FS:      f.fs,
		Runner:  f.runner,
		Store:   f.store,
		RepoDir: "/repo",
	})
	return install.New(exec, f.trust, prompter)
}

func allowAll(units []types.Dotfile) (bool, error) { return true, nil }
func denyAll(units []types.Dotfile) (bool, error)  { return false, nil }

func TestRun_AllUnitsInManifestOrder(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(install.PrompterFunc(allowAll))

	report := o.Run(context.Background(), f.manifest, install.Options{RepoID: repoID})

	require.Len(t, report.Results, 3)
	assert.Equal(t, "kitty", report.Results[0].Unit)
	assert.Equal(t, "vim", report.Results[1].Unit)
	assert.Equal(t, "zsh", report.Results[2].Unit)
	assert.Equal(t, 3, report.AppliedCount())
}

func TestRun_SelectionReportsOnlySelected(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(install.PrompterFunc(allowAll))

	report := o.Run(context.Background(), f.manifest, install.Options{
		RepoID:    repoID,
		Selection: []string{"kitty"},
	})

	// Only kitty appears; the other units are absent, not skipped.
	require.Len(t, report.Results, 1)
	assert.Equal(t, "kitty", report.Results[0].Unit)
	assert.Equal(t, types.StatusApplied, report.Results[0].Status)
}

func TestRun_UnknownSelectionDoesNotAbortRun(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(install.PrompterFunc(allowAll))

	report := o.Run(context.Background(), f.manifest, install.Options{
		RepoID:    repoID,
		Selection: []string{"nonexistent", "kitty"},
	})

	require.Len(t, report.Results, 2)

	notFound := report.Results[0]
	assert.Equal(t, "nonexistent", notFound.Unit)
	assert.Equal(t, types.StatusFailed, notFound.Status)
	assert.Equal(t, types.ReasonNotFound, notFound.Reason)
	assert.Equal(t, errors.ErrNotFound, errors.GetCode(notFound.Err))

	assert.Equal(t, "kitty", report.Results[1].Unit)
	assert.Equal(t, types.StatusApplied, report.Results[1].Status)
}

func TestRun_SteplessSelectionNeverPrompts(t *testing.T) {
	f := newFixture(t)
	prompted := false
	o := f.orchestrator(install.PrompterFunc(func(units []types.Dotfile) (bool, error) {
		prompted = true
		return true, nil
	}))

	// kitty and zsh carry no steps; only vim does.
	report := o.Run(context.Background(), f.manifest, install.Options{
		RepoID:    repoID,
		Selection: []string{"kitty", "zsh"},
	})

	assert.False(t, prompted)
	assert.Equal(t, 2, report.AppliedCount())
}

func TestRun_PromptCoversOnlyUnitsWithSteps(t *testing.T) {
	f := newFixture(t)
	var promptedUnits []string
	o := f.orchestrator(install.PrompterFunc(func(units []types.Dotfile) (bool, error) {
		for _, u := range units {
			promptedUnits = append(promptedUnits, u.Name)
		}
		return true, nil
	}))

	o.Run(context.Background(), f.manifest, install.Options{RepoID: repoID})

	assert.Equal(t, []string{"vim"}, promptedUnits)
}

func TestRun_TrustDeniedIsNoOp(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(install.PrompterFunc(denyAll))

	report := o.Run(context.Background(), f.manifest, install.Options{RepoID: repoID})

	assert.True(t, report.TrustDenied)
	assert.Empty(t, report.Results)
	assert.Empty(t, f.runner.Commands)

	// Nothing was placed.
	_, err := f.fs.ReadFile("/home/user/.vimrc")
	assert.Error(t, err)
}

func TestRun_DecisionPersistsAcrossRuns(t *testing.T) {
	f := newFixture(t)
	prompts := 0
	prompter := install.PrompterFunc(func(units []types.Dotfile) (bool, error) {
		prompts++
		return true, nil
	})
	o := f.orchestrator(prompter)

	o.Run(context.Background(), f.manifest, install.Options{RepoID: repoID})
	o.Run(context.Background(), f.manifest, install.Options{RepoID: repoID, Force: true})

	assert.Equal(t, 1, prompts, "unchanged manifest must not re-prompt")
}

func TestRun_NilPrompterDenies(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(nil)

	report := o.Run(context.Background(), f.manifest, install.Options{RepoID: repoID})

	assert.True(t, report.TrustDenied)
}

func TestRun_StepFailureLocalToUnit(t *testing.T) {
	f := newFixture(t)
	f.runner.FailOn("vim +PlugInstall +qall", 1)
	o := f.orchestrator(install.PrompterFunc(allowAll))

	report := o.Run(context.Background(), f.manifest, install.Options{RepoID: repoID})

	require.Len(t, report.Results, 3)
	assert.Equal(t, types.StatusApplied, report.Results[0].Status)
	assert.Equal(t, types.StatusFailed, report.Results[1].Status)
	assert.Equal(t, types.StagePostInstall, report.Results[1].Stage)
	// The failing unit does not abort its siblings.
	assert.Equal(t, types.StatusApplied, report.Results[2].Status)

	require.Len(t, report.Failures(), 1)
	assert.Equal(t, "vim", report.Failures()[0].Unit)
}
