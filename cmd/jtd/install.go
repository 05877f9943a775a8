package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/executor"
	"github.com/arthur-debert/jtd/pkg/install"
	"github.com/arthur-debert/jtd/pkg/shell"
	"github.com/arthur-debert/jtd/pkg/state"
	"github.com/arthur-debert/jtd/pkg/trust"
	"github.com/arthur-debert/jtd/pkg/types"
	"github.com/arthur-debert/jtd/pkg/vcs"
)

var (
	flagForce     bool
	flagSkipSteps bool
	flagOverwrite string
	flagTrust     bool
)

var installCmd = &cobra.Command{
	Use:   "install [repository] [dotfiles...]",
	Short: "Install dotfiles from a manifest repository",
	Long: `Install clones the repository, reads its manifest and applies each
dotfile: pre-install steps, file placement, post-install steps. Units that
are unchanged since the last install are skipped.

If dotfile names are given only those units are installed; otherwise the
whole manifest is. Manifests with shell steps ask for confirmation the
first time; the answer is remembered per repository until the steps change.`,
	RunE: runInstall,
}

func init() {
	addRepoFlags(installCmd)
	addInstallFlags(installCmd)
	rootCmd.AddCommand(installCmd)
}

func addInstallFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagForce, "force", false, "Re-apply units even when unchanged, overwriting differing targets")
	cmd.Flags().BoolVar(&flagSkipSteps, "skip-steps", false, "Place files without running pre/post install steps")
	cmd.Flags().StringVar(&flagOverwrite, "overwrite", "", "Overwrite policy for existing targets (always, never)")
	cmd.Flags().BoolVar(&flagTrust, "trust", false, "Trust the manifest's steps without prompting")
}

func runInstall(cmd *cobra.Command, args []string) error {
	repository, selection, err := splitRepoArgs(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, vcs.NewGoGit(), repository)
	if err != nil {
		return err
	}
	defer ws.cleanup()

	return installUnits(ctx, ws, selection)
}

// installUnits runs the orchestrated install for a selection against an open
// workspace. Shared by the install and interactive commands.
func installUnits(ctx context.Context, ws *workspace, selection []string) error {
	overwrite := ws.cfg.Overwrite
	if flagOverwrite != "" {
		overwrite = types.OverwritePolicy(flagOverwrite)
		if overwrite != types.OverwriteAlways && overwrite != types.OverwriteNever {
			return errors.Newf(errors.ErrInvalidInput, "invalid overwrite policy %q (want %q or %q)",
				flagOverwrite, types.OverwriteAlways, types.OverwriteNever)
		}
	}

	store := state.Load(ws.fs, ws.paths.StateFilePath())
	trustStore := trust.LoadStore(ws.fs, ws.paths.TrustFilePath())

	exec := executor.New(executor.Config{
		FS:      ws.fs,
		Runner:  shell.New(),
		Store:   store,
		RepoDir: ws.repoDir,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})

	prompter := install.Prompter(install.PrompterFunc(confirmSteps))
	if flagTrust {
		prompter = install.PrompterFunc(func([]types.Dotfile) (bool, error) { return true, nil })
	}

	report := install.New(exec, trustStore, prompter).Run(ctx, ws.manifest, install.Options{
		Selection: selection,
		RepoID:    ws.repoID,
		Force:     flagForce,
		SkipSteps: flagSkipSteps,
		Overwrite: overwrite,
	})

	renderReport(report)

	if failures := report.Failures(); len(failures) > 0 {
		return errors.Newf(errors.ErrStepFailed, "%d of %d units failed", len(failures), len(report.Results))
	}
	return nil
}
