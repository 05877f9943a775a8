package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/jtd/pkg/state"
	"github.com/arthur-debert/jtd/pkg/syncdiff"
	"github.com/arthur-debert/jtd/pkg/vcs"
)

var diffCmd = &cobra.Command{
	Use:   "diff [repository] [dotfiles...]",
	Short: "Show local changes relative to the last install",
	Long: `Diff reports, without touching anything, which installed dotfiles were
edited locally since the last install, which are missing from disk, and
which manifest entries were never installed.`,
	RunE: runDiff,
}

func init() {
	addRepoFlags(diffCmd)
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	repository, selection, err := splitRepoArgs(args)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(cmd.Context(), vcs.NewGoGit(), repository)
	if err != nil {
		return err
	}
	defer ws.cleanup()

	store := state.Load(ws.fs, ws.paths.StateFilePath())

	changes, err := syncdiff.Diff(ws.manifest, store, ws.fs)
	if err != nil {
		return err
	}
	changes = filterChanges(changes, selection)

	if len(changes) == 0 {
		pterm.Info.Println("Everything is in sync.")
		return nil
	}

	table := pterm.TableData{{"UNIT", "STATE", "TARGET"}}
	for _, change := range changes {
		table = append(table, []string{change.Unit, string(change.Kind), change.Target})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}
