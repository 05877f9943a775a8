package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/jtd/pkg/state"
	"github.com/arthur-debert/jtd/pkg/vcs"
)

var listCmd = &cobra.Command{
	Use:   "list [repository] [dotfiles...]",
	Short: "List the dotfiles a manifest manages",
	Long: `List shows every dotfile the manifest declares, in manifest order, with
its target path, step count and install status. Naming dotfiles restricts
the listing to them.`,
	RunE: runList,
}

func init() {
	addRepoFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	repository, selection, err := splitRepoArgs(args)
	if err != nil {
		return err
	}

	ws, err := openWorkspace(cmd.Context(), vcs.NewGoGit(), repository)
	if err != nil {
		return err
	}
	defer ws.cleanup()

	units, err := selectUnits(ws.manifest, selection)
	if err != nil {
		return err
	}

	store := state.Load(ws.fs, ws.paths.StateFilePath())

	table := pterm.TableData{{"UNIT", "FILE", "TARGET", "STEPS", "INSTALLED"}}
	for _, unit := range units {
		installed := "no"
		if _, ok := store.Get(unit.Name); ok {
			if store.NeedsRun(unit) {
				installed = "outdated"
			} else {
				installed = "yes"
			}
		}
		steps := fmt.Sprintf("%d", len(unit.PreInstall)+len(unit.PostInstall))
		table = append(table, []string{unit.Name, unit.File, unit.Target, steps, installed})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}
