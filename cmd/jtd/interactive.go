package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/jtd/pkg/vcs"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive [repository]",
	Short: "Pick dotfiles to install from a menu",
	Long: `Interactive clones the repository, lists the manifest's dotfiles in a
multi-select menu and installs the ones you pick. Everything else works
like install: trust prompting, idempotent re-runs, overwrite policy.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInteractive,
}

func init() {
	addRepoFlags(interactiveCmd)
	addInstallFlags(interactiveCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	repository, _, err := splitRepoArgs(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ws, err := openWorkspace(ctx, vcs.NewGoGit(), repository)
	if err != nil {
		return err
	}
	defer ws.cleanup()

	selection, err := pterm.DefaultInteractiveMultiselect.
		WithOptions(ws.manifest.Names()).
		WithDefaultText("Select dotfiles to install").
		Show()
	if err != nil {
		return err
	}
	if len(selection) == 0 {
		pterm.Info.Println("Nothing selected.")
		return nil
	}

	return installUnits(ctx, ws, selection)
}
