package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/jtd/pkg/state"
	"github.com/arthur-debert/jtd/pkg/syncdiff"
	"github.com/arthur-debert/jtd/pkg/vcs"
)

var (
	flagNoPush  bool
	flagMessage string
)

var syncCmd = &cobra.Command{
	Use:   "sync [repository] [dotfiles...]",
	Short: "Commit local dotfile edits back to the repository",
	Long: `Sync compares installed dotfiles against the content recorded at install
time, copies locally edited files back into a fresh clone, commits them and
pushes. Files you never installed through jtd are left alone.`,
	RunE: runSync,
}

func init() {
	addRepoFlags(syncCmd)
	syncCmd.Flags().BoolVar(&flagNoPush, "no-push", false, "Commit locally without pushing")
	syncCmd.Flags().StringVarP(&flagMessage, "message", "m", "", "Commit message (overrides the generated one)")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	repository, selection, err := splitRepoArgs(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	git := vcs.NewGoGit()
	ws, err := openWorkspace(ctx, git, repository)
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

	synced, err := syncdiff.CopyBack(ws.manifest, ws.fs, ws.repoDir, changes)
	if err != nil {
		return err
	}
	if len(synced) == 0 {
		pterm.Info.Println("Nothing to sync.")
		return nil
	}

	names := make([]string, len(synced))
	paths := make([]string, len(synced))
	for i, file := range synced {
		names[i] = file.Unit
		paths[i] = file.Path
	}

	if ws.cfg.SquashCommits || flagMessage != "" {
		message := flagMessage
		if message == "" {
			message = syncdiff.CommitMessage(ws.cfg, names)
		}
		hash, err := git.Commit(ctx, ws.repoDir, message, paths)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Committed %.8s (%d files)\n", hash, len(paths))
	} else {
		// One commit per unit.
		for i, name := range names {
			message := syncdiff.CommitMessage(ws.cfg, []string{name})
			hash, err := git.Commit(ctx, ws.repoDir, message, paths[i:i+1])
			if err != nil {
				return err
			}
			pterm.Success.Printf("Committed %.8s (%s)\n", hash, name)
		}
	}

	if !flagNoPush {
		if err := git.Push(ctx, ws.repoDir); err != nil {
			return err
		}
		pterm.Success.Println("Pushed to origin.")
	}

	// Only now is the edit safely in version control; recording earlier
	// would hide it from the next sync if the commit or push had failed.
	return syncdiff.MarkSynced(store, synced)
}

// filterChanges keeps only the selected units. An empty selection keeps all.
func filterChanges(changes []syncdiff.ChangedFile, selection []string) []syncdiff.ChangedFile {
	if len(selection) == 0 {
		return changes
	}

	selected := make(map[string]bool, len(selection))
	for _, name := range selection {
		selected[name] = true
	}

	var kept []syncdiff.ChangedFile
	for _, change := range changes {
		if selected[change.Unit] {
			kept = append(kept, change)
		}
	}
	return kept
}
