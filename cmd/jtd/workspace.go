package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/jtd/pkg/config"
	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/filesystem"
	"github.com/arthur-debert/jtd/pkg/manifest"
	"github.com/arthur-debert/jtd/pkg/paths"
	"github.com/arthur-debert/jtd/pkg/types"
	"github.com/arthur-debert/jtd/pkg/vcs"
)

// Repository flags shared by every command that needs a manifest working
// tree. Only one command runs per process, so package-level values are fine.
var (
	flagLocal    string
	flagSource   string
	flagMethod   string
	flagRef      string
	flagManifest string
)

func addRepoFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagLocal, "local", "", "Use an existing local clone instead of cloning")
	cmd.Flags().StringVar(&flagSource, "source", "github", "Repository host for owner/repo shorthands (github, gitlab)")
	cmd.Flags().StringVar(&flagMethod, "method", string(vcs.MethodHTTPS), "Clone connection method (ssh, https)")
	cmd.Flags().StringVar(&flagRef, "ref", "", "Branch to check out")
	cmd.Flags().StringVar(&flagManifest, "manifest", "", "Manifest file name inside the repository")
}

// workspace is the assembled environment a command runs against: the
// repository working tree, the parsed manifest, and the effective config.
type workspace struct {
	fs       types.FS
	paths    *paths.Paths
	cfg      config.Config
	manifest *types.Manifest
	repoDir  string
	repoID   string
	cleanup  func()
}

// splitRepoArgs separates the repository argument from the unit selection.
// With --local every argument is a unit name.
func splitRepoArgs(args []string) (string, []string, error) {
	if flagLocal != "" {
		return "", args, nil
	}
	if len(args) == 0 {
		return "", nil, errors.New(errors.ErrInvalidInput, "a repository is required unless --local is given")
	}
	return args[0], args[1:], nil
}

// selectUnits resolves a selection against the manifest, keeping manifest
// order. An empty selection means every unit; unknown names are an error.
func selectUnits(m *types.Manifest, selection []string) ([]types.Dotfile, error) {
	if len(selection) == 0 {
		return m.Units(), nil
	}

	selected := make(map[string]bool, len(selection))
	for _, name := range selection {
		if _, ok := m.Get(name); !ok {
			return nil, errors.Newf(errors.ErrNotFound, "unit %q was not found in the manifest", name)
		}
		selected[name] = true
	}

	var units []types.Dotfile
	for _, unit := range m.Units() {
		if selected[unit.Name] {
			units = append(units, unit)
		}
	}
	return units, nil
}

// resolveRepo turns the repository argument into a clone URL and the identity
// trust decisions are keyed on. Full URLs pass through unchanged.
func resolveRepo(repository string) (string, string, error) {
	if strings.Contains(repository, "://") || strings.HasPrefix(repository, "git@") {
		return repository, repository, nil
	}

	url, err := vcs.HostURL(flagSource, vcs.Method(flagMethod), repository)
	if err != nil {
		return "", "", err
	}
	return url, vcs.RepoIdentity(flagSource, repository), nil
}

// openWorkspace loads the user config, obtains a working tree (a fresh clone
// into a temp dir, or --local as-is) and parses the manifest. The caller must
// run cleanup when done.
func openWorkspace(ctx context.Context, git vcs.VersionControl, repository string) (*workspace, error) {
	fsys := filesystem.NewOS()
	p := paths.New()

	cfg, err := config.Load(fsys, p.ConfigFilePath())
	if err != nil {
		return nil, err
	}

	ws := &workspace{fs: fsys, paths: p, cfg: cfg, cleanup: func() {}}

	if flagLocal != "" {
		dir, err := filepath.Abs(flagLocal)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "could not resolve %s", flagLocal)
		}
		ws.repoDir = dir
		ws.repoID = dir
	} else {
		url, id, err := resolveRepo(repository)
		if err != nil {
			return nil, err
		}

		dir, err := os.MkdirTemp("", "jtd-*")
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrDirCreate, "could not create temporary clone directory")
		}
		if err := git.Clone(ctx, url, flagRef, dir); err != nil {
			os.RemoveAll(dir)
			return nil, err
		}

		ws.repoDir = dir
		ws.repoID = id
		ws.cleanup = func() { os.RemoveAll(dir) }
	}

	name := ws.cfg.Manifest
	if flagManifest != "" {
		name = flagManifest
	}
	m, err := manifest.Load(fsys, filepath.Join(ws.repoDir, name))
	if err != nil {
		ws.cleanup()
		return nil, err
	}

	ws.manifest = m
	ws.cfg = ws.cfg.MergeManifest(m.Config())
	return ws, nil
}
