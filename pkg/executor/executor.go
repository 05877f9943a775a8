// Package executor applies a single install unit: pre-install steps, file
// placement, post-install steps, state recording. Steps fail fast and a unit
// whose post-install fails is not recorded as applied, so the next run
// retries everything including file placement. Already-executed shell
// commands are opaque to the engine and are never rolled back.
package executor

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/fingerprint"
	"github.com/arthur-debert/jtd/pkg/logging"
	"github.com/arthur-debert/jtd/pkg/paths"
	"github.com/arthur-debert/jtd/pkg/shell"
	"github.com/arthur-debert/jtd/pkg/state"
	"github.com/arthur-debert/jtd/pkg/types"
)

// Options controls how a unit is applied.
type Options struct {
	// Force re-applies the unit even when the state store says it is
	// unchanged.
	Force bool

	// SkipSteps installs the file without running pre/post steps. Skipped
	// stages are not recorded as executed, so a later run without the
	// flag re-runs them.
	SkipSteps bool

	// Overwrite decides what happens when the target exists with
	// different content. Force overrides OverwriteNever.
	Overwrite types.OverwritePolicy
}

// Config wires an Executor's collaborators.
type Config struct {
	FS     types.FS
	Runner types.CommandRunner
	Store  *state.Store

	// RepoDir is the root of the cloned dotfile repository that source
	// files resolve against.
	RepoDir string

	// Stdout and Stderr receive shell step output. Defaults to discard.
	Stdout io.Writer
	Stderr io.Writer
}

// Executor applies manifest units against a repository working tree.
type Executor struct {
	fs      types.FS
	runner  types.CommandRunner
	store   *state.Store
	repoDir string
	stdout  io.Writer
	stderr  io.Writer
	logger  zerolog.Logger
}

// New creates an Executor.
func New(cfg Config) *Executor {
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = io.Discard
	}
	return &Executor{
		fs:      cfg.FS,
		runner:  cfg.Runner,
		store:   cfg.Store,
		repoDir: cfg.RepoDir,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logging.GetLogger("executor"),
	}
}

// Apply runs one unit through the full sequence. All side effects (shell
// processes, filesystem writes, state persistence) go through the injected
// collaborators so tests can observe them.
func (e *Executor) Apply(ctx context.Context, unit types.Dotfile, opts Options) types.ExecutionResult {
	if !opts.Force && !e.store.NeedsRun(unit) {
		e.logger.Debug().Str("unit", unit.Name).Msg("unchanged since last apply, skipping")
		return skipped(unit, types.ReasonUnchanged)
	}

	if !opts.SkipSteps {
		if err := e.runSteps(ctx, unit.PreInstall); err != nil {
			return failed(unit, types.StagePreInstall, err)
		}
	}

	placed, result := e.placeFile(unit, opts)
	if result != nil {
		return *result
	}

	if !opts.SkipSteps {
		// A post-install failure leaves the file placed but the unit
		// unrecorded: the retry re-runs everything.
		if err := e.runSteps(ctx, unit.PostInstall); err != nil {
			return failed(unit, types.StagePostInstall, err)
		}
	}

	fp := fingerprint.Steps(unit)
	if opts.SkipSteps && unit.HasSteps() {
		// The steps never ran; recording their fingerprint would mask
		// them from the next unforced run.
		fp = ""
	}

	record := types.InstallRecord{
		Fingerprint: fp,
		Target:      unit.Target,
		ContentHash: fingerprint.Content(placed),
		InstalledAt: time.Now().UTC(),
	}
	if err := e.store.Record(unit.Name, record); err != nil {
		return failed(unit, types.StageRecord, err)
	}

	e.logger.Info().Str("unit", unit.Name).Str("target", unit.Target).Msg("unit applied")
	return types.ExecutionResult{Unit: unit.Name, Status: types.StatusApplied}
}

// runSteps executes steps in order, stopping at the first failure.
func (e *Executor) runSteps(ctx context.Context, steps []string) error {
	for _, step := range steps {
		if err := e.runner.Run(ctx, step, e.stdout, e.stderr); err != nil {
			return err
		}
	}
	return nil
}

// placeFile copies the unit's source file to its target. Returns the placed
// bytes, or a result when placement failed or was skipped by policy.
func (e *Executor) placeFile(unit types.Dotfile, opts Options) ([]byte, *types.ExecutionResult) {
	source := filepath.Join(e.repoDir, unit.File)
	data, err := e.fs.ReadFile(source)
	if err != nil {
		res := failed(unit, types.StagePlaceFile,
			errors.Wrapf(err, errors.ErrFileNotFound, "source file %s does not exist in repository", unit.File))
		return nil, &res
	}

	target, err := paths.ExpandHome(unit.Target)
	if err != nil {
		res := failed(unit, types.StagePlaceFile, err)
		return nil, &res
	}

	if existing, readErr := e.fs.ReadFile(target); readErr == nil {
		if bytes.Equal(existing, data) {
			// Identical bytes already in place; copying again would be
			// observationally a no-op, so don't.
			return data, nil
		}
		if opts.Overwrite == types.OverwriteNever && !opts.Force {
			e.logger.Info().Str("unit", unit.Name).Str("target", target).
				Msg("target exists with local changes and overwrite is disabled")
			res := skipped(unit, types.ReasonTargetExists)
			return nil, &res
		}
	}

	if err := e.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		res := failed(unit, types.StagePlaceFile,
			errors.Wrapf(err, errors.ErrDirCreate, "could not create parent directories for %s", target))
		return nil, &res
	}

	// Write-to-temp-then-rename so readers never observe a half-written
	// target.
	tmp := target + ".jtd-tmp"
	if err := e.fs.WriteFile(tmp, data, 0644); err != nil {
		res := failed(unit, types.StagePlaceFile,
			errors.Wrapf(err, errors.ErrFileWrite, "could not write %s", tmp))
		return nil, &res
	}
	if err := e.fs.Rename(tmp, target); err != nil {
		_ = e.fs.Remove(tmp)
		res := failed(unit, types.StagePlaceFile,
			errors.Wrapf(err, errors.ErrFileWrite, "could not replace %s", target))
		return nil, &res
	}

	return data, nil
}

func skipped(unit types.Dotfile, reason string) types.ExecutionResult {
	return types.ExecutionResult{Unit: unit.Name, Status: types.StatusSkipped, Reason: reason}
}

func failed(unit types.Dotfile, stage types.Stage, err error) types.ExecutionResult {
	return types.ExecutionResult{
		Unit:     unit.Name,
		Status:   types.StatusFailed,
		Stage:    stage,
		ExitCode: shell.ExitCode(err),
		Err:      err,
	}
}
