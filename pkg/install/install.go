// Package install orchestrates a run: it resolves the unit selection,
// evaluates the trust gate once over the units that will actually execute,
// sequences the executor in manifest order, and aggregates every outcome
// into an InstallReport. Failures are local to their unit; the report is the
// only channel they propagate through.
package install

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/jtd/pkg/errors"
	"github.com/arthur-debert/jtd/pkg/executor"
	"github.com/arthur-debert/jtd/pkg/logging"
	"github.com/arthur-debert/jtd/pkg/trust"
	"github.com/arthur-debert/jtd/pkg/types"
)

// Prompter asks the user whether a manifest's steps may run. It is the CLI
// collaborator that resolves trust.PromptRequired.
type Prompter interface {
	ConfirmSteps(units []types.Dotfile) (bool, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(units []types.Dotfile) (bool, error)

func (f PrompterFunc) ConfirmSteps(units []types.Dotfile) (bool, error) {
	return f(units)
}

// Options controls one orchestrated run.
type Options struct {
	// Selection names the units to run. Empty means all units.
	Selection []string

	// RepoID identifies the manifest repository for trust decisions.
	RepoID string

	Force     bool
	SkipSteps bool
	Overwrite types.OverwritePolicy
}

// Orchestrator sequences unit execution for a manifest.
type Orchestrator struct {
	exec     *executor.Executor
	trust    *trust.Store
	prompter Prompter
	logger   zerolog.Logger
}

// New creates an Orchestrator. The prompter may be nil, in which case a
// required prompt is treated as a denial.
func New(exec *executor.Executor, trustStore *trust.Store, prompter Prompter) *Orchestrator {
	return &Orchestrator{
		exec:     exec,
		trust:    trustStore,
		prompter: prompter,
		logger:   logging.GetLogger("install"),
	}
}

// Run applies the selected units in manifest order. Selected names absent
// from the manifest are reported as failed without aborting the rest.
// The trust gate is evaluated once, before any unit executes, over the union
// of steps in the units that will actually run; a selection that excludes
// every unit with steps never prompts.
func (o *Orchestrator) Run(ctx context.Context, m *types.Manifest, opts Options) types.InstallReport {
	var report types.InstallReport

	runnable, missing := resolveSelection(m, opts.Selection)
	for _, name := range missing {
		report.Add(types.ExecutionResult{
			Unit:     name,
			Status:   types.StatusFailed,
			Reason:   types.ReasonNotFound,
			ExitCode: -1,
			Err:      errors.Newf(errors.ErrNotFound, "unit %q was not found in the manifest", name),
		})
	}

	if !o.allowed(runnable, opts.RepoID) {
		o.logger.Info().Str("repo", opts.RepoID).Msg("trust declined, nothing executed")
		report.TrustDenied = true
		return report
	}

	for _, unit := range runnable {
		result := o.exec.Apply(ctx, unit, executor.Options{
			Force:     opts.Force,
			SkipSteps: opts.SkipSteps,
			Overwrite: opts.Overwrite,
		})
		report.Add(result)
	}

	return report
}

// allowed runs the trust gate, prompting (and persisting the answer) when no
// valid stored decision exists.
func (o *Orchestrator) allowed(units []types.Dotfile, repoID string) bool {
	switch trust.Evaluate(units, repoID, o.trust) {
	case trust.Allow:
		return true
	case trust.Deny:
		return false
	}

	if o.prompter == nil {
		return false
	}

	withSteps := make([]types.Dotfile, 0, len(units))
	for _, unit := range units {
		if unit.HasSteps() {
			withSteps = append(withSteps, unit)
		}
	}

	confirmed, err := o.prompter.ConfirmSteps(withSteps)
	if err != nil {
		o.logger.Warn().Err(err).Msg("trust prompt failed, treating as denial")
		return false
	}

	if err := o.trust.Remember(repoID, trust.StepHash(units), confirmed); err != nil {
		// The decision still applies to this run even if it could not
		// be persisted.
		o.logger.Warn().Err(err).Msg("could not persist trust decision")
	}

	return confirmed
}

// resolveSelection returns the units to run in manifest order, plus any
// selected names the manifest does not contain (in selection order).
func resolveSelection(m *types.Manifest, selection []string) ([]types.Dotfile, []string) {
	if len(selection) == 0 {
		return m.Units(), nil
	}

	selected := make(map[string]bool, len(selection))
	var missing []string
	for _, name := range selection {
		if _, ok := m.Get(name); !ok {
			missing = append(missing, name)
			continue
		}
		selected[name] = true
	}

	var runnable []types.Dotfile
	for _, unit := range m.Units() {
		if selected[unit.Name] {
			runnable = append(runnable, unit)
		}
	}
	return runnable, missing
}
