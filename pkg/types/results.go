package types

// Stage identifies where in the apply sequence a unit failed.
type Stage string

const (
	StagePreInstall  Stage = "pre_install"
	StagePlaceFile   Stage = "place_file"
	StagePostInstall Stage = "post_install"
	StageRecord      Stage = "record_state"
)

// Status is the outcome class of one unit's execution.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Skip and failure reasons surfaced in reports.
const (
	ReasonUnchanged    = "unchanged"
	ReasonTargetExists = "target exists"
	ReasonNotFound     = "not found in manifest"
)

// ExecutionResult is the outcome of applying a single unit.
type ExecutionResult struct {
	Unit   string
	Status Status

	// Reason explains a skip, or names the failure for units that never
	// reached the executor (e.g. an unknown selected name).
	Reason string

	// Stage and ExitCode are set for failures. ExitCode is -1 when the
	// failure was not a shell step exiting non-zero.
	Stage    Stage
	ExitCode int

	// Err is the underlying cause for failures.
	Err error
}

// Applied reports whether the unit was fully applied.
func (r ExecutionResult) Applied() bool { return r.Status == StatusApplied }

// Failed reports whether the unit failed at any stage.
func (r ExecutionResult) Failed() bool { return r.Status == StatusFailed }

// InstallReport aggregates the per-unit outcomes of one run. Every unit that
// was selected appears exactly once; units outside the selection do not
// appear at all.
type InstallReport struct {
	Results []ExecutionResult

	// TrustDenied is set when the user declined to run a manifest with
	// executable steps. The run is a deliberate no-op, not an error.
	TrustDenied bool
}

// Add appends a result to the report.
func (r *InstallReport) Add(result ExecutionResult) {
	r.Results = append(r.Results, result)
}

// Failures returns the failed results, in run order.
func (r *InstallReport) Failures() []ExecutionResult {
	var failed []ExecutionResult
	for _, result := range r.Results {
		if result.Failed() {
			failed = append(failed, result)
		}
	}
	return failed
}

// AppliedCount returns how many units were fully applied.
func (r *InstallReport) AppliedCount() int {
	n := 0
	for _, result := range r.Results {
		if result.Applied() {
			n++
		}
	}
	return n
}
