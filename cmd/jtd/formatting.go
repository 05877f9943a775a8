package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/jtd/pkg/install"
	"github.com/arthur-debert/jtd/pkg/types"
)

// initFormatting turns pterm styling off when stdout is not a terminal.
func initFormatting() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		pterm.DisableColor()
	}
}

// confirmSteps is the interactive trust prompt. It shows every shell command
// the manifest would run and asks once for the whole set.
func confirmSteps(units []types.Dotfile) (bool, error) {
	pterm.Println("This manifest runs shell commands during install:")
	for _, unit := range units {
		for _, step := range unit.PreInstall {
			pterm.Printf("  %s (pre)   %s\n", unit.Name, step)
		}
		for _, step := range unit.PostInstall {
			pterm.Printf("  %s (post)  %s\n", unit.Name, step)
		}
	}
	return pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show("Run these commands?")
}

var _ install.PrompterFunc = confirmSteps

// renderReport prints one line per unit plus a summary.
func renderReport(report types.InstallReport) {
	if report.TrustDenied {
		pterm.Warning.Println("Steps were not trusted, nothing was installed.")
		return
	}

	for _, result := range report.Results {
		switch result.Status {
		case types.StatusApplied:
			pterm.Success.Printf("%s installed\n", result.Unit)
		case types.StatusSkipped:
			pterm.Printf("%s skipped (%s)\n", result.Unit, result.Reason)
		case types.StatusFailed:
			if result.Stage != "" {
				pterm.Error.Printf("%s failed at %s: %v\n", result.Unit, result.Stage, result.Err)
			} else {
				pterm.Error.Printf("%s failed: %v\n", result.Unit, result.Err)
			}
		}
	}

	pterm.Printf("%d applied, %d failed, %d total\n",
		report.AppliedCount(), len(report.Failures()), len(report.Results))
}
