// Package controller wires the analysis engine to a renderer and a
// terminal UI: progress while the pipeline runs, a styled summary after.
package controller

import (
	"os"

	"github.com/mattn/go-isatty"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/model"
)

// UI shows run progress and the closing summary. The progress methods are
// the engine's Events port; Stage C calls them from worker goroutines.
type UI interface {
	analysis.Events

	// Start is called before the engine runs.
	Start() error
	// Summary is called with the finished report, after rendering.
	Summary(report *model.Report)
	// Close releases the UI. Safe to call after a failed run.
	Close()
}

// IsTTY reports whether f is an interactive terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewUI picks the bubbletea UI on interactive terminals and the plain one
// everywhere else (pipes, CI, --no-tui).
func NewUI(out *os.File, interactive bool) UI {
	if interactive && IsTTY(out) {
		return NewTUI(out)
	}

	return NewPlainUI(out)
}
