// Package solvet exposes the analysis pipeline for embedding in other
// tools. The CLI in cmd/ is a thin wrapper over the same entry points.
package solvet

import (
	"context"

	"solvet.dev/pkg/solvet/internal/adapter"
	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/detectors"
	"solvet.dev/pkg/solvet/internal/model"
)

// Config is the run configuration. The zero value analyzes the current
// directory with every detector enabled.
type Config = analysis.Config

// Flags are the protocol feature gates.
type Flags = analysis.Flags

// Detector describes one registered check.
type Detector = analysis.Detector

// Report is the merged result of one run.
type Report = model.Report

// DefaultFlags enables every protocol group.
func DefaultFlags() Flags {
	return analysis.DefaultFlags()
}

// Analyze runs the full pipeline over the local filesystem with the
// built-in detector battery.
func Analyze(ctx context.Context, cfg Config) (*Report, error) {
	engine := analysis.NewEngine(adapter.NewSourceFS(), detectors.Registry(), nil)

	return engine.Run(ctx, cfg)
}

// Detectors enumerates the built-in battery, ordered by severity
// (highest first) then id.
func Detectors() []Detector {
	return detectors.Registry().Descriptors()
}
