package detectors

import (
	"solvet.dev/pkg/solvet/internal/analysis"
)

// All returns the full built-in battery, most severe group first. The
// slice is rebuilt on every call so callers can never corrupt the source
// descriptors.
func All() []analysis.Detector {
	var out []analysis.Detector

	out = append(out, highDetectors()...)
	out = append(out, mediumDetectors()...)
	out = append(out, lowDetectors()...)
	out = append(out, gasDetectors()...)
	out = append(out, ncDetectors()...)

	return out
}

// Registry assembles the built-in battery into a validated registry. The
// battery is static, so a validation failure is a programming error and
// panics at startup.
func Registry() *analysis.Registry {
	return analysis.MustRegistry(All())
}
