package analysis

import (
	"fmt"
	"sort"

	"solvet.dev/pkg/solvet/internal/lang"
	"solvet.dev/pkg/solvet/internal/model"
)

// Registry is the immutable detector table for a run. It is assembled once
// at startup from explicit descriptors and threaded into the engine; no
// detector registers itself through package side effects.
//
// The descriptors are partitioned by node kind into a dense dispatch array,
// so finding the detectors interested in a node is one index operation per
// visit rather than a scan of the whole battery.
type Registry struct {
	detectors []Detector
	byID      map[string]int
	dispatch  [lang.KindCount][]*Detector
}

// NewRegistry validates the descriptors and builds the dispatch table.
// Detector ids must be unique and every descriptor needs a severity title
// and at least one interest; a broken battery is a programming error, so
// violations are returned rather than silently dropped.
func NewRegistry(detectors []Detector) (*Registry, error) {
	reg := &Registry{
		detectors: make([]Detector, len(detectors)),
		byID:      make(map[string]int, len(detectors)),
	}

	copy(reg.detectors, detectors)

	for i := range reg.detectors {
		d := &reg.detectors[i]

		if d.ID == "" || d.Check == nil {
			return nil, fmt.Errorf("detector %d (%q) is missing an id or check function", i, d.ID)
		}

		if _, dup := reg.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate detector id %q", d.ID)
		}

		if len(d.Interests) == 0 {
			return nil, fmt.Errorf("detector %q declares no node interests", d.ID)
		}

		reg.byID[d.ID] = i

		for _, kind := range d.Interests {
			if kind < 0 || kind >= lang.KindCount {
				return nil, fmt.Errorf("detector %q has an unknown node kind %d", d.ID, kind)
			}

			reg.dispatch[kind] = append(reg.dispatch[kind], d)
		}
	}

	return reg, nil
}

// MustRegistry is NewRegistry for statically known batteries.
func MustRegistry(detectors []Detector) *Registry {
	reg, err := NewRegistry(detectors)
	if err != nil {
		panic(err)
	}

	return reg
}

// For returns the detectors interested in a node kind, in registration
// order. The returned slice is shared and must not be mutated.
func (r *Registry) For(kind lang.NodeKind) []*Detector {
	return r.dispatch[kind]
}

// Get returns the descriptor for an id.
func (r *Registry) Get(id string) (Detector, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Detector{}, false
	}

	return r.detectors[i], true
}

// Descriptors enumerates every registered detector ordered by severity
// (most severe first) then id, for tooling that lists or filters detectors
// without running analysis.
func (r *Registry) Descriptors() []Detector {
	out := make([]Detector, len(r.detectors))
	copy(out, r.detectors)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}

		return out[i].ID < out[j].ID
	})

	return out
}

// Len returns the number of registered detectors.
func (r *Registry) Len() int {
	return len(r.detectors)
}

// enabledSet resolves the run configuration into a per-detector on/off
// table, computed once before Stage C so per-node filtering is a map hit.
func (r *Registry) enabledSet(minSeverity model.Severity, excluded []string, flags Flags) map[string]bool {
	off := make(map[string]bool, len(excluded))
	for _, id := range excluded {
		off[id] = true
	}

	enabled := make(map[string]bool, len(r.detectors))

	for i := range r.detectors {
		d := &r.detectors[i]
		enabled[d.ID] = d.Severity >= minSeverity && !off[d.ID] && flags.Enabled(d.Flag)
	}

	return enabled
}
