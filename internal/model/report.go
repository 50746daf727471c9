package model

import "sort"

// Summary counts findings per severity.
type Summary struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Gas    int `json:"gas"`
	NC     int `json:"nc"`
	Total  int `json:"total"`
}

// Count returns the summary bucket for a severity.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case SeverityHigh:
		return s.High
	case SeverityMedium:
		return s.Medium
	case SeverityLow:
		return s.Low
	case SeverityGas:
		return s.Gas
	case SeverityNC:
		return s.NC
	}

	return 0
}

// Report is the aggregated result of one analysis run. After Sort it is
// fully deterministic: the same inputs produce the same Report regardless
// of worker count or completion order.
type Report struct {
	Tool        string       `json:"tool"`
	Version     string       `json:"version"`
	Root        string       `json:"root,omitempty"`
	Files       []File       `json:"files"`
	Findings    []Finding    `json:"findings"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Summary     Summary      `json:"summary"`
}

// Sort orders findings, diagnostics, and file metadata by their canonical
// keys and recomputes the summary.
func (r *Report) Sort() {
	sort.SliceStable(r.Findings, func(i, j int) bool {
		return r.Findings[i].less(r.Findings[j])
	})
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		return r.Diagnostics[i].less(r.Diagnostics[j])
	})
	sort.SliceStable(r.Files, func(i, j int) bool {
		return r.Files[i].Path < r.Files[j].Path
	})

	r.Summary = Summarize(r.Findings)
}

// Summarize tallies findings per severity.
func Summarize(findings []Finding) Summary {
	var summary Summary

	for _, f := range findings {
		switch f.Severity {
		case SeverityHigh:
			summary.High++
		case SeverityMedium:
			summary.Medium++
		case SeverityLow:
			summary.Low++
		case SeverityGas:
			summary.Gas++
		case SeverityNC:
			summary.NC++
		}

		summary.Total++
	}

	return summary
}
