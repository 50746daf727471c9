// Package model defines the data structures shared across the analysis pipeline.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies how serious a finding is. The numeric value is the
// rank used for report ordering: higher means more severe.
type Severity int

const (
	// SeverityNC marks non-critical, informational findings.
	SeverityNC Severity = iota
	// SeverityGas marks gas-optimization findings.
	SeverityGas
	// SeverityLow marks low-severity findings.
	SeverityLow
	// SeverityMedium marks medium-severity findings.
	SeverityMedium
	// SeverityHigh marks high-severity findings.
	SeverityHigh
)

// Severities lists all severities from most to least severe.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityGas, SeverityNC}

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	case SeverityLow:
		return "Low"
	case SeverityGas:
		return "Gas"
	case SeverityNC:
		return "NC"
	}

	return fmt.Sprintf("Severity(%d)", int(s))
}

// ParseSeverity converts a user-supplied name into a Severity.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high":
		return SeverityHigh, nil
	case "medium", "med":
		return SeverityMedium, nil
	case "low":
		return SeverityLow, nil
	case "gas":
		return SeverityGas, nil
	case "nc", "non-critical", "noncritical", "info":
		return SeverityNC, nil
	}

	return SeverityNC, fmt.Errorf("unknown severity %q", value)
}

// MarshalJSON encodes the severity as its display name so reports stay
// readable and stable across releases.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the display name produced by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
