package report

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/model"
)

// SARIF renders SARIF 2.1.0 with one reportingDescriptor per registered
// detector and one result per finding, fingerprinted for baselining.
type SARIF struct {
	Descriptors []analysis.Detector

	// GUID overrides the run's automationDetails guid; empty means a
	// fresh random one per render.
	GUID string
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool         `json:"tool"`
	AutomationDetails sarifAutomation   `json:"automationDetails"`
	Results           []sarifResult     `json:"results"`
	Invocations       []sarifInvocation `json:"invocations"`
}

type sarifAutomation struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	ShortDescription sarifText         `json:"shortDescription"`
	FullDescription  sarifText         `json:"fullDescription,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             sarifText         `json:"message"`
	Locations           []sarifLocation   `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int        `json:"startLine"`
	StartColumn int        `json:"startColumn,omitempty"`
	EndLine     int        `json:"endLine,omitempty"`
	Snippet     *sarifText `json:"snippet,omitempty"`
}

type sarifInvocation struct {
	ExecutionSuccessful        bool                `json:"executionSuccessful"`
	ToolExecutionNotifications []sarifNotification `json:"toolExecutionNotifications,omitempty"`
}

type sarifNotification struct {
	Level   string    `json:"level"`
	Message sarifText `json:"message"`
}

func (s *SARIF) Render(w io.Writer, r *model.Report) error {
	StampFingerprints(r)

	guid := s.GUID
	if guid == "" {
		guid = uuid.NewString()
	}

	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:    r.Tool,
			Version: r.Version,
			Rules:   s.rules(),
		}},
		AutomationDetails: sarifAutomation{GUID: guid},
		Results:           make([]sarifResult, 0, len(r.Findings)),
	}

	for _, f := range r.Findings {
		run.Results = append(run.Results, resultFor(f))
	}

	invocation := sarifInvocation{ExecutionSuccessful: true}
	for _, d := range r.Diagnostics {
		invocation.ToolExecutionNotifications = append(invocation.ToolExecutionNotifications, sarifNotification{
			Level:   "warning",
			Message: sarifText{Text: string(d.Kind) + ": " + d.Message + " (" + d.Location.File + ")"},
		})
	}

	run.Invocations = []sarifInvocation{invocation}

	log := sarifLog{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(log)
}

func (s *SARIF) rules() []sarifRule {
	rules := make([]sarifRule, 0, len(s.Descriptors))

	for _, d := range s.Descriptors {
		rules = append(rules, sarifRule{
			ID:               d.ID,
			Name:             d.Title,
			ShortDescription: sarifText{Text: d.Title},
			FullDescription:  sarifText{Text: d.Description},
			Properties:       map[string]string{"severity": d.Severity.String()},
		})
	}

	return rules
}

func resultFor(f model.Finding) sarifResult {
	region := sarifRegion{
		StartLine:   f.Location.Line,
		StartColumn: f.Location.Column + 1,
		EndLine:     f.Location.EndLine,
	}

	if f.Location.Snippet != "" && f.Location.Snippet != model.SnippetUnavailable {
		region.Snippet = &sarifText{Text: f.Location.Snippet}
	}

	return sarifResult{
		RuleID:  f.DetectorID,
		Level:   sarifLevel(f.Severity),
		Message: sarifText{Text: f.Message},
		Locations: []sarifLocation{{
			PhysicalLocation: sarifPhysical{
				ArtifactLocation: sarifArtifact{URI: f.Location.File},
				Region:           region,
			},
		}},
		PartialFingerprints: map[string]string{
			"solvetFingerprint/v1": f.Fingerprint,
		},
	}
}

// sarifLevel maps the severity scale onto SARIF's three levels.
func sarifLevel(sev model.Severity) string {
	switch sev {
	case model.SeverityHigh:
		return "error"
	case model.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
