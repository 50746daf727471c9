package report

import (
	"fmt"
	"io"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/model"
)

// Renderer serializes one report to a writer.
type Renderer interface {
	Render(w io.Writer, r *model.Report) error
}

// Formats supported by ForFormat.
const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
	FormatSARIF    = "sarif"
)

// KnownFormat reports whether ForFormat accepts the name.
func KnownFormat(format string) bool {
	switch format {
	case FormatMarkdown, "markdown", FormatJSON, FormatSARIF:
		return true
	}

	return false
}

// ForFormat returns the renderer for a format name. The descriptors feed
// the rule tables of formats that carry one (SARIF, and the Markdown
// per-detector headings).
func ForFormat(format string, descriptors []analysis.Detector) (Renderer, error) {
	switch format {
	case FormatMarkdown, "markdown":
		return &Markdown{Descriptors: descriptors}, nil
	case FormatJSON:
		return &JSON{}, nil
	case FormatSARIF:
		return &SARIF{Descriptors: descriptors}, nil
	}

	return nil, fmt.Errorf("unknown report format %q (want md, json, or sarif)", format)
}
