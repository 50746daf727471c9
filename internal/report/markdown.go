package report

import (
	"fmt"
	"io"
	"strings"

	"solvet.dev/pkg/solvet/internal/analysis"
	"solvet.dev/pkg/solvet/internal/model"
)

// Markdown renders the audit-style report: a severity summary table, then
// findings grouped by severity and detector with location lists and
// snippets, then a diagnostics section.
type Markdown struct {
	Descriptors []analysis.Detector
}

func (m *Markdown) Render(w io.Writer, r *model.Report) error {
	StampFingerprints(r)

	var b strings.Builder

	fmt.Fprintf(&b, "# %s report\n\n", r.Tool)

	if r.Root != "" {
		fmt.Fprintf(&b, "Project: `%s`\n\n", r.Root)
	}

	m.writeSummary(&b, r)
	m.writeFindings(&b, r)
	m.writeDiagnostics(&b, r)

	_, err := io.WriteString(w, b.String())

	return err
}

func (m *Markdown) writeSummary(b *strings.Builder, r *model.Report) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Severity | Findings |\n|---|---|\n")

	for _, sev := range model.Severities {
		fmt.Fprintf(b, "| %s | %d |\n", sev, r.Summary.Count(sev))
	}

	fmt.Fprintf(b, "| **Total** | **%d** |\n\n", r.Summary.Total)
}

func (m *Markdown) writeFindings(b *strings.Builder, r *model.Report) {
	if len(r.Findings) == 0 {
		b.WriteString("No findings.\n\n")
		return
	}

	for _, sev := range model.Severities {
		var group []model.Finding

		for _, f := range r.Findings {
			if f.Severity == sev {
				group = append(group, f)
			}
		}

		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(b, "## %s\n\n", sev)

		// The report is already in canonical order, so grouping by
		// detector id preserves determinism.
		for start := 0; start < len(group); {
			end := start
			for end < len(group) && group[end].DetectorID == group[start].DetectorID {
				end++
			}

			m.writeDetectorGroup(b, group[start:end])
			start = end
		}
	}
}

func (m *Markdown) writeDetectorGroup(b *strings.Builder, findings []model.Finding) {
	id := findings[0].DetectorID

	title, description := id, ""
	for _, d := range m.Descriptors {
		if d.ID == id {
			title, description = d.Title, d.Description
			break
		}
	}

	fmt.Fprintf(b, "### %s (%d)\n\n", title, len(findings))
	fmt.Fprintf(b, "`%s`", id)

	if description != "" {
		fmt.Fprintf(b, " — %s", description)
	}

	b.WriteString("\n\n")

	for _, f := range findings {
		fmt.Fprintf(b, "- `%s:%d` %s", f.Location.File, f.Location.Line, f.Message)

		if f.Location.Snippet != "" && f.Location.Snippet != model.SnippetUnavailable {
			fmt.Fprintf(b, "\n  ```solidity\n  %s\n  ```", f.Location.Snippet)
		}

		if f.Fix != "" {
			fmt.Fprintf(b, "\n  Fix: %s", f.Fix)
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")
}

func (m *Markdown) writeDiagnostics(b *strings.Builder, r *model.Report) {
	if len(r.Diagnostics) == 0 {
		return
	}

	b.WriteString("## Diagnostics\n\n")
	b.WriteString("These are pipeline problems, not audit findings.\n\n")

	for _, d := range r.Diagnostics {
		fmt.Fprintf(b, "- **%s** `%s:%d` %s\n", d.Kind, d.Location.File, d.Location.Line, d.Message)
	}

	b.WriteString("\n")
}
