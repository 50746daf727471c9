package controller

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"solvet.dev/pkg/solvet/internal/model"
)

var severityStyles = map[model.Severity]lipgloss.Style{
	model.SeverityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	model.SeverityMedium: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
	model.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	model.SeverityGas:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	model.SeverityNC:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

var headerStyle = lipgloss.NewStyle().Bold(true)

// PlainUI prints progress as lines and the summary as a table. It is the
// non-interactive fallback, so its output stays grep-friendly.
type PlainUI struct {
	mu  sync.Mutex
	out io.Writer

	total    int
	analyzed int
}

// NewPlainUI writes to out, which is usually stderr so report output on
// stdout stays clean.
func NewPlainUI(out io.Writer) *PlainUI {
	return &PlainUI{out: out}
}

// Start implements UI.
func (u *PlainUI) Start() error {
	return nil
}

// Discovered implements analysis.Events.
func (u *PlainUI) Discovered(total int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.total = total
	fmt.Fprintf(u.out, "analyzing %d files\n", total)
}

// Parsed implements analysis.Events.
func (u *PlainUI) Parsed(display string, failed bool) {
	if !failed {
		return
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	fmt.Fprintf(u.out, "parse failed: %s\n", display)
}

// Analyzed implements analysis.Events.
func (u *PlainUI) Analyzed(display string, findings int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.analyzed++

	if findings > 0 {
		fmt.Fprintf(u.out, "[%d/%d] %s: %d finding(s)\n", u.analyzed, u.total, display, findings)
	}
}

// Summary prints the severity table and diagnostic count.
func (u *PlainUI) Summary(report *model.Report) {
	u.mu.Lock()
	defer u.mu.Unlock()

	fmt.Fprintf(u.out, "\n%s\n%s", headerStyle.Render("Findings"), renderSummaryTable(report))

	if len(report.Diagnostics) > 0 {
		fmt.Fprintf(u.out, "%d diagnostic(s); see the report's diagnostics section\n", len(report.Diagnostics))
	}
}

// Close implements UI.
func (u *PlainUI) Close() {}

func renderSummaryTable(report *model.Report) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Severity", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	for _, sev := range model.Severities {
		style := severityStyles[sev]
		table.Append([]string{style.Render(sev.String()), fmt.Sprintf("%d", report.Summary.Count(sev))})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", report.Summary.Total)})
	table.Render()

	return buf.String()
}
