package controller

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"solvet.dev/pkg/solvet/internal/model"
)

// TUI drives a bubbletea progress bar fed by engine events. The engine
// runs on the caller's goroutines; events are forwarded as tea messages,
// so the model itself never sees concurrency.
type TUI struct {
	out     *os.File
	program *tea.Program

	done sync.WaitGroup
}

// NewTUI creates the interactive progress UI.
func NewTUI(out *os.File) *TUI {
	return &TUI{out: out}
}

type discoveredMsg int

type analyzedMsg struct {
	display  string
	findings int
}

type finishedMsg struct{}

// Start launches the tea program in the background.
func (t *TUI) Start() error {
	t.program = tea.NewProgram(newProgressModel(), tea.WithOutput(t.out))

	t.done.Add(1)

	go func() {
		defer t.done.Done()

		_, _ = t.program.Run()
	}()

	return nil
}

// Discovered implements analysis.Events.
func (t *TUI) Discovered(total int) {
	t.program.Send(discoveredMsg(total))
}

// Parsed implements analysis.Events. Parse progress is folded into the
// analyzed count; failures surface in the report's diagnostics.
func (t *TUI) Parsed(string, bool) {}

// Analyzed implements analysis.Events.
func (t *TUI) Analyzed(display string, findings int) {
	t.program.Send(analyzedMsg{display: display, findings: findings})
}

// Summary quits the program and prints the plain summary below it.
func (t *TUI) Summary(report *model.Report) {
	t.finish()

	plain := NewPlainUI(t.out)
	plain.Summary(report)
}

// Close implements UI.
func (t *TUI) Close() {
	t.finish()
}

func (t *TUI) finish() {
	if t.program == nil {
		return
	}

	t.program.Send(finishedMsg{})
	t.done.Wait()
	t.program = nil
}

var fileStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// progressModel is the tea model: a progress bar plus the last file seen.
type progressModel struct {
	bar      progress.Model
	total    int
	analyzed int
	findings int
	lastFile string
}

func newProgressModel() progressModel {
	return progressModel{bar: progress.New(progress.WithDefaultGradient())}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case discoveredMsg:
		m.total = int(msg)
	case analyzedMsg:
		m.analyzed++
		m.findings += msg.findings
		m.lastFile = msg.display
	case finishedMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 4
	}

	return m, nil
}

func (m progressModel) View() string {
	if m.total == 0 {
		return "discovering files...\n"
	}

	ratio := float64(m.analyzed) / float64(m.total)

	return fmt.Sprintf("%s\n%d/%d files, %d finding(s) %s\n",
		m.bar.ViewAs(ratio), m.analyzed, m.total, m.findings,
		fileStyle.Render(m.lastFile))
}
