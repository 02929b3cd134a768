// Package progress renders a live Bubble Tea view of a generation run,
// adapted from the teacher toolchain's build pipeline progress model: the
// same spinner/list/progress-bar layout, driven here by per-type-index
// generator/inhabitator events instead of per-file build events.
package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Stage identifies which phase of a single type's lifecycle an Event
// reports on.
type Stage uint8

const (
	StagePlanned Stage = iota
	StagePopulated
	StageRepaired
)

// Status is the outcome an Event reports for its Stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event reports progress for one heap-type slot, or (when Index is negative)
// a run-wide phase label with no associated slot.
type Event struct {
	Index  int
	Stage  Stage
	Status Status
}

type model struct {
	title   string
	events  <-chan Event
	spinner spinner.Model
	prog    progress.Model
	items   []item
	stage   string
	width   int
	done    bool
}

type item struct {
	label  string
	status string
	stage  Stage
}

type eventMsg Event
type doneMsg struct{}

// New returns a Bubble Tea model that renders the progress of generating n
// heap types.
func New(title string, n int, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]item, n)
	for i := range items {
		items[i] = item{label: fmt.Sprintf("type[%d]", i), status: "queued"}
	}
	return &model{title: title, events: events, spinner: sp, prog: prog, items: items, width: 80}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listen())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(Event(msg))
		return m, tea.Batch(cmd, m.listen())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		updated, cmd := m.prog.Update(msg)
		m.prog = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *model) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.stage != "" {
		header = fmt.Sprintf("%s (%s)", header, m.stage)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, it := range m.items {
		name := truncate(it.label, nameWidth)
		statusStyled := styleStatus(it.status).Render(fmt.Sprintf("%12s", it.status))
		b.WriteString(fmt.Sprintf("  %s %s", statusStyled, name))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *model) listen() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *model) apply(ev Event) tea.Cmd {
	if ev.Index < 0 {
		if label := stageLabel(ev.Stage); label != "" {
			m.stage = label
		}
		return nil
	}
	if ev.Index >= len(m.items) {
		return nil
	}
	label := statusLabel(ev.Stage, ev.Status)
	if label != "" {
		m.items[ev.Index].status = label
		m.items[ev.Index].stage = ev.Stage
	}

	total := 0.0
	for _, it := range m.items {
		if it.status == "done" || it.status == "error" {
			total += 1.0
		} else {
			total += progressFromStage(it.stage)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStage(stage Stage) float64 {
	switch stage {
	case StagePlanned:
		return 0.2
	case StagePopulated:
		return 0.6
	case StageRepaired:
		return 0.9
	default:
		return 0.0
	}
}

func statusLabel(stage Stage, status Status) string {
	switch status {
	case StatusQueued:
		return "queued"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	case StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage Stage) string {
	switch stage {
	case StagePlanned:
		return "planning"
	case StagePopulated:
		return "populating"
	case StageRepaired:
		return "repairing"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "planning", "populating", "repairing":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
