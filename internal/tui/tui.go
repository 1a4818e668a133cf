// Package tui provides a Bubble Tea terminal user interface for MixSplitR.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chefkjd/MixSplitR/internal/config"
	"github.com/chefkjd/MixSplitR/internal/process"
	evt "github.com/chefkjd/MixSplitR/internal/progress"
	"github.com/chefkjd/MixSplitR/internal/session"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Bold(true)
)

// State represents the current UI state.
type State int

const (
	StateMenu State = iota
	StateRunning
	StateComplete
	StateError
)

// Action is the run mode chosen from the menu.
type Action int

const (
	ActionProcess Action = iota
	ActionPreview
	ActionApply
	ActionCancel
)

var actionLabels = []string{
	"Process now (split, identify, write library)",
	"Preview (identify only, save session)",
	"Apply pending session",
	"Discard pending session",
}

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   evt.Level
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	cursor   int
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	workDir  string
	logs     []LogEntry
	err      error
	action   Action
	summary  string

	ctx    context.Context
	cancel context.CancelFunc

	manager *process.Manager
	events  chan evt.Event

	doneSegments  int32
	totalSegments int32

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model rooted at workDir.
func NewModel(settings *config.Settings, workDir string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:    StateMenu,
		spinner:  sp,
		progress: prog,
		settings: settings,
		workDir:  workDir,
		logs:     make([]LogEntry, 0),
		events:   make(chan evt.Event, 64),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// EventMsg carries one progress event from the running manager.
	EventMsg struct {
		Event evt.Event
	}

	// RunDoneMsg is sent when the selected action finishes.
	RunDoneMsg struct {
		Summary string
		Err     error
	}

	// TickMsg is for periodic progress bar updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateMenu {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}

		case "up", "k":
			if m.state == StateMenu && m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.state == StateMenu && m.cursor < len(actionLabels)-1 {
				m.cursor++
			}

		case "enter":
			if m.state == StateMenu {
				events := m.events
				manager, err := process.NewManager(m.settings, m.workDir, func(e evt.Event) {
					select {
					case events <- e:
					default: // never block the pipeline on a slow terminal
					}
				})
				if err != nil {
					m.state = StateError
					m.err = err
					return m, nil
				}
				m.manager = manager
				m.action = Action(m.cursor)
				m.state = StateRunning
				m.logs = nil
				return m, tea.Batch(m.startRun(), m.listenEvents(), m.tickProgress(), m.spinner.Tick)
			}

		case "v":
			if m.state == StateMenu {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateMenu
				m.logs = nil
				m.err = nil
				m.summary = ""
				m.manager = nil
				m.doneSegments = 0
				m.totalSegments = 0
				m.ctx, m.cancel = context.WithCancel(context.Background())
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		if msg.Event.Level != evt.LevelVerbose || m.verbose {
			m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
			// Keep only last 10 logs
			if len(m.logs) > 10 {
				m.logs = m.logs[len(m.logs)-10:]
			}
		}
		cmds = append(cmds, m.listenEvents())

	case RunDoneMsg:
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
			m.summary = msg.Summary
		}

	case TickMsg:
		if m.manager != nil && m.state == StateRunning {
			done, total := m.manager.SegmentProgress()
			m.doneSegments = done
			m.totalSegments = total

			var percent float64
			if total > 0 {
				percent = float64(done) / float64(total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// listenEvents waits for the next progress event from the manager.
func (m Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-m.events
		if !ok {
			return nil
		}
		return EventMsg{Event: e}
	}
}

// startRun runs the selected action in background.
func (m Model) startRun() tea.Cmd {
	ctx := m.ctx
	action := m.action
	manager := m.manager
	return func() tea.Msg {
		switch action {
		case ActionProcess, ActionPreview:
			summary, err := manager.Run(ctx, action == ActionPreview)
			if err != nil {
				return RunDoneMsg{Err: err}
			}
			if summary.Preview {
				breakdown := summary.SourceBreakdown()
				if breakdown == "" {
					breakdown = "none"
				}
				return RunDoneMsg{Summary: fmt.Sprintf(
					"Preview saved\n\nSources: %d\nSegments: %d\nIdentified: %d (%s)\nEnriched: %d\nUnidentified: %d\nSkipped: %d\nAPI calls: %d",
					summary.Sources, summary.Segments, summary.Identified, breakdown,
					summary.Enriched, summary.Unidentified, summary.Skipped, summary.APICalls)}
			}
			return RunDoneMsg{Summary: fmt.Sprintf(
				"Library updated\n\nSources: %d\nIdentified: %d\nUnidentified: %d\nSkipped: %d\nFailed: %d",
				summary.Sources, summary.Identified, summary.Unidentified, summary.Skipped, summary.Failed)}

		case ActionApply:
			summary, err := manager.Apply(ctx)
			if err != nil {
				return RunDoneMsg{Err: err}
			}
			return RunDoneMsg{Summary: fmt.Sprintf(
				"Session applied\n\nWritten: %d\nUnidentified: %d\nSkipped: %d\nFailed: %d",
				summary.Written, summary.Unidentified, summary.Skipped, summary.Failed)}

		case ActionCancel:
			if err := manager.Cancel(); err != nil {
				return RunDoneMsg{Err: err}
			}
			return RunDoneMsg{Summary: "Pending session discarded"}
		}
		return RunDoneMsg{}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("MixSplitR"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Split mix recordings into identified tracks"))
	b.WriteString("\n\n")

	switch m.state {
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("What do you want to do?"))
	b.WriteString("\n\n")

	pending := session.NewStore(m.workDir).Exists()
	for i, label := range actionLabels {
		cursor := "  "
		style := infoStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		if (Action(i) == ActionApply || Action(i) == ActionCancel) && !pending {
			style = dimStyle
		}
		b.WriteString(cursor + style.Render(label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Working directory: %s", m.workDir)))
	if pending {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("A preview session is pending"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(actionLabels[m.action]))
	b.WriteString("\n\n")

	if m.totalSegments > 0 {
		percent := float64(m.doneSegments) / float64(m.totalSegments)
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("Segments: %d/%d", m.doneSegments, m.totalSegments)))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(m.summary)
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "-"
		switch log.Level {
		case evt.LevelError:
			style = errorStyle
			prefix = "x"
		case evt.LevelWarning:
			style = warningStyle
			prefix = "!"
		case evt.LevelSuccess:
			style = successStyle
			prefix = "+"
		case evt.LevelInfo:
			style = infoStyle
			prefix = ">"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateMenu:
		return "up/down: select | enter: start | v: verbose | esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: back to menu | q: quit"
	}
	return ""
}

// Run starts the TUI application in the current directory.
func Run(configPath string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !settings.HasCredentials() {
		return fmt.Errorf("no ACRCloud credentials configured; run mixsplit once to set them up")
	}
	workDir, err := os.Getwd()
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(settings, workDir), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
