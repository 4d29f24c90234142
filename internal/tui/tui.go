// Package tui provides a Bubble Tea terminal user interface for the collector.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/handiism/vocaloid-birthday/internal/collect"
	"github.com/handiism/vocaloid-birthday/internal/config"
	ioutils "github.com/handiism/vocaloid-birthday/internal/io"
	"github.com/handiism/vocaloid-birthday/internal/nicovideo"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#39C5BB")).
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
)

// State represents the current UI state.
type State int

const (
	StateReady State = iota
	StateCollecting
	StateComplete
	StateError
)

// errCancelled is reported when the user aborts a run.
var errCancelled = errors.New("cancelled by user, nothing was saved")

// maxLogs is how many progress lines the log pane keeps.
const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   collect.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	spinner  spinner.Model
	progress progress.Model
	settings *config.Settings
	logger   *zap.Logger
	logs     []LogEntry
	err      error

	ctx    context.Context
	cancel context.CancelFunc

	collector *collect.Collector
	events    chan collect.ProgressEvent

	daysDone  int
	daysTotal int
	songs     int64

	savedPath  string
	savedDays  int
	savedSongs int

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
//
// A nil logger disables logging; the TUI owns the terminal so log output
// would corrupt the screen.
func NewModel(settings *config.Settings, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#39C5BB"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateReady,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logger:    logger,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		daysTotal: len(collect.ValidDays(settings.ValidationYear)),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Message types
type (
	// ProgressMsg is sent for every collector progress event.
	ProgressMsg struct {
		Event collect.ProgressEvent
	}

	// CollectDoneMsg is sent when the run has finished and been persisted.
	CollectDoneMsg struct {
		Path  string
		Days  int
		Songs int
		Err   error
	}

	// TickMsg is for periodic progress updates.
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
			if m.state == StateReady {
				return m, tea.Quit
			}
			if m.state == StateCollecting {
				m.cancel()
			}

		case "enter":
			if m.state == StateReady {
				m.state = StateCollecting
				m.events = make(chan collect.ProgressEvent, 64)
				m.collector = collect.NewCollector(m.settings, nicovideo.NewClient(m.settings, m.logger), m.logger, m.forward)
				return m, tea.Batch(m.startCollect(), m.waitForEvent(), m.tickProgress(), m.spinner.Tick)
			}

		case "v":
			if m.state == StateReady {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.state = StateReady
				m.logs = nil
				m.err = nil
				m.daysDone = 0
				m.songs = 0
				m.savedPath = ""
				m.collector = nil
				m.cancel()
				m.ctx, m.cancel = context.WithCancel(context.Background())
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		if msg.Event.Level == collect.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case CollectDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
			m.savedPath = msg.Path
			m.savedDays = msg.Days
			m.savedSongs = msg.Songs
		}

	case TickMsg:
		if m.collector != nil && m.state == StateCollecting {
			m.daysDone, m.daysTotal, m.songs = m.collector.Progress()

			var percent float64
			if m.daysTotal > 0 {
				percent = float64(m.daysDone) / float64(m.daysTotal)
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

// forward hands collector events to the UI without blocking the run.
func (m Model) forward(event collect.ProgressEvent) {
	select {
	case m.events <- event:
	default:
	}
}

// waitForEvent returns a command that delivers the next progress event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// startCollect runs the collection and persists the result in background.
func (m Model) startCollect() tea.Cmd {
	ctx, collector, settings, events := m.ctx, m.collector, m.settings, m.events
	return func() tea.Msg {
		defer close(events)

		mapping, err := collector.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return CollectDoneMsg{Err: errCancelled}
			}
			return CollectDoneMsg{Err: err}
		}

		path, err := ioutils.SaveSnapshot(ctx, settings.OutputDir, settings.FileName, mapping, time.Now(), settings.Description)
		if err != nil {
			return CollectDoneMsg{Err: err}
		}

		return CollectDoneMsg{Path: path, Days: mapping.Days(), Songs: mapping.Songs()}
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎵 VOCALOID Birthday Songs"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Collect songs by upload day from niconico"))
	b.WriteString("\n\n")

	switch m.state {
	case StateReady:
		b.WriteString(m.viewReady())
	case StateCollecting:
		b.WriteString(m.viewCollecting())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewReady() string {
	var b strings.Builder

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Ready to search %d days.", m.daysTotal)))
	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Show days without songs (v)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output: %s", m.settings.OutputPath())))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Up to %d songs per day, %s between requests", m.settings.LimitPerDay, m.settings.RequestDelay)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewCollecting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Collecting..."))
	b.WriteString("\n\n")

	var percent float64
	if m.daysTotal > 0 {
		percent = float64(m.daysDone) / float64(m.daysTotal)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Days: %d/%d | Songs: %d", m.daysDone, m.daysTotal, m.songs)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"✨ Collection Complete!\n\n"+
			"Days: %d\n"+
			"Songs: %d\n"+
			"Saved: %s",
		m.savedDays,
		m.savedSongs,
		m.savedPath,
	))
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
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
		prefix := "•"
		switch log.Level {
		case collect.LevelError:
			style = errorStyle
			prefix = "✗"
		case collect.LevelWarning:
			style = warningStyle
			prefix = "!"
		case collect.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case collect.LevelInfo:
			style = infoStyle
			prefix = "›"
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
	case StateReady:
		return "enter: start • v: verbose • esc: quit"
	case StateCollecting:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: run again • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings, nil), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
