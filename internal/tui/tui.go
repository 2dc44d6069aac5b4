// Package tui provides a Bubble Tea terminal user interface for ytmp3-downloader.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/download"
	"github.com/handiism/ytmp3-downloader/internal/model"
	"github.com/handiism/ytmp3-downloader/internal/youtube"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0033")).
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

	videoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateConverting
	StateDownloading
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	videoID   string
	artifact  *model.Artifact
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc

	// events carries progress from the running download to Update
	events chan download.ProgressEvent

	// Download progress
	written int64
	total   int64

	// Options
	poll    bool
	tags    bool
	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model using settings for every download.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0033"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		poll:      settings.Poll,
		tags:      settings.ModifyTags,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ProgressMsg is sent for every event emitted by the download manager.
	ProgressMsg struct {
		Event download.ProgressEvent
	}

	// DownloadDoneMsg is sent when the download finishes.
	DownloadDoneMsg struct {
		Artifact *model.Artifact
		Err      error
	}

	// eventsClosedMsg is sent once the events channel is drained.
	eventsClosedMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateConverting || m.state == StateDownloading {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput {
				videoID := youtube.ExtractVideoID(strings.TrimSpace(m.textInput.Value()))
				if videoID == "" {
					return m, nil
				}
				m.videoID = videoID
				m.state = StateConverting
				m.events = make(chan download.ProgressEvent, 64)
				return m, tea.Batch(m.startDownload(), waitForEvent(m.events), m.spinner.Tick)
			}

		case "ctrl+p":
			if m.state == StateInput {
				m.poll = !m.poll
			}
			return m, nil

		case "ctrl+t":
			if m.state == StateInput {
				m.tags = !m.tags
			}
			return m, nil

		case "ctrl+o":
			if m.state == StateInput {
				m.verbose = !m.verbose
			}
			return m, nil

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.reset()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if m.state == StateInput || m.events == nil {
			return m, nil
		}
		cmds = append(cmds, waitForEvent(m.events))

		if msg.Event.Written > 0 {
			if m.state == StateConverting {
				m.state = StateDownloading
			}
			m.written = msg.Event.Written
			m.total = msg.Event.Total
			if m.total > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.written)/float64(m.total)))
			}
			break
		}

		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == download.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}

	case eventsClosedMsg:
		return m, nil

	case DownloadDoneMsg:
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errors.New("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			m.artifact = msg.Artifact
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// reset prepares the model for a new download, keeping the options.
func (m *Model) reset() {
	m.state = StateInput
	m.logs = nil
	m.err = nil
	m.artifact = nil
	m.videoID = ""
	m.written = 0
	m.total = 0
	m.events = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.progress.SetPercent(0)
	m.textInput.SetValue("")
	m.textInput.Focus()
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("▶ YouTube to MP3"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Convert YouTube videos to MP3 files"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateConverting:
		b.WriteString(m.viewConverting())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter YouTube video URL or ID:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Poll until conversion is complete (ctrl+p)\n", checkbox(m.poll)))
	b.WriteString(fmt.Sprintf("  %s Write ID3 tags and cover art (ctrl+t)\n", checkbox(m.tags)))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (ctrl+o)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Download path: %s", m.settings.DownloadDir)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewConverting() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Converting "))
	b.WriteString(videoStyle.Render(m.videoID))
	b.WriteString(subtitleStyle.Render("..."))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(videoStyle.Render(fmt.Sprintf("♪ %s", m.videoID)))
	b.WriteString("\n\n")

	if m.total > 0 {
		b.WriteString(m.progress.View())
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf(
			"Downloaded: %.2f / %.2f MB",
			float64(m.written)/1024/1024,
			float64(m.total)/1024/1024,
		)))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(infoStyle.Render(fmt.Sprintf(" Downloaded: %.2f MB", float64(m.written)/1024/1024)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	title, path := m.videoID, ""
	var size int64
	if m.artifact != nil {
		title, path, size = m.artifact.Title, m.artifact.Path, m.artifact.Size
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✓ Download Complete!\n\n"+
			"Title: %s\n"+
			"File: %s\n"+
			"Size: %.2f MB",
		title,
		path,
		float64(size)/1024/1024,
	))
	b.WriteString(box)
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case download.LevelError:
			style = errorStyle
			prefix = "✗"
		case download.LevelWarning:
			style = warningStyle
			prefix = "!"
		case download.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case download.LevelInfo:
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
	case StateInput:
		return "enter: start • ctrl+p: poll • ctrl+t: tags • ctrl+o: verbose • esc: quit"
	case StateConverting, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new download • q: quit"
	}
	return ""
}

// startDownload runs the download in the background. Everything it needs is
// copied out of the model first, since the model is a value that keeps
// changing while the command runs.
func (m Model) startDownload() tea.Cmd {
	ctx := m.ctx
	events := m.events
	settings := m.downloadSettings()

	req := download.Request{
		VideoID: m.videoID,
		APIKey:  settings.APIKey,
		Dir:     settings.DownloadDir,
		Poll:    m.poll,
	}

	return func() tea.Msg {
		manager := download.NewManager(&settings, func(event download.ProgressEvent) {
			select {
			case events <- event:
			case <-ctx.Done():
			}
		})

		artifact, err := manager.Download(ctx, req)
		close(events)

		return DownloadDoneMsg{Artifact: artifact, Err: err}
	}
}

// downloadSettings copies the settings with the tag option applied. The
// cover is an ID3 frame too, so it follows the same switch.
func (m Model) downloadSettings() config.Settings {
	settings := *m.settings
	settings.ModifyTags = m.tags
	settings.EmbedThumbnail = m.tags
	return settings
}

// waitForEvent reads the next progress event.
func waitForEvent(events <-chan download.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return ProgressMsg{Event: event}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
