package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertwitch/offload/internal/schema"
	"github.com/dustin/go-humanize"
)

// maxLogLines is the number of log lines kept for the viewport.
const maxLogLines = 100

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// infoStyle defines the style for a panel's text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// ProgressMsg is a [tea.Msg] containing a [schema.Progress] notification.
type ProgressMsg schema.Progress

// SummaryMsg is a [tea.Msg] containing the end-of-run summary lines.
type SummaryMsg []string

// TeaModel is the principal [tea.Model] for the command-line user interface.
type TeaModel struct {
	width  int
	height int

	title  string
	cancel context.CancelFunc

	uiHandler *Handler

	fullWidthWithBorders int

	data    schema.Progress
	summary []string

	progressBar  progress.Model
	logsViewport viewport.Model
	logs         []string

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, title string, cancel context.CancelFunc) TeaModel {
	return TeaModel{
		uiHandler: uiHandler,
		title:     title,
		progressBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(80),
		),
		logsViewport: viewport.New(80, 20),
		logs:         make([]string, 0, maxLogLines),
		cancel:       cancel,
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit
		case "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2
		m.progressBar.Width = m.fullWidthWithBorders

		// Progress panel takes a fixed height, the logs get the rest.
		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = max(m.height-16, 3)
		m.refreshLogs()

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}

	case ProgressMsg:
		m.data = schema.Progress(msg)
		cmds = append(cmds, m.progressBar.SetPercent(m.data.Percentage/100))

	case SummaryMsg:
		m.summary = msg

	case LogMsg:
		if len(m.logs) >= maxLogLines {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, string(msg))
		m.refreshLogs()

	case progress.FrameMsg:
		updated, cmd := m.progressBar.Update(msg)
		if progressModel, ok := updated.(progress.Model); ok {
			m.progressBar = progressModel
		}
		cmds = append(cmds, cmd)
	}

	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TeaModel) refreshLogs() {
	if len(m.logs) == 0 {
		return
	}

	logs := lipgloss.NewStyle().
		Width(m.logsViewport.Width).
		Render(strings.TrimSuffix(strings.Join(m.logs, ""), "\n"))

	m.logsViewport.SetContent(logs)
	m.logsViewport.GotoBottom()
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	progressSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(m.formatProgressView())

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Process Information"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("q: quit gui • ctrl+c: cancel offload")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		progressSection,
		logsSection,
		helpSection,
	)
}

func (m TeaModel) formatProgressView() string {
	var details string

	if !m.data.IsFinished {
		details = fmt.Sprintf(
			"Progress: %.2f%%\n"+
				"Action: %s\n"+
				"Time left: %s\n"+
				"Speed: %s/s\n",
			m.data.Percentage,
			m.data.Action,
			formatRemaining(m.data.TimeRemaining),
			humanize.Bytes(uint64(max(m.data.Speed, 0))),
		)
	} else {
		details = fmt.Sprintf(
			"Progress: %.2f%%\n"+
				"Action: %s\n"+
				"%s\n",
			m.data.Percentage,
			m.data.Action,
			strings.Join(m.summary, "\n"),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.fullWidthWithBorders).Render(m.title),
		"", // Empty line for spacing.
		m.progressBar.View(),
		"", // Empty line for spacing.
		infoStyle.Width(m.fullWidthWithBorders).Render(details),
	)
}

// formatRemaining renders an ETA in seconds, or "unknown" while there is none.
func formatRemaining(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}

	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}
