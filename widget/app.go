package widget

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
)

// appState represents which screen the widget is on.
type appState int

const (
	stateWaitingHost appState = iota // polling for the host capability
	stateReady                       // board visible, controls active
	stateGivenUp                     // host never appeared
)

// Defaults for the bounded host wait and the render retry.
const (
	DefaultMaxHostChecks  = 200
	DefaultHostCheckDelay = 50 * time.Millisecond

	renderRetryDelay = 50 * time.Millisecond
)

type focusTarget int

const (
	focusTitle focusTarget = iota
	focusAssignee
	focusStatus
	focusCount
)

var statusOptions = []struct {
	value string
	label string
}{
	{"todo", "To do"},
	{"in-progress", "In progress"},
	{"done", "Done"},
}

// HostConnector attempts to produce a ready host capability. It is polled
// with a fixed delay up to the configured attempt budget.
type HostConnector func(ctx context.Context) (Host, error)

type hostCheckMsg struct {
	host Host
	err  error
}

type hostRetryMsg struct{}

type submitDoneMsg struct {
	result map[string]any
	err    error
}

type renderRetryMsg struct{}

type messageKind string

const (
	messageInfo    messageKind = "info"
	messageSuccess messageKind = "success"
	messageError   messageKind = "error"
)

// Model is the bubbletea model for the board widget.
type Model struct {
	logger  *log.Logger
	connect HostConnector

	maxHostChecks  int
	hostCheckDelay time.Duration

	state    appState
	attempts int
	host     Host

	width  int
	height int

	titleInput    textinput.Model
	assigneeInput textinput.Model
	statusIdx     int
	focus         focusTarget

	pending bool
	message string
	kind    messageKind

	snapshot        Snapshot
	hasSnapshot     bool
	pendingSnapshot *Snapshot
}

// Option customizes Model construction.
type Option func(*Model)

// WithHostWait overrides the attempt budget and delay of the host wait.
func WithHostWait(maxChecks int, delay time.Duration) Option {
	return func(m *Model) {
		if maxChecks > 0 {
			m.maxHostChecks = maxChecks
		}
		if delay > 0 {
			m.hostCheckDelay = delay
		}
	}
}

// NewModel builds the widget model around a host connector.
func NewModel(connect HostConnector, logger *log.Logger, opts ...Option) Model {
	if logger == nil {
		logger = log.StandardLogger()
	}

	title := textinput.New()
	title.Placeholder = "Define onboarding flow"
	title.CharLimit = 120
	title.Focus()

	assignee := textinput.New()
	assignee.Placeholder = "Ada Lovelace"
	assignee.CharLimit = 80

	m := Model{
		logger:         logger,
		connect:        connect,
		maxHostChecks:  DefaultMaxHostChecks,
		hostCheckDelay: DefaultHostCheckDelay,
		state:          stateWaitingHost,
		titleInput:     title,
		assigneeInput:  assignee,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.checkHostCmd())
}

func (m Model) checkHostCmd() tea.Cmd {
	connect := m.connect
	delay := m.hostCheckDelay
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), delay*10)
		defer cancel()
		host, err := connect(ctx)
		return hostCheckMsg{host: host, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.pendingSnapshot != nil {
			snap := *m.pendingSnapshot
			m.pendingSnapshot = nil
			return m.applySnapshot(snap)
		}
		return m, nil

	case hostCheckMsg:
		return m.handleHostCheck(msg)

	case hostRetryMsg:
		return m, m.checkHostCmd()

	case renderRetryMsg:
		if m.pendingSnapshot != nil {
			snap := *m.pendingSnapshot
			m.pendingSnapshot = nil
			return m.applySnapshot(snap)
		}
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleHostCheck(msg hostCheckMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil || msg.host == nil {
		m.attempts++
		if m.attempts >= m.maxHostChecks {
			m.state = stateGivenUp
			m.logger.WithFields(log.Fields{
				"attempts": m.attempts,
				"error":    errString(msg.err),
			}).Error("host capability unavailable after retries")
			return m, nil
		}
		delay := m.hostCheckDelay
		return m, tea.Tick(delay, func(time.Time) tea.Msg { return hostRetryMsg{} })
	}

	m.host = msg.host
	m.state = stateReady
	m.logger.WithField("attempts", m.attempts).Debug("host capability ready")
	return m.bootstrapRender()
}

// bootstrapRender performs the first render from whatever hints the host
// already carries, without invoking the tool.
func (m Model) bootstrapRender() (tea.Model, tea.Cmd) {
	var candidate any
	if m.host != nil {
		candidate = m.host.ToolOutput()
		if candidate == nil {
			if outputs := m.host.ToolOutputs(); len(outputs) > 0 {
				candidate = outputs[len(outputs)-1]
			}
		}
	}
	return m.resolveAndRender(candidate)
}

func (m Model) resolveAndRender(candidate any) (tea.Model, tea.Cmd) {
	var metadata, state map[string]any
	if m.host != nil {
		metadata = m.host.ToolResponseMetadata()
		state = m.host.WidgetState()
	}
	return m.applySnapshot(Resolve(candidate, metadata, state))
}

// applySnapshot installs a resolved snapshot, deferring when the surface has
// no size yet. The host may attach the widget before the terminal reports
// its dimensions; a short retry avoids rendering into nothing.
func (m Model) applySnapshot(snap Snapshot) (tea.Model, tea.Cmd) {
	if m.width == 0 {
		m.pendingSnapshot = &snap
		return m, tea.Tick(renderRetryDelay, func(time.Time) tea.Msg { return renderRetryMsg{} })
	}
	m.snapshot = snap
	m.hasSnapshot = true
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	if m.state != stateReady {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % focusCount
		return m.applyFocus()
	case "shift+tab", "up":
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m.applyFocus()
	case "ctrl+r":
		m.logger.Debug("manual refresh triggered")
		return m.bootstrapRender()
	case "left", "right":
		if m.focus == focusStatus {
			if msg.String() == "right" {
				m.statusIdx = (m.statusIdx + 1) % len(statusOptions)
			} else {
				m.statusIdx = (m.statusIdx + len(statusOptions) - 1) % len(statusOptions)
			}
			return m, nil
		}
	case "enter":
		return m.startSubmit()
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case focusAssignee:
		m.assigneeInput, cmd = m.assigneeInput.Update(msg)
	}
	return m, cmd
}

func (m Model) applyFocus() (tea.Model, tea.Cmd) {
	m.titleInput.Blur()
	m.assigneeInput.Blur()
	switch m.focus {
	case focusTitle:
		return m, m.titleInput.Focus()
	case focusAssignee:
		return m, m.assigneeInput.Focus()
	}
	return m, nil
}

// startSubmit begins a submission. At most one is in flight: an attempt
// while another is pending is a no-op, and validation failures change
// nothing but the user-visible message.
func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	if m.host == nil {
		m.logger.Debug("callTool unavailable; cannot add task")
		m.message = "Write access is unavailable in this client."
		m.kind = messageError
		return m, nil
	}

	title := strings.TrimSpace(m.titleInput.Value())
	assignee := strings.TrimSpace(m.assigneeInput.Value())
	if title == "" || assignee == "" {
		m.message = "Please provide both a task and an assignee."
		m.kind = messageError
		return m, nil
	}

	status := statusOptions[m.statusIdx].value
	if status == "" {
		status = "todo"
	}

	m.pending = true
	m.message = "Adding task…"
	m.kind = messageInfo

	host := m.host
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := host.CallTool(ctx, "kanban-board", map[string]any{
			"newTask": map[string]any{
				"title":    title,
				"assignee": assignee,
				"status":   status,
			},
		})
		return submitDoneMsg{result: result, err: err}
	}
}

// handleSubmitDone finishes a submission. The in-flight guard is released
// on every path, including failure.
func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.pending = false

	if msg.err != nil {
		m.logger.WithField("error", msg.err.Error()).Debug("callTool failed")
		m.message = "Failed to add task."
		m.kind = messageError
		return m, nil
	}

	var model tea.Model
	var cmd tea.Cmd
	switch {
	case msg.result["toolOutput"] != nil:
		model, cmd = m.resolveAndRender(msg.result["toolOutput"])
	case msg.result["structuredContent"] != nil:
		model, cmd = m.resolveAndRender(map[string]any{"structuredContent": msg.result["structuredContent"]})
	default:
		model, cmd = m.bootstrapRender()
	}

	next := model.(Model)
	next.titleInput.Reset()
	next.assigneeInput.Reset()
	next.statusIdx = 0
	next.message = "Task added successfully."
	next.kind = messageSuccess
	return next, cmd
}

var (
	formLabelStyle = lipgloss.NewStyle().Bold(true)
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle      = lipgloss.NewStyle().Faint(true)
)

func (m Model) View() string {
	switch m.state {
	case stateWaitingHost:
		return lipgloss.NewStyle().Padding(1, 2).Render(
			"Connecting to the board host…",
		)
	case stateGivenUp:
		return lipgloss.NewStyle().Padding(1, 2).Render(
			"The board host never became available.\nCheck that the server is running and restart the widget.",
		)
	}

	var b strings.Builder

	b.WriteString(formLabelStyle.Render("Task") + "  " + m.titleInput.View() + "\n")
	b.WriteString(formLabelStyle.Render("Assignee") + "  " + m.assigneeInput.View() + "\n")

	statusLine := formLabelStyle.Render("Status") + "  "
	for i, opt := range statusOptions {
		label := opt.label
		if i == m.statusIdx {
			label = "[" + label + "]"
		}
		statusLine += label + " "
	}
	b.WriteString(statusLine + "\n")

	if m.message != "" {
		style := infoStyle
		switch m.kind {
		case messageSuccess:
			style = successStyle
		case messageError:
			style = errorStyle
		}
		b.WriteString(style.Render(m.message) + "\n")
	}

	b.WriteString("\n")
	if m.hasSnapshot {
		b.WriteString(RenderBoard(m.snapshot))
		b.WriteString("\n")
	}

	b.WriteString("\n" + helpStyle.Render("enter add task · ctrl+r refresh board · tab move · esc quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
