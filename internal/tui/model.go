package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/chatbot/internal/chat"
	apierrors "github.com/diogo/chatbot/internal/errors"
	"github.com/diogo/chatbot/internal/history"
	"github.com/diogo/chatbot/internal/models"
	"github.com/diogo/chatbot/internal/render"
	"github.com/diogo/chatbot/internal/store"
)

const (
	// refocusDelay is how long after a completed reply the input regains focus
	refocusDelay = 10 * time.Millisecond
	// toastDuration is how long a notification stays on screen
	toastDuration = 5 * time.Second
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	submitDoneMsg struct {
		result chat.Result
		err    error
	}
	focusInputMsg   struct{}
	dismissToastMsg struct {
		id int
	}
)

// toast is a transient notification panel
type toast struct {
	id          int
	title       string
	description string
	err         error
}

// Options configures the chat model
type Options struct {
	Endpoint string
	Render   render.Options
	Theme    string
	Logger   *zap.Logger
}

// Model represents the TUI state
type Model struct {
	store     *store.MessageStore
	submitter *chat.Submitter
	endpoint  string
	opts      render.Options
	logger    *zap.Logger

	// Submissions run under ctx; quitting cancels it
	ctx    context.Context
	cancel context.CancelFunc

	changes       chan store.Snapshot
	notifications chan chat.Notification
	unsubscribe   func()

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	messages       []models.Message
	updating       bool
	sending        bool
	ready          bool
	toast          *toast
	toastSeq       int
	feedback       string
	animationFrame int

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a chat model over st that sends through sender
func NewChatModel(st *store.MessageStore, sender chat.Sender, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	theme := ApplyTheme(opts.Theme)

	renderOpts := opts.Render
	if renderOpts.Renderer == "" {
		renderOpts = render.DefaultOptions()
	}
	if renderOpts.LinkColor == "" {
		renderOpts.LinkColor = string(theme.Link)
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	// Enter sends; the newline moves to alt+enter and ctrl+j
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	changes := make(chan store.Snapshot, 1)
	notifications := make(chan chat.Notification, 8)
	unsubscribe := st.Subscribe(forwardSnapshots(changes))

	submitter := chat.NewSubmitter(st, sender,
		chat.WithNotifier(forwardNotifications(notifications)),
		chat.WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())

	snap := st.Snapshot()
	return Model{
		store:         st,
		submitter:     submitter,
		endpoint:      opts.Endpoint,
		opts:          renderOpts,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		changes:       changes,
		notifications: notifications,
		unsubscribe:   unsubscribe,
		textarea:      ta,
		spinner:       s,
		messages:      snap.Messages,
		updating:      snap.IsMessageUpdating,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		listenForChanges(m.changes),
		listenForNotifications(m.notifications),
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// quit stops any in-flight submission and leaves the program
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.shutdown()
	return m, tea.Quit
}

func (m Model) shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 2
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m.quit()

		case "enter":
			if m.sending {
				return m, nil
			}
			return m.handleInput(m.textarea.Value())
		}

	case storeChangedMsg:
		m.messages = msg.Messages
		m.updating = msg.IsMessageUpdating
		m.updateViewport()
		m.viewport.GotoBottom()
		cmds = append(cmds, listenForChanges(m.changes))

	case notificationMsg:
		m.toastSeq++
		m.toast = &toast{
			id:          m.toastSeq,
			title:       msg.Title,
			description: msg.Description,
			err:         msg.Err,
		}
		id := m.toastSeq
		cmds = append(cmds,
			listenForNotifications(m.notifications),
			tea.Tick(toastDuration, func(time.Time) tea.Msg { return dismissToastMsg{id: id} }),
		)

	case dismissToastMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}

	case submitDoneMsg:
		m.sending = false
		switch {
		case msg.err == nil:
			m.textarea.Reset()
			cmds = append(cmds, tea.Tick(refocusDelay, func(time.Time) tea.Msg { return focusInputMsg{} }))
		case apierrors.IsStreamError(msg.err):
			// The exchange stays in the transcript, so the input is spent
			m.textarea.Reset()
			m.feedback = "Reply interrupted"
			cmds = append(cmds, m.textarea.Focus())
		case apierrors.IsRequestFailed(msg.err):
			// Rolled back: keep the text so it can be sent again
			m.feedback = "Not sent. Press Enter to retry"
			cmds = append(cmds, m.textarea.Focus())
		default:
			m.feedback = "Send failed: " + msg.err.Error()
			cmds = append(cmds, m.textarea.Focus())
		}

	case focusInputMsg:
		cmds = append(cmds, m.textarea.Focus())

	case spinner.TickMsg:
		if m.busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			if m.updating {
				m.updateViewport()
			}
		}

	case animationTickMsg:
		if m.busy() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.sending {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// busy reports whether a submission or stream is in progress
func (m Model) busy() bool {
	return m.sending || m.updating
}

// handleInput runs a slash command or submits the input as a message.
// Message text is sent exactly as typed.
func (m Model) handleInput(input string) (tea.Model, tea.Cmd) {
	trimmed := strings.TrimSpace(input)
	m.feedback = ""

	switch {
	case trimmed == "/quit" || trimmed == "/exit":
		return m.quit()

	case trimmed == "/export" || strings.HasPrefix(trimmed, "/export "):
		path := strings.TrimSpace(strings.TrimPrefix(trimmed, "/export"))
		m.textarea.Reset()
		if path == "" {
			m.feedback = "Usage: /export <file.md|file.json>"
			return m, nil
		}
		if err := m.export(path); err != nil {
			m.feedback = "Export failed: " + err.Error()
			return m, nil
		}
		m.feedback = "Transcript written to " + path
		return m, nil
	}

	m.sending = true
	m.animationFrame = 0
	m.textarea.Blur()

	return m, tea.Batch(
		m.submit(input),
		m.spinner.Tick,
		animationTick(),
	)
}

// submit runs the submission off the event loop
func (m Model) submit(text string) tea.Cmd {
	submitter := m.submitter
	ctx := m.ctx
	return func() tea.Msg {
		result, err := submitter.Submit(ctx, text)
		return submitDoneMsg{result: result, err: err}
	}
}

// export writes the current transcript to path
func (m Model) export(path string) error {
	opts := history.DefaultExportOptions()
	opts.Endpoint = m.endpoint
	if err := history.WriteFile(path, m.store.Messages(), opts); err != nil {
		return err
	}
	m.logger.Info("transcript exported", zap.String("path", path), zap.Int("messages", m.store.Len()))
	return nil
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{titleStyle.Render("✦ Chat")}
	if m.endpoint != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.endpoint),
		)
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	// Messages
	var messagesContent string
	if len(m.messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input; disabled while a submission is in flight
	var inputContent string
	if m.sending {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.toast != nil {
		sections = append(sections, m.renderToast(contentWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome is shown when the transcript is empty
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Start a conversation"),
		"",
		welcomeStyle.Width(width).Render("Type a message below and press Enter"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	label := " Waiting for reply "
	if m.updating {
		label = " Receiving reply "
	}
	text := lipgloss.NewStyle().Foreground(colorText).Render(label)

	return fmt.Sprintf("%s %s %s", spin, bar.String(), text)
}

// renderStatusBar renders the shortcuts and the last command feedback
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Esc", "Quit"},
		{"/export", "Save"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	if m.feedback != "" {
		bar += "\n" + feedbackStyle.Render(m.feedback)
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// renderToast renders the current notification
func (m Model) renderToast(width int) string {
	lines := []string{
		toastTitleStyle.Render("✗ " + m.toast.title),
		m.toast.description,
	}
	if m.toast.err != nil {
		lines = append(lines, FormatError(m.toast.err))
	}
	return toastStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	opts := m.opts.WithWidth(bubbleWidth - 4)

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUserMessage {
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(render.Lite(msg.Text, opts))
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")

			body := strings.TrimRight(render.Message(msg.Text, opts), "\n")
			// The last message is the one streaming in
			if body == "" && m.updating && i == len(m.messages)-1 {
				body = m.spinner.View()
			}

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(body)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI and blocks until it exits
func RunChat(st *store.MessageStore, sender chat.Sender, opts Options) error {
	m := NewChatModel(st, sender, opts)
	defer m.shutdown()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
