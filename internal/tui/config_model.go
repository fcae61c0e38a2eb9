package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/chatbot/internal/config"
	"github.com/diogo/chatbot/internal/render"
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// settingItem is one row of the config menu. Items with choices open a
// selection list; the rest toggle a boolean.
type settingItem struct {
	key     string // config key passed to config.Set
	label   string
	choices func() []string
}

var settingItems = []settingItem{
	{key: "renderer", label: "Renderer", choices: func() []string {
		return []string{render.RendererLite, render.RendererMarkdown}
	}},
	{key: "markdown.style", label: "Markdown Theme", choices: render.ThemeNames},
	{key: "tui_theme", label: "TUI Theme", choices: render.TUIThemeNames},
	{key: "markdown.enable_emoji", label: "Emoji"},
	{key: "copy_to_clipboard", label: "Copy to Clipboard"},
	{key: "verbose", label: "Verbose Logging"},
}

// ConfigModel is the interactive settings editor
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error

	cursor       int // main menu; len(settingItems) is Exit
	selecting    bool
	choiceCursor int

	feedback        string
	feedbackTimeout time.Duration

	width  int
	height int
	ready  bool
}

// NewConfigModel creates the settings editor over cfg
func NewConfigModel(cfg config.Config) ConfigModel {
	configPath, _ := config.GetConfigPath()
	ApplyTheme(cfg.TUITheme)

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		save:            config.SaveConfig,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the edited configuration
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// value returns the current value of key as shown in the menu
func (m ConfigModel) value(key string) string {
	c := m.config
	switch key {
	case "renderer":
		return c.Renderer
	case "markdown.style":
		return c.Markdown.Style
	case "tui_theme":
		return c.TUITheme
	case "markdown.enable_emoji":
		return strconv.FormatBool(c.Markdown.EnableEmoji)
	case "copy_to_clipboard":
		return strconv.FormatBool(c.CopyToClipboard)
	case "verbose":
		return strconv.FormatBool(c.Verbose)
	}
	return ""
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.selecting {
				m.selecting = false
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m *ConfigModel) move(delta int) {
	if m.selecting {
		n := len(settingItems[m.cursor].choices())
		m.choiceCursor = (m.choiceCursor + delta + n) % n
		return
	}
	n := len(settingItems) + 1
	m.cursor = (m.cursor + delta + n) % n
}

func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.cursor == len(settingItems) {
		return m, tea.Quit
	}
	item := settingItems[m.cursor]

	if m.selecting {
		m.selecting = false
		return m.apply(item, item.choices()[m.choiceCursor])
	}

	if item.choices != nil {
		m.selecting = true
		m.choiceCursor = 0
		for i, c := range item.choices() {
			if c == m.value(item.key) {
				m.choiceCursor = i
			}
		}
		return m, nil
	}

	current, _ := strconv.ParseBool(m.value(item.key))
	return m.apply(item, strconv.FormatBool(!current))
}

// apply sets, persists and reports one change
func (m ConfigModel) apply(item settingItem, value string) (tea.Model, tea.Cmd) {
	next := m.config
	if err := next.Set(item.key, value); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return m, clearFeedback(m.feedbackTimeout)
	}
	if err := m.save(next); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return m, clearFeedback(m.feedbackTimeout)
	}

	m.config = next
	if item.key == "tui_theme" {
		ApplyTheme(value)
	}
	m.feedback = fmt.Sprintf("%s set to %s", item.label, value)
	return m, clearFeedback(m.feedbackTimeout)
}

// View renders the settings editor
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	panel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		Width(contentWidth)

	sections := []string{
		headerStyle.Width(contentWidth).Render(titleStyle.Render("✦ Configuration")),
		panel.Render(lipgloss.JoinVertical(lipgloss.Left,
			statusKeyStyle.Render("Paths"),
			"   Config:   "+hintStyle.Render(m.configPath),
			"   Endpoint: "+subtitleStyle.Render(m.config.Endpoint),
		)),
	}

	if m.selecting {
		sections = append(sections, panel.Render(m.renderChoices()))
	} else {
		sections = append(sections, panel.Render(m.renderMainMenu()))
	}

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("✓ "+m.feedback))
	}

	help := statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate") + "  │  " +
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select") + "  │  " +
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Back")
	sections = append(sections, statusBarStyle.Width(contentWidth).Align(lipgloss.Center).Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func cursorPrefix(selected bool) string {
	if selected {
		return loadingStyle.Render("▸ ")
	}
	return "  "
}

func (m ConfigModel) renderMainMenu() string {
	labelWidth := 0
	for _, item := range settingItems {
		labelWidth = max(labelWidth, lipgloss.Width(item.label))
	}

	lines := []string{statusKeyStyle.Render("Settings"), ""}
	for i, item := range settingItems {
		value := m.value(item.key)
		styled := subtitleStyle.Render(value)
		if item.choices == nil {
			if value == "true" {
				styled = lipgloss.NewStyle().Foreground(colorAssistant).Render("● enabled")
			} else {
				styled = lipgloss.NewStyle().Foreground(colorError).Render("○ disabled")
			}
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(item.label)+4)
		lines = append(lines, cursorPrefix(m.cursor == i)+item.label+pad+styled)
	}
	lines = append(lines, "", cursorPrefix(m.cursor == len(settingItems))+"Exit")

	return strings.Join(lines, "\n")
}

func (m ConfigModel) renderChoices() string {
	item := settingItems[m.cursor]
	current := m.value(item.key)

	lines := []string{statusKeyStyle.Render("Select " + item.label), ""}
	for i, choice := range item.choices() {
		line := cursorPrefix(m.choiceCursor == i) + choice
		if choice == current {
			line += hintStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// RunConfig starts the settings editor
func RunConfig(cfg config.Config) error {
	p := tea.NewProgram(NewConfigModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
