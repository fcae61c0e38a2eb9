package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// TUITheme is the color scheme of the chat screen
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// Message bubbles
	User      lipgloss.Color
	Assistant lipgloss.Color
	Link      lipgloss.Color

	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

// Built-in TUI themes
var (
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Background:  lipgloss.Color("#1a1b26"),
		Surface:     lipgloss.Color("#24283b"),
		Border:      lipgloss.Color("#414868"),
		User:        lipgloss.Color("#7aa2f7"),
		Assistant:   lipgloss.Color("#9ece6a"),
		Link:        lipgloss.Color("#7dcfff"),
		Accent:      lipgloss.Color("#bb9af7"),
		Warning:     lipgloss.Color("#e0af68"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - warm pastels",
		Background:  lipgloss.Color("#1e1e2e"),
		Surface:     lipgloss.Color("#313244"),
		Border:      lipgloss.Color("#45475a"),
		User:        lipgloss.Color("#89b4fa"), // blue
		Assistant:   lipgloss.Color("#a6e3a1"), // green
		Link:        lipgloss.Color("#89dceb"), // sky
		Accent:      lipgloss.Color("#cba6f7"), // mauve
		Warning:     lipgloss.Color("#f9e2af"),
		Error:       lipgloss.Color("#f38ba8"),
		Text:        lipgloss.Color("#cdd6f4"),
		TextDim:     lipgloss.Color("#6c7086"),
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord - cool arctic tones",
		Background:  lipgloss.Color("#2e3440"),
		Surface:     lipgloss.Color("#3b4252"),
		Border:      lipgloss.Color("#4c566a"),
		User:        lipgloss.Color("#88c0d0"),
		Assistant:   lipgloss.Color("#a3be8c"),
		Link:        lipgloss.Color("#81a1c1"),
		Accent:      lipgloss.Color("#b48ead"),
		Warning:     lipgloss.Color("#ebcb8b"),
		Error:       lipgloss.Color("#bf616a"),
		Text:        lipgloss.Color("#eceff4"),
		TextDim:     lipgloss.Color("#7b88a1"),
	}

	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "Dracula - vibrant dark",
		Background:  lipgloss.Color("#282a36"),
		Surface:     lipgloss.Color("#44475a"),
		Border:      lipgloss.Color("#6272a4"),
		User:        lipgloss.Color("#8be9fd"),
		Assistant:   lipgloss.Color("#50fa7b"),
		Link:        lipgloss.Color("#bd93f9"),
		Accent:      lipgloss.Color("#ff79c6"),
		Warning:     lipgloss.Color("#f1fa8c"),
		Error:       lipgloss.Color("#ff5555"),
		Text:        lipgloss.Color("#f8f8f2"),
		TextDim:     lipgloss.Color("#6272a4"),
	}
)

// DefaultTUIThemeName is used when no theme is configured
const DefaultTUIThemeName = "tokyonight"

// AvailableTUIThemes returns all built-in TUI themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{TokyoNightTheme, CatppuccinMochaTheme, NordTheme, DraculaTheme}
}

// GetTUIThemeByName returns a TUI theme by its name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	return lo.Find(AvailableTUIThemes(), func(t TUITheme) bool { return t.Name == name })
}

// TUIThemeOrDefault returns the named theme, or the default when unknown
func TUIThemeOrDefault(name string) TUITheme {
	if theme, ok := GetTUIThemeByName(name); ok {
		return theme
	}
	return TokyoNightTheme
}

// TUIThemeNames returns just the theme names for selection
func TUIThemeNames() []string {
	return lo.Map(AvailableTUIThemes(), func(t TUITheme, _ int) string { return t.Name })
}
