package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Lite renders text with only links interpreted. Text runs are written
// verbatim. Links become OSC 8 terminal hyperlinks when opts.Hyperlinks is
// set, otherwise "label (url)".
func Lite(text string, opts Options) string {
	segments := ParseLinks(text)
	if len(segments) == 0 {
		return ""
	}

	linkStyle := lipgloss.NewStyle().Underline(true)
	if opts.LinkColor != "" {
		linkStyle = linkStyle.Foreground(lipgloss.Color(opts.LinkColor))
	}

	var sb strings.Builder
	for _, seg := range segments {
		if !seg.IsLink() {
			sb.WriteString(seg.Text)
			continue
		}
		label := linkStyle.Render(seg.Text)
		if opts.Hyperlinks {
			sb.WriteString(termenv.Hyperlink(seg.URL, label))
		} else {
			sb.WriteString(label)
			sb.WriteString(" (")
			sb.WriteString(seg.URL)
			sb.WriteString(")")
		}
	}
	return sb.String()
}

// Plain renders links as "label (url)" with no styling at all
func Plain(text string) string {
	var sb strings.Builder
	for _, seg := range ParseLinks(text) {
		if seg.IsLink() {
			sb.WriteString(seg.Text + " (" + seg.URL + ")")
			continue
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}
