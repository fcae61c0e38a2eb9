// Package render turns message text into terminal output: a link-only lite
// renderer and an optional full markdown renderer.
package render

// DefaultWidth is the wrap width when none is set
const DefaultWidth = 80

// Options configures rendering.
type Options struct {
	// Renderer selects "lite" (links only) or "markdown" (glamour)
	Renderer string

	// Width defines the maximum output width for markdown (default: 80)
	Width int

	// Style is the glamour style name or a path to a JSON style file
	Style string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// PreserveNewLines preserves original line breaks
	PreserveNewLines bool

	// Hyperlinks emits OSC 8 hyperlinks in lite mode
	Hyperlinks bool

	// LinkColor colors link labels in lite mode; empty keeps the terminal color
	LinkColor string
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Renderer:         RendererLite,
		Width:            DefaultWidth,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		Hyperlinks:       true,
	}
}

// WithRenderer returns Options with the specified renderer.
func (o Options) WithRenderer(renderer string) Options {
	o.Renderer = renderer
	return o
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns Options with newline preservation enabled/disabled.
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

// WithHyperlinks returns Options with terminal hyperlinks enabled/disabled.
func (o Options) WithHyperlinks(enabled bool) Options {
	o.Hyperlinks = enabled
	return o
}

// WithLinkColor returns Options with the given link color.
func (o Options) WithLinkColor(color string) Options {
	o.LinkColor = color
	return o
}
