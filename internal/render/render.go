package render

// Renderer names accepted in configuration
const (
	RendererLite     = "lite"
	RendererMarkdown = "markdown"
)

// Markdown renders markdown content for terminal display with a pooled
// glamour renderer.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := renderers.borrow(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, renderer)

	return renderer.Render(content)
}

// Message renders a chat message with the configured renderer. Markdown
// failures fall back to the lite renderer.
func Message(content string, opts Options) string {
	if opts.Renderer == RendererMarkdown {
		if out, err := Markdown(content, opts); err == nil {
			return out
		}
	}
	return Lite(content, opts)
}
