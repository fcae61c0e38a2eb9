package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// markdownKey identifies renderers that produce the same output. Lite-only
// options are left out since they never reach glamour.
type markdownKey struct {
	style    string
	width    int
	emoji    bool
	newLines bool
}

func keyFor(opts Options) markdownKey {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	return markdownKey{
		style:    opts.Style,
		width:    width,
		emoji:    opts.EnableEmoji,
		newLines: opts.PreserveNewLines,
	}
}

// rendererPool lends out glamour renderers, one sync.Pool per key.
// A TermRenderer must not run two Render calls at once.
type rendererPool struct {
	mu    sync.Mutex
	pools map[markdownKey]*sync.Pool
}

var renderers = &rendererPool{pools: make(map[markdownKey]*sync.Pool)}

func (p *rendererPool) poolFor(key markdownKey) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.pools[key]
	if !ok {
		pool = &sync.Pool{}
		p.pools[key] = pool
	}
	return pool
}

// borrow returns an idle renderer for opts, building one when none is free
func (p *rendererPool) borrow(opts Options) (*glamour.TermRenderer, error) {
	key := keyFor(opts)
	if r, ok := p.poolFor(key).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	return newMarkdownRenderer(key)
}

// release hands r back for reuse with the same options
func (p *rendererPool) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	p.poolFor(keyFor(opts)).Put(r)
}

func (p *rendererPool) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pools)
}

func (p *rendererPool) reset() {
	p.mu.Lock()
	p.pools = make(map[markdownKey]*sync.Pool)
	p.mu.Unlock()
}

// newMarkdownRenderer builds a glamour renderer. WithStylePath accepts the
// standard style names as well as a path to a JSON style.
func newMarkdownRenderer(key markdownKey) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{
		glamour.WithStylePath(key.style),
		glamour.WithWordWrap(key.width),
	}
	if key.emoji {
		opts = append(opts, glamour.WithEmoji())
	}
	if key.newLines {
		opts = append(opts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(opts...)
}

// ResetRenderers drops every pooled renderer
func ResetRenderers() {
	renderers.reset()
}

// PooledConfigurations returns how many distinct renderer configurations
// have been requested since the last reset
func PooledConfigurations() int {
	return renderers.size()
}
