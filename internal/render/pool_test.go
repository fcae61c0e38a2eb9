package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFor(t *testing.T) {
	base := DefaultOptions()

	assert.Equal(t, keyFor(base), keyFor(DefaultOptions()))
	assert.NotEqual(t, keyFor(base), keyFor(base.WithWidth(100)))
	assert.NotEqual(t, keyFor(base), keyFor(base.WithStyle(StyleLight)))
	assert.NotEqual(t, keyFor(base), keyFor(base.WithEmoji(false)))

	// Lite-only fields share a renderer
	assert.Equal(t, keyFor(base), keyFor(base.WithHyperlinks(false).WithLinkColor("#fff").WithRenderer(RendererMarkdown)))

	// Unset width falls back to the default
	assert.Equal(t, DefaultWidth, keyFor(base.WithWidth(0)).width)
}

func TestRendererPool_BorrowRelease(t *testing.T) {
	ResetRenderers()
	defer ResetRenderers()

	opts := DefaultOptions()
	r, err := renderers.borrow(opts)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 1, PooledConfigurations())

	renderers.release(opts, r)
	renderers.release(opts, nil)

	r2, err := renderers.borrow(opts)
	require.NoError(t, err)
	require.NotNil(t, r2)

	_, err = renderers.borrow(opts.WithWidth(40))
	require.NoError(t, err)
	assert.Equal(t, 2, PooledConfigurations())

	ResetRenderers()
	assert.Equal(t, 0, PooledConfigurations())
}

func TestRendererPool_InvalidStyle(t *testing.T) {
	_, err := renderers.borrow(DefaultOptions().WithStyle("/nonexistent/style.json"))
	assert.Error(t, err)
}

func TestMarkdown_Concurrent(t *testing.T) {
	ResetRenderers()
	defer ResetRenderers()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := Markdown("# Title\n\nbody", DefaultOptions().WithWidth(60+i%2))
			if err != nil {
				errs <- err
				return
			}
			if !strings.Contains(out, "Title") {
				errs <- assert.AnError
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render failed: %v", err)
	}
	assert.Equal(t, 2, PooledConfigurations())
}
