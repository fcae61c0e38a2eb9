package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/chatbot/internal/chat"
	"github.com/diogo/chatbot/internal/config"
	apierrors "github.com/diogo/chatbot/internal/errors"
	"github.com/diogo/chatbot/internal/render"
	"github.com/diogo/chatbot/internal/store"
	"github.com/diogo/chatbot/internal/tui"
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginBottom(0)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// streamWriter copies the growing assistant reply to w as it arrives
type streamWriter struct {
	mu      sync.Mutex
	w       io.Writer
	written int
	bytes   int
	onChunk func(total int)
}

// listener returns a store listener that writes only the new text of the
// last assistant message
func (s *streamWriter) listener() store.Listener {
	return func(snap store.Snapshot) {
		if len(snap.Messages) == 0 {
			return
		}
		last := snap.Messages[len(snap.Messages)-1]
		if last.IsUserMessage {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if len(last.Text) <= s.written {
			return
		}
		delta := last.Text[s.written:]
		s.written = len(last.Text)
		s.bytes += len(delta)
		if s.w != nil {
			_, _ = io.WriteString(s.w, delta)
		}
		if s.onChunk != nil {
			s.onChunk(s.bytes)
		}
	}
}

// runQuery sends a single message and prints the reply
func runQuery(ctx context.Context, deps *Dependencies, global *globalOptions, opts *rootOptions, text string) error {
	text, err := trimMessage(text)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}

	logger, cleanup, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	mode := selectOutputMode(opts.raw, deps.IsTTY())

	st := store.NewMessageStore()
	stream := &streamWriter{}

	var spin *spinner
	switch mode {
	case outputRaw:
		if opts.output == "" {
			stream.w = deps.Stdout
		}
	case outputDecorated:
		spin = newSpinner(deps.Stderr, "Waiting for reply")
		stream.onChunk = func(total int) {
			spin.setMessage(fmt.Sprintf("Receiving reply (%s)", formatBytes(total)))
		}
		spin.start()
	}
	unsubscribe := st.Subscribe(stream.listener())
	defer unsubscribe()

	submitter := chat.NewSubmitter(st, client, chat.WithLogger(logger))

	logger.Debug("one-shot query", zap.String("endpoint", client.Endpoint()), zap.String("output", mode.String()))
	startTime := time.Now()
	result, err := submitter.Submit(ctx, text)
	requestDuration := time.Since(startTime)

	if err != nil && !apierrors.IsStreamError(err) {
		if spin != nil {
			spin.stopWithError()
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Request failed"))
		}
		return fmt.Errorf("request failed: %w", err)
	}

	reply := result.AssistantMessage.Text

	if err != nil {
		// Interrupted: keep what arrived and still report the failure
		if spin != nil {
			spin.stopWithError()
		}
		if isCanceled(err) {
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Interrupted"))
		} else {
			fmt.Fprintln(deps.Stderr, formatErrorMessage(err, "Reply interrupted"))
		}
	} else if spin != nil {
		spin.stopWithSuccess("Done")
	}

	if cfg.Verbose && mode == outputDecorated {
		fmt.Fprintf(deps.Stderr, "[verbose] Request took %s, %d chunks, %s\n",
			requestDuration.Round(time.Millisecond), result.Chunks, formatBytes(result.Bytes))
	}

	if writeErr := writeReply(deps, cfg, opts, mode, reply); writeErr != nil {
		return writeErr
	}

	if err != nil {
		return fmt.Errorf("reply interrupted: %w", err)
	}
	return nil
}

// outputMode selects how a one-shot reply reaches stdout
type outputMode int

const (
	// outputDecorated shows a spinner and renders the reply in a bubble
	outputDecorated outputMode = iota
	// outputPlain prints the finished reply with links as "label (url)"
	outputPlain
	// outputRaw streams the reply text verbatim as it arrives
	outputRaw
)

func (m outputMode) String() string {
	switch m {
	case outputPlain:
		return "plain"
	case outputRaw:
		return "raw"
	default:
		return "decorated"
	}
}

// selectOutputMode picks raw when asked, plain when stdout is piped
func selectOutputMode(raw, tty bool) outputMode {
	switch {
	case raw:
		return outputRaw
	case !tty:
		return outputPlain
	default:
		return outputDecorated
	}
}

// writeReply sends the finished reply to a file, or renders it to stdout
func writeReply(deps *Dependencies, cfg config.Config, opts *rootOptions, mode outputMode, reply string) error {
	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if mode == outputDecorated {
			successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
				fmt.Sprintf("✓ Reply saved to %s", opts.output),
			)
			fmt.Fprintln(deps.Stderr, successMsg)
		}
		return nil
	}

	switch mode {
	case outputRaw:
		// Already streamed; end on a newline for the shell prompt
		if reply != "" && !strings.HasSuffix(reply, "\n") {
			fmt.Fprintln(deps.Stdout)
		}
		return nil
	case outputPlain:
		plain := render.Plain(reply)
		if plain == "" {
			return nil
		}
		if !strings.HasSuffix(plain, "\n") {
			plain += "\n"
		}
		_, err := io.WriteString(deps.Stdout, plain)
		return err
	}

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(reply); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorError).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(deps.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(deps.Stderr, clipMsg)
		}
	}

	termWidth := getTerminalWidth()
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	renderOpts := render.OptionsFromConfig(cfg).
		WithWidth(contentWidth).
		WithHyperlinks(true).
		WithLinkColor(string(tui.ApplyTheme(cfg.TUITheme).Link))
	rendered := strings.TrimRight(render.Message(reply, renderOpts), "\n")

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ Assistant"))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

// formatBytes renders a byte count for progress messages
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}
	return tui.FormatError(fmt.Errorf("%s: %w", context, err))
}
