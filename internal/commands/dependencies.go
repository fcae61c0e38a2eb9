package commands

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/diogo/chatbot/internal/api"
	"github.com/diogo/chatbot/internal/chat"
	"github.com/diogo/chatbot/internal/config"
	"github.com/diogo/chatbot/internal/store"
	"github.com/diogo/chatbot/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(st *store.MessageStore, sender chat.Sender, opts tui.Options) error
	RunConfig(cfg config.Config) error
}

// ClientFactory builds the completion client for a configuration
type ClientFactory func(cfg config.Config, logger *zap.Logger) (api.ClientInterface, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the completion client.
	NewClient ClientFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// IsTTY reports whether stdout is a terminal; nil uses x/term.
	IsTTY func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(st *store.MessageStore, sender chat.Sender, opts tui.Options) error {
	return tui.RunChat(st, sender, opts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config) error {
	return tui.RunConfig(cfg)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: newAPIClient,
		TUI:       &DefaultTUI{},
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		IsTTY:     isStdoutTTY,
	}
}

// withDefaults fills unset fields so tests can inject only what they need
func (d *Dependencies) withDefaults() *Dependencies {
	def := NewDependencies()
	if d == nil {
		return def
	}
	out := *d
	if out.NewClient == nil {
		out.NewClient = def.NewClient
	}
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.Stdin == nil {
		out.Stdin = def.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	if out.IsTTY == nil {
		out.IsTTY = def.IsTTY
	}
	return &out
}

// newAPIClient is the production ClientFactory
func newAPIClient(cfg config.Config, logger *zap.Logger) (api.ClientInterface, error) {
	opts := []api.ClientOption{
		api.WithEndpoint(cfg.Endpoint),
		api.WithTimeout(cfg.TimeoutSeconds),
		api.WithHeader("User-Agent", "chatbot/"+Version),
		api.WithLogger(logger),
	}
	if cfg.Proxy != "" {
		opts = append(opts, api.WithProxy(cfg.Proxy))
	}
	return api.NewClient(opts...)
}
