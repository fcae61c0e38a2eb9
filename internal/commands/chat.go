package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatbot/internal/models"
	"github.com/diogo/chatbot/internal/render"
	"github.com/diogo/chatbot/internal/store"
	"github.com/diogo/chatbot/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, global *globalOptions) *cobra.Command {
	deps = deps.withDefaults()
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Enter sends the message; Alt+Enter or Ctrl+J inserts a newline.
Type /export <file> to save the transcript, /quit or press Esc to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps, global)
		},
	}
}

func runChat(deps *Dependencies, global *globalOptions) error {
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

	var initial []models.Message
	if cfg.Greeting != "" {
		initial = append(initial, models.Message{ID: models.NewID(), Text: cfg.Greeting})
	}
	st := store.NewMessageStore(initial...)

	logger.Info("chat started",
		zap.String("endpoint", client.Endpoint()),
		zap.String("renderer", cfg.Renderer))

	return deps.TUI.RunChat(st, client, tui.Options{
		Endpoint: client.Endpoint(),
		Render:   render.OptionsFromConfig(cfg),
		Theme:    cfg.TUITheme,
		Logger:   logger,
	})
}
