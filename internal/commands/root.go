// Package commands provides CLI commands for chatbot.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/chatbot/internal/config"
	"github.com/diogo/chatbot/internal/logging"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalOptions holds flags shared by every command
type globalOptions struct {
	endpoint string
	verbose  bool
}

// rootOptions holds the one-shot flags
type rootOptions struct {
	output string
	file   string
	raw    bool
}

// NewRootCmd creates the root command with its subcommands
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	global := &globalOptions{}
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chatbot [message]",
		Short: "Terminal chat client for a streaming completion endpoint",
		Long: `chatbot sends messages to a completion endpoint and shows the reply
as it streams in. Links written as [label](url) become terminal hyperlinks.

Examples:
  chatbot chat                          Start interactive chat
  chatbot config                        Configure settings
  chatbot "What is Go?"                 Send a single message
  chatbot -f prompt.md                  Read the message from a file
  cat prompt.md | chatbot               Read the message from stdin
  chatbot "Hello" -o reply.md           Save the reply to a file
  chatbot --endpoint http://host/api/message "Hi"`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "chatbot %s (built %s)\n", Version, BuildTime)
				return nil
			}

			text, ok, err := readInput(args, opts.file, deps.Stdin)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runQuery(ctx, deps, global, opts, text)
		},
	}

	cmd.PersistentFlags().StringVar(&global.endpoint, "endpoint", "", "Completion endpoint URL (overrides config)")
	cmd.PersistentFlags().BoolVar(&global.verbose, "verbose", false, "Enable debug logging")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read message from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Stream the reply text verbatim as it arrives")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, global))
	cmd.AddCommand(NewConfigCmd(deps))

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)
	return cmd
}

// rootCmd represents the base command
var rootCmd = NewRootCmd(nil)

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}

// readInput picks the message from --file, piped stdin or the argument, in
// that order. Empty piped input falls through to the argument. ok is false
// when there is no input at all.
func readInput(args []string, file string, stdin io.Reader) (text string, ok bool, err error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if len(data) > 0 {
			return string(data), true, nil
		}
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// hasPipedInput reports whether r is a non-terminal stdin or any other reader
func hasPipedInput(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// loadConfig loads the configuration and applies global flags
func loadConfig(global *globalOptions) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if global != nil {
		if global.endpoint != "" {
			cfg.Endpoint = global.endpoint
		}
		if global.verbose {
			cfg.Verbose = true
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger opens the log file for cfg
func newLogger(cfg config.Config) (*zap.Logger, func(), error) {
	path, err := config.GetLogPath(cfg)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(logging.Options{Path: path, Verbose: cfg.Verbose})
}

// isCanceled reports whether err comes from an interrupted context
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// trimMessage removes surrounding whitespace, which file and stdin input
// usually carry as a trailing newline
func trimMessage(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("message cannot be empty")
	}
	return text, nil
}
