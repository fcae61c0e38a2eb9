// Package config handles user configuration for chatbot.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"

	"github.com/diogo/chatbot/internal/models"
)

// Defaults
const (
	DefaultEndpoint       = models.DefaultEndpoint
	DefaultGreeting       = models.DefaultGreeting
	DefaultTimeoutSeconds = 0
	DefaultRenderer       = "lite"
	DefaultTUITheme       = "tokyonight"

	// HomeEnv relocates the configuration directory
	HomeEnv = "CHATBOT_HOME"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // glamour style name or path to JSON style
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the completion URL messages are posted to
	Endpoint string `json:"endpoint" env:"CHATBOT_ENDPOINT" validate:"required,url"`
	// TimeoutSeconds bounds a whole request including the streamed body.
	// Zero means no limit.
	TimeoutSeconds int    `json:"timeout_seconds" env:"CHATBOT_TIMEOUT_SECONDS" validate:"gte=0"`
	Proxy          string `json:"proxy,omitempty" env:"CHATBOT_PROXY" validate:"omitempty,url"`
	// Greeting seeds the interactive chat; empty disables it
	Greeting        string         `json:"greeting"`
	Renderer        string         `json:"renderer" validate:"oneof=lite markdown"`
	TUITheme        string         `json:"tui_theme,omitempty" validate:"omitempty,oneof=tokyonight catppuccin nord dracula"`
	Verbose         bool           `json:"verbose" env:"CHATBOT_VERBOSE"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	LogFile         string         `json:"log_file,omitempty" env:"CHATBOT_LOG_FILE"`
	Markdown        MarkdownConfig `json:"markdown"`
}

var validate = validator.New()

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:       DefaultEndpoint,
		TimeoutSeconds: DefaultTimeoutSeconds,
		Greeting:       DefaultGreeting,
		Renderer:       DefaultRenderer,
		TUITheme:       DefaultTUITheme,
		Markdown:       DefaultMarkdownConfig(),
	}
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatbot"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path, defaulting to chatbot.log in the
// config directory
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "chatbot.log"), nil
}

// LoadConfig loads the configuration from disk, applies environment
// overrides and validates the result
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return cfg, nil
}

// LoadFile reads the configuration file over the defaults, without
// environment overrides or validation
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig validates and saves the configuration to disk
func SaveConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// keys lists the settable config keys
var keys = []string{
	"copy_to_clipboard",
	"endpoint",
	"greeting",
	"log_file",
	"markdown.enable_emoji",
	"markdown.preserve_newlines",
	"markdown.style",
	"proxy",
	"renderer",
	"timeout_seconds",
	"tui_theme",
	"verbose",
}

// Set assigns a value by its JSON key, e.g. "endpoint" or "markdown.style".
// The result is validated; on error c is unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	var err error

	switch key {
	case "endpoint":
		next.Endpoint = value
	case "proxy":
		next.Proxy = value
	case "greeting":
		next.Greeting = value
	case "renderer":
		next.Renderer = value
	case "tui_theme":
		next.TUITheme = value
	case "log_file":
		next.LogFile = value
	case "markdown.style":
		next.Markdown.Style = value
	case "timeout_seconds":
		next.TimeoutSeconds, err = parseInt(value)
	case "verbose":
		next.Verbose, err = parseBool(value)
	case "copy_to_clipboard":
		next.CopyToClipboard, err = parseBool(value)
	case "markdown.enable_emoji":
		next.Markdown.EnableEmoji, err = parseBool(value)
	case "markdown.preserve_newlines":
		next.Markdown.PreserveNewLines, err = parseBool(value)
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(keys, ", "))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Keys returns the settable config keys in sorted order
func Keys() []string {
	return append([]string(nil), keys...)
}

func parseInt(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", v)
	}
	return n, nil
}

func parseBool(v string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("expected true or false, got %q", v)
	}
	return b, nil
}
