// Package history exports the current chat transcript. Messages live only
// for the process; export is the one way to keep them.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/chatbot/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ExportOptions configures how transcripts are exported
type ExportOptions struct {
	Format   ExportFormat
	Title    string
	Endpoint string    // recorded in the header when set
	Now      time.Time // export timestamp; zero means time.Now()
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format: ExportFormatMarkdown,
		Title:  "Chat transcript",
	}
}

// FormatForPath picks the export format from a file extension
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

func (o ExportOptions) timestamp() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// ExportToMarkdown renders messages as a Markdown document
func ExportToMarkdown(messages []models.Message, opts ExportOptions) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(opts.Title)
	sb.WriteString("\n\n")

	if opts.Endpoint != "" {
		sb.WriteString("**Endpoint:** ")
		sb.WriteString(opts.Endpoint)
		sb.WriteString("\n")
	}
	sb.WriteString("**Exported:** ")
	sb.WriteString(opts.timestamp().Format("2006-01-02 15:04:05"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		role := "Assistant"
		if msg.IsUserMessage {
			role = "User"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Text)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// exportMessage is the JSON shape of one exported message
type exportMessage struct {
	ID            string `json:"id"`
	Role          string `json:"role"`
	Text          string `json:"text"`
	IsUserMessage bool   `json:"isUserMessage"`
}

type exportTranscript struct {
	Title      string          `json:"title"`
	Endpoint   string          `json:"endpoint,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []exportMessage `json:"messages"`
}

// ExportToJSON renders messages as an indented JSON document
func ExportToJSON(messages []models.Message, opts ExportOptions) ([]byte, error) {
	export := exportTranscript{
		Title:      opts.Title,
		Endpoint:   opts.Endpoint,
		ExportedAt: opts.timestamp(),
		Messages:   make([]exportMessage, len(messages)),
	}

	for i, msg := range messages {
		export.Messages[i] = exportMessage{
			ID:            msg.ID,
			Role:          msg.Role(),
			Text:          msg.Text,
			IsUserMessage: msg.IsUserMessage,
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// Export renders messages in opts.Format
func Export(messages []models.Message, opts ExportOptions) ([]byte, error) {
	switch opts.Format {
	case ExportFormatJSON:
		return ExportToJSON(messages, opts)
	case ExportFormatMarkdown, "":
		return []byte(ExportToMarkdown(messages, opts)), nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", opts.Format)
	}
}

// WriteFile exports messages to path, choosing the format from its
// extension unless opts.Format is set
func WriteFile(path string, messages []models.Message, opts ExportOptions) error {
	if opts.Format == "" {
		opts.Format = FormatForPath(path)
	}

	data, err := Export(messages, opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
