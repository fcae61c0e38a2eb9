package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diogo/chatbot/internal/models"
)

func sampleMessages() []models.Message {
	return []models.Message{
		{ID: "g", Text: "Hello, how can I help you?"},
		{ID: "u1", Text: "What is [Go](https://go.dev)?", IsUserMessage: true},
		{ID: "a1", Text: "A programming language."},
	}
}

var fixedTime = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func TestExportToMarkdown(t *testing.T) {
	opts := DefaultExportOptions()
	opts.Endpoint = "http://localhost:3000/api/message"
	opts.Now = fixedTime

	md := ExportToMarkdown(sampleMessages(), opts)

	checks := []string{
		"# Chat transcript",
		"**Endpoint:** http://localhost:3000/api/message",
		"**Exported:** 2024-05-01 10:30:00",
		"**Messages:** 3",
		"## User\n\nWhat is [Go](https://go.dev)?",
		"## Assistant\n\nA programming language.",
	}
	for _, want := range checks {
		if !strings.Contains(md, want) {
			t.Errorf("markdown should contain %q, got:\n%s", want, md)
		}
	}

	if got := strings.Count(md, "\n---\n"); got != 3 {
		t.Errorf("separator count = %d, want 3 (header + 2 between messages)", got)
	}
	if strings.Index(md, "Hello, how") > strings.Index(md, "What is") {
		t.Error("messages should keep store order")
	}
}

func TestExportToMarkdown_Empty(t *testing.T) {
	md := ExportToMarkdown(nil, DefaultExportOptions())
	if !strings.Contains(md, "**Messages:** 0") {
		t.Errorf("expected zero message count, got:\n%s", md)
	}
	if strings.Contains(md, "## ") {
		t.Error("empty transcript should have no message headers")
	}
}

func TestExportToJSON(t *testing.T) {
	opts := DefaultExportOptions()
	opts.Now = fixedTime

	data, err := ExportToJSON(sampleMessages(), opts)
	if err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	var got exportTranscript
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got.Title != "Chat transcript" {
		t.Errorf("Title = %s", got.Title)
	}
	if !got.ExportedAt.Equal(fixedTime) {
		t.Errorf("ExportedAt = %v, want %v", got.ExportedAt, fixedTime)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("len(Messages) = %d, want 3", len(got.Messages))
	}
	if got.Messages[1].Role != "user" || !got.Messages[1].IsUserMessage {
		t.Errorf("Messages[1] = %+v, want user message", got.Messages[1])
	}
	if got.Messages[2].Role != "assistant" {
		t.Errorf("Messages[2].Role = %s, want assistant", got.Messages[2].Role)
	}
	if strings.Contains(string(data), `"endpoint"`) {
		t.Error("endpoint should be omitted when unset")
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export(sampleMessages(), ExportOptions{Format: "xml"})
	if err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want ExportFormat
	}{
		{"chat.json", ExportFormatJSON},
		{"CHAT.JSON", ExportFormatJSON},
		{"chat.md", ExportFormatMarkdown},
		{"chat", ExportFormatMarkdown},
	}
	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	mdPath := filepath.Join(dir, "out", "chat.md")
	if err := WriteFile(mdPath, sampleMessages(), ExportOptions{Title: "t"}); err != nil {
		t.Fatalf("WriteFile(md) error = %v", err)
	}
	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# t") {
		t.Errorf("markdown file starts with %q", string(data[:10]))
	}

	jsonPath := filepath.Join(dir, "chat.json")
	if err := WriteFile(jsonPath, sampleMessages(), ExportOptions{Title: "t"}); err != nil {
		t.Fatalf("WriteFile(json) error = %v", err)
	}
	data, _ = os.ReadFile(jsonPath)
	if !json.Valid(data) {
		t.Error("json export should be valid JSON")
	}
}
