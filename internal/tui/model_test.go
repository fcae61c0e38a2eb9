package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/chatbot/internal/api"
	"github.com/diogo/chatbot/internal/chat"
	apierrors "github.com/diogo/chatbot/internal/errors"
	"github.com/diogo/chatbot/internal/models"
	"github.com/diogo/chatbot/internal/render"
	"github.com/diogo/chatbot/internal/store"
)

func newTestModel(t *testing.T, client *api.MockClient) Model {
	t.Helper()
	st := store.NewMessageStore(models.Message{ID: "greeting", Text: models.DefaultGreeting})
	m := NewChatModel(st, client, Options{
		Endpoint: "http://localhost:3000/api/message",
		Render:   render.DefaultOptions().WithHyperlinks(false),
	})
	t.Cleanup(m.shutdown)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// drainChanges applies the latest pending store snapshot, if any
func drainChanges(t *testing.T, m Model) Model {
	t.Helper()
	select {
	case s := <-m.changes:
		m, _ = update(t, m, storeChangedMsg(s))
	default:
	}
	return m
}

func TestNewChatModel(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})

	if !m.ready {
		t.Fatal("model should be ready after WindowSizeMsg")
	}
	if len(m.messages) != 1 || m.messages[0].Text != models.DefaultGreeting {
		t.Errorf("messages = %+v, want greeting", m.messages)
	}
	if !m.textarea.Focused() {
		t.Error("input should start focused")
	}
	if m.opts.LinkColor == "" {
		t.Error("link color should come from the theme")
	}
}

func TestView_ShowsGreetingAndEndpoint(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	view := m.View()

	for _, want := range []string{"✦ Chat", "localhost:3000", "Hello, how can I help you?", "Enter"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
}

func TestView_NotReady(t *testing.T) {
	st := store.NewMessageStore()
	m := NewChatModel(st, &api.MockClient{}, Options{})
	defer m.shutdown()

	if !strings.Contains(m.View(), "Initializing") {
		t.Error("view before sizing should show initializing")
	}
}

func TestView_WelcomeWhenEmpty(t *testing.T) {
	st := store.NewMessageStore()
	m := NewChatModel(st, &api.MockClient{}, Options{})
	defer m.shutdown()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	if !strings.Contains(m.View(), "Start a conversation") {
		t.Error("empty transcript should show the welcome screen")
	}
}

func TestEnter_StartsSubmission(t *testing.T) {
	m := newTestModel(t, &api.MockClient{Chunks: [][]byte{[]byte("hey")}})
	m.textarea.SetValue("hi")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should return a command")
	}
	if !m.sending {
		t.Error("model should be sending")
	}
	if m.textarea.Focused() {
		t.Error("input should be disabled while sending")
	}
	if m.textarea.Value() != "hi" {
		t.Error("input is cleared only after the reply completes")
	}

	// Further enters are ignored while in flight
	m2, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !m2.sending {
		t.Error("enter while sending should be ignored")
	}
}

func TestSubmit_SuccessFlow(t *testing.T) {
	client := &api.MockClient{Chunks: [][]byte{[]byte("He"), []byte("llo "), []byte("[docs](http://x)")}}
	m := newTestModel(t, client)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	done, ok := m.submit("hi")().(submitDoneMsg)
	if !ok {
		t.Fatal("submit should produce submitDoneMsg")
	}
	if done.err != nil {
		t.Fatalf("submit error = %v", done.err)
	}

	m = drainChanges(t, m)
	if len(m.messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(m.messages))
	}
	if m.updating {
		t.Error("updating flag should be cleared")
	}

	m, cmd := update(t, m, done)
	if m.sending {
		t.Error("sending should be cleared")
	}
	if m.textarea.Value() != "" {
		t.Errorf("input should be cleared, got %q", m.textarea.Value())
	}
	if cmd == nil {
		t.Fatal("expected refocus command")
	}

	m, _ = update(t, m, focusInputMsg{})
	if !m.textarea.Focused() {
		t.Error("input should be refocused")
	}

	view := m.View()
	if !strings.Contains(view, "Hello") || !strings.Contains(view, "docs (http://x)") {
		t.Errorf("view should show the rendered reply, got:\n%s", view)
	}
}

func TestSubmit_FailureFlow(t *testing.T) {
	client := &api.MockClient{SendErr: apierrors.NewAPIErrorWithBody(500, "http://x", "boom", "")}
	m := newTestModel(t, client)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	done := m.submit("hi")().(submitDoneMsg)
	if !apierrors.IsRequestFailed(done.err) {
		t.Fatalf("expected request failure, got %v", done.err)
	}

	m = drainChanges(t, m)
	if len(m.messages) != 1 {
		t.Errorf("user message should be rolled back, got %d messages", len(m.messages))
	}

	note, ok := listenForNotifications(m.notifications)().(notificationMsg)
	if !ok {
		t.Fatal("expected a notification")
	}
	m, cmd := update(t, m, note)
	if cmd == nil {
		t.Error("notification should schedule its dismissal")
	}
	if m.toast == nil {
		t.Fatal("toast should be shown")
	}

	view := m.View()
	for _, want := range []string{"Error", "Something went wrong, Please try again.", "HTTP Status: 500"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}

	m, _ = update(t, m, done)
	if m.sending {
		t.Error("sending should be cleared")
	}
	if m.textarea.Value() != "hi" {
		t.Errorf("failed text should stay in the input, got %q", m.textarea.Value())
	}
	if !m.textarea.Focused() {
		t.Error("input should be focused again")
	}
	if !strings.Contains(m.feedback, "retry") {
		t.Errorf("feedback = %q, want a retry hint", m.feedback)
	}
}

func TestSubmit_ClosedClientKeepsInput(t *testing.T) {
	client := &api.MockClient{SendErr: apierrors.ErrClientClosed}
	m := newTestModel(t, client)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	done := m.submit("hi")().(submitDoneMsg)
	m = drainChanges(t, m)
	m, _ = update(t, m, done)

	if len(m.messages) != 1 {
		t.Errorf("user message should be rolled back, got %d messages", len(m.messages))
	}
	if m.textarea.Value() != "hi" {
		t.Errorf("text should stay in the input, got %q", m.textarea.Value())
	}
	if m.feedback != "Not sent. Press Enter to retry" {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestSubmit_UnexpectedErrorReported(t *testing.T) {
	client := &api.MockClient{SendErr: errors.New("boom")}
	m := newTestModel(t, client)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	done := m.submit("hi")().(submitDoneMsg)
	m = drainChanges(t, m)
	m, _ = update(t, m, done)

	if m.textarea.Value() != "hi" {
		t.Errorf("text should stay in the input, got %q", m.textarea.Value())
	}
	if m.feedback != "Send failed: boom" {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestSubmit_InterruptedFlow(t *testing.T) {
	client := &api.MockClient{Chunks: [][]byte{[]byte("par")}, ReadErr: errors.New("reset")}
	m := newTestModel(t, client)
	m.textarea.SetValue("hi")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	done := m.submit("hi")().(submitDoneMsg)
	m = drainChanges(t, m)
	m, _ = update(t, m, done)

	if len(m.messages) != 3 || m.messages[2].Text != "par" {
		t.Errorf("partial reply should be kept, got %+v", m.messages)
	}
	if m.textarea.Value() != "" {
		t.Error("input should be cleared after an interrupted reply")
	}
	if m.feedback == "" {
		t.Error("interruption should be reported")
	}
}

func TestToast_Dismiss(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	m, _ = update(t, m, notificationMsg(chat.Notification{Title: "Error", Description: "d"}))
	id := m.toast.id

	m, _ = update(t, m, dismissToastMsg{id: id + 1})
	if m.toast == nil {
		t.Error("stale dismiss should not clear a newer toast")
	}

	m, _ = update(t, m, dismissToastMsg{id: id})
	if m.toast != nil {
		t.Error("toast should be dismissed")
	}
}

func TestAltEnter_InsertsNewline(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	m.textarea.SetValue("line one")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	if m.sending {
		t.Error("alt+enter must not send")
	}
	if got := m.textarea.Value(); got != "line one\nx" {
		t.Errorf("value = %q, want %q", got, "line one\nx")
	}
}

func TestCommands(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		for _, input := range []string{"/quit", " /exit "} {
			m := newTestModel(t, &api.MockClient{})
			m.textarea.SetValue(input)
			_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
			if cmd == nil {
				t.Fatalf("%q should quit", input)
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("%q should return tea.Quit", input)
			}
			if m.ctx.Err() == nil {
				t.Error("quitting should cancel in-flight work")
			}
		}
	})

	t.Run("export", func(t *testing.T) {
		client := &api.MockClient{}
		m := newTestModel(t, client)
		path := filepath.Join(t.TempDir(), "chat.md")

		m.textarea.SetValue("/export " + path)
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		if m.sending || client.SendCalls != 0 {
			t.Error("export should not send a message")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("export file not written: %v", err)
		}
		if !strings.Contains(string(data), models.DefaultGreeting) {
			t.Error("export should contain the transcript")
		}
		if !strings.Contains(m.feedback, path) {
			t.Errorf("feedback = %q", m.feedback)
		}
	})

	t.Run("export without path", func(t *testing.T) {
		m := newTestModel(t, &api.MockClient{})
		m.textarea.SetValue("/export")
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		if !strings.Contains(m.feedback, "Usage") {
			t.Errorf("feedback = %q, want usage", m.feedback)
		}
	})
}

func TestEsc_Quits(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestLoadingAnimation(t *testing.T) {
	m := newTestModel(t, &api.MockClient{})
	m.sending = true
	if !strings.Contains(m.renderLoadingAnimation(), "Waiting for reply") {
		t.Error("expected waiting label")
	}
	m.updating = true
	if !strings.Contains(m.renderLoadingAnimation(), "Receiving reply") {
		t.Error("expected receiving label")
	}

	m, cmd := update(t, m, animationTickMsg{})
	if m.animationFrame != 1 || cmd == nil {
		t.Error("animation should advance while busy")
	}
}
