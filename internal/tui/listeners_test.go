package tui

import (
	"testing"

	"github.com/diogo/chatbot/internal/chat"
	"github.com/diogo/chatbot/internal/models"
	"github.com/diogo/chatbot/internal/store"
)

func TestForwardSnapshots_KeepsNewest(t *testing.T) {
	ch := make(chan store.Snapshot, 1)
	listener := forwardSnapshots(ch)

	for i := 0; i < 3; i++ {
		listener(store.Snapshot{Messages: make([]models.Message, i)})
	}

	if len(ch) != 1 {
		t.Fatalf("channel holds %d snapshots, want 1", len(ch))
	}
	got := <-ch
	if len(got.Messages) != 2 {
		t.Errorf("kept snapshot with %d messages, want the newest (2)", len(got.Messages))
	}
}

func TestListenForChanges(t *testing.T) {
	ch := make(chan store.Snapshot, 1)
	ch <- store.Snapshot{IsMessageUpdating: true}

	msg, ok := listenForChanges(ch)().(storeChangedMsg)
	if !ok || !msg.IsMessageUpdating {
		t.Errorf("listenForChanges() = %#v", msg)
	}

	close(ch)
	if got := listenForChanges(ch)(); got != nil {
		t.Errorf("closed channel should yield nil, got %#v", got)
	}
}

func TestForwardNotifications_DropsWhenFull(t *testing.T) {
	ch := make(chan chat.Notification, 1)
	n := forwardNotifications(ch)

	n.Notify(chat.Notification{Title: "first"})
	n.Notify(chat.Notification{Title: "second"})

	if got := (<-ch).Title; got != "first" {
		t.Errorf("Title = %s, want first", got)
	}
	if len(ch) != 0 {
		t.Error("overflow should be dropped")
	}
}
