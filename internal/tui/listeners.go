package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/chatbot/internal/chat"
	"github.com/diogo/chatbot/internal/store"
)

// storeChangedMsg carries the latest store snapshot into the event loop
type storeChangedMsg store.Snapshot

// notificationMsg carries a submitter notification into the event loop
type notificationMsg chat.Notification

// forwardSnapshots returns a store listener that keeps only the newest
// snapshot in ch. It never blocks the store.
func forwardSnapshots(ch chan store.Snapshot) store.Listener {
	return func(s store.Snapshot) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			// Full: discard the stale snapshot and retry
			select {
			case <-ch:
			default:
			}
		}
	}
}

// forwardNotifications returns a notifier that hands notifications to ch,
// dropping them if the UI is not keeping up
func forwardNotifications(ch chan chat.Notification) chat.Notifier {
	return chat.NotifierFunc(func(n chat.Notification) {
		select {
		case ch <- n:
		default:
		}
	})
}

// listenForChanges waits for the next store snapshot
func listenForChanges(ch <-chan store.Snapshot) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return storeChangedMsg(s)
	}
}

// listenForNotifications waits for the next notification
func listenForNotifications(ch <-chan chat.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}
