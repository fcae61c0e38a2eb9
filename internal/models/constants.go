// Package models contains data types and constants for the chat client.
package models

// Roles used for display and export
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultEndpoint is the completion endpoint used when none is configured
const DefaultEndpoint = "http://localhost:3000/api/message"

// DefaultGreeting seeds the interactive chat
const DefaultGreeting = "Hello, how can I help you?"

// Notification text shown when a send fails
const (
	ErrorNotificationTitle       = "Error"
	ErrorNotificationDescription = "Something went wrong, Please try again."
)

// DefaultHeaders returns the headers sent with every completion request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "text/plain, */*",
		"User-Agent":   "chatbot-cli",
	}
}
