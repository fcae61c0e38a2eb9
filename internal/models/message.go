package models

import "github.com/google/uuid"

// Message is a single chat entry. The JSON field names are the wire format
// expected by the completion endpoint.
type Message struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	IsUserMessage bool   `json:"isUserMessage"`
}

// NewID returns a fresh unique message id.
func NewID() string {
	return uuid.NewString()
}

// NewUserMessage creates a user message with a fresh id. The text is kept
// as-is, including empty input.
func NewUserMessage(text string) Message {
	return Message{
		ID:            NewID(),
		Text:          text,
		IsUserMessage: true,
	}
}

// NewAssistantMessage creates an empty assistant message with a fresh id
func NewAssistantMessage() Message {
	return Message{ID: NewID()}
}

// Role returns "user" or "assistant"
func (m Message) Role() string {
	if m.IsUserMessage {
		return RoleUser
	}
	return RoleAssistant
}

// MessagesRequest is the request body sent to the completion endpoint
type MessagesRequest struct {
	Messages []Message `json:"messages"`
}
