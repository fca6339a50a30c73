package models

import "time"

// Sender identifies who authored a chat message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is a single entry in the chat log
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// CharacterID records which character produced the message.
	// Empty on user messages.
	CharacterID string `json:"character_id,omitempty"`
}
