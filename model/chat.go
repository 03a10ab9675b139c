package model

import "time"

// ChatMessage is a single message posted to an event's chat.
type ChatMessage struct {
	ID        string      `json:"id"`
	EventID   string      `json:"event_id"`
	UserID    string      `json:"user_id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	User      UserSummary `json:"user"`
}
