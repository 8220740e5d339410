package models

import (
	"encoding/json"
	"time"
)

// ChatMessage is one transcript entry. Messages are append-only; ordering in
// a transcript is arrival order, never sender timestamp (clock skew across
// clients must not reorder history).
type ChatMessage struct {
	ID         int       `json:"id,omitempty"`
	Sender     string    `json:"sender"`
	TargetRoom string    `json:"target_room"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
}

func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         int    `json:"id"`
		Sender     string `json:"sender"`
		TargetRoom string `json:"target_room"`
		Message    string `json:"message"`
		Timestamp  string `json:"timestamp"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.ID = raw.ID
	m.Sender = raw.Sender
	m.TargetRoom = raw.TargetRoom
	m.Message = raw.Message
	m.Timestamp = ParseTimestamp(raw.Timestamp)
	return nil
}
