package domain

import (
	"time"

	"github.com/google/uuid"
)

// Command names delivered by the host trigger. Only one is meaningful
const (
	CommandModifyYouTubeLink = "modify_youtube_link"
)

// TriggerEvent is a single hotkey-style trigger received on the HTTP surface
type TriggerEvent struct {
	ID         uuid.UUID `json:"id"`
	Command    string    `json:"command"`
	ReceivedAt time.Time `json:"received_at"`
}

// NewTriggerEvent creates a TriggerEvent with a generated ID
func NewTriggerEvent(command string) *TriggerEvent {
	return &TriggerEvent{
		ID:         uuid.New(),
		Command:    command,
		ReceivedAt: time.Now(),
	}
}

// NavigationRecord remembers one completed tab navigation
type NavigationRecord struct {
	ID   uuid.UUID `json:"id"`
	From string    `json:"from"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}

// NewNavigationRecord creates a NavigationRecord with a generated ID
func NewNavigationRecord(from, to string) NavigationRecord {
	return NavigationRecord{
		ID:   uuid.New(),
		From: from,
		To:   to,
		At:   time.Now(),
	}
}
