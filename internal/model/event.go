package model

import (
	"time"
)

// ChatEvent is the audit record published for every chat reply.
type ChatEvent struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Engine         string    `json:"engine"`
	Intent         string    `json:"intent,omitempty"`
	Fallback       bool      `json:"fallback,omitempty"`
	ActionCount    int       `json:"action_count"`
	ModuleCount    int       `json:"module_count"`
	Sideboard      bool      `json:"sideboard,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
