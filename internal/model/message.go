package model

import (
	"encoding/json"
	"time"
)

// Sender tags who produced a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// StartConversation is the control message that asks for the initial greeting.
const StartConversation = "start_conversation"

// Message is a single chat message.
type Message struct {
	Content   string         `json:"content"`
	Sender    Sender         `json:"sender"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// ActionKind enumerates what a suggested action does in the frontend.
type ActionKind string

const (
	ActionTriggerModule ActionKind = "TRIGGER_MODULE"
	ActionShowSideboard ActionKind = "SHOW_SIDEBOARD"
)

// SuggestedAction is a button the frontend renders under a reply.
type SuggestedAction struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	Action      ActionKind `json:"action"`
	Module      string     `json:"module,omitempty"`
	ContentType string     `json:"content_type,omitempty"`
}

// ContextModule is an inline module the frontend can load next to the chat.
type ContextModule struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Action      string `json:"action,omitempty"`
}

// SideboardPayload tells the frontend what to render in the sideboard.
// Data entries are flattened next to "type" on the wire.
type SideboardPayload struct {
	Type string
	Data map[string]string
}

// MarshalJSON flattens Data into the top-level object.
func (p SideboardPayload) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(p.Data)+1)
	for k, v := range p.Data {
		out[k] = v
	}
	out["type"] = p.Type
	return json.Marshal(out)
}

// UnmarshalJSON splits "type" from the remaining string fields.
func (p *SideboardPayload) UnmarshalJSON(b []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	p.Type = raw["type"]
	delete(raw, "type")
	p.Data = raw
	return nil
}

// ChatReply is the complete answer to one chat message.
type ChatReply struct {
	Message          Message           `json:"message"`
	SuggestedActions []SuggestedAction `json:"suggested_actions"`
	ContextModules   []ContextModule   `json:"context_modules"`
	SideboardContent *SideboardPayload `json:"sideboard_content"`
}

// ChatContext is the caller-maintained context sent with each chat message.
type ChatContext struct {
	ConversationHistory []Message `json:"conversation_history,omitempty"`
}

// ChatRequest is the request body of POST /chat.
type ChatRequest struct {
	Message        string       `json:"message"`
	UserID         string       `json:"user_id,omitempty"`
	ConversationID string       `json:"conversation_id,omitempty"`
	Context        *ChatContext `json:"context,omitempty"`
}

// ChatInitRequest is the request body of POST /chat/init.
type ChatInitRequest struct {
	UserID string `json:"user_id,omitempty"`
}
