package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/gemchat/internal/gemchat"
)

// Message represents a single recorded turn in a session
type Message struct {
	Role      string    `json:"role"`              // "user" or "model"
	Content   string    `json:"content"`           // Message content
	Outcome   string    `json:"outcome,omitempty"` // Outcome kind for model turns
	Timestamp time.Time `json:"timestamp"`
}

// Session represents a conversation session
type Session struct {
	ID        string    `json:"id"`     // UUID v4 (e.g., "550e8400-e29b-41d4-a716-446655440000")
	Name      string    `json:"name"`   // Optional session name (empty by default)
	Model     string    `json:"model"`  // provider:model string
	Prompt    string    `json:"prompt"` // Prompt template name (reference info, can be empty)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// NewSession creates a new session for the given model
func NewSession(model string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// AddTurn records a turn. outcome is the zero value for user turns.
func (s *Session) AddTurn(turn gemchat.Turn, outcome gemchat.OutcomeKind) {
	msg := Message{
		Role:      turn.Role,
		Content:   turn.Content,
		Timestamp: time.Now(),
	}
	if outcome != 0 {
		msg.Outcome = outcome.String()
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = msg.Timestamp
}

// Turns returns the recorded history as conversation turns
func (s *Session) Turns() []gemchat.Turn {
	turns := make([]gemchat.Turn, 0, len(s.Messages))
	for _, msg := range s.Messages {
		turns = append(turns, gemchat.Turn{Role: msg.Role, Content: msg.Content})
	}
	return turns
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}

// GetDisplayName returns the name if set, otherwise the short ID.
func (s *Session) GetDisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.GetShortID()
}

// MessageCount returns the number of messages in the session
func (s *Session) MessageCount() int {
	return len(s.Messages)
}
