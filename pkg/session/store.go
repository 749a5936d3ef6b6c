// FILE: pkg/session/store.go
// PURPOSE: Session state contracts. Turns are append-only; LastRequestType
// is the single read-modify-write field and every backend serializes writes
// per session key.

package session

import (
	"time"

	"ai-concierge-be/pkg/query"
)

// MaxTurns bounds the per-session turn list. Oldest turns are evicted first.
const MaxTurns = 20

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one utterance in a session transcript.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Clarification is the mid-clarification marker: the session asked a
// disambiguating question and is awaiting the user's choice.
type Clarification struct {
	Group        string         `json:"group"`
	Category     query.Category `json:"category"`
	PendingQuery string         `json:"pending_query"`
	Retries      int            `json:"retries"`
}

// State is the full per-session record.
type State struct {
	ID              string            `json:"id"`
	Turns           []Turn            `json:"turns"`
	LastRequestType query.RequestType `json:"last_request_type"`
	PinnedLanguage  query.Language    `json:"pinned_language"`
	Clarification   *Clarification    `json:"clarification,omitempty"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Store is the narrow keyed interface the router and service depend on.
// Implementations must serialize writes per session key; different sessions
// proceed fully in parallel.
type Store interface {
	// Get returns a snapshot of the session state, or a fresh empty state
	// when the session is unknown. The snapshot is the caller's to keep;
	// later writes never mutate it.
	Get(sessionID string) (*State, error)
	RecordTurn(sessionID string, turn Turn) error
	SetLastRequestType(sessionID string, rt query.RequestType) error
	SetPinnedLanguage(sessionID string, lang query.Language) error
	SetClarification(sessionID string, c *Clarification) error
	// Clear removes the session entirely (explicit session end).
	Clear(sessionID string) error
}

func newState(sessionID string) *State {
	return &State{ID: sessionID, UpdatedAt: time.Now()}
}

func appendTurn(s *State, turn Turn) {
	s.Turns = append(s.Turns, turn)
	if len(s.Turns) > MaxTurns {
		s.Turns = s.Turns[len(s.Turns)-MaxTurns:]
	}
	s.UpdatedAt = time.Now()
}
