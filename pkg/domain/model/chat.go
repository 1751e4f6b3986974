package model

import (
	"time"

	"github.com/filmlab/cinemate/pkg/domain/types"
)

// ChatTurn is a single message of a chat session. Turns live only in
// per-session process memory and are discarded when the session ends.
type ChatTurn struct {
	Role types.ChatRole `json:"role"`
	Text string         `json:"text"`
}

// ChatSession holds the turn history of one user session. Sessions are
// isolated: a session value is never shared across users.
type ChatSession struct {
	ID        types.SessionID
	Turns     []ChatTurn
	CreatedAt time.Time
}

// NewChatSession creates an empty session with a fresh ID
func NewChatSession() *ChatSession {
	return &ChatSession{
		ID:        types.NewSessionID(),
		CreatedAt: time.Now().UTC(),
	}
}

// Append records a turn at the end of the session history
func (s *ChatSession) Append(role types.ChatRole, text string) {
	s.Turns = append(s.Turns, ChatTurn{Role: role, Text: text})
}

// DatabaseMovie is an assistant recommendation resolved against the
// catalog. Only titles that match a catalog record survive validation.
type DatabaseMovie struct {
	Title   string        `json:"title"`
	MovieID types.MovieID `json:"movie_id"`
	Reason  string        `json:"reason,omitempty"`
}

// ExternalMovie is an assistant recommendation outside the catalog
type ExternalMovie struct {
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Reason    string `json:"reason,omitempty"`
	PosterURL string `json:"poster_url,omitempty"`
}

// ChatReply is the structured assistant answer for one user message
type ChatReply struct {
	Message        string          `json:"message"`
	DatabaseMovies []DatabaseMovie `json:"database_movies,omitempty"`
	ExternalMovies []ExternalMovie `json:"external_movies,omitempty"`
	Degraded       bool            `json:"degraded,omitempty"`
}
