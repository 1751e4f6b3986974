package types

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// MovieID identifies a movie in the catalog. It matches the external
// movie database ID so enrichment lookups need no translation table.
type MovieID int64

// String returns the decimal form of the ID
func (x MovieID) String() string {
	return strconv.FormatInt(int64(x), 10)
}

// ParseMovieID parses a decimal movie ID
func ParseMovieID(s string) (MovieID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidArgument, "invalid movie ID", goerr.V(MovieIDKey, s))
	}
	return MovieID(v), nil
}

// SessionID identifies a chat session within a single process lifetime.
type SessionID string

// NewSessionID generates a new UUID v7 SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.Must(uuid.NewV7()).String())
}

// ChatRole represents the author of a chat turn
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)
