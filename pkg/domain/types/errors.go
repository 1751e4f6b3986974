package types

import "github.com/m-mizutani/goerr/v2"

// Error taxonomy of the service. Callers branch with errors.Is; the HTTP
// layer maps each class to a status code.
var (
	// ErrDataLoad is fatal at startup: the process cannot serve without a
	// valid catalog and similarity matrix.
	ErrDataLoad = goerr.New("failed to load data")

	// ErrUnknownMovie is returned when a movie ID is not in the catalog.
	ErrUnknownMovie = goerr.New("unknown movie")

	// ErrInvalidArgument is returned for malformed request parameters.
	ErrInvalidArgument = goerr.New("invalid argument")

	// ErrUnavailable marks a failed external metadata lookup. It is always
	// absorbed at the boundary and converted into a degraded response.
	ErrUnavailable = goerr.New("external metadata unavailable")

	// ErrGateway marks a failed LLM call (timeout, auth, quota).
	ErrGateway = goerr.New("assistant gateway error")

	// ErrConfigMissing disables only the dependent feature, e.g. chat
	// without an LLM API key.
	ErrConfigMissing = goerr.New("required configuration missing")

	// ErrSessionNotFound is returned when a chat session ID is unknown.
	ErrSessionNotFound = goerr.New("chat session not found")
)

// Context keys for error values
const (
	MovieIDKey   = "movie_id"
	SessionIDKey = "session_id"
	PathKey      = "path"
)
