package assistant

import (
	"encoding/json"
	"strings"

	"github.com/filmlab/cinemate/pkg/domain/model"
)

type rawReply struct {
	Message        string `json:"message"`
	DatabaseMovies []struct {
		Title   string `json:"title"`
		MovieID int64  `json:"movie_id"`
		Reason  string `json:"reason"`
	} `json:"database_movies"`
	ExternalMovies []struct {
		Title  string `json:"title"`
		Year   int    `json:"year"`
		Reason string `json:"reason"`
	} `json:"external_movies"`
}

// parseReply extracts the structured JSON reply from the LLM text. When
// no parsable JSON object is present the raw text becomes the message.
// Catalog recommendations are validated by exact title match; entries
// that do not resolve are dropped, and the canonical catalog title and ID
// replace whatever the model claimed.
func (s *Service) parseReply(raw string) *model.ChatReply {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return &model.ChatReply{Message: raw}
	}

	var parsed rawReply
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return &model.ChatReply{Message: raw}
	}

	reply := &model.ChatReply{Message: parsed.Message}
	if reply.Message == "" {
		reply.Message = raw
	}

	for _, rec := range parsed.DatabaseMovies {
		matched := s.store.FindByTitle(rec.Title)
		if matched == nil {
			continue
		}
		reply.DatabaseMovies = append(reply.DatabaseMovies, model.DatabaseMovie{
			Title:   matched.Title,
			MovieID: matched.ID,
			Reason:  rec.Reason,
		})
	}
	for _, rec := range parsed.ExternalMovies {
		if rec.Title == "" {
			continue
		}
		reply.ExternalMovies = append(reply.ExternalMovies, model.ExternalMovie{
			Title:  rec.Title,
			Year:   rec.Year,
			Reason: rec.Reason,
		})
	}
	return reply
}

// DegradedReply converts a gateway failure into the user-visible degraded
// mode message. The session keeps working; repeated failures keep
// surfacing instead of being swallowed.
func DegradedReply(err error) *model.ChatReply {
	msg := "The assistant is temporarily unavailable. Please try again later."
	if err != nil {
		cause := strings.ToLower(err.Error())
		switch {
		case strings.Contains(cause, "api key") || strings.Contains(cause, "authentication") || strings.Contains(cause, "unauthorized"):
			msg = "The assistant is unavailable: the configured API key was rejected."
		case strings.Contains(cause, "rate limit") || strings.Contains(cause, "quota"):
			msg = "The assistant hit its rate limit. Please try again in a moment."
		}
	}
	return &model.ChatReply{Message: msg, Degraded: true}
}
