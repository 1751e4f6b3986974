package http

import (
	"encoding/json"
	"net/http"

	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(types.ErrInvalidArgument, "invalid chat request body"))
		return
	}

	sessionID, reply, err := s.uc.Chat.Send(r.Context(), types.SessionID(req.SessionID), req.Message)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, r, map[string]any{
		"session_id": sessionID,
		"reply":      reply,
	})
}

func (s *Server) deleteChat(w http.ResponseWriter, r *http.Request) {
	sessionID := types.SessionID(chi.URLParam(r, "session_id"))
	if err := s.uc.Chat.Clear(r.Context(), sessionID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
