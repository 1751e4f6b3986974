package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/filmlab/cinemate/pkg/usecase"
	"github.com/filmlab/cinemate/pkg/utils/errutil"
	"github.com/filmlab/cinemate/pkg/utils/logging"
	"github.com/filmlab/cinemate/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", s.listMovies)
			r.Get("/{id}", s.getMovie)
			r.Get("/{id}/recommendations", s.recommendMovies)
		})

		r.Get("/search", s.searchMovies)

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", s.listGenres)
			r.Get("/{genre}/movies", s.moviesByGenre)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", s.analyticsSummary)
			r.Get("/genres", s.analyticsGenres)
			r.Get("/ratings", s.analyticsRatings)
			r.Get("/years", s.analyticsYears)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/", s.postChat)
			r.Delete("/{session_id}", s.deleteChat)
		})
	})

	r.Get("/health", s.health)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, map[string]any{
		"status":   "ok",
		"movies":   s.uc.Store().Len(),
		"metadata": s.uc.MetadataEnabled(),
		"chat":     s.uc.ChatEnabled(),
	})
}

// respondJSON marshals the value before touching the response so a
// failure can still produce a clean 500.
func respondJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}

// respondError maps domain errors onto HTTP status codes
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrUnknownMovie), errors.Is(err, types.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrConfigMissing):
		status = http.StatusServiceUnavailable
	case errors.Is(err, types.ErrUnavailable):
		status = http.StatusBadGateway
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}
