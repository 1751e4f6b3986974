package http

import (
	"net/http"
	"strconv"

	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

// queryInt parses an optional integer query parameter, returning the
// fallback when absent.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, goerr.Wrap(types.ErrInvalidArgument, "invalid query parameter",
			goerr.V("name", name), goerr.V("value", raw))
	}
	return v, nil
}

func pathMovieID(r *http.Request) (types.MovieID, error) {
	return types.ParseMovieID(chi.URLParam(r, "id"))
}

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request) {
	batch, err := queryInt(r, "batch", 1)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, err := s.uc.Movie.List(r.Context(), batch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, page)
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathMovieID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view, err := s.uc.Movie.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, view)
}

func (s *Server) recommendMovies(w http.ResponseWriter, r *http.Request) {
	id, err := pathMovieID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", s.uc.UIConfig().MoviesPerRow)
	if err != nil {
		respondError(w, r, err)
		return
	}

	results, err := s.uc.Movie.Recommend(r.Context(), id, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, map[string]any{
		"movie_id":        id,
		"recommendations": results,
	})
}

func (s *Server) searchMovies(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondError(w, r, err)
		return
	}

	results := s.uc.Movie.Search(r.Context(), r.URL.Query().Get("q"), limit)
	respondJSON(w, r, map[string]any{
		"movies": results,
	})
}

func (s *Server) listGenres(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, map[string]any{
		"genres": s.uc.Movie.Genres(r.Context()),
	})
}

func (s *Server) moviesByGenre(w http.ResponseWriter, r *http.Request) {
	batch, err := queryInt(r, "batch", 1)
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, err := s.uc.Movie.ByGenre(r.Context(), chi.URLParam(r, "genre"), batch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, page)
}
