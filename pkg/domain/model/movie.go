package model

import (
	"fmt"
	"strings"

	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// MovieRecord is one entry of the catalog. Records are immutable after
// load and owned by the catalog store; other components refer to them by
// catalog index.
type MovieRecord struct {
	ID          types.MovieID `json:"id"`
	Title       string        `json:"title"`
	Genres      []string      `json:"genres"`
	Overview    string        `json:"overview"`
	ReleaseYear int           `json:"release_year"`
	Rating      float64       `json:"rating"`
}

// Validate checks that all required catalog fields are present
func (m *MovieRecord) Validate() error {
	if m.ID == 0 {
		return goerr.New("movie id is required")
	}
	if m.Title == "" {
		return goerr.New("movie title is required", goerr.V(types.MovieIDKey, m.ID))
	}
	if m.ReleaseYear == 0 {
		return goerr.New("movie release_year is required", goerr.V(types.MovieIDKey, m.ID))
	}
	return nil
}

// HasGenre reports whether the record carries the genre, case-insensitively
func (m *MovieRecord) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// MovieDetails holds enrichment data fetched from the external movie
// database. All fields are advisory; a missing details value must never
// fail a recommendation.
type MovieDetails struct {
	Rating      float64  `json:"rating"`
	VoteCount   int      `json:"vote_count"`
	Overview    string   `json:"overview"`
	Runtime     int      `json:"runtime"`
	ReleaseDate string   `json:"release_date"`
	Genres      []string `json:"genres"`
	PosterURL   string   `json:"poster_url"`
	TrailerKey  string   `json:"trailer_key,omitempty"`
	Cast        []string `json:"cast"`
}

// Stars renders a 0-10 rating as a five-star string, optionally with the
// vote count appended.
func Stars(rating float64, voteCount int) string {
	full := int(rating / 2)
	half := 0
	if rating/2-float64(full) >= 0.5 {
		half = 1
	}
	empty := 5 - full - half
	if empty < 0 {
		empty = 0
	}

	s := strings.Repeat("★", full) + strings.Repeat("✮", half) + strings.Repeat("☆", empty)
	if voteCount > 0 {
		return fmt.Sprintf("%s (%d votes)", s, voteCount)
	}
	return s
}
