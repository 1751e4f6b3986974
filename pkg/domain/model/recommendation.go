package model

import "github.com/filmlab/cinemate/pkg/domain/types"

// ScoredMovie is one ranked entry of a recommendation result
type ScoredMovie struct {
	MovieID types.MovieID `json:"movie_id"`
	Score   float64       `json:"score"`
}

// Recommendation is an ordered list of movies, descending by similarity
// score, never containing the query movie itself.
type Recommendation struct {
	MovieID types.MovieID `json:"movie_id"`
	Items   []ScoredMovie `json:"items"`
}
