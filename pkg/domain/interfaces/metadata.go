package interfaces

import (
	"context"

	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/domain/types"
)

// MetadataService fetches enrichment data from the external movie
// database. Implementations memoize results for the process lifetime and
// must return types.ErrUnavailable instead of hanging or crashing.
type MetadataService interface {
	// FetchDetails returns enrichment for the movie, or ErrUnavailable.
	FetchDetails(ctx context.Context, id types.MovieID) (*model.MovieDetails, error)

	// PosterURL returns a renderable poster URL. It never fails; a
	// placeholder URL is returned when the lookup does not succeed.
	PosterURL(ctx context.Context, id types.MovieID) string

	// SearchMovie resolves a title (optionally constrained by year) that is
	// not in the local catalog, or returns ErrUnavailable.
	SearchMovie(ctx context.Context, title string, year int) (*model.ExternalMovie, error)
}
