package usecase

import (
	"context"

	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/filmlab/cinemate/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// posterWorkers bounds concurrent enrichment calls per request
const posterWorkers = 5

// MovieUseCase serves the browse, search and recommendation views
type MovieUseCase struct {
	uc *UseCases
}

func newMovieUseCase(uc *UseCases) *MovieUseCase {
	return &MovieUseCase{uc: uc}
}

// MovieView is a catalog record plus optional enrichment. PosterURL and
// Details are empty in degraded mode; the base record fields always
// render.
type MovieView struct {
	*model.MovieRecord
	PosterURL string              `json:"poster_url,omitempty"`
	Details   *model.MovieDetails `json:"details,omitempty"`
}

// RecommendedMovie is one enriched recommendation entry
type RecommendedMovie struct {
	MovieView
	Score float64 `json:"score"`
}

// MoviePage is one batch of the browse view
type MoviePage struct {
	Movies []MovieView `json:"movies"`
	Batch  int         `json:"batch"`
	Total  int         `json:"total"`
}

// List returns one batch of the catalog in load order. Batch numbering
// starts at 1; a batch beyond the end returns an empty page, not an
// error.
func (m *MovieUseCase) List(ctx context.Context, batch int) (*MoviePage, error) {
	if batch <= 0 {
		return nil, errInvalidBatch(batch)
	}

	size := m.uc.ui.BatchSize
	start := (batch - 1) * size
	end := start + size
	if start > m.uc.store.Len() {
		start = m.uc.store.Len()
	}
	if end > m.uc.store.Len() {
		end = m.uc.store.Len()
	}

	records := make([]*model.MovieRecord, 0, end-start)
	for i := start; i < end; i++ {
		records = append(records, m.uc.store.At(i))
	}

	return &MoviePage{
		Movies: m.enrich(ctx, records),
		Batch:  batch,
		Total:  m.uc.store.Len(),
	}, nil
}

// Get returns one movie with full enrichment. When the metadata gateway
// is unavailable the view carries only the catalog fields.
func (m *MovieUseCase) Get(ctx context.Context, id types.MovieID) (*MovieView, error) {
	rec, err := m.uc.store.Get(id)
	if err != nil {
		return nil, err
	}

	view := &MovieView{MovieRecord: rec}
	if m.uc.metadata != nil {
		details, err := m.uc.metadata.FetchDetails(ctx, id)
		if err != nil {
			logging.From(ctx).Warn("metadata unavailable, serving base record",
				"movie_id", id, "error", err.Error())
		} else {
			view.Details = details
			view.PosterURL = details.PosterURL
		}
	}
	return view, nil
}

// Recommend returns up to k movies similar to the given one, enriched
// with posters fetched concurrently. Enrichment failures never fail the
// recommendation.
func (m *MovieUseCase) Recommend(ctx context.Context, id types.MovieID, k int) ([]RecommendedMovie, error) {
	rec, err := m.uc.recommender.Recommend(id, k)
	if err != nil {
		return nil, err
	}

	results := make([]RecommendedMovie, len(rec.Items))
	for i, item := range rec.Items {
		record, err := m.uc.store.Get(item.MovieID)
		if err != nil {
			return nil, err
		}
		results[i] = RecommendedMovie{
			MovieView: MovieView{MovieRecord: record},
			Score:     item.Score,
		}
	}

	if m.uc.metadata != nil {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(posterWorkers)
		for i := range results {
			eg.Go(func() error {
				results[i].PosterURL = m.uc.metadata.PosterURL(egCtx, results[i].ID)
				if details, err := m.uc.metadata.FetchDetails(egCtx, results[i].ID); err == nil {
					results[i].Details = details
				}
				return nil
			})
		}
		_ = eg.Wait()
	}

	return results, nil
}

// Search matches the query against catalog titles
func (m *MovieUseCase) Search(ctx context.Context, query string, limit int) []MovieView {
	if limit <= 0 {
		limit = m.uc.ui.BatchSize
	}
	return m.enrich(ctx, m.uc.searchIndex.Search(query, limit))
}

// GenreSummary is one genre of the browse navigation with its movie count
type GenreSummary struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Genres lists the configured genres with catalog counts
func (m *MovieUseCase) Genres(ctx context.Context) []GenreSummary {
	summaries := make([]GenreSummary, 0, len(m.uc.ui.Genres))
	for _, genre := range m.uc.ui.Genres {
		count := 0
		for rec := range m.uc.store.All() {
			if rec.HasGenre(genre) {
				count++
			}
		}
		summaries = append(summaries, GenreSummary{Genre: genre, Count: count})
	}
	return summaries
}

// ByGenre returns one batch of movies carrying the genre, in catalog
// order.
func (m *MovieUseCase) ByGenre(ctx context.Context, genre string, batch int) (*MoviePage, error) {
	if batch <= 0 {
		return nil, errInvalidBatch(batch)
	}

	var filtered []*model.MovieRecord
	for rec := range m.uc.store.All() {
		if rec.HasGenre(genre) {
			filtered = append(filtered, rec)
		}
	}

	size := m.uc.ui.BatchSize
	start := (batch - 1) * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &MoviePage{
		Movies: m.enrich(ctx, filtered[start:end]),
		Batch:  batch,
		Total:  len(filtered),
	}, nil
}

// enrich attaches poster URLs to the records with bounded concurrency.
// Without a metadata gateway the views stay catalog-only.
func (m *MovieUseCase) enrich(ctx context.Context, records []*model.MovieRecord) []MovieView {
	views := make([]MovieView, len(records))
	for i, rec := range records {
		views[i] = MovieView{MovieRecord: rec}
	}
	if m.uc.metadata == nil {
		return views
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(posterWorkers)
	for i := range views {
		eg.Go(func() error {
			views[i].PosterURL = m.uc.metadata.PosterURL(egCtx, views[i].ID)
			return nil
		})
	}
	_ = eg.Wait()
	return views
}
