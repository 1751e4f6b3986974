package usecase

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// sampleSeed keeps the analytics sample stable across requests so the
// memoized metadata cache is actually hit on the second view.
const sampleSeed = 42

// AnalyticsUseCase computes the chart datasets of the analytics view.
// Distributions come straight from the catalog; the summary metrics that
// need runtime and vote counts are enriched over a bounded random sample
// and degrade to catalog-only figures when metadata is unavailable.
type AnalyticsUseCase struct {
	uc *UseCases
}

func newAnalyticsUseCase(uc *UseCases) *AnalyticsUseCase {
	return &AnalyticsUseCase{uc: uc}
}

// Summary returns the key metric cards
func (a *AnalyticsUseCase) Summary(ctx context.Context) *model.AnalyticsSummary {
	summary := &model.AnalyticsSummary{
		TotalMovies: a.uc.store.Len(),
	}

	var ratingSum float64
	rated := 0
	for rec := range a.uc.store.All() {
		if rec.Rating > 0 {
			ratingSum += rec.Rating
			rated++
		}
	}
	if rated > 0 {
		summary.AverageRating = ratingSum / float64(rated)
	}

	if a.uc.metadata == nil {
		summary.Degraded = true
		return summary
	}

	sample := a.sampleIndices()
	summary.SampleSize = len(sample)

	var mu sync.Mutex
	var runtimeSum, runtimeCount, voteSum int
	failures := 0

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(posterWorkers)
	for _, idx := range sample {
		eg.Go(func() error {
			details, err := a.uc.metadata.FetchDetails(egCtx, a.uc.store.At(idx).ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				return nil
			}
			if details.Runtime > 0 {
				runtimeSum += details.Runtime
				runtimeCount++
			}
			voteSum += details.VoteCount
			return nil
		})
	}
	_ = eg.Wait()

	if runtimeCount > 0 {
		summary.AverageRuntime = runtimeSum / runtimeCount
	}
	summary.TotalVotes = voteSum
	if failures == len(sample) {
		summary.Degraded = true
		logging.From(ctx).Warn("analytics enrichment fully degraded",
			"sample_size", len(sample))
	}
	return summary
}

// GenreDistribution counts catalog movies per configured genre
func (a *AnalyticsUseCase) GenreDistribution(ctx context.Context) []model.GenreCount {
	counts := make([]model.GenreCount, 0, len(a.uc.ui.Genres))
	for _, genre := range a.uc.ui.Genres {
		n := 0
		for rec := range a.uc.store.All() {
			if rec.HasGenre(genre) {
				n++
			}
		}
		counts = append(counts, model.GenreCount{Genre: genre, Count: n})
	}
	return counts
}

var ratingBuckets = []struct {
	label string
	min   float64
	max   float64
}{
	{"0-3", 0, 3},
	{"3-5", 3, 5},
	{"5-7", 5, 7},
	{"7-8", 7, 8},
	{"8-10", 8, 10},
}

// RatingDistribution buckets catalog ratings into fixed ranges. Unrated
// movies (rating 0) are excluded.
func (a *AnalyticsUseCase) RatingDistribution(ctx context.Context) []model.RatingBucket {
	buckets := make([]model.RatingBucket, len(ratingBuckets))
	for i, b := range ratingBuckets {
		buckets[i].Label = b.label
	}
	for rec := range a.uc.store.All() {
		if rec.Rating <= 0 {
			continue
		}
		for i, b := range ratingBuckets {
			if rec.Rating > b.min && rec.Rating <= b.max {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// YearTrends counts releases per year, ascending, filtered by the
// configured minimum year.
func (a *AnalyticsUseCase) YearTrends(ctx context.Context) []model.YearCount {
	byYear := make(map[int]int)
	for rec := range a.uc.store.All() {
		if rec.ReleaseYear >= a.uc.ui.MinYear {
			byYear[rec.ReleaseYear]++
		}
	}

	trends := make([]model.YearCount, 0, len(byYear))
	for year, count := range byYear {
		trends = append(trends, model.YearCount{Year: year, Count: count})
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Year < trends[j].Year
	})
	return trends
}

// sampleIndices picks up to SampleSize catalog indices with a fixed seed
func (a *AnalyticsUseCase) sampleIndices() []int {
	n := a.uc.store.Len()
	size := a.uc.ui.SampleSize
	if size >= n {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	//nolint:gosec // reproducible sampling, not for security use
	rng := rand.New(rand.NewSource(sampleSeed))
	return rng.Perm(n)[:size]
}
