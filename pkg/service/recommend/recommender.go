package recommend

import (
	"sort"

	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/filmlab/cinemate/pkg/repository/catalog"
	"github.com/m-mizutani/goerr/v2"
)

// Recommender ranks catalog movies by precomputed content similarity. It
// is a pure lookup over two immutable structures and is safe for
// unsynchronized concurrent use.
type Recommender struct {
	store *catalog.Store
	sim   *catalog.Similarity
}

// New creates a Recommender over a catalog and its aligned similarity
// matrix. Both are injected; the recommender holds no other state.
func New(store *catalog.Store, sim *catalog.Similarity) *Recommender {
	return &Recommender{store: store, sim: sim}
}

// Recommend returns up to k movies most similar to the given one,
// descending by stored score with ties broken by ascending catalog index.
// The query movie itself is always excluded. k greater than N-1 yields all
// N-1 entries.
func (r *Recommender) Recommend(movieID types.MovieID, k int) (*model.Recommendation, error) {
	if k <= 0 {
		return nil, goerr.Wrap(types.ErrInvalidArgument, "recommendation count must be positive",
			goerr.V("k", k))
	}

	i, err := r.store.IndexOf(movieID)
	if err != nil {
		return nil, err
	}

	row := r.sim.Row(i)
	candidates := make([]int, 0, len(row)-1)
	for j := range row {
		if j != i {
			candidates = append(candidates, j)
		}
	}

	// Descending by score; SliceStable keeps equal scores in ascending
	// catalog index order, which makes results reproducible.
	sort.SliceStable(candidates, func(a, b int) bool {
		return row[candidates[a]] > row[candidates[b]]
	})

	if k > len(candidates) {
		k = len(candidates)
	}

	items := make([]model.ScoredMovie, k)
	for n, j := range candidates[:k] {
		items[n] = model.ScoredMovie{
			MovieID: r.store.At(j).ID,
			Score:   row[j],
		}
	}

	return &model.Recommendation{MovieID: movieID, Items: items}, nil
}
