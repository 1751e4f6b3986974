package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/repository/catalog"
)

const (
	rankPrefix = iota
	rankSubstring
	rankFuzzy
)

// Index matches user queries against catalog titles for autocomplete and
// search. Matching is case-insensitive; besides substring matches it
// tolerates typos up to an edit distance proportional to the query length.
type Index struct {
	store  *catalog.Store
	titles []string // lowercased titles by catalog index
}

// New builds a search index over the catalog titles
func New(store *catalog.Store) *Index {
	titles := make([]string, 0, store.Len())
	for m := range store.All() {
		titles = append(titles, strings.ToLower(m.Title))
	}
	return &Index{store: store, titles: titles}
}

type match struct {
	index    int
	rank     int
	distance int
}

// Search returns up to limit records ranked by match quality: exact
// prefix matches first, then substring matches, then fuzzy matches by
// ascending edit distance. Ties keep catalog order. An empty query
// returns no results.
func (x *Index) Search(query string, limit int) []*model.MovieRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}

	maxDistance := fuzzyThreshold(q)

	var matches []match
	for i, title := range x.titles {
		switch {
		case strings.HasPrefix(title, q):
			matches = append(matches, match{index: i, rank: rankPrefix})
		case strings.Contains(title, q):
			matches = append(matches, match{index: i, rank: rankSubstring})
		default:
			if d := levenshtein.ComputeDistance(q, title); d <= maxDistance {
				matches = append(matches, match{index: i, rank: rankFuzzy, distance: d})
			}
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].rank != matches[b].rank {
			return matches[a].rank < matches[b].rank
		}
		return matches[a].distance < matches[b].distance
	})

	if limit > len(matches) {
		limit = len(matches)
	}
	results := make([]*model.MovieRecord, limit)
	for i, m := range matches[:limit] {
		results[i] = x.store.At(m.index)
	}
	return results
}

// fuzzyThreshold scales typo tolerance with query length so that short
// queries do not match half the catalog.
func fuzzyThreshold(q string) int {
	return 1 + len([]rune(q))/4
}
