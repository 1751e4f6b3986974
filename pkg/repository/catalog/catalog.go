package catalog

import (
	"encoding/json"
	"iter"
	"os"
	"strings"

	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Store is the in-memory movie catalog, loaded once at process start and
// immutable afterwards. The positional index assigned at load time is the
// axis of the similarity matrix; that alignment is the core correctness
// property of the whole service.
type Store struct {
	movies  []*model.MovieRecord
	indexOf map[types.MovieID]int
}

// New loads the catalog from a JSON file. A missing, unreadable or
// malformed file is fatal: the returned error wraps types.ErrDataLoad.
func New(path string) (*Store, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(types.ErrDataLoad, "failed to read catalog file",
			goerr.V(types.PathKey, path), goerr.V("cause", err.Error()))
	}

	var records []*model.MovieRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, goerr.Wrap(types.ErrDataLoad, "failed to parse catalog file",
			goerr.V(types.PathKey, path), goerr.V("cause", err.Error()))
	}
	if len(records) == 0 {
		return nil, goerr.Wrap(types.ErrDataLoad, "catalog file contains no movies",
			goerr.V(types.PathKey, path))
	}

	s := &Store{
		movies:  records,
		indexOf: make(map[types.MovieID]int, len(records)),
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, goerr.Wrap(types.ErrDataLoad, "invalid catalog record",
				goerr.V(types.PathKey, path), goerr.V("index", i), goerr.V("cause", err.Error()))
		}
		if _, exists := s.indexOf[rec.ID]; exists {
			return nil, goerr.Wrap(types.ErrDataLoad, "duplicate movie ID in catalog",
				goerr.V(types.PathKey, path), goerr.V(types.MovieIDKey, rec.ID))
		}
		s.indexOf[rec.ID] = i
	}

	return s, nil
}

// NewFromRecords builds a store from already validated records. It is the
// injection point for tests with small synthetic catalogs.
func NewFromRecords(records []*model.MovieRecord) (*Store, error) {
	s := &Store{
		movies:  records,
		indexOf: make(map[types.MovieID]int, len(records)),
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, goerr.Wrap(types.ErrDataLoad, "invalid catalog record", goerr.V("index", i))
		}
		if _, exists := s.indexOf[rec.ID]; exists {
			return nil, goerr.Wrap(types.ErrDataLoad, "duplicate movie ID in catalog",
				goerr.V(types.MovieIDKey, rec.ID))
		}
		s.indexOf[rec.ID] = i
	}
	return s, nil
}

// Len returns the number of movies in the catalog
func (s *Store) Len() int {
	return len(s.movies)
}

// Get returns the record for the given ID
func (s *Store) Get(id types.MovieID) (*model.MovieRecord, error) {
	i, ok := s.indexOf[id]
	if !ok {
		return nil, goerr.Wrap(types.ErrUnknownMovie, "movie not in catalog",
			goerr.V(types.MovieIDKey, id))
	}
	return s.movies[i], nil
}

// IndexOf returns the positional (similarity matrix) index of the movie
func (s *Store) IndexOf(id types.MovieID) (int, error) {
	i, ok := s.indexOf[id]
	if !ok {
		return 0, goerr.Wrap(types.ErrUnknownMovie, "movie not in catalog",
			goerr.V(types.MovieIDKey, id))
	}
	return i, nil
}

// At returns the record at the given catalog index. The index must come
// from IndexOf or a similarity row; out-of-range access is a programming
// error and panics like a slice access would.
func (s *Store) At(i int) *model.MovieRecord {
	return s.movies[i]
}

// All iterates over the catalog in load order. The sequence is lazy and
// restartable; the underlying store is never mutated.
func (s *Store) All() iter.Seq[*model.MovieRecord] {
	return func(yield func(*model.MovieRecord) bool) {
		for _, m := range s.movies {
			if !yield(m) {
				return
			}
		}
	}
}

// FindByTitle returns the record whose title matches exactly, ignoring
// case, or nil when no such record exists.
func (s *Store) FindByTitle(title string) *model.MovieRecord {
	for _, m := range s.movies {
		if strings.EqualFold(m.Title, title) {
			return m
		}
	}
	return nil
}
