package catalog

import (
	"encoding/json"
	"math"
	"os"

	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const simEpsilon = 1e-6

// Similarity is the precomputed N×N content similarity matrix, aligned to
// the catalog's positional index. Read-only after load, shared by all
// requests without synchronization.
type Similarity struct {
	rows [][]float64
}

// LoadSimilarity reads the matrix from a JSON file and validates it
// against the catalog size n. Any shape or value violation, including a
// size mismatch from a stale precomputed file, is a fatal ErrDataLoad.
func LoadSimilarity(path string, n int) (*Similarity, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(types.ErrDataLoad, "failed to read similarity file",
			goerr.V(types.PathKey, path), goerr.V("cause", err.Error()))
	}

	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, goerr.Wrap(types.ErrDataLoad, "failed to parse similarity file",
			goerr.V(types.PathKey, path), goerr.V("cause", err.Error()))
	}

	sim := &Similarity{rows: rows}
	if err := sim.validate(n); err != nil {
		return nil, goerr.Wrap(err, "similarity matrix validation failed",
			goerr.V(types.PathKey, path))
	}
	return sim, nil
}

// NewSimilarity builds a matrix from in-memory rows, validating it against
// the catalog size n. Used by tests and the validate command.
func NewSimilarity(rows [][]float64, n int) (*Similarity, error) {
	sim := &Similarity{rows: rows}
	if err := sim.validate(n); err != nil {
		return nil, err
	}
	return sim, nil
}

func (s *Similarity) validate(n int) error {
	if len(s.rows) != n {
		return goerr.Wrap(types.ErrDataLoad, "similarity matrix size does not match catalog",
			goerr.V("rows", len(s.rows)), goerr.V("catalog_size", n))
	}
	for i, row := range s.rows {
		if len(row) != n {
			return goerr.Wrap(types.ErrDataLoad, "similarity matrix is not square",
				goerr.V("row", i), goerr.V("columns", len(row)), goerr.V("catalog_size", n))
		}
		for j, v := range row {
			if math.IsNaN(v) || v < -simEpsilon || v > 1+simEpsilon {
				return goerr.Wrap(types.ErrDataLoad, "similarity score out of range",
					goerr.V("row", i), goerr.V("column", j), goerr.V("score", v))
			}
			if j < i && math.Abs(v-s.rows[j][i]) > simEpsilon {
				return goerr.Wrap(types.ErrDataLoad, "similarity matrix is not symmetric",
					goerr.V("row", i), goerr.V("column", j))
			}
		}
		if math.Abs(row[i]-1.0) > simEpsilon {
			return goerr.Wrap(types.ErrDataLoad, "similarity self-score must be 1.0",
				goerr.V("row", i), goerr.V("score", row[i]))
		}
	}
	return nil
}

// Len returns the matrix dimension
func (s *Similarity) Len() int {
	return len(s.rows)
}

// Row returns the similarity row for catalog index i. The returned slice
// is shared and must not be modified.
func (s *Similarity) Row(i int) []float64 {
	return s.rows[i]
}

// Score returns sim[i][j]
func (s *Similarity) Score(i, j int) float64 {
	return s.rows[i][j]
}
