package config

import (
	"log/slog"

	"github.com/filmlab/cinemate/pkg/repository/catalog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Catalog holds configuration for the movie catalog data files
type Catalog struct {
	moviesPath     string
	similarityPath string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "movies",
			Usage:       "Path to the movie catalog JSON file",
			Required:    true,
			Sources:     cli.EnvVars("CINEMATE_MOVIES"),
			Destination: &c.moviesPath,
		},
		&cli.StringFlag{
			Name:        "similarity",
			Usage:       "Path to the similarity matrix JSON file",
			Required:    true,
			Sources:     cli.EnvVars("CINEMATE_SIMILARITY"),
			Destination: &c.similarityPath,
		},
	}
}

// LogAttrs returns log attributes for the catalog configuration
func (c *Catalog) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("movies", c.moviesPath),
		slog.String("similarity", c.similarityPath),
	}
}

// Configure loads the catalog and its similarity matrix. Both files are
// validated against each other; any inconsistency is fatal.
func (c *Catalog) Configure() (*catalog.Store, *catalog.Similarity, error) {
	store, err := catalog.New(c.moviesPath)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load movie catalog")
	}

	sim, err := catalog.LoadSimilarity(c.similarityPath, store.Len())
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load similarity matrix")
	}

	return store, sim, nil
}
