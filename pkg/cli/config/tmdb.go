package config

import (
	"log/slog"
	"time"

	"github.com/filmlab/cinemate/pkg/service/tmdb"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// TMDB holds configuration for the external movie metadata gateway
type TMDB struct {
	apiKey   string
	language string
	timeout  time.Duration
}

// Flags returns CLI flags for TMDB configuration
func (t *TMDB) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tmdb-api-key",
			Usage:       "TMDB API key (metadata enrichment is disabled when empty)",
			Sources:     cli.EnvVars("CINEMATE_TMDB_API_KEY"),
			Destination: &t.apiKey,
		},
		&cli.StringFlag{
			Name:        "tmdb-language",
			Usage:       "Language for TMDB responses",
			Value:       "en-US",
			Sources:     cli.EnvVars("CINEMATE_TMDB_LANGUAGE"),
			Destination: &t.language,
		},
		&cli.DurationFlag{
			Name:        "tmdb-timeout",
			Usage:       "HTTP timeout for TMDB requests",
			Value:       5 * time.Second,
			Sources:     cli.EnvVars("CINEMATE_TMDB_TIMEOUT"),
			Destination: &t.timeout,
		},
	}
}

// LogAttrs returns log attributes for the TMDB configuration
func (t *TMDB) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.Bool("api_key_configured", t.apiKey != ""),
		slog.String("language", t.language),
		slog.Duration("timeout", t.timeout),
	}
}

// Configure creates the TMDB client from the configured flags. Returns
// nil when the API key is not set (enrichment features degrade to
// catalog-only views).
func (t *TMDB) Configure() (*tmdb.Client, error) {
	if t.apiKey == "" {
		return nil, nil
	}

	client, err := tmdb.New(t.apiKey,
		tmdb.WithLanguage(t.language),
		tmdb.WithTimeout(t.timeout),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create TMDB client")
	}

	return client, nil
}
