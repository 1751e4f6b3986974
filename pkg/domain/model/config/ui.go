package config

import "github.com/m-mizutani/goerr/v2"

// Default display settings, matching the reference deployment
const (
	DefaultMoviesPerRow = 6
	DefaultBatchSize    = 24
	DefaultSampleSize   = 200
	DefaultChartHeight  = 400
	DefaultMinYear      = 1980
)

// DefaultGenres is the fixed genre navigation of the browse view
var DefaultGenres = []string{
	"Action", "Adventure", "Comedy", "Drama", "Horror",
	"Thriller", "Animation", "Fantasy", "Romance", "Sci-Fi",
}

// UIConfig holds the display settings consumed by the presentation
// layer: grid dimensions, paging batch size, the analytics sample size
// and chart height.
type UIConfig struct {
	MoviesPerRow int      `toml:"movies_per_row"`
	BatchSize    int      `toml:"batch_size"`
	SampleSize   int      `toml:"sample_size"`
	ChartHeight  int      `toml:"chart_height"`
	MinYear      int      `toml:"min_year"`
	Genres       []string `toml:"genres"`
}

// DefaultUIConfig returns the built-in display settings
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		MoviesPerRow: DefaultMoviesPerRow,
		BatchSize:    DefaultBatchSize,
		SampleSize:   DefaultSampleSize,
		ChartHeight:  DefaultChartHeight,
		MinYear:      DefaultMinYear,
		Genres:       DefaultGenres,
	}
}

// Validate checks if the UIConfig is usable
func (c *UIConfig) Validate() error {
	if c.MoviesPerRow <= 0 {
		return goerr.New("movies_per_row must be positive", goerr.V("value", c.MoviesPerRow))
	}
	if c.BatchSize <= 0 {
		return goerr.New("batch_size must be positive", goerr.V("value", c.BatchSize))
	}
	if c.SampleSize <= 0 {
		return goerr.New("sample_size must be positive", goerr.V("value", c.SampleSize))
	}
	if c.ChartHeight <= 0 {
		return goerr.New("chart_height must be positive", goerr.V("value", c.ChartHeight))
	}
	if len(c.Genres) == 0 {
		return goerr.New("at least one genre is required")
	}
	return nil
}
