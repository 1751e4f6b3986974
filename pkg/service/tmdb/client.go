package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/filmlab/cinemate/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultImageURL = "http://image.tmdb.org/t/p/w500"
	defaultLanguage = "en-US"
	defaultTimeout  = 5 * time.Second

	// PlaceholderPosterURL is served when no poster can be resolved
	PlaceholderPosterURL = "https://via.placeholder.com/500x750?text=No+Image"

	topCastCount = 5
)

// Client talks to the TMDB API. Successful lookups are memoized for the
// process lifetime; concurrent callers for the same key share a single
// outbound request. Metadata is treated as static for a running instance,
// so there is no TTL and no invalidation.
type Client struct {
	apiKey   string
	baseURL  string
	imageURL string
	language string
	http     *http.Client

	mu      sync.RWMutex
	details map[types.MovieID]*model.MovieDetails
	posters map[types.MovieID]string
	lookups map[string]*model.ExternalMovie
	group   singleflight.Group
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests)
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithLanguage sets the metadata language
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithTimeout bounds each outbound call
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a TMDB client. The API key is required; without it the
// metadata feature cannot be enabled at all.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.Wrap(types.ErrConfigMissing, "TMDB API key is required")
	}

	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		imageURL: defaultImageURL,
		language: defaultLanguage,
		http:     &http.Client{Timeout: defaultTimeout},
		details:  make(map[types.MovieID]*model.MovieDetails),
		posters:  make(map[types.MovieID]string),
		lookups:  make(map[string]*model.ExternalMovie),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchDetails returns enrichment data for the movie. Network failures,
// rate limits and unknown IDs all surface as ErrUnavailable; callers fall
// back to catalog fields.
func (c *Client) FetchDetails(ctx context.Context, id types.MovieID) (*model.MovieDetails, error) {
	c.mu.RLock()
	cached, ok := c.details[id]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	key := "details:" + strconv.FormatInt(int64(id), 10)
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Double-check under the flight: a previous flight may have
		// populated the cache between RUnlock and Do.
		c.mu.RLock()
		cached, ok := c.details[id]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		details, err := c.fetchDetails(ctx, id)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.details[id] = details
		c.posters[id] = details.PosterURL
		c.mu.Unlock()
		return details, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.MovieDetails), nil
}

func (c *Client) fetchDetails(ctx context.Context, id types.MovieID) (*model.MovieDetails, error) {
	endpoint := fmt.Sprintf("%s/movie/%d?api_key=%s&language=%s&append_to_response=videos,credits",
		c.baseURL, id, url.QueryEscape(c.apiKey), url.QueryEscape(c.language))

	var resp movieResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, goerr.Wrap(types.ErrUnavailable, "failed to fetch movie details",
			goerr.V(types.MovieIDKey, id), goerr.V("cause", err.Error()))
	}

	details := &model.MovieDetails{
		Rating:      resp.VoteAverage,
		VoteCount:   resp.VoteCount,
		Overview:    resp.Overview,
		Runtime:     resp.Runtime,
		ReleaseDate: resp.ReleaseDate,
		PosterURL:   c.posterURL(resp.PosterPath),
	}
	for _, g := range resp.Genres {
		details.Genres = append(details.Genres, g.Name)
	}
	for _, v := range resp.Videos.Results {
		if v.Type == "Trailer" {
			details.TrailerKey = v.Key
			break
		}
	}
	for i, member := range resp.Credits.Cast {
		if i >= topCastCount {
			break
		}
		details.Cast = append(details.Cast, member.Name)
	}
	return details, nil
}

// PosterURL returns a renderable poster URL for the movie. It never
// fails; lookup errors degrade to a placeholder image.
func (c *Client) PosterURL(ctx context.Context, id types.MovieID) string {
	c.mu.RLock()
	cached, ok := c.posters[id]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	details, err := c.FetchDetails(ctx, id)
	if err != nil {
		return PlaceholderPosterURL
	}
	return details.PosterURL
}

// SearchMovie resolves a title outside the local catalog via the TMDB
// search endpoint. Results are memoized by title and year.
func (c *Client) SearchMovie(ctx context.Context, title string, year int) (*model.ExternalMovie, error) {
	key := fmt.Sprintf("search:%s:%d", title, year)

	c.mu.RLock()
	cached, ok := c.lookups[key]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		cached, ok := c.lookups[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		movie, err := c.searchMovie(ctx, title, year)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.lookups[key] = movie
		c.mu.Unlock()
		return movie, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ExternalMovie), nil
}

func (c *Client) searchMovie(ctx context.Context, title string, year int) (*model.ExternalMovie, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", title)
	params.Set("language", c.language)
	if year > 0 {
		params.Set("year", strconv.Itoa(year))
	}
	endpoint := c.baseURL + "/search/movie?" + params.Encode()

	var resp searchResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, goerr.Wrap(types.ErrUnavailable, "failed to search movie",
			goerr.V("title", title), goerr.V("cause", err.Error()))
	}
	if len(resp.Results) == 0 {
		return nil, goerr.Wrap(types.ErrUnavailable, "no search result",
			goerr.V("title", title))
	}

	first := resp.Results[0]
	movie := &model.ExternalMovie{
		Title:     first.Title,
		PosterURL: c.posterURL(first.PosterPath),
	}
	if len(first.ReleaseDate) >= 4 {
		if y, err := strconv.Atoi(first.ReleaseDate[:4]); err == nil {
			movie.Year = y
		}
	}
	return movie, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status code", goerr.V("status", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response")
	}
	return nil
}

func (c *Client) posterURL(path string) string {
	if path == "" {
		return PlaceholderPosterURL
	}
	return c.imageURL + path
}
