package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpctrl "github.com/filmlab/cinemate/pkg/controller/http"
	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/filmlab/cinemate/pkg/repository/catalog"
	"github.com/filmlab/cinemate/pkg/service/assistant"
	"github.com/filmlab/cinemate/pkg/usecase"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

func setupServer(t *testing.T, opts ...usecase.Option) *httpctrl.Server {
	t.Helper()
	store, err := catalog.NewFromRecords([]*model.MovieRecord{
		{ID: 1, Title: "Inception", Genres: []string{"Sci-Fi", "Thriller"}, Overview: "A thief enters dreams.", ReleaseYear: 2010, Rating: 8.4},
		{ID: 2, Title: "Interstellar", Genres: []string{"Sci-Fi", "Drama"}, Overview: "Farmers in space.", ReleaseYear: 2014, Rating: 8.6},
		{ID: 3, Title: "Tenet", Genres: []string{"Sci-Fi", "Action"}, Overview: "Time runs backwards.", ReleaseYear: 2020, Rating: 7.3},
	})
	gt.NoError(t, err).Required()

	sim, err := catalog.NewSimilarity([][]float64{
		{1.0, 0.8, 0.6},
		{0.8, 1.0, 0.4},
		{0.6, 0.4, 1.0},
	}, store.Len())
	gt.NoError(t, err).Required()

	return httpctrl.New(usecase.New(store, sim, opts...))
}

func doRequest(t *testing.T, srv *httpctrl.Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), v)).Required()
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var body struct {
		Status   string `json:"status"`
		Movies   int    `json:"movies"`
		Metadata bool   `json:"metadata"`
		Chat     bool   `json:"chat"`
	}
	decodeBody(t, rec, &body)
	gt.Value(t, body.Status).Equal("ok")
	gt.Value(t, body.Movies).Equal(3)
	gt.False(t, body.Metadata)
	gt.False(t, body.Chat)
}

func TestMovieEndpoints(t *testing.T) {
	srv := setupServer(t)

	t.Run("list returns the first batch", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/movies", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var page struct {
			Movies []struct {
				Title string `json:"title"`
			} `json:"movies"`
			Batch int `json:"batch"`
			Total int `json:"total"`
		}
		decodeBody(t, rec, &page)
		gt.Array(t, page.Movies).Length(3)
		gt.Value(t, page.Batch).Equal(1)
		gt.Value(t, page.Total).Equal(3)
		gt.Value(t, page.Movies[0].Title).Equal("Inception")
	})

	t.Run("invalid batch is a 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/movies?batch=0", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("non-numeric batch is a 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/movies?batch=abc", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("get one movie", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/movies/2", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var view struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		}
		decodeBody(t, rec, &view)
		gt.Value(t, view.ID).Equal(int64(2))
		gt.Value(t, view.Title).Equal("Interstellar")
	})

	t.Run("unknown movie is a 404", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/movies/404", nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("malformed movie ID is a 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/movies/abc", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("recommendations ordered by similarity", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/movies/1/recommendations?limit=2", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			MovieID         int64 `json:"movie_id"`
			Recommendations []struct {
				Title string  `json:"title"`
				Score float64 `json:"score"`
			} `json:"recommendations"`
		}
		decodeBody(t, rec, &body)
		gt.Value(t, body.MovieID).Equal(int64(1))
		gt.Array(t, body.Recommendations).Length(2).Required()
		gt.Value(t, body.Recommendations[0].Title).Equal("Interstellar")
		gt.Value(t, body.Recommendations[0].Score).Equal(0.8)
		gt.Value(t, body.Recommendations[1].Title).Equal("Tenet")
	})

	t.Run("zero limit is a 400", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/movies/1/recommendations?limit=0", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("search matches fuzzy titles", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/search?q=incepton", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			Movies []struct {
				Title string `json:"title"`
			} `json:"movies"`
		}
		decodeBody(t, rec, &body)
		gt.Array(t, body.Movies).Length(1).Required()
		gt.Value(t, body.Movies[0].Title).Equal("Inception")
	})

	t.Run("genre navigation", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/genres", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			Genres []struct {
				Genre string `json:"genre"`
				Count int    `json:"count"`
			} `json:"genres"`
		}
		decodeBody(t, rec, &body)
		counts := make(map[string]int, len(body.Genres))
		for _, g := range body.Genres {
			counts[g.Genre] = g.Count
		}
		gt.Value(t, counts["Sci-Fi"]).Equal(3)
		gt.Value(t, counts["Drama"]).Equal(1)
	})

	t.Run("movies by genre", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/genres/Drama/movies", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var page struct {
			Movies []struct {
				Title string `json:"title"`
			} `json:"movies"`
			Total int `json:"total"`
		}
		decodeBody(t, rec, &page)
		gt.Array(t, page.Movies).Length(1).Required()
		gt.Value(t, page.Movies[0].Title).Equal("Interstellar")
		gt.Value(t, page.Total).Equal(1)
	})
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv := setupServer(t)

	t.Run("summary degrades without metadata", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/analytics/summary", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var summary struct {
			TotalMovies int  `json:"total_movies"`
			Degraded    bool `json:"degraded"`
		}
		decodeBody(t, rec, &summary)
		gt.Value(t, summary.TotalMovies).Equal(3)
		gt.True(t, summary.Degraded)
	})

	t.Run("rating buckets", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/analytics/ratings", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			Buckets []struct {
				Label string `json:"label"`
				Count int    `json:"count"`
			} `json:"buckets"`
		}
		decodeBody(t, rec, &body)
		gt.Array(t, body.Buckets).Length(5)
	})

	t.Run("year trends are ascending", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/analytics/years", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			Years []struct {
				Year  int `json:"year"`
				Count int `json:"count"`
			} `json:"years"`
		}
		decodeBody(t, rec, &body)
		gt.Array(t, body.Years).Length(3).Required()
		gt.Value(t, body.Years[0].Year).Equal(2010)
		gt.Value(t, body.Years[2].Year).Equal(2020)
	})
}

// mockLLMSession is a mock gollem Session for testing
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"Happy to help."}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	return nil, nil
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, options ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, options ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) History() (*gollem.History, error) {
	return nil, nil
}

func (s *mockLLMSession) AppendHistory(*gollem.History) error {
	return nil
}

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	session *mockLLMSession
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.session != nil {
		return c.session, nil
	}
	return &mockLLMSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, nil
}

func TestChatEndpoints(t *testing.T) {
	t.Run("disabled without an assistant", func(t *testing.T) {
		srv := setupServer(t)
		rec := doRequest(t, srv, http.MethodPost, "/api/chat", []byte(`{"message": "hi"}`))
		gt.Value(t, rec.Code).Equal(http.StatusServiceUnavailable)
	})

	t.Run("round trip creates a session", func(t *testing.T) {
		store, err := catalog.NewFromRecords([]*model.MovieRecord{
			{ID: 1, Title: "Inception", Genres: []string{"Sci-Fi"}, ReleaseYear: 2010, Rating: 8.4},
			{ID: 2, Title: "Interstellar", Genres: []string{"Sci-Fi"}, ReleaseYear: 2014, Rating: 8.6},
		})
		gt.NoError(t, err).Required()
		sim, err := catalog.NewSimilarity([][]float64{{1.0, 0.5}, {0.5, 1.0}}, store.Len())
		gt.NoError(t, err).Required()

		llm := &mockLLMClient{session: &mockLLMSession{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return &gollem.Response{Texts: []string{`{"message": "Try Inception.", "database_movies": [{"title": "inception", "movie_id": 1}], "external_movies": []}`}}, nil
			},
		}}
		uc := usecase.New(store, sim, usecase.WithAssistant(assistant.New(llm, store)))
		srv := httpctrl.New(uc)

		rec := doRequest(t, srv, http.MethodPost, "/api/chat", []byte(`{"message": "recommend me a movie"}`))
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var body struct {
			SessionID string `json:"session_id"`
			Reply     struct {
				Message        string `json:"message"`
				DatabaseMovies []struct {
					Title   string        `json:"title"`
					MovieID types.MovieID `json:"movie_id"`
				} `json:"database_movies"`
			} `json:"reply"`
		}
		decodeBody(t, rec, &body)
		gt.Value(t, body.SessionID).NotEqual("")
		gt.Value(t, body.Reply.Message).Equal("Try Inception.")
		gt.Array(t, body.Reply.DatabaseMovies).Length(1).Required()
		gt.Value(t, body.Reply.DatabaseMovies[0].Title).Equal("Inception")

		// Session survives and can be cleared
		rec = doRequest(t, srv, http.MethodDelete, "/api/chat/"+body.SessionID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusNoContent)

		rec = doRequest(t, srv, http.MethodDelete, "/api/chat/"+body.SessionID, nil)
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		srv := setupServer(t)
		rec := doRequest(t, srv, http.MethodPost, "/api/chat", []byte(`{not json`))
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}
