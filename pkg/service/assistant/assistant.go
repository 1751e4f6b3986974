package assistant

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/filmlab/cinemate/pkg/repository/catalog"
	"github.com/filmlab/cinemate/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/system.md
var systemPromptTmpl string

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTmpl))

const (
	// historyLimit bounds how many past turns are replayed to the LLM
	historyLimit = 10
	// contextLimit bounds how many catalog matches go into the prompt
	contextLimit = 15
)

var genreKeywords = []string{
	"action", "comedy", "drama", "horror", "thriller",
	"romance", "sci-fi", "animation", "fantasy", "adventure",
}

// Service forwards user queries to the LLM together with a bounded slice
// of catalog context, and validates the structured reply against the
// catalog. It holds no session state; history is passed in per call.
type Service struct {
	llm   gollem.LLMClient
	store *catalog.Store
}

// New creates an assistant service over the catalog
func New(llm gollem.LLMClient, store *catalog.Store) *Service {
	return &Service{llm: llm, store: store}
}

// Converse sends the user query plus recent history to the LLM and
// returns the parsed reply. Gateway failures (timeout, auth, quota) are
// returned as ErrGateway; there is exactly one attempt, no retry.
func (s *Service) Converse(ctx context.Context, history []model.ChatTurn, query string) (*model.ChatReply, error) {
	prompt, err := s.buildSystemPrompt(query)
	if err != nil {
		return nil, err
	}

	agent := gollem.New(s.llm, gollem.WithSystemPrompt(prompt))

	resp, err := agent.Execute(ctx, gollem.Text(conversationInput(history, query)))
	if err != nil {
		return nil, goerr.Wrap(types.ErrGateway, "LLM request failed",
			goerr.V("cause", err.Error()))
	}

	raw := strings.Join(resp.Texts, "\n")
	reply := s.parseReply(raw)
	logging.From(ctx).Debug("assistant reply parsed",
		"database_movies", len(reply.DatabaseMovies),
		"external_movies", len(reply.ExternalMovies),
	)
	return reply, nil
}

// buildSystemPrompt renders the system prompt with catalog context for
// the query: matching movies first, a genre keyword fallback second. The
// context is bounded so request size stays independent of catalog size.
func (s *Service) buildSystemPrompt(query string) (string, error) {
	var ctx strings.Builder
	fmt.Fprintf(&ctx, "Catalog Info: %d movies available.\n", s.store.Len())

	matches := s.searchCatalog(query, contextLimit)
	if len(matches) == 0 {
		if genre := firstGenreKeyword(query); genre != "" {
			matches = s.searchCatalog(genre, contextLimit)
		}
	}
	if len(matches) > 0 {
		ctx.WriteString("\nMovies available in the catalog (USE EXACT TITLES):\n")
		for _, m := range matches {
			fmt.Fprintf(&ctx, "- %s (ID: %d, %d) | Genres: %s | Rating: %.1f/10 %s\n",
				m.Title, m.ID, m.ReleaseYear, strings.Join(m.Genres, ", "), m.Rating,
				model.Stars(m.Rating, 0))
		}
	}
	ctx.WriteString("\nNote: Recommend 10-15 movies total. Prioritize catalog movies.")

	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, map[string]string{"CatalogContext": ctx.String()}); err != nil {
		return "", goerr.Wrap(err, "failed to render system prompt")
	}
	return buf.String(), nil
}

// searchCatalog finds movies whose title, genres or overview mention the
// query, preserving catalog order.
func (s *Service) searchCatalog(query string, limit int) []*model.MovieRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []*model.MovieRecord
	for m := range s.store.All() {
		if len(matches) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(strings.Join(m.Genres, " ")), q) ||
			strings.Contains(strings.ToLower(m.Overview), q) {
			matches = append(matches, m)
		}
	}
	return matches
}

func firstGenreKeyword(query string) string {
	q := strings.ToLower(query)
	for _, kw := range genreKeywords {
		if strings.Contains(q, kw) {
			return kw
		}
	}
	return ""
}

// conversationInput flattens bounded history plus the new query into a
// single prompt block.
func conversationInput(history []model.ChatTurn, query string) string {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Text)
	}
	fmt.Fprintf(&b, "%s: %s", types.RoleUser, query)
	return b.String()
}
