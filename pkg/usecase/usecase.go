package usecase

import (
	"github.com/filmlab/cinemate/pkg/domain/interfaces"
	"github.com/filmlab/cinemate/pkg/domain/model/config"
	"github.com/filmlab/cinemate/pkg/repository/catalog"
	"github.com/filmlab/cinemate/pkg/service/assistant"
	"github.com/filmlab/cinemate/pkg/service/recommend"
	"github.com/filmlab/cinemate/pkg/service/search"
)

// UseCases wires the catalog, similarity index and external gateways into
// the operations the HTTP surface exposes. The catalog and similarity
// index are injected at construction and never mutated afterwards.
type UseCases struct {
	store       *catalog.Store
	recommender *recommend.Recommender
	searchIndex *search.Index
	metadata    interfaces.MetadataService
	assistant   *assistant.Service
	ui          *config.UIConfig

	Movie     *MovieUseCase
	Analytics *AnalyticsUseCase
	Chat      *ChatUseCase
}

type Option func(*UseCases)

// WithMetadata enables enrichment via the external movie database.
// Without it every view degrades to catalog-only fields.
func WithMetadata(svc interfaces.MetadataService) Option {
	return func(uc *UseCases) {
		uc.metadata = svc
	}
}

// WithAssistant enables the chat feature
func WithAssistant(svc *assistant.Service) Option {
	return func(uc *UseCases) {
		uc.assistant = svc
	}
}

// WithUIConfig overrides the default display settings
func WithUIConfig(cfg *config.UIConfig) Option {
	return func(uc *UseCases) {
		if cfg != nil {
			uc.ui = cfg
		}
	}
}

func New(store *catalog.Store, sim *catalog.Similarity, opts ...Option) *UseCases {
	uc := &UseCases{
		store:       store,
		recommender: recommend.New(store, sim),
		searchIndex: search.New(store),
		ui:          config.DefaultUIConfig(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Movie = newMovieUseCase(uc)
	uc.Analytics = newAnalyticsUseCase(uc)
	uc.Chat = newChatUseCase(uc)

	return uc
}

// Store returns the underlying catalog
func (uc *UseCases) Store() *catalog.Store {
	return uc.store
}

// UIConfig returns the display settings in effect
func (uc *UseCases) UIConfig() *config.UIConfig {
	return uc.ui
}

// MetadataEnabled reports whether the external metadata feature is
// configured.
func (uc *UseCases) MetadataEnabled() bool {
	return uc.metadata != nil
}

// ChatEnabled reports whether the assistant feature is configured
func (uc *UseCases) ChatEnabled() bool {
	return uc.assistant != nil
}
