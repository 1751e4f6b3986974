package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/filmlab/cinemate/pkg/domain/model"
	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/filmlab/cinemate/pkg/service/assistant"
	"github.com/filmlab/cinemate/pkg/utils/errutil"
	"github.com/filmlab/cinemate/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// ChatUseCase manages per-session conversations with the assistant.
// Sessions live only in process memory and are isolated from each other;
// the session map is the only shared state and is mutex-guarded.
type ChatUseCase struct {
	uc *UseCases

	mu       sync.Mutex
	sessions map[types.SessionID]*model.ChatSession
}

func newChatUseCase(uc *UseCases) *ChatUseCase {
	return &ChatUseCase{
		uc:       uc,
		sessions: make(map[types.SessionID]*model.ChatSession),
	}
}

// Send forwards a user message to the assistant within the session. An
// empty session ID starts a new session. Gateway failures degrade to a
// user-visible message and keep the session alive; a missing LLM
// configuration disables the feature with ErrConfigMissing.
func (c *ChatUseCase) Send(ctx context.Context, sessionID types.SessionID, message string) (types.SessionID, *model.ChatReply, error) {
	if c.uc.assistant == nil {
		return "", nil, goerr.Wrap(types.ErrConfigMissing, "chat requires an LLM API key")
	}
	if message == "" {
		return "", nil, goerr.Wrap(types.ErrInvalidArgument, "message must not be empty")
	}

	// The snapshot is taken under the session lock; the assistant
	// receives the new query separately and never sees the live slice.
	session, history, err := c.session(sessionID)
	if err != nil {
		return "", nil, err
	}

	reply, err := c.uc.assistant.Converse(ctx, history, message)
	if err != nil {
		if !errors.Is(err, types.ErrGateway) {
			return "", nil, err
		}
		_ = errutil.Handle(ctx, err, "assistant gateway failed, serving degraded reply")
		reply = assistant.DegradedReply(err)
	}

	c.enrichExternal(ctx, reply)

	c.mu.Lock()
	session.Append(types.RoleUser, message)
	session.Append(types.RoleAssistant, reply.Message)
	c.mu.Unlock()

	return session.ID, reply, nil
}

// History returns a copy of the session's turns
func (c *ChatUseCase) History(sessionID types.SessionID) ([]model.ChatTurn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[sessionID]
	if !ok {
		return nil, goerr.Wrap(types.ErrSessionNotFound, "no such session",
			goerr.V(types.SessionIDKey, sessionID))
	}
	return append([]model.ChatTurn(nil), session.Turns...), nil
}

// Clear discards the session and its history
func (c *ChatUseCase) Clear(ctx context.Context, sessionID types.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[sessionID]; !ok {
		return goerr.Wrap(types.ErrSessionNotFound, "no such session",
			goerr.V(types.SessionIDKey, sessionID))
	}
	delete(c.sessions, sessionID)
	logging.From(ctx).Debug("chat session cleared", "session_id", sessionID)
	return nil
}

// session resolves or creates the session and returns a copy of its
// turns, both under the store lock. Turns must never be read outside it:
// a concurrent Send for the same session appends to the same slice.
func (c *ChatUseCase) session(id types.SessionID) (*model.ChatSession, []model.ChatTurn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" {
		session := model.NewChatSession()
		c.sessions[session.ID] = session
		return session, nil, nil
	}

	session, ok := c.sessions[id]
	if !ok {
		return nil, nil, goerr.Wrap(types.ErrSessionNotFound, "no such session",
			goerr.V(types.SessionIDKey, id))
	}
	return session, append([]model.ChatTurn(nil), session.Turns...), nil
}

// enrichExternal resolves posters for external recommendations when the
// metadata gateway is configured. Failures leave entries as-is.
func (c *ChatUseCase) enrichExternal(ctx context.Context, reply *model.ChatReply) {
	if c.uc.metadata == nil || len(reply.ExternalMovies) == 0 {
		return
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(posterWorkers)
	for i := range reply.ExternalMovies {
		eg.Go(func() error {
			entry := &reply.ExternalMovies[i]
			found, err := c.uc.metadata.SearchMovie(egCtx, entry.Title, entry.Year)
			if err != nil {
				return nil
			}
			entry.PosterURL = found.PosterURL
			if entry.Year == 0 {
				entry.Year = found.Year
			}
			return nil
		})
	}
	_ = eg.Wait()
}
