package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/filmlab/cinemate/pkg/domain/types"
	"github.com/filmlab/cinemate/pkg/service/assistant"
	"github.com/filmlab/cinemate/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

func chatUseCases(t *testing.T, session *mockLLMSession, opts ...usecase.Option) *usecase.UseCases {
	t.Helper()
	store, sim := testCatalog(t)
	opts = append(opts, usecase.WithAssistant(assistant.New(&mockLLMClient{session: session}, store)))
	return usecase.New(store, sim, opts...)
}

func TestChatSend(t *testing.T) {
	t.Run("chat disabled without an assistant", func(t *testing.T) {
		store, sim := testCatalog(t)
		uc := usecase.New(store, sim)

		_, _, err := uc.Chat.Send(context.Background(), "", "hi")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrConfigMissing))
	})

	t.Run("empty message is invalid", func(t *testing.T) {
		uc := chatUseCases(t, nil)

		_, _, err := uc.Chat.Send(context.Background(), "", "")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidArgument))
	})

	t.Run("empty session ID starts a new session", func(t *testing.T) {
		uc := chatUseCases(t, &mockLLMSession{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return &gollem.Response{Texts: []string{`{"message": "Try Inception.", "database_movies": [], "external_movies": []}`}}, nil
			},
		})

		sessionID, reply, err := uc.Chat.Send(context.Background(), "", "recommend something")
		gt.NoError(t, err).Required()
		gt.Value(t, string(sessionID)).NotEqual("")
		gt.Value(t, reply.Message).Equal("Try Inception.")

		turns, err := uc.Chat.History(sessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, turns).Length(2).Required()
		gt.Value(t, turns[0].Role).Equal(types.RoleUser)
		gt.Value(t, turns[0].Text).Equal("recommend something")
		gt.Value(t, turns[1].Role).Equal(types.RoleAssistant)
	})

	t.Run("follow-up reuses the session and grows history", func(t *testing.T) {
		uc := chatUseCases(t, nil)

		sessionID, _, err := uc.Chat.Send(context.Background(), "", "first")
		gt.NoError(t, err).Required()

		gotID, _, err := uc.Chat.Send(context.Background(), sessionID, "second")
		gt.NoError(t, err).Required()
		gt.Value(t, gotID).Equal(sessionID)

		turns, err := uc.Chat.History(sessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, turns).Length(4)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		uc := chatUseCases(t, nil)

		first, _, err := uc.Chat.Send(context.Background(), "", "one")
		gt.NoError(t, err).Required()
		second, _, err := uc.Chat.Send(context.Background(), "", "two")
		gt.NoError(t, err).Required()
		gt.Value(t, first).NotEqual(second)

		turns, err := uc.Chat.History(second)
		gt.NoError(t, err).Required()
		gt.Array(t, turns).Length(2)
		gt.Value(t, turns[0].Text).Equal("two")
	})

	t.Run("unknown session is rejected", func(t *testing.T) {
		uc := chatUseCases(t, nil)

		_, _, err := uc.Chat.Send(context.Background(), types.SessionID("missing"), "hi")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrSessionNotFound))
	})

	t.Run("gateway failure serves a degraded reply and keeps the session", func(t *testing.T) {
		uc := chatUseCases(t, &mockLLMSession{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return nil, goerr.New("rate limit exceeded")
			},
		})

		sessionID, reply, err := uc.Chat.Send(context.Background(), "", "hello")
		gt.NoError(t, err).Required()
		gt.True(t, reply.Degraded)
		gt.Value(t, reply.Message).NotEqual("")

		turns, err := uc.Chat.History(sessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, turns).Length(2)
	})

	t.Run("concurrent sends on one session keep history consistent", func(t *testing.T) {
		uc := chatUseCases(t, nil)

		sessionID, _, err := uc.Chat.Send(context.Background(), "", "opening")
		gt.NoError(t, err).Required()

		const senders = 16
		var wg sync.WaitGroup
		errs := make([]error, senders)
		for i := range senders {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, errs[i] = uc.Chat.Send(context.Background(), sessionID, "follow-up")
			}()
		}
		wg.Wait()

		for _, err := range errs {
			gt.NoError(t, err)
		}
		turns, err := uc.Chat.History(sessionID)
		gt.NoError(t, err).Required()
		gt.Array(t, turns).Length(2 + senders*2)
	})

	t.Run("external recommendations get posters", func(t *testing.T) {
		uc := chatUseCases(t, &mockLLMSession{
			generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
				return &gollem.Response{Texts: []string{`{"message": "One from outside the catalog.", "database_movies": [], "external_movies": [{"title": "Primer", "reason": "low budget time travel"}]}`}}, nil
			},
		}, usecase.WithMetadata(&mockMetadata{}))

		_, reply, err := uc.Chat.Send(context.Background(), "", "something obscure")
		gt.NoError(t, err).Required()
		gt.Array(t, reply.ExternalMovies).Length(1).Required()
		gt.Value(t, reply.ExternalMovies[0].PosterURL).Equal("http://posters.test/external")
		gt.Value(t, reply.ExternalMovies[0].Year).Equal(2004)
	})
}

func TestChatClear(t *testing.T) {
	t.Run("clears an existing session", func(t *testing.T) {
		uc := chatUseCases(t, nil)

		sessionID, _, err := uc.Chat.Send(context.Background(), "", "hi")
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.Chat.Clear(context.Background(), sessionID))

		_, err = uc.Chat.History(sessionID)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrSessionNotFound))
	})

	t.Run("unknown session is rejected", func(t *testing.T) {
		uc := chatUseCases(t, nil)

		err := uc.Chat.Clear(context.Background(), types.SessionID("missing"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrSessionNotFound))
	})
}
