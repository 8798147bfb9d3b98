package handlers_test

import (
	"context"
	"testing"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/linkboost/linkboost/internal/analytics"
	"github.com/linkboost/linkboost/internal/auth"
	"github.com/linkboost/linkboost/internal/handlers"
	"github.com/linkboost/linkboost/internal/link"
	"github.com/linkboost/linkboost/internal/messaging"
	"github.com/linkboost/linkboost/internal/store"
	"github.com/linkboost/linkboost/internal/user"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://localhost:8888"

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// capturePublish returns a publish function that records every event.
func capturePublish[T any](events *[]T) messaging.Publish[T] {
	return func(e *T) error {
		*events = append(*events, *e)

		return nil
	}
}

type testEnv struct {
	store    *store.MemoryStore
	users    *user.Service
	links    *link.Service
	tokens   *auth.TokenManager
	auth     *handlers.AuthHandler
	link     *handlers.LinkHandler
	redirect *handlers.RedirectHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gen, err := nanoid.Standard(8)
	require.NoError(t, err)

	memStore := store.NewMemoryStore()
	logger := zap.NewNop()

	linkSvc := link.NewService(memStore.Links(), gen, logger)
	userSvc := user.NewService(memStore)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	return &testEnv{
		store:  memStore,
		users:  userSvc,
		links:  linkSvc,
		tokens: tokens,
		auth:   handlers.NewAuthHandler(userSvc, tokens, logger),
		link: handlers.NewLinkHandler(
			linkSvc,
			memStore,
			testBaseURL,
			noopPublish[analytics.LinkCreatedEvent](),
			logger,
		),
		redirect: handlers.NewRedirectHandler(
			linkSvc,
			memStore,
			noopPublish[analytics.LinkVisitedEvent](),
			logger,
		),
	}
}

// register creates an account directly against the service and returns an
// identity context for handler calls.
func (e *testEnv) register(t *testing.T, username string) (context.Context, *user.User) {
	t.Helper()

	u, err := e.users.Register(context.Background(), username, "secret123")
	require.NoError(t, err)

	ctx := auth.ContextWithIdentity(context.Background(), auth.Identity{
		UserID:   u.ID,
		Username: u.Username,
	})

	return ctx, u
}

// createLink creates a link through the handler and returns its body.
func (e *testEnv) createLink(t *testing.T, ctx context.Context, originalURL string) handlers.LinkBody {
	t.Helper()

	req := &handlers.CreateLinkRequest{}
	req.Body.OriginalURL = originalURL

	resp, err := e.link.Create(ctx, req)
	require.NoError(t, err)

	return resp.Body
}
