package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/linkboost/linkboost/internal/auth"
	"github.com/linkboost/linkboost/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthAPI(t *testing.T) (*chi.Mux, huma.API, *auth.TokenManager) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", time.Hour)

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.Authenticate(api, tokens))

	return router, api, tokens
}

func registerProtected(api huma.API, identities chan<- auth.Identity) {
	huma.Register(api, huma.Operation{
		OperationID: "protected",
		Method:      http.MethodGet,
		Path:        "/protected",
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		if id, ok := auth.IdentityFromContext(ctx); ok {
			identities <- id
		}

		return &testOutput{Body: "ok"}, nil
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("open operations pass through", func(t *testing.T) {
		router, api, _ := setupAuthAPI(t)

		huma.Get(api, "/open", func(_ context.Context, _ *struct{}) (*testOutput, error) {
			return &testOutput{Body: "ok"}, nil
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		router, api, _ := setupAuthAPI(t)
		registerProtected(api, make(chan auth.Identity, 1))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed authorization header is rejected", func(t *testing.T) {
		router, api, _ := setupAuthAPI(t)
		registerProtected(api, make(chan auth.Identity, 1))

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic abc123")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		router, api, _ := setupAuthAPI(t)
		registerProtected(api, make(chan auth.Identity, 1))

		expired := auth.NewTokenManager("test-secret", -time.Hour)
		token, err := expired.Issue(7, "ada")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token reaches the handler with identity", func(t *testing.T) {
		router, api, tokens := setupAuthAPI(t)

		identities := make(chan auth.Identity, 1)
		registerProtected(api, identities)

		token, err := tokens.Issue(7, "ada")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		id := <-identities
		assert.EqualValues(t, 7, id.UserID)
		assert.Equal(t, "ada", id.Username)
	})
}
