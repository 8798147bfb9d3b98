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
	"github.com/linkboost/linkboost/internal/middleware"
	"github.com/linkboost/linkboost/internal/ratelimit"
	"github.com/linkboost/linkboost/internal/store"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupLimitAPI(t *testing.T) (*chi.Mux, huma.API) {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))

	limiter := ratelimit.NewLimiter(store.NewRateLimitMemoryStore())
	api.UseMiddleware(middleware.RateLimiter(api, limiter, zap.NewNop()))

	return router, api
}

func registerLimited(api huma.API, path string, cfg ratelimit.EndpointConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "limited" + path,
		Method:      http.MethodGet,
		Path:        path,
		Metadata: map[string]any{
			ratelimit.MetadataKey: cfg,
		},
	}, func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{Body: "ok"}, nil
	})
}

func get(router *chi.Mux, path, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("unconfigured operations are not limited", func(t *testing.T) {
		router, api := setupLimitAPI(t)

		huma.Get(api, "/free", func(_ context.Context, _ *struct{}) (*testOutput, error) {
			return &testOutput{Body: "ok"}, nil
		})

		for i := 0; i < 20; i++ {
			assert.Equal(t, http.StatusOK, get(router, "/free", "").Code)
		}
	})

	t.Run("disabled config is not limited", func(t *testing.T) {
		router, api := setupLimitAPI(t)

		registerLimited(api, "/disabled", ratelimit.EndpointConfig{
			Limits:   []ratelimit.LimitConfig{{Window: time.Minute, Max: 1}},
			Disabled: true,
		})

		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, get(router, "/disabled", "").Code)
		}
	})

	t.Run("requests over the limit get 429", func(t *testing.T) {
		router, api := setupLimitAPI(t)

		registerLimited(api, "/limited", ratelimit.EndpointConfig{
			Limits: []ratelimit.LimitConfig{{Window: time.Minute, Max: 3}},
		})

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, get(router, "/limited", "").Code)
		}

		assert.Equal(t, http.StatusTooManyRequests, get(router, "/limited", "").Code)
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		router, api := setupLimitAPI(t)

		registerLimited(api, "/per-client", ratelimit.EndpointConfig{
			Limits: []ratelimit.LimitConfig{{Window: time.Minute, Max: 1}},
		})

		assert.Equal(t, http.StatusOK, get(router, "/per-client", "198.51.100.1").Code)
		assert.Equal(t, http.StatusTooManyRequests, get(router, "/per-client", "198.51.100.1").Code)

		assert.Equal(t, http.StatusOK, get(router, "/per-client", "198.51.100.2").Code)
	})
}
