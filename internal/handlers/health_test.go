package handlers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/linkboost/linkboost/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

func TestHealthCheck(t *testing.T) {
	t.Run("reports ok with healthy backends", func(t *testing.T) {
		handler := handlers.NewHealthHandler(&mockPinger{}, &mockPinger{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Database)
	})

	t.Run("reports degraded when redis is down", func(t *testing.T) {
		handler := handlers.NewHealthHandler(&mockPinger{err: errors.New("down")}, &mockPinger{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Redis)
		assert.Equal(t, "healthy", resp.Body.Database)
	})

	t.Run("reports degraded when the database is down", func(t *testing.T) {
		handler := handlers.NewHealthHandler(&mockPinger{}, &mockPinger{err: errors.New("down")})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Database)
	})

	t.Run("tolerates unconfigured backends", func(t *testing.T) {
		handler := handlers.NewHealthHandler(nil, nil)

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Empty(t, resp.Body.Redis)
		assert.Empty(t, resp.Body.Database)
	})
}
