package user_test

import (
	"context"
	"testing"

	"github.com/linkboost/linkboost/internal/store"
	"github.com/linkboost/linkboost/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		svc := user.NewService(store.NewMemoryStore())

		u, err := svc.Register(context.Background(), "ada", "correct horse")

		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "ada", u.Username)
		assert.NotEqual(t, "correct horse", u.Password)
		assert.NotEmpty(t, u.Password)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc := user.NewService(store.NewMemoryStore())

		_, err := svc.Register(context.Background(), "ada", "password-1")
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "ada", "password-2")

		assert.ErrorIs(t, err, user.ErrUsernameTaken)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Run("accepts correct credentials", func(t *testing.T) {
		svc := user.NewService(store.NewMemoryStore())

		registered, err := svc.Register(context.Background(), "ada", "correct horse")
		require.NoError(t, err)

		u, err := svc.Authenticate(context.Background(), "ada", "correct horse")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		svc := user.NewService(store.NewMemoryStore())

		_, err := svc.Register(context.Background(), "ada", "correct horse")
		require.NoError(t, err)

		_, err = svc.Authenticate(context.Background(), "ada", "wrong horse")

		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown user reads the same as wrong password", func(t *testing.T) {
		svc := user.NewService(store.NewMemoryStore())

		_, err := svc.Authenticate(context.Background(), "nobody", "whatever")

		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}
