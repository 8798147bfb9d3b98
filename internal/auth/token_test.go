package auth_test

import (
	"testing"
	"time"

	"github.com/linkboost/linkboost/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue(42, "ada")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := manager.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.UserID)
	assert.Equal(t, "ada", identity.Username)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", time.Hour)

	_, err := manager.Verify("not.a.token")

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", time.Hour)
	verifier := auth.NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(1, "ada")
	require.NoError(t, err)

	_, err = verifier.Verify(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue(1, "ada")
	require.NoError(t, err)

	_, err = manager.Verify(token)

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	t.Run("round trips through context", func(t *testing.T) {
		id := auth.Identity{UserID: 7, Username: "grace"}

		ctx := auth.ContextWithIdentity(t.Context(), id)

		got, ok := auth.IdentityFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, id, got)
	})

	t.Run("absent identity reports false", func(t *testing.T) {
		_, ok := auth.IdentityFromContext(t.Context())

		assert.False(t, ok)
	})
}
