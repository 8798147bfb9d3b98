package middleware

import (
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkboost/linkboost/internal/auth"
)

// Authenticate is a middleware that verifies bearer tokens on operations
// marked with auth.MetadataKey. Unmarked operations pass through untouched;
// marked operations get 401 before the handler when the token is missing or
// invalid, and the caller's identity in context otherwise.
func Authenticate(api huma.API, tokens *auth.TokenManager) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if !requiresAuth(ctx) {
			next(ctx)

			return
		}

		token, ok := bearerToken(ctx.Header("Authorization"))
		if !ok {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "authentication required")

			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "invalid or expired token")

			return
		}

		newCtx := auth.ContextWithIdentity(ctx.Context(), identity)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

func requiresAuth(ctx huma.Context) bool {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return false
	}

	required, ok := op.Metadata[auth.MetadataKey].(bool)

	return ok && required
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "

	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))

	return token, token != ""
}
