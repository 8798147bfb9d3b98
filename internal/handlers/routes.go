package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkboost/linkboost/internal/auth"
	"github.com/linkboost/linkboost/internal/ratelimit"
)

// RegisterRoutes registers the full HTTP surface. Operations carry their
// auth requirement and rate limit configuration as metadata consumed by the
// middleware chain.
func RegisterRoutes(
	api huma.API,
	authHandler *AuthHandler,
	linkHandler *LinkHandler,
	redirectHandler *RedirectHandler,
	healthHandler *HealthHandler,
) {
	authLimits := ratelimit.EndpointConfig{
		Limits: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 10},
			{Window: time.Hour, Max: 100},
		},
	}

	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register an account",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			ratelimit.MetadataKey: authLimits,
		},
	}, authHandler.Register)

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in",
		Tags:        []string{"Auth"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: authLimits,
		},
	}, authHandler.Login)

	huma.Register(api, huma.Operation{
		OperationID:   "create-link",
		Method:        http.MethodPost,
		Path:          "/links",
		Summary:       "Create a link",
		Description:   "Creates a shortened link owned by the authenticated caller.",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusCreated,
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, linkHandler.Create)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/links",
		Summary:     "List own links",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, linkHandler.List)

	huma.Register(api, huma.Operation{
		OperationID: "list-public-links",
		Method:      http.MethodGet,
		Path:        "/links/public",
		Summary:     "List published links",
		Description: "All published links across all users, annotated with the owning username.",
		Tags:        []string{"Links"},
	}, linkHandler.ListPublic)

	huma.Register(api, huma.Operation{
		OperationID: "get-link",
		Method:      http.MethodGet,
		Path:        "/links/{id}",
		Summary:     "Get a link",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, linkHandler.Get)

	huma.Register(api, huma.Operation{
		OperationID: "update-link",
		Method:      http.MethodPatch,
		Path:        "/links/{id}",
		Summary:     "Update a link",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, linkHandler.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-link",
		Method:        http.MethodDelete,
		Path:          "/links/{id}",
		Summary:       "Delete a link",
		Tags:          []string{"Links"},
		DefaultStatus: http.StatusNoContent,
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, linkHandler.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "link-analytics",
		Method:      http.MethodGet,
		Path:        "/links/{id}/analytics",
		Summary:     "Per-day click counts",
		Tags:        []string{"Analytics"},
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, linkHandler.Analytics)

	huma.Register(api, huma.Operation{
		OperationID: "leaderboard",
		Method:      http.MethodGet,
		Path:        "/leaderboard",
		Summary:     "Top users by total clicks",
		Tags:        []string{"Analytics"},
		Metadata: map[string]any{
			auth.MetadataKey: true,
		},
	}, linkHandler.Leaderboard)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/s/{shortCode}",
		Summary:     "Redirect to destination",
		Description: "Resolves a short code, records the click, and redirects.",
		Tags:        []string{"Redirect"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, redirectHandler.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, healthHandler.Check)
}
