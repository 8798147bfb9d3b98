package ratelimit

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the key used to store rate limit config in operation metadata.
const MetadataKey = "rateLimit"

// Store defines the interface for rate limit data storage.
type Store interface {
	// Record records a request and returns the count of requests in the
	// current window. It prunes expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// LimitConfig is one sliding-window limit.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig defines per-endpoint rate limit configuration, attached to
// huma operations via the Metadata field. Operations without a config are
// not rate limited.
type EndpointConfig struct {
	Limits []LimitConfig

	// Disabled skips rate limiting entirely for this endpoint.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata, if present.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}

// Exceeded describes the limit a request ran into.
type Exceeded struct {
	Config LimitConfig
	Count  int64
}

// Limiter checks a client key against a set of sliding-window limits.
type Limiter struct {
	store Store
}

// NewLimiter creates a limiter over the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow records the request under every limit window and reports whether all
// limits hold. Each window gets its own counter key so the windows are
// tracked independently.
func (l *Limiter) Allow(ctx context.Context, key string, limits []LimitConfig) (bool, *Exceeded, error) {
	for _, limit := range limits {
		windowKey := key + ":" + limit.Window.String()

		count, err := l.store.Record(ctx, windowKey, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &Exceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}
