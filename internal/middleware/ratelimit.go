package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkboost/linkboost/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter is a middleware applying per-endpoint sliding-window limits
// configured via operation metadata (ratelimit.MetadataKey). Endpoints
// without a config, or with Disabled set, pass through.
//
// The counter key combines the hashed client (IP + User-Agent) with the
// operation's route template, so all requests matching the same route share
// counters per client.
func RateLimiter(api huma.API, limiter *ratelimit.Limiter, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.GetEndpointConfig(ctx)
		if cfg == nil || cfg.Disabled || len(cfg.Limits) == 0 {
			next(ctx)

			return
		}

		key := clientKey(ctx) + ":" + operationPath(ctx)

		allowed, exceeded, err := limiter.Allow(ctx.Context(), key, cfg.Limits)
		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", operationPath(ctx)), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			msg := "rate limit exceeded"
			if exceeded != nil {
				msg = fmt.Sprintf("rate limit exceeded: %d/%d requests in %s",
					exceeded.Count, exceeded.Config.Max, exceeded.Config.Window)
				logger.Warn("rate limit exceeded",
					zap.String("path", operationPath(ctx)),
					zap.String("method", ctx.Method()),
					zap.Int64("count", exceeded.Count),
					zap.Int64("max", exceeded.Config.Max),
					zap.Duration("window", exceeded.Config.Window),
					zap.String("client_ip", clientIP(ctx)),
				)
			}

			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)

			return
		}

		next(ctx)
	}
}

// clientKey hashes IP and User-Agent into a stable per-client key.
func clientKey(ctx huma.Context) string {
	ip := clientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
