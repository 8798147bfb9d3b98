package container_test

import (
	"testing"

	"github.com/linkboost/linkboost/internal/container"
	"github.com/linkboost/linkboost/internal/ratelimit"
	"github.com/linkboost/linkboost/internal/store"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
)

func newInjector(t *testing.T, options *container.Options) *do.Injector {
	t.Helper()

	injector := do.New()
	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.RateLimitPackage(injector)

	t.Cleanup(func() {
		_ = injector.Shutdown()
	})

	return injector
}

func TestRateLimitStoreSelection(t *testing.T) {
	t.Run("in-memory counters without a database", func(t *testing.T) {
		injector := newInjector(t, &container.Options{RedisAddr: "localhost:6379"})

		s := do.MustInvoke[ratelimit.Store](injector)

		assert.IsType(t, &store.RateLimitMemoryStore{}, s)
	})

	t.Run("redis counters with a database configured", func(t *testing.T) {
		injector := newInjector(t, &container.Options{
			RedisAddr:   "localhost:6379",
			DatabaseURL: "postgres://localhost:5432/linkboost",
		})

		s := do.MustInvoke[ratelimit.Store](injector)

		assert.IsType(t, &store.RateLimitRedisStore{}, s)
	})

	t.Run("limiter builds on the selected store", func(t *testing.T) {
		injector := newInjector(t, &container.Options{RedisAddr: "localhost:6379"})

		limiter := do.MustInvoke[*ratelimit.Limiter](injector)

		assert.NotNil(t, limiter)
	})
}
