package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/linkboost/linkboost/internal/analytics"
	analyticsstore "github.com/linkboost/linkboost/internal/analytics/store"
	"github.com/linkboost/linkboost/internal/auth"
	"github.com/linkboost/linkboost/internal/handlers"
	"github.com/linkboost/linkboost/internal/link"
	"github.com/linkboost/linkboost/internal/messaging"
	"github.com/linkboost/linkboost/internal/middleware"
	"github.com/linkboost/linkboost/internal/ratelimit"
	"github.com/linkboost/linkboost/internal/store"
	"github.com/linkboost/linkboost/internal/user"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options configures both binaries. humacli binds them to flags and
// environment variables.
type Options struct {
	Port          int    `default:"8888"           help:"Port to listen on"                                    short:"p"`
	CodeLength    int    `default:"8"              help:"Length of generated short codes"                      short:"c"`
	RedisAddr     string `default:"localhost:6379" help:"Redis server address"                                 short:"r"`
	DatabaseURL   string `help:"Postgres connection string; in-memory storage when empty"`
	BaseURL       string `help:"Public base URL for short links; defaults to http://localhost:<port>"`
	JWTSecret     string `default:"dev-secret-change-me" help:"HS256 token signing secret"`
	TokenTTLHours int    `default:"24"             help:"Bearer token validity in hours"`
	LogFormat     string `default:"console"        help:"Log format: console or json"`
}

func (o *Options) baseURL() string {
	if o.BaseURL != "" {
		return o.BaseURL
	}

	return fmt.Sprintf("http://localhost:%d", o.Port)
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the Redis client backing the event stream and the
// rate limiter.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// StoragePackage provides the repositories and the analytics aggregator.
// With a database URL configured everything runs on Postgres; otherwise a
// single shared in-memory store backs all of them.
func StoragePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)
		if options.DatabaseURL == "" {
			return nil, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := store.Migrate(ctx, pool); err != nil {
			pool.Close()

			return nil, err
		}

		return pool, nil
	})

	do.Provide(injector, func(i *do.Injector) (*store.MemoryStore, error) {
		return store.NewMemoryStore(), nil
	})

	do.Provide(injector, func(i *do.Injector) (user.Repository, error) {
		if pool := do.MustInvoke[*pgxpool.Pool](i); pool != nil {
			return store.NewPostgresStore(pool), nil
		}

		return do.MustInvoke[*store.MemoryStore](i), nil
	})

	do.Provide(injector, func(i *do.Injector) (link.Repository, error) {
		if pool := do.MustInvoke[*pgxpool.Pool](i); pool != nil {
			return store.NewPostgresStore(pool).Links(), nil
		}

		return do.MustInvoke[*store.MemoryStore](i).Links(), nil
	})

	do.Provide(injector, func(i *do.Injector) (link.ClickRecorder, error) {
		if pool := do.MustInvoke[*pgxpool.Pool](i); pool != nil {
			return store.NewPostgresStore(pool), nil
		}

		return do.MustInvoke[*store.MemoryStore](i), nil
	})

	do.Provide(injector, func(i *do.Injector) (analytics.Aggregator, error) {
		if pool := do.MustInvoke[*pgxpool.Pool](i); pool != nil {
			return store.NewPostgresStore(pool), nil
		}

		return do.MustInvoke[*store.MemoryStore](i), nil
	})
}

// ServicePackage provides the domain services and the token manager.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*link.Service, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		generator, err := nanoid.Standard(options.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("create code generator: %w", err)
		}

		return link.NewService(do.MustInvoke[link.Repository](i), generator, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*user.Service, error) {
		return user.NewService(do.MustInvoke[user.Repository](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*auth.TokenManager, error) {
		options := do.MustInvoke[*Options](i)

		return auth.NewTokenManager(options.JWTSecret, time.Duration(options.TokenTTLHours)*time.Hour), nil
	})
}

// RateLimitPackage provides the sliding window limiter. It follows the
// storage pairing: Redis counters with a database URL configured, in-memory
// counters otherwise so a bare dev run needs no external services.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		options := do.MustInvoke[*Options](i)
		if options.DatabaseURL == "" {
			return store.NewRateLimitMemoryStore(), nil
		}

		return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		return ratelimit.NewLimiter(do.MustInvoke[ratelimit.Store](i)), nil
	})
}

// PublisherGroupPackage provides the event publisher and the typed publish
// functions used by the handlers.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkCreatedEvent](group.Publisher(), analytics.TopicLinkCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.LinkVisitedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[analytics.LinkVisitedEvent](group.Publisher(), analytics.TopicLinkVisited), nil
	})
}

// ConsumerGroupPackage provides the consumer group persisting link events
// through the analytics event store.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		return analyticsstore.NewNoop(do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[*redis.Client](i)
		eventStore := do.MustInvoke[analytics.Store](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated, eventStore.SaveLinkCreated, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkVisited, eventStore.SaveLinkVisited, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the API with the full middleware
// chain and route registration.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("LinkBoost", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.Authenticate(api, do.MustInvoke[*auth.TokenManager](i)),
			middleware.RateLimiter(api, do.MustInvoke[*ratelimit.Limiter](i), logger),
		)

		authHandler := handlers.NewAuthHandler(
			do.MustInvoke[*user.Service](i),
			do.MustInvoke[*auth.TokenManager](i),
			logger,
		)

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*link.Service](i),
			do.MustInvoke[analytics.Aggregator](i),
			options.baseURL(),
			do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i),
			logger,
		)

		redirectHandler := handlers.NewRedirectHandler(
			do.MustInvoke[*link.Service](i),
			do.MustInvoke[link.ClickRecorder](i),
			do.MustInvoke[messaging.Publish[analytics.LinkVisitedEvent]](i),
			logger,
		)

		var databaseChecker handlers.Pinger
		if pool := do.MustInvoke[*pgxpool.Pool](i); pool != nil {
			databaseChecker = handlers.NewPostgresHealthChecker(pool)
		}

		healthHandler := handlers.NewHealthHandler(
			handlers.NewRedisHealthChecker(do.MustInvoke[*redis.Client](i)),
			databaseChecker,
		)

		handlers.RegisterRoutes(api, authHandler, linkHandler, redirectHandler, healthHandler)

		return api, nil
	})
}
