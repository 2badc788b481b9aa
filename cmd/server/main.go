package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionkit/modules/member"
	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type appConfig struct {
	Env           string `env:"APP_ENV" envDefault:"development"`
	StoreDriver   string `env:"SESSION_STORE_DRIVER" envDefault:"memory"` // memory, mongo or redis
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"Session"`
}

func main() {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)

	logOpt := logger.WithDevelopment("sessionkit")
	if appCfg.Env == "production" {
		logOpt = logger.WithProduction("sessionkit")
	}
	log := logger.New(logOpt)
	logger.SetAsDefault(log)

	var sessCfg session.Config
	config.MustLoad(&sessCfg)

	store, healthchecks, err := newStore(ctx, appCfg, sessCfg)
	if err != nil {
		log.Error("session store init failed", logger.Error(err))
		os.Exit(1)
	}

	sessions := session.NewFromConfig(sessCfg,
		session.WithStore(store),
		session.WithLogger(log),
	)
	defer sessions.Close()

	registry := member.NewRegistry()
	svc := member.NewService(sessions, registry, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log, healthchecks...))
	r.Mount("/session", svc.Router())

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

// newStore builds the configured session store and the readiness checks of
// its backing infrastructure.
func newStore(ctx context.Context, appCfg appConfig, sessCfg session.Config) (session.Store, []func(context.Context) error, error) {
	switch appCfg.StoreDriver {
	case "mongo":
		var mongoCfg mongo.Config
		config.MustLoad(&mongoCfg)

		db, err := mongo.NewWithDatabase(ctx, mongoCfg, appCfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}

		store := session.NewMongoStore(db, sessCfg.MaxInactiveInterval)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}

		return store, []func(context.Context) error{mongo.Healthcheck(db.Client())}, nil

	case "redis":
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)

		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}

		store := session.NewRedisStore(client, sessCfg.MaxInactiveInterval)
		return store, []func(context.Context) error{redis.Healthcheck(client)}, nil

	default:
		slog.Warn("using in-memory session store, sessions are not shared between instances")
		store := session.NewMemoryStore(sessCfg.MaxInactiveInterval, sessCfg.CleanupInterval)
		return store, nil, nil
	}
}
