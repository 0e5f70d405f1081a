package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"moviehub/httpserver"
	"moviehub/memory"
	"moviehub/movie"
	"moviehub/pkg/config"
	"moviehub/pkg/sentry"
	"moviehub/postgres"
	"moviehub/redis"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}
	if cfg.AppName == "" {
		cfg.AppName = "movie-service"
	}

	// the watchlist service calls this one from a single address, so a
	// per-IP limit would throttle it; limiting here is opt-in
	if _, ok := os.LookupEnv("RATE_LIMIT"); !ok {
		cfg.RateLimit = 0
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		slog.Error("Cannot open postgres connection", "error", err)
		os.Exit(1)
	}

	cache, driver := newCache(ctx, cfg, logger)
	defer func() {
		if closer, ok := cache.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}()

	server, err := httpserver.New(cfg,
		httpserver.WithMovieService(movie.NewUsecase(postgres.NewMovieRepository(db), cache, logger)),
		httpserver.WithInfo("cache", driver),
	)
	if err != nil {
		slog.Error("Cannot create server", "error", err)
		os.Exit(1)
	}

	slog.Info("server started!", "addr", server.Addr, "cache", driver)
	if err := server.Run(ctx, cfg.ShutdownTimeout); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// newCache picks the cache backend. An unreachable redis is not fatal: the
// service keeps serving from postgres without a cache.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (movie.Cache, string) {
	switch cfg.Cache.Driver {
	case "memory":
		return memory.NewMovieCache(), "memory"
	case "none":
		return movie.NoopCache{}, "none"
	}

	client, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Warn("redis unavailable, running without cache", "addr", cfg.Redis.Addr, "error", err)
		return movie.NoopCache{}, "none"
	}
	return redisCache{MovieCache: redis.NewMovieCache(client), close: client.Close}, "redis"
}

type redisCache struct {
	*redis.MovieCache
	close func() error
}

func (c redisCache) Close() error { return c.close() }
