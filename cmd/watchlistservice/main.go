package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"moviehub/httpclient"
	"moviehub/httpserver"
	"moviehub/pkg/config"
	"moviehub/pkg/sentry"
	"moviehub/postgres"
	"moviehub/rabbitmq"
	"moviehub/watchlist"

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
		cfg.AppName = "watchlist-service"
	}
	if cfg.Upstream.UserServiceURL == "" || cfg.Upstream.MovieServiceURL == "" {
		slog.Error("USER_SERVICE_URL and MOVIE_SERVICE_URL are required")
		os.Exit(1)
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

	clientOpts := []httpclient.Option{
		httpclient.WithTimeout(cfg.Upstream.Timeout),
		httpclient.WithLogger(logger),
	}
	opts := []watchlist.Option{
		watchlist.WithTimeout(cfg.Upstream.Timeout),
		watchlist.WithLogger(logger),
	}
	if cfg.RabbitMQ.URL != "" {
		publisher := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		defer publisher.Close()
		opts = append(opts, watchlist.WithPublisher(publisher))
	}

	watchlistService := watchlist.NewUsecase(
		postgres.NewWatchlistRepository(db),
		httpclient.NewUserClient(cfg.Upstream.UserServiceURL, clientOpts...),
		httpclient.NewMovieClient(cfg.Upstream.MovieServiceURL, clientOpts...),
		opts...,
	)

	server, err := httpserver.New(cfg,
		httpserver.WithWatchlistService(watchlistService),
		httpserver.WithInfo("user_service", cfg.Upstream.UserServiceURL),
		httpserver.WithInfo("movie_service", cfg.Upstream.MovieServiceURL),
	)
	if err != nil {
		slog.Error("Cannot create server", "error", err)
		os.Exit(1)
	}

	slog.Info("server started!", "addr", server.Addr)
	if err := server.Run(ctx, cfg.ShutdownTimeout); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
