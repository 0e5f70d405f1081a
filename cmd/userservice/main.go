package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"moviehub/httpserver"
	"moviehub/pkg/bcrypt"
	"moviehub/pkg/config"
	"moviehub/pkg/sentry"
	"moviehub/postgres"
	"moviehub/user"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
	xbcrypt "golang.org/x/crypto/bcrypt"
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
		cfg.AppName = "user-service"
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

	userService := user.NewUsecase(postgres.NewUserRepository(db), bcrypt.NewHasher(xbcrypt.DefaultCost))
	server, err := httpserver.New(cfg, httpserver.WithUserService(userService))
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
