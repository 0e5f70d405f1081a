package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"moviehub/pkg/config"
	"moviehub/postgres"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	var (
		dir  string
		down bool
	)
	flag.StringVar(&dir, "dir", "migrations/movie", "Directory holding the service's migration files")
	flag.BoolVar(&down, "down", false, "Roll back every applied migration instead of applying them")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		logger.Error("cannot connecting to db", "error", err)
		os.Exit(1)
	}

	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("cannot get db instance", "error", err)
		os.Exit(1)
	}

	direction := migrate.Up
	if down {
		direction = migrate.Down
	}

	// several services may share one database in local setups
	set := migrate.MigrationSet{IgnoreUnknown: true}
	total, err := set.Exec(sqlDB, "postgres", migrations, direction)
	if err != nil {
		logger.Error("cannot execute migration", "dir", dir, "error", err)
		os.Exit(1)
	}

	logger.Info("applied migrations", "dir", dir, "total", total, "down", down)
}
