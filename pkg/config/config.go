package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var Empty = new(Config)

type Config struct {
	AppEnv          string        `envconfig:"APP_ENV"`
	AppName         string        `envconfig:"APP_NAME"`
	Port            int           `envconfig:"PORT"`
	SentryDSN       string        `envconfig:"SENTRY_DSN"`
	AllowOrigins    string        `envconfig:"ALLOW_ORIGINS"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	// RateLimit is the per-client request rate in requests per second. Zero disables limiting.
	RateLimit float64 `envconfig:"RATE_LIMIT" default:"20"`

	DB struct {
		Name      string `envconfig:"DB_NAME"`
		Host      string `envconfig:"DB_HOST"`
		Port      int    `envconfig:"DB_PORT"`
		User      string `envconfig:"DB_USER"`
		Pass      string `envconfig:"DB_PASS"`
		EnableSSL bool   `envconfig:"ENABLE_SSL"`
	}
	Cache struct {
		// Driver is one of redis, memory or none.
		Driver string `envconfig:"CACHE_DRIVER" default:"redis"`
	}
	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB"`
	}
	Upstream struct {
		UserServiceURL  string        `envconfig:"USER_SERVICE_URL"`
		MovieServiceURL string        `envconfig:"MOVIE_SERVICE_URL"`
		Timeout         time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"3s"`
	}
	RabbitMQ struct {
		URL   string `envconfig:"RABBITMQ_URL"`
		Queue string `envconfig:"RABBITMQ_QUEUE" default:"watchlist.events"`
	}
}

func LoadConfig() (*Config, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	cfg := new(Config)
	err := envconfig.Process("", cfg)
	if err != nil {
		return nil, fmt.Errorf("load config error: %v", err)
	}

	return cfg, nil
}
