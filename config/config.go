package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Driver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	DBname   string `env:"DB_NAME"`
	Username string `env:"DB_USERNAME"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	Path     string `env:"DB_PATH" envDefault:"app.db"`
	LogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	HTTPPort string `env:"SERVER_PORT" envDefault:"5555"`
}

func (store Config) Dsn() string {
	if store.Driver == "sqlite" {
		return store.Path
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		store.Host,
		store.Username,
		store.Password,
		store.DBname,
		store.Port,
		store.SSLMode,
	)
}

// New reads the configuration from the environment. Variables found in a
// .env file in the working directory are applied first without overriding
// the ones already set.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch cfg.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	return &cfg, nil
}

func (store Config) ServerPort() string {
	return store.HTTPPort
}
