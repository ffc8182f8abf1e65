package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config хранит настройки сервиса, читаемые из переменных окружения.
type Config struct {
	Port         int    `env:"PORT, default=8000"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`
	Debug        bool   `env:"DEBUG, default=false"`
}

var supportedSchemes = map[string]bool{
	"mongodb":     true,
	"mongodb+srv": true,
	"postgres":    true,
	"postgresql":  true,
	"memory":      true,
}

// Validate проверяет диапазон порта и схему DATABASE_URL, если она задана.
func (cfg *Config) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	if cfg.DatabaseURL == "" {
		return nil
	}
	u, err := url.ParseRequestURI(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	if !supportedSchemes[u.Scheme] {
		return fmt.Errorf("unsupported DATABASE_URL scheme: %q", u.Scheme)
	}
	return nil
}

// DatabaseConfigured сообщает, задан ли адрес базы данных.
func (cfg *Config) DatabaseConfigured() bool {
	return cfg.DatabaseURL != ""
}

// Addr возвращает адрес для http.Server.
func (cfg *Config) Addr() string {
	return fmt.Sprintf(":%d", cfg.Port)
}

// LoadConfig подгружает .env (если файл есть) и читает конфигурацию из окружения.
func LoadConfig(ctx context.Context, envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith читает конфигурацию через произвольный Lookuper и валидирует её.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
