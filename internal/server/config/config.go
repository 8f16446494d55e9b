// Package config собирает конфигурацию сервера из переменных окружения
// и флагов командной строки. Флаги имеют приоритет над окружением.
package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the brainrot server.
type Config struct {
	RunAddress   string        // адрес HTTP сервера
	DatabaseURI  string        // путь к SQLite файлу или postgres:// DSN
	JWTSecret    string        // HMAC секрет для подписи JWT (HS256)
	TokenTTL     time.Duration // время жизни session token
	AIServiceURL string        // базовый URL AI сервиса генерации
	CORSOrigin   string        // разрешенный origin фронтенда
	ResendAPIKey string        // API ключ Resend
	FromEmail    string        // адрес отправителя reset писем
	ResetURLBase string        // базовый URL для reset ссылок в письмах
	LogLevel     slog.Level    // уровень логирования
}

// loadDefaults заполняет значения для локальной разработки
// JWT_SECRET дефолта не имеет и обязан быть задан явно
func (c *Config) loadDefaults() {
	c.RunAddress = ":3000"
	c.DatabaseURI = "brainrot.db"
	c.TokenTTL = 24 * time.Hour
	c.AIServiceURL = "http://localhost:5000"
	c.CORSOrigin = "http://localhost:5173"
	c.FromEmail = "onboarding@resend.dev"
	c.LogLevel = slog.LevelInfo
}

// loadEnv накладывает переменные окружения поверх дефолтов
func (c *Config) loadEnv() error {
	if v := os.Getenv("RUN_ADDRESS"); v != "" {
		c.RunAddress = v
	}
	if v := os.Getenv("DATABASE_URI"); v != "" {
		c.DatabaseURI = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
		}
		c.TokenTTL = ttl
	}
	if v := os.Getenv("AI_SERVICE_URL"); v != "" {
		c.AIServiceURL = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		c.CORSOrigin = v
	}
	if v := os.Getenv("RESEND_API_KEY"); v != "" {
		c.ResendAPIKey = v
	}
	if v := os.Getenv("FROM_EMAIL"); v != "" {
		c.FromEmail = v
	}
	if v := os.Getenv("RESET_URL_BASE"); v != "" {
		c.ResetURLBase = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}
	return nil
}

// parseFlags накладывает флаги командной строки поверх окружения
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&c.RunAddress, "a", c.RunAddress, "listen address")
	fs.StringVar(&c.DatabaseURI, "d", c.DatabaseURI, "SQLite file path or postgres:// DSN")
	fs.StringVar(&c.AIServiceURL, "g", c.AIServiceURL, "AI generation service base URL")
	return fs.Parse(args)
}

// validate проверяет обязательные параметры
func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

// Load builds a Config: defaults, then environment, then flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.loadDefaults()

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	// Reset ссылки по умолчанию ведут на фронтенд
	if cfg.ResetURLBase == "" {
		cfg.ResetURLBase = cfg.CORSOrigin
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsPostgres reports whether DatabaseURI points at a PostgreSQL server.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURI, "postgres://") ||
		strings.HasPrefix(c.DatabaseURI, "postgresql://")
}
