package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config настройки бота из окружения
type Config struct {
	TelegramToken string
	AdminID       int64
	LogLevel      string

	FilmsFile string
	UsersFile string

	GitHubRepo   string
	GitHubBranch string
	GitHubToken  string
	GitHubPath   string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	MongoURI      string
	MongoDatabase string

	RequiredChannels string
	ResolverAPIBase  string

	HTTPTimeout   time.Duration
	MirrorTimeout time.Duration
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		FilmsFile:        getEnv("FILMS_FILE", "films.json"),
		UsersFile:        getEnv("USERS_FILE", "users.json"),
		GitHubRepo:       os.Getenv("GITHUB_REPO"),
		GitHubBranch:     getEnv("GITHUB_BRANCH", "main"),
		GitHubToken:      os.Getenv("GITHUB_TOKEN"),
		GitHubPath:       getEnv("GITHUB_PATH", "films.json"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		MongoDatabase:    getEnv("MONGODB_DATABASE", "kino_bot"),
		RequiredChannels: os.Getenv("REQUIRED_CHANNELS"),
		ResolverAPIBase:  strings.TrimRight(os.Getenv("RESOLVER_API_BASE"), "/"),
	}

	var err error
	if cfg.AdminID, err = getInt64("ADMIN_ID", 0); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.MirrorTimeout, err = getDuration("MIRROR_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if (c.GitHubRepo == "") != (c.GitHubToken == "") {
		return errors.New("GITHUB_REPO and GITHUB_TOKEN must be set together")
	}
	return nil
}

// GitHubMirrorEnabled включено ли зеркало в GitHub
func (c *Config) GitHubMirrorEnabled() bool {
	return c.GitHubRepo != "" && c.GitHubToken != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getInt(key string, fallback int) (int, error) {
	n, err := getInt64(key, int64(fallback))
	return int(n), err
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse %s: duration must be positive", key)
	}
	return d, nil
}
