package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

const (
	defaultSessionPrefix = "kino-bot:session:"
	defaultSessionTTL    = 24 * time.Hour
)

// RedisSessionConfig настройки хранилища сессий в Redis
type RedisSessionConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// RedisSessionRepository хранит сессии в Redis, чтобы они переживали перезапуск бота
type RedisSessionRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisSessionRepository подключается к Redis и проверяет соединение
func NewRedisSessionRepository(ctx context.Context, cfg RedisSessionConfig) (*RedisSessionRepository, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:      []string{addr},
		Password:   cfg.Password,
		DB:         cfg.DB,
		MaxRetries: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newRedisSessionRepository(client, cfg.Prefix, cfg.TTL), nil
}

func newRedisSessionRepository(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisSessionRepository {
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisSessionRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisSessionRepository) key(userID int64) string {
	return r.prefix + strconv.FormatInt(userID, 10)
}

// Get возвращает сессию пользователя, создаёт новую если ключа нет или он истёк
func (r *RedisSessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.NewSession(userID, chatID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session %d: %w", userID, err)
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", userID, err)
	}
	return &session, nil
}

// Save сохраняет сессию. Сессия в Idle просто удаляется.
func (r *RedisSessionRepository) Save(ctx context.Context, session *entity.Session) error {
	key := r.key(session.UserID)
	if session.State == entity.StateIdle {
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("redis del session %d: %w", session.UserID, err)
		}
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", session.UserID, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session %d: %w", session.UserID, err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (r *RedisSessionRepository) Close() error {
	return r.client.Close()
}

var _ port.SessionRepository = (*RedisSessionRepository)(nil)
