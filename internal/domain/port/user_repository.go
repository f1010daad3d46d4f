package port

import (
	"context"

	"kino-bot/internal/domain/entity"
)

// UserRepository интерфейс хранилища пользователей бота
type UserRepository interface {
	// Get возвращает пользователя по ID или nil, если он ещё не писал боту
	Get(ctx context.Context, userID int64) (*entity.UserRecord, error)

	// Save сохраняет запись пользователя
	Save(ctx context.Context, user *entity.UserRecord) error

	// Count возвращает число известных пользователей
	Count(ctx context.Context) (int, error)
}
