package port

import (
	"context"

	"kino-bot/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий диалога
type SessionRepository interface {
	// Get возвращает сессию пользователя, создаёт новую если не найдена
	Get(ctx context.Context, userID, chatID int64) (*entity.Session, error)

	// Save сохраняет состояние сессии
	Save(ctx context.Context, session *entity.Session) error
}
