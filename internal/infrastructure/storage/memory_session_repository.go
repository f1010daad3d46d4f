package storage

import (
	"context"
	"sync"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий. Теряется при перезапуске.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает копию сессии пользователя, создаёт новую если не найдена
func (r *MemorySessionRepository) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	r.mu.RLock()
	session, exists := r.sessions[userID]
	r.mu.RUnlock()

	if exists {
		return session.Clone(), nil
	}

	return entity.NewSession(userID, chatID), nil
}

// Save сохраняет состояние сессии
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.UserID] = session.Clone()
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
