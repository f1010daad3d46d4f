package app

import (
	"context"
	"time"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// touchInterval как часто обновлять время последнего визита, если имя не менялось
const touchInterval = time.Minute

// UserRegistry учитывает пользователей, которые писали боту
type UserRegistry struct {
	repo          port.UserRepository
	now           func() time.Time
	touchInterval time.Duration
}

func NewUserRegistry(repo port.UserRepository) *UserRegistry {
	return &UserRegistry{
		repo:          repo,
		now:           func() time.Time { return time.Now().UTC() },
		touchInterval: touchInterval,
	}
}

// RecordSeen создаёт запись при первом обращении и обновляет имя и время при следующих.
// Если имя то же и с прошлой записи прошло меньше touchInterval, хранилище не трогаем:
// метод вызывается на каждое сообщение.
func (r *UserRegistry) RecordSeen(ctx context.Context, userID int64, displayName string) error {
	now := r.now()

	user, err := r.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		user = entity.NewUserRecord(userID, displayName, now)
	} else {
		if user.DisplayName == displayName && now.Sub(user.LastSeenAt) < r.touchInterval {
			return nil
		}
		user.Touch(displayName, now)
	}
	return r.repo.Save(ctx, user)
}

func (r *UserRegistry) Count(ctx context.Context) (int, error) {
	return r.repo.Count(ctx)
}
