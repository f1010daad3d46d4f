package port

import (
	"context"

	"kino-bot/internal/domain/entity"
)

// MembershipChecker запрашивает у платформы статус пользователя в канале
type MembershipChecker interface {
	// MemberStatus возвращает статус: member, administrator, creator, left, kicked...
	MemberStatus(ctx context.Context, channel entity.Channel, userID int64) (string, error)
}
