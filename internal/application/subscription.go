package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// SubscriptionGate проверяет подписку на обязательные каналы перед поиском
type SubscriptionGate struct {
	checker  port.MembershipChecker
	channels []entity.Channel
	timeout  time.Duration
	log      *zap.Logger
}

func NewSubscriptionGate(checker port.MembershipChecker, channels []entity.Channel, timeout time.Duration, log *zap.Logger) *SubscriptionGate {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SubscriptionGate{checker: checker, channels: channels, timeout: timeout, log: log}
}

// CheckMembership возвращает каналы, на которые пользователь не подписан.
// Ошибка запроса к платформе считается отсутствием подписки.
func (g *SubscriptionGate) CheckMembership(ctx context.Context, userID int64) []entity.Channel {
	var unsatisfied []entity.Channel
	for _, ch := range g.channels {
		if !g.isMember(ctx, ch, userID) {
			unsatisfied = append(unsatisfied, ch)
		}
	}
	return unsatisfied
}

func (g *SubscriptionGate) isMember(ctx context.Context, ch entity.Channel, userID int64) bool {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	status, err := g.checker.MemberStatus(ctx, ch, userID)
	if err != nil {
		g.log.Warn("membership check failed",
			zap.String("channel", ch.Name),
			zap.Int64("user_id", userID),
			zap.Error(err))
		return false
	}
	return entity.IsSubscribed(status)
}
