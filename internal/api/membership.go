package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

type chatMemberGetter interface {
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// MembershipChecker запрашивает статус пользователя в канале через Bot API
type MembershipChecker struct {
	api chatMemberGetter
}

func NewMembershipChecker(api chatMemberGetter) *MembershipChecker {
	return &MembershipChecker{api: api}
}

// MemberStatus возвращает статус участника. Клиент Bot API не принимает контекст,
// поэтому запрос идёт в горутине и прерывается по ctx.
func (m *MembershipChecker) MemberStatus(ctx context.Context, ch entity.Channel, userID int64) (string, error) {
	cfg := tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID:             ch.ChatID,
			SuperGroupUsername: ch.Username,
			UserID:             userID,
		},
	}

	type result struct {
		member tgbotapi.ChatMember
		err    error
	}
	done := make(chan result, 1)
	go func() {
		member, err := m.api.GetChatMember(cfg)
		done <- result{member: member, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: get chat member %s: %v", entity.ErrUpstream, ch.Name, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("%w: get chat member %s: %v", entity.ErrUpstream, ch.Name, res.err)
		}
		return res.member.Status, nil
	}
}

var _ port.MembershipChecker = (*MembershipChecker)(nil)
