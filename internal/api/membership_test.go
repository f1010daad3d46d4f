package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"kino-bot/internal/domain/entity"
)

type fakeMemberAPI struct {
	got   tgbotapi.GetChatMemberConfig
	err   error
	delay time.Duration
}

func (f *fakeMemberAPI) GetChatMember(cfg tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	f.got = cfg
	time.Sleep(f.delay)
	if f.err != nil {
		return tgbotapi.ChatMember{}, f.err
	}
	return tgbotapi.ChatMember{Status: entity.MemberStatusMember}, nil
}

func TestMembershipChecker_MemberStatus(t *testing.T) {
	api := &fakeMemberAPI{}
	checker := NewMembershipChecker(api)

	status, err := checker.MemberStatus(context.Background(), entity.Channel{Name: "@kino", Username: "@kino"}, 7)
	require.NoError(t, err)
	require.Equal(t, entity.MemberStatusMember, status)
	require.Equal(t, "@kino", api.got.SuperGroupUsername)
	require.Equal(t, int64(7), api.got.UserID)
}

func TestMembershipChecker_Errors(t *testing.T) {
	checker := NewMembershipChecker(&fakeMemberAPI{err: errors.New("chat not found")})
	_, err := checker.MemberStatus(context.Background(), entity.Channel{Name: "-100", ChatID: -100}, 7)
	require.ErrorIs(t, err, entity.ErrUpstream)

	slow := NewMembershipChecker(&fakeMemberAPI{delay: 200 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = slow.MemberStatus(ctx, entity.Channel{Name: "@kino", Username: "@kino"}, 7)
	require.ErrorIs(t, err, entity.ErrUpstream)
}
