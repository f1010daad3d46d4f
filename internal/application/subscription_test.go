package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kino-bot/internal/domain/entity"
)

func TestSubscriptionGate_CheckMembership(t *testing.T) {
	channels := []entity.Channel{{Name: "@news"}, {Name: "@films"}, {Name: "@promo"}}
	checker := &fakeChecker{statuses: map[string]string{
		"@news":  entity.MemberStatusMember,
		"@films": "left",
		"@promo": entity.MemberStatusCreator,
	}}
	gate := NewSubscriptionGate(checker, channels, time.Second, zap.NewNop())

	missing := gate.CheckMembership(context.Background(), 42)
	require.Equal(t, []entity.Channel{{Name: "@films"}}, missing)
}

func TestSubscriptionGate_FailsClosed(t *testing.T) {
	channels := []entity.Channel{{Name: "@news"}}
	gate := NewSubscriptionGate(&fakeChecker{err: errors.New("timeout")}, channels, time.Second, zap.NewNop())

	require.Equal(t, channels, gate.CheckMembership(context.Background(), 42))
}

func TestSubscriptionGate_NoChannels(t *testing.T) {
	gate := NewSubscriptionGate(nil, nil, 0, zap.NewNop())
	require.Empty(t, gate.CheckMembership(context.Background(), 42))
}
