package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/infrastructure/storage"
)

type brokenSessionRepo struct{}

func (brokenSessionRepo) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return entity.NewSession(userID, chatID), nil
}

func (brokenSessionRepo) Save(ctx context.Context, session *entity.Session) error {
	return errors.New("redis down")
}

func TestSessionService_SaveAndCancel(t *testing.T) {
	svc := NewSessionService(storage.NewMemorySessionRepository(), zap.NewNop())
	ctx := context.Background()

	session, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, session.State)

	session.AwaitCode()
	svc.Save(ctx, session)

	stored, err := svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingCode, stored.State)

	svc.Cancel(ctx, stored)
	stored, err = svc.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, stored.State)
}

func TestSessionService_SaveErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewSessionService(brokenSessionRepo{}, zap.New(core))

	session := entity.NewSession(1, 10)
	session.AwaitCode()
	svc.Save(context.Background(), session)

	require.Equal(t, 1, logs.FilterMessage("session save failed").Len())
	require.Equal(t, entity.StateAwaitingCode, session.State)
}
