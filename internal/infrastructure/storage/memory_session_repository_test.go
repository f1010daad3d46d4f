package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"kino-bot/internal/domain/entity"
)

func TestMemorySessionRepository_GetCreatesIdleSession(t *testing.T) {
	repo := NewMemorySessionRepository()

	s, err := repo.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateIdle, s.State)
	require.Equal(t, int64(10), s.ChatID)
}

func TestMemorySessionRepository_SaveStoresCopy(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	s.AwaitAdminMedia("123", "Inception")
	require.NoError(t, repo.Save(ctx, s))

	// изменения без Save не должны попадать в хранилище
	s.Reset()

	stored, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingAdminMedia, stored.State)
	require.Equal(t, "Inception", stored.Pending.Title)
}
