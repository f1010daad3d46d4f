package mirror

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kino-bot/internal/domain/entity"
)

// openPostgresMirrorForTest подключается к базе из KINO_BOT_TEST_POSTGRES_DSN и очищает таблицы
func openPostgresMirrorForTest(t *testing.T) *PostgresMirror {
	t.Helper()

	dsn := os.Getenv("KINO_BOT_TEST_POSTGRES_DSN")
	if strings.TrimSpace(dsn) == "" {
		t.Skip("KINO_BOT_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	m, err := NewPostgresMirror(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(m.Close)

	_, err = m.pool.Exec(ctx, `TRUNCATE TABLE films`)
	require.NoError(t, err)
	_, err = m.pool.Exec(ctx, `UPDATE films_revision SET revision = 0 WHERE id = 1`)
	require.NoError(t, err)
	return m
}

func filmsState(t *testing.T, m *PostgresMirror) (codes []string, revision int64) {
	t.Helper()
	ctx := context.Background()

	rows, err := m.pool.Query(ctx, `SELECT code FROM films ORDER BY code`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var code string
		require.NoError(t, rows.Scan(&code))
		codes = append(codes, code)
	}
	require.NoError(t, rows.Err())

	require.NoError(t, m.pool.QueryRow(ctx, selectRevision).Scan(&revision))
	return codes, revision
}

func TestPostgresMirror_ReplacesSnapshot(t *testing.T) {
	m := openPostgresMirrorForTest(t)
	ctx := context.Background()

	require.NoError(t, m.Mirror(ctx, entity.Catalog{
		"123": {Code: "123", Title: "A", MediaRef: entity.MediaRef{FileID: "f"}},
		"456": {Code: "456", Title: "B"},
	}))
	codes, revision := filmsState(t, m)
	require.Equal(t, []string{"123", "456"}, codes)
	require.Equal(t, int64(1), revision)

	require.NoError(t, m.Mirror(ctx, entity.Catalog{"789": {Code: "789", Title: "C"}}))
	codes, revision = filmsState(t, m)
	require.Equal(t, []string{"789"}, codes)
	require.Equal(t, int64(2), revision)

	require.NoError(t, m.Mirror(ctx, entity.Catalog{}))
	codes, _ = filmsState(t, m)
	require.Empty(t, codes)
}

func TestPostgresMirror_RevisionConflict(t *testing.T) {
	m := openPostgresMirrorForTest(t)
	ctx := context.Background()

	require.NoError(t, m.Mirror(ctx, entity.Catalog{"123": {Code: "123", Title: "A"}}))

	// другой писатель поднимает ревизию и держит строку до коммита
	other, err := m.pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = other.Rollback(ctx) }()
	_, err = other.Exec(ctx, `UPDATE films_revision SET revision = revision + 1 WHERE id = 1`)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Mirror(ctx, entity.Catalog{"456": {Code: "456", Title: "B"}})
	}()

	require.Eventually(t, func() bool {
		var waiting int
		err := m.pool.QueryRow(ctx, `
			SELECT count(*) FROM pg_stat_activity
			WHERE datname = current_database() AND wait_event_type = 'Lock'
		`).Scan(&waiting)
		return err == nil && waiting > 0
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, other.Commit(ctx))
	require.ErrorIs(t, <-errCh, entity.ErrMirrorConflict)

	codes, revision := filmsState(t, m)
	require.Equal(t, []string{"123"}, codes)
	require.Equal(t, int64(2), revision)
}
