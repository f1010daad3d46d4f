package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

const (
	createFilmsTable = `
		CREATE TABLE IF NOT EXISTS films (
			code       TEXT PRIMARY KEY,
			title      TEXT NOT NULL,
			file_id    TEXT,
			url        TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	createRevisionTable = `
		CREATE TABLE IF NOT EXISTS films_revision (
			id       SMALLINT PRIMARY KEY CHECK (id = 1),
			revision BIGINT NOT NULL
		)
	`
	seedRevision = `
		INSERT INTO films_revision (id, revision)
		VALUES (1, 0)
		ON CONFLICT (id) DO NOTHING
	`
	selectRevision = `SELECT revision FROM films_revision WHERE id = 1`
	deleteFilms    = `DELETE FROM films`
	bumpRevision   = `
		UPDATE films_revision
		SET revision = revision + 1
		WHERE id = 1 AND revision = $1
	`
)

var filmColumns = []string{"code", "title", "file_id", "url", "updated_at"}

// PostgresMirror зеркалит каталог в таблицу films.
// Строка films_revision служит маркером ревизии для оптимистичной блокировки.
type PostgresMirror struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresMirror подключается к Postgres и создаёт таблицы, если их нет
func NewPostgresMirror(ctx context.Context, dsn string) (*PostgresMirror, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	m := &PostgresMirror{pool: pool, now: func() time.Time { return time.Now().UTC() }}
	if err := m.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return m, nil
}

func (m *PostgresMirror) ensureSchema(ctx context.Context) error {
	for _, stmt := range []string{createFilmsTable, createRevisionTable, seedRevision} {
		if _, err := m.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure films schema: %w", err)
		}
	}
	return nil
}

// Mirror заменяет содержимое таблицы снимком каталога в одной транзакции
func (m *PostgresMirror) Mirror(ctx context.Context, catalog entity.Catalog) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", entity.ErrMirror, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var revision int64
	if err := tx.QueryRow(ctx, selectRevision).Scan(&revision); err != nil {
		return fmt.Errorf("%w: select revision: %v", entity.ErrMirror, err)
	}

	if _, err := tx.Exec(ctx, deleteFilms); err != nil {
		return fmt.Errorf("%w: delete films: %v", entity.ErrMirror, err)
	}

	rows := catalogRows(catalog, m.now())
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"films"}, filmColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("%w: copy films: %v", entity.ErrMirror, err)
		}
	}

	tag, err := tx.Exec(ctx, bumpRevision, revision)
	if err != nil {
		return fmt.Errorf("%w: bump revision: %v", entity.ErrMirror, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: films revision %d changed", entity.ErrMirrorConflict, revision)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", entity.ErrMirror, err)
	}
	return nil
}

// Close закрывает пул соединений
func (m *PostgresMirror) Close() {
	m.pool.Close()
}

func catalogRows(catalog entity.Catalog, now time.Time) [][]any {
	films := catalog.Sorted()
	rows := make([][]any, 0, len(films))
	for _, f := range films {
		rows = append(rows, []any{f.Code, f.Title, nullable(f.FileID), nullable(f.URL), now})
	}
	return rows
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ port.CatalogMirror = (*PostgresMirror)(nil)
