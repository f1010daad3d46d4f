package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kino-bot/internal/domain/entity"
)

func TestJSONCatalogRepository_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.json")
	repo := NewJSONCatalogRepository(path)
	ctx := context.Background()

	catalog := entity.Catalog{
		"123": {Code: "123", Title: "Inception", MediaRef: entity.MediaRef{FileID: "vid-1"}},
	}
	require.NoError(t, repo.Save(ctx, catalog))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, catalog, loaded)
}

func TestJSONCatalogRepository_SaveTwiceIsByteIdentical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.json")
	repo := NewJSONCatalogRepository(path)
	ctx := context.Background()

	catalog := entity.Catalog{
		"010": entity.NewFilm("010", "Ten"),
		"009": entity.NewFilm("009", "Nine"),
	}
	require.NoError(t, repo.Save(ctx, catalog))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, catalog))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestJSONCatalogRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewJSONCatalogRepository(filepath.Join(t.TempDir(), "absent.json"))

	catalog, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, catalog)
}

func TestJSONCatalogRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "films.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewJSONCatalogRepository(path).Load(context.Background())
	require.ErrorIs(t, err, entity.ErrStorageRead)
}

func TestJSONCatalogRepository_FailedSaveKeepsDirectoryClean(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "films.json")
	// Каталог на месте файла: rename обязан упасть
	require.NoError(t, os.MkdirAll(filepath.Join(path, "occupied"), 0o755))

	err := NewJSONCatalogRepository(path).Save(context.Background(), entity.Catalog{"123": entity.NewFilm("123", "x")})
	require.ErrorIs(t, err, entity.ErrStorageWrite)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "films.json", entries[0].Name())
}
