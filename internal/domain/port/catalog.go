package port

import (
	"context"

	"kino-bot/internal/domain/entity"
)

// CatalogRepository локальное надёжное хранилище каталога
type CatalogRepository interface {
	// Load читает каталог целиком
	Load(ctx context.Context) (entity.Catalog, error)

	// Save атомарно заменяет сохранённый каталог
	Save(ctx context.Context, catalog entity.Catalog) error
}

// CatalogMirror удалённая копия каталога
type CatalogMirror interface {
	// Mirror загружает снимок каталога поверх текущей удалённой ревизии
	Mirror(ctx context.Context, catalog entity.Catalog) error
}
