package mirror

import (
	"context"
	"errors"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// Multi отправляет снимок во все зеркала по очереди.
// Ошибка одного зеркала не мешает остальным.
type Multi []port.CatalogMirror

// Mirror возвращает объединённую ошибку всех зеркал
func (m Multi) Mirror(ctx context.Context, catalog entity.Catalog) error {
	var errs []error
	for _, target := range m {
		if err := target.Mirror(ctx, catalog); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.CatalogMirror = Multi(nil)
