package port

import (
	"context"

	"kino-bot/internal/domain/entity"
)

// MediaResolver внешний каталог фильмов с потоковыми ссылками
type MediaResolver interface {
	// Search ищет фильмы по названию
	Search(ctx context.Context, title string) ([]entity.Candidate, error)

	// Tracks возвращает озвучки и варианты качества для найденного фильма
	Tracks(ctx context.Context, candidateID string) ([]entity.Track, error)
}
