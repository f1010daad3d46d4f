package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

const defaultMirrorTimeout = 30 * time.Second

// CatalogService владеет каталогом фильмов.
// Каждое изменение сначала атомарно пишется в локальное хранилище,
// затем снимок в фоне уходит в зеркало.
type CatalogService struct {
	repo          port.CatalogRepository
	mirror        port.CatalogMirror
	log           *zap.Logger
	mirrorTimeout time.Duration

	mu      sync.RWMutex
	catalog entity.Catalog
	version uint64

	mirrorMu        sync.Mutex
	mirrorAttempted uint64
	pending         sync.WaitGroup
}

// NewCatalogService загружает каталог. Ошибка чтения не фатальна:
// сервис стартует с пустым каталогом и пишет ошибку в лог.
func NewCatalogService(ctx context.Context, repo port.CatalogRepository, mirror port.CatalogMirror, log *zap.Logger, mirrorTimeout time.Duration) *CatalogService {
	if mirrorTimeout <= 0 {
		mirrorTimeout = defaultMirrorTimeout
	}
	s := &CatalogService{
		repo:          repo,
		mirror:        mirror,
		log:           log,
		mirrorTimeout: mirrorTimeout,
	}

	catalog, err := repo.Load(ctx)
	if err != nil {
		log.Error("catalog load failed, starting with empty catalog", zap.Error(err))
		catalog = entity.Catalog{}
	}
	s.catalog = catalog
	log.Info("catalog loaded", zap.Int("films", len(catalog)))
	return s
}

// Get возвращает запись по коду
func (s *CatalogService) Get(code string) (entity.Film, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	film, ok := s.catalog[code]
	if !ok {
		return entity.Film{}, entity.ErrFilmNotFound
	}
	return film, nil
}

// Lookup ищет фильм для пользователя: запись должна существовать и иметь видео
func (s *CatalogService) Lookup(code string) (entity.Film, error) {
	film, err := s.Get(code)
	if err != nil {
		return entity.Film{}, err
	}
	if !film.HasMedia() {
		return film, entity.ErrNoMedia
	}
	return film, nil
}

// Add создаёт запись без видео. Занятый код даёт ErrDuplicateCode.
func (s *CatalogService) Add(ctx context.Context, code, title string) (entity.Film, error) {
	if err := entity.ValidateCode(code); err != nil {
		return entity.Film{}, err
	}
	film := entity.NewFilm(code, title)

	err := s.mutate(ctx, func(next entity.Catalog) error {
		if _, exists := next[code]; exists {
			return entity.ErrDuplicateCode
		}
		next[code] = film
		return nil
	})
	if err != nil {
		return entity.Film{}, err
	}
	return film, nil
}

// Put вставляет или перезаписывает запись целиком
func (s *CatalogService) Put(ctx context.Context, film entity.Film) error {
	if err := entity.ValidateCode(film.Code); err != nil {
		return err
	}
	film.Title = entity.NormalizeTitle(film.Code, film.Title)

	return s.mutate(ctx, func(next entity.Catalog) error {
		next[film.Code] = film
		return nil
	})
}

// AttachMedia заменяет видео у существующей записи, название не трогает
func (s *CatalogService) AttachMedia(ctx context.Context, code string, media entity.MediaRef) (entity.Film, error) {
	var updated entity.Film
	err := s.mutate(ctx, func(next entity.Catalog) error {
		film, ok := next[code]
		if !ok {
			return entity.ErrFilmNotFound
		}
		film.MediaRef = media
		next[code] = film
		updated = film
		return nil
	})
	return updated, err
}

// Rename меняет название существующей записи
func (s *CatalogService) Rename(ctx context.Context, code, title string) (entity.Film, error) {
	var updated entity.Film
	err := s.mutate(ctx, func(next entity.Catalog) error {
		film, ok := next[code]
		if !ok {
			return entity.ErrFilmNotFound
		}
		film.Title = entity.NormalizeTitle(code, title)
		next[code] = film
		updated = film
		return nil
	})
	return updated, err
}

// Delete удаляет запись и сообщает, существовала ли она
func (s *CatalogService) Delete(ctx context.Context, code string) (bool, error) {
	err := s.mutate(ctx, func(next entity.Catalog) error {
		if _, ok := next[code]; !ok {
			return entity.ErrFilmNotFound
		}
		delete(next, code)
		return nil
	})
	if errors.Is(err, entity.ErrFilmNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List возвращает записи по возрастанию числового значения кода
func (s *CatalogService) List() []entity.Film {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Sorted()
}

// Counts возвращает число записей и число записей без видео
func (s *CatalogService) Counts() (total, withoutMedia int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, film := range s.catalog {
		if !film.HasMedia() {
			withoutMedia++
		}
	}
	return len(s.catalog), withoutMedia
}

// Persist записывает текущий каталог целиком и запускает зеркалирование
func (s *CatalogService) Persist(ctx context.Context) error {
	return s.mutate(ctx, func(entity.Catalog) error { return nil })
}

// Wait ждёт завершения запущенных зеркалирований
func (s *CatalogService) Wait() {
	s.pending.Wait()
}

// mutate применяет fn к копии каталога, сохраняет копию и только потом публикует её.
// Если запись на диск не удалась, каталог в памяти остаётся прежним.
func (s *CatalogService) mutate(ctx context.Context, fn func(next entity.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.catalog.Clone()
	if err := fn(next); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		s.log.Error("catalog save failed", zap.Error(err))
		return fmt.Errorf("%w: %v", entity.ErrStorageWrite, err)
	}

	s.catalog = next
	s.version++
	s.scheduleMirror(next.Clone(), s.version)
	return nil
}

// scheduleMirror отправляет снимок в зеркало в отдельной горутине.
// Снимок старше уже отправленного пропускается.
func (s *CatalogService) scheduleMirror(snapshot entity.Catalog, version uint64) {
	if s.mirror == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		s.mirrorMu.Lock()
		defer s.mirrorMu.Unlock()

		if version <= s.mirrorAttempted {
			s.log.Debug("skip stale catalog mirror", zap.Uint64("version", version))
			return
		}
		s.mirrorAttempted = version

		ctx, cancel := context.WithTimeout(context.Background(), s.mirrorTimeout)
		defer cancel()

		if err := s.mirror.Mirror(ctx, snapshot); err != nil {
			s.log.Warn("catalog mirror failed", zap.Uint64("version", version), zap.Error(err))
			return
		}
		s.log.Info("catalog mirrored", zap.Uint64("version", version), zap.Int("films", len(snapshot)))
	}()
}
