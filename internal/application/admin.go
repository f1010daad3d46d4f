package app

import (
	"context"
	"errors"
	"strings"

	"kino-bot/internal/domain/entity"
)

// Stats сводка для команды /stats
type Stats struct {
	Films        int
	WithoutMedia int
	Users        int
}

// AdminService админские операции над каталогом
type AdminService struct {
	adminID  int64
	catalog  *CatalogService
	sessions *SessionService
	users    *UserRegistry
}

func NewAdminService(adminID int64, catalog *CatalogService, sessions *SessionService, users *UserRegistry) *AdminService {
	return &AdminService{adminID: adminID, catalog: catalog, sessions: sessions, users: users}
}

// IsAdmin сообщает, может ли пользователь менять каталог
func (s *AdminService) IsAdmin(userID int64) bool {
	return s.adminID != 0 && userID == s.adminID
}

// BeginAdd начинает добавление фильма. Без названия бот сначала спросит название,
// с названием запись резервируется сразу и бот ждёт видео.
func (s *AdminService) BeginAdd(ctx context.Context, session *entity.Session, code, title string) (entity.Film, error) {
	if err := entity.ValidateCode(code); err != nil {
		return entity.Film{}, err
	}

	if strings.TrimSpace(title) == "" {
		if _, err := s.catalog.Get(code); err == nil {
			s.sessions.Cancel(ctx, session)
			return entity.Film{}, entity.ErrDuplicateCode
		}
		session.AwaitAdminTitle(code)
		s.sessions.Save(ctx, session)
		return entity.Film{Code: code}, nil
	}

	return s.reserve(ctx, session, code, title)
}

// SubmitTitle принимает название после /add без названия
func (s *AdminService) SubmitTitle(ctx context.Context, session *entity.Session, title string) (entity.Film, error) {
	if session.State != entity.StateAwaitingAdminTitle || session.Pending == nil {
		return entity.Film{}, entity.ErrStaleChoice
	}
	return s.reserve(ctx, session, session.Pending.Code, title)
}

func (s *AdminService) reserve(ctx context.Context, session *entity.Session, code, title string) (entity.Film, error) {
	film, err := s.catalog.Add(ctx, code, title)
	if err != nil {
		s.sessions.Cancel(ctx, session)
		return entity.Film{}, err
	}
	session.AwaitAdminMedia(code, film.Title)
	s.sessions.Save(ctx, session)
	return film, nil
}

// BeginEditMedia ждёт новое видео для существующего кода
func (s *AdminService) BeginEditMedia(ctx context.Context, session *entity.Session, code string) (entity.Film, error) {
	film, err := s.catalog.Get(code)
	if err != nil {
		s.sessions.Cancel(ctx, session)
		return entity.Film{}, err
	}
	session.AwaitMediaReplacement(code)
	s.sessions.Save(ctx, session)
	return film, nil
}

// SubmitMedia завершает незавершённую операцию полученным видео или ссылкой
func (s *AdminService) SubmitMedia(ctx context.Context, session *entity.Session, media entity.MediaRef) (entity.Film, error) {
	if !session.AwaitsAdminMedia() || session.Pending == nil {
		return entity.Film{}, entity.ErrStaleChoice
	}

	film, err := s.catalog.AttachMedia(ctx, session.Pending.Code, media)
	if err != nil {
		if errors.Is(err, entity.ErrStorageWrite) {
			// сессию не трогаем: админ может прислать видео ещё раз
			return entity.Film{}, err
		}
		s.sessions.Cancel(ctx, session)
		return entity.Film{}, err
	}

	s.sessions.Cancel(ctx, session)
	return film, nil
}

func (s *AdminService) Rename(ctx context.Context, code, title string) (entity.Film, error) {
	return s.catalog.Rename(ctx, code, title)
}

func (s *AdminService) Delete(ctx context.Context, code string) (bool, error) {
	return s.catalog.Delete(ctx, code)
}

func (s *AdminService) List() []entity.Film {
	return s.catalog.List()
}

func (s *AdminService) Stats(ctx context.Context) (Stats, error) {
	films, withoutMedia := s.catalog.Counts()
	users, err := s.users.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Films: films, WithoutMedia: withoutMedia, Users: users}, nil
}
