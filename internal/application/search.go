package app

import (
	"context"
	"strings"

	"kino-bot/internal/domain/entity"
)

// SearchService сценарий поиска фильма по коду
type SearchService struct {
	catalog  *CatalogService
	sessions *SessionService
	gate     *SubscriptionGate
}

func NewSearchService(catalog *CatalogService, sessions *SessionService, gate *SubscriptionGate) *SearchService {
	return &SearchService{catalog: catalog, sessions: sessions, gate: gate}
}

// EnterSearch переводит пользователя в ожидание кода.
// Если есть неоформленные подписки, сессия не меняется и возвращается список каналов.
func (s *SearchService) EnterSearch(ctx context.Context, session *entity.Session) []entity.Channel {
	if s.gate != nil {
		if missing := s.gate.CheckMembership(ctx, session.UserID); len(missing) > 0 {
			return missing
		}
	}
	session.AwaitCode()
	s.sessions.Save(ctx, session)
	return nil
}

// SubmitCode обрабатывает введённый код. Неверный формат и промах
// оставляют пользователя в ожидании кода; найденный фильм возвращает его в Idle.
func (s *SearchService) SubmitCode(ctx context.Context, session *entity.Session, text string) (entity.Film, error) {
	code := strings.TrimSpace(text)
	if err := entity.ValidateCode(code); err != nil {
		return entity.Film{}, err
	}

	film, err := s.catalog.Lookup(code)
	if err != nil {
		return entity.Film{}, err
	}

	session.Reset()
	s.sessions.Save(ctx, session)
	return film, nil
}
