package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// MaxCandidates сколько найденных фильмов показывать на выбор
const MaxCandidates = 5

// Resolved итог поиска по названию
type Resolved struct {
	Candidate entity.Candidate
	Track     entity.Track
	Quality   entity.Quality
}

// ResolveService поиск фильма по названию во внешнем каталоге.
// Любая ошибка завершает сценарий и возвращает пользователя в Idle.
type ResolveService struct {
	resolver port.MediaResolver
	sessions *SessionService
	timeout  time.Duration
	log      *zap.Logger
}

func NewResolveService(resolver port.MediaResolver, sessions *SessionService, timeout time.Duration, log *zap.Logger) *ResolveService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ResolveService{resolver: resolver, sessions: sessions, timeout: timeout, log: log}
}

// Enabled сообщает, настроен ли внешний каталог
func (s *ResolveService) Enabled() bool {
	return s != nil && s.resolver != nil
}

func (s *ResolveService) Begin(ctx context.Context, session *entity.Session) {
	session.AwaitTitle()
	s.sessions.Save(ctx, session)
}

// SubmitTitle ищет фильмы и предлагает выбор
func (s *ResolveService) SubmitTitle(ctx context.Context, session *entity.Session, title string) ([]entity.Candidate, error) {
	title = strings.TrimSpace(title)
	if session.State != entity.StateAwaitingTitle {
		return nil, s.fail(ctx, session, entity.ErrStaleChoice)
	}
	if title == "" {
		return nil, s.fail(ctx, session, entity.ErrFilmNotFound)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, err := s.resolver.Search(callCtx, title)
	if err != nil {
		s.log.Warn("resolver search failed", zap.String("title", title), zap.Error(err))
		return nil, s.fail(ctx, session, err)
	}
	if len(candidates) == 0 {
		return nil, s.fail(ctx, session, entity.ErrFilmNotFound)
	}
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	session.AwaitCandidateChoice(candidates)
	s.sessions.Save(ctx, session)
	return candidates, nil
}

// ChooseCandidate запрашивает озвучки выбранного фильма
func (s *ResolveService) ChooseCandidate(ctx context.Context, session *entity.Session, idx int) (entity.Candidate, []entity.Track, error) {
	if session.State != entity.StateAwaitingCandidateChoice || session.Resolve == nil || idx < 0 || idx >= len(session.Resolve.Candidates) {
		return entity.Candidate{}, nil, s.fail(ctx, session, entity.ErrStaleChoice)
	}
	candidate := session.Resolve.Candidates[idx]

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tracks, err := s.resolver.Tracks(callCtx, candidate.ID)
	if err != nil {
		s.log.Warn("resolver tracks failed", zap.String("candidate", candidate.ID), zap.Error(err))
		return entity.Candidate{}, nil, s.fail(ctx, session, err)
	}
	if len(tracks) == 0 {
		return entity.Candidate{}, nil, s.fail(ctx, session, entity.ErrFilmNotFound)
	}

	session.AwaitTrackChoice(candidate, tracks)
	s.sessions.Save(ctx, session)
	return candidate, tracks, nil
}

// ChooseTrack запоминает озвучку и предлагает выбрать качество
func (s *ResolveService) ChooseTrack(ctx context.Context, session *entity.Session, idx int) (entity.Track, error) {
	if session.State != entity.StateAwaitingTrackChoice || session.Resolve == nil || session.Resolve.Candidate == nil ||
		idx < 0 || idx >= len(session.Resolve.Tracks) {
		return entity.Track{}, s.fail(ctx, session, entity.ErrStaleChoice)
	}
	track := session.Resolve.Tracks[idx]

	session.AwaitQualityChoice(*session.Resolve.Candidate, track)
	s.sessions.Save(ctx, session)
	return track, nil
}

// ChooseQuality завершает сценарий ссылкой на поток
func (s *ResolveService) ChooseQuality(ctx context.Context, session *entity.Session, idx int) (Resolved, error) {
	flow := session.Resolve
	if session.State != entity.StateAwaitingQualityChoice || flow == nil || flow.Candidate == nil || flow.Track == nil ||
		idx < 0 || idx >= len(flow.Track.Qualities) {
		return Resolved{}, s.fail(ctx, session, entity.ErrStaleChoice)
	}

	resolved := Resolved{
		Candidate: *flow.Candidate,
		Track:     *flow.Track,
		Quality:   flow.Track.Qualities[idx],
	}
	s.sessions.Cancel(ctx, session)
	return resolved, nil
}

func (s *ResolveService) fail(ctx context.Context, session *entity.Session, err error) error {
	s.sessions.Cancel(ctx, session)
	return fmt.Errorf("resolve by title: %w", err)
}
