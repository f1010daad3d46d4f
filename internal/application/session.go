package app

import (
	"context"

	"go.uber.org/zap"

	"kino-bot/internal/domain/entity"
	"kino-bot/internal/domain/port"
)

// SessionService выдаёт и сохраняет сессии диалога
type SessionService struct {
	repo port.SessionRepository
	log  *zap.Logger
}

func NewSessionService(repo port.SessionRepository, log *zap.Logger) *SessionService {
	return &SessionService{repo: repo, log: log}
}

func (s *SessionService) Get(ctx context.Context, userID, chatID int64) (*entity.Session, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// Save сохраняет сессию. Сессии эфемерны: ошибка только логируется,
// в худшем случае пользователь повторит команду.
func (s *SessionService) Save(ctx context.Context, session *entity.Session) {
	if err := s.repo.Save(ctx, session); err != nil {
		s.log.Warn("session save failed",
			zap.Int64("user_id", session.UserID),
			zap.String("state", string(session.State)),
			zap.Error(err))
	}
}

func (s *SessionService) Cancel(ctx context.Context, session *entity.Session) {
	session.Reset()
	s.Save(ctx, session)
}
