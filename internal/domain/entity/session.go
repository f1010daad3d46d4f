package entity

// SessionState состояние диалога с пользователем
type SessionState string

const (
	StateIdle                          SessionState = "idle"                             // Ничего не ждём
	StateAwaitingCode                  SessionState = "awaiting_code"                    // Ожидание кода фильма
	StateAwaitingAdminTitle            SessionState = "awaiting_admin_title"             // Админ: ожидание названия
	StateAwaitingAdminMedia            SessionState = "awaiting_admin_media"             // Админ: ожидание видео для нового фильма
	StateAwaitingAdminMediaReplacement SessionState = "awaiting_admin_media_replacement" // Админ: ожидание нового видео
	StateAwaitingTitle                 SessionState = "awaiting_title"                   // Поиск по названию: ожидание названия
	StateAwaitingCandidateChoice       SessionState = "awaiting_candidate_choice"        // Поиск по названию: выбор фильма
	StateAwaitingTrackChoice           SessionState = "awaiting_track_choice"            // Поиск по названию: выбор озвучки
	StateAwaitingQualityChoice         SessionState = "awaiting_quality_choice"          // Поиск по названию: выбор качества
)

// AdminOperationKind вид незавершённой админской операции
type AdminOperationKind string

const (
	AdminAdd       AdminOperationKind = "add"
	AdminEditMedia AdminOperationKind = "edit_media"
)

// PendingAdminOperation админская операция, ожидающая продолжения
type PendingAdminOperation struct {
	Kind  AdminOperationKind `json:"kind"`
	Code  string             `json:"code"`
	Title string             `json:"title,omitempty"`
}

// ResolveFlow промежуточные данные поиска по названию
type ResolveFlow struct {
	Candidates []Candidate `json:"candidates,omitempty"`
	Candidate  *Candidate  `json:"candidate,omitempty"`
	Tracks     []Track     `json:"tracks,omitempty"`
	Track      *Track      `json:"track,omitempty"`
}

// Session состояние диалога одного пользователя
type Session struct {
	UserID  int64                  `json:"user_id"`  // Telegram User ID
	ChatID  int64                  `json:"chat_id"`  // Telegram Chat ID
	State   SessionState           `json:"state"`    // Текущее состояние
	Pending *PendingAdminOperation `json:"pending,omitempty"`
	Resolve *ResolveFlow           `json:"resolve,omitempty"`
}

// NewSession создаёт сессию в состоянии Idle
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		State:  StateIdle,
	}
}

// Reset возвращает сессию в Idle и забывает все незавершённые операции.
// Все переходы начинаются с Reset, поэтому в сессии не остаётся данных от прошлого сценария.
func (s *Session) Reset() {
	s.State = StateIdle
	s.Pending = nil
	s.Resolve = nil
}

// AwaitCode переводит сессию в ожидание кода
func (s *Session) AwaitCode() {
	s.Reset()
	s.State = StateAwaitingCode
}

// AwaitAdminTitle ждёт название для нового фильма
func (s *Session) AwaitAdminTitle(code string) {
	s.Reset()
	s.State = StateAwaitingAdminTitle
	s.Pending = &PendingAdminOperation{Kind: AdminAdd, Code: code}
}

// AwaitAdminMedia ждёт видео для нового фильма
func (s *Session) AwaitAdminMedia(code, title string) {
	s.Reset()
	s.State = StateAwaitingAdminMedia
	s.Pending = &PendingAdminOperation{Kind: AdminAdd, Code: code, Title: title}
}

// AwaitMediaReplacement ждёт новое видео для существующего фильма
func (s *Session) AwaitMediaReplacement(code string) {
	s.Reset()
	s.State = StateAwaitingAdminMediaReplacement
	s.Pending = &PendingAdminOperation{Kind: AdminEditMedia, Code: code}
}

// AwaitTitle начинает поиск по названию
func (s *Session) AwaitTitle() {
	s.Reset()
	s.State = StateAwaitingTitle
	s.Resolve = &ResolveFlow{}
}

// AwaitCandidateChoice ждёт выбора одного из найденных фильмов
func (s *Session) AwaitCandidateChoice(candidates []Candidate) {
	s.Reset()
	s.State = StateAwaitingCandidateChoice
	s.Resolve = &ResolveFlow{Candidates: candidates}
}

// AwaitTrackChoice ждёт выбора озвучки
func (s *Session) AwaitTrackChoice(candidate Candidate, tracks []Track) {
	s.Reset()
	s.State = StateAwaitingTrackChoice
	s.Resolve = &ResolveFlow{Candidate: &candidate, Tracks: tracks}
}

// AwaitQualityChoice ждёт выбора качества
func (s *Session) AwaitQualityChoice(candidate Candidate, track Track) {
	s.Reset()
	s.State = StateAwaitingQualityChoice
	s.Resolve = &ResolveFlow{Candidate: &candidate, Track: &track}
}

// AwaitsAdminMedia сообщает, что сессия ждёт видео от админа
func (s *Session) AwaitsAdminMedia() bool {
	return s.State == StateAwaitingAdminMedia || s.State == StateAwaitingAdminMediaReplacement
}

// InResolveFlow сообщает, что идёт поиск по названию
func (s *Session) InResolveFlow() bool {
	switch s.State {
	case StateAwaitingTitle, StateAwaitingCandidateChoice, StateAwaitingTrackChoice, StateAwaitingQualityChoice:
		return true
	}
	return false
}

// Clone возвращает копию сессии, не разделяющую память с исходной
func (s *Session) Clone() *Session {
	out := *s
	if s.Pending != nil {
		pending := *s.Pending
		out.Pending = &pending
	}
	if s.Resolve != nil {
		flow := ResolveFlow{
			Candidates: append([]Candidate(nil), s.Resolve.Candidates...),
			Tracks:     cloneTracks(s.Resolve.Tracks),
		}
		if s.Resolve.Candidate != nil {
			candidate := *s.Resolve.Candidate
			flow.Candidate = &candidate
		}
		if s.Resolve.Track != nil {
			track := cloneTracks([]Track{*s.Resolve.Track})[0]
			flow.Track = &track
		}
		out.Resolve = &flow
	}
	return &out
}

func cloneTracks(tracks []Track) []Track {
	if tracks == nil {
		return nil
	}
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		out[i] = Track{Name: t.Name, Qualities: append([]Quality(nil), t.Qualities...)}
	}
	return out
}
