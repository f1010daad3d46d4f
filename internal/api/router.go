package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"kino-bot/internal/container"
	"kino-bot/internal/domain/entity"
)

// messageLimit максимальная длина текста сообщения в Telegram
const messageLimit = 4096

// Sender методы Bot API, через которые бот отвечает. *tgbotapi.BotAPI подходит.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Router разбирает входящие обновления и вызывает сервисы приложения
type Router struct {
	api Sender
	c   *container.Container
	log *zap.Logger
}

func NewRouter(api Sender, c *container.Container, log *zap.Logger) *Router {
	return &Router{api: api, c: c, log: log}
}

// HandleUpdate обрабатывает одно обновление. Вызовы для одного пользователя
// должны идти последовательно.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		r.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		r.handleCallback(ctx, update.CallbackQuery)
	}
}

// handleMessage обрабатывает входящее сообщение
func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	r.recordSeen(ctx, msg.From)

	session, err := r.c.Sessions.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		r.log.Error("session get failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		r.reply(msg.Chat.ID, msgTryLater)
		return
	}

	switch {
	case msg.IsCommand():
		r.handleCommand(ctx, msg, session)
	case msg.Video != nil || msg.Document != nil:
		r.handleMedia(ctx, msg, session)
	default:
		r.handleText(ctx, msg, session)
	}
}

// handleCommand обрабатывает команды бота
func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		r.c.Sessions.Cancel(ctx, session)
		r.replyWithMarkup(chatID, msgStart, r.searchKeyboard())
		return
	case "search":
		r.enterSearch(ctx, chatID, session)
		return
	case "cancel":
		r.c.Sessions.Cancel(ctx, session)
		r.replyWithMarkup(chatID, msgCancelled, r.searchKeyboard())
		return
	case "find":
		if r.c.Resolve.Enabled() {
			r.c.Resolve.Begin(ctx, session)
			r.reply(chatID, msgAskTitle)
			return
		}
		r.reply(chatID, msgUnknownCommand)
		return
	}

	if !isAdminCommand(msg.Command()) {
		r.reply(chatID, msgUnknownCommand)
		return
	}
	if !r.c.Admin.IsAdmin(msg.From.ID) {
		// админские команды для остальных не существуют
		r.log.Debug("admin command from non-admin dropped",
			zap.Int64("user_id", msg.From.ID),
			zap.String("command", msg.Command()))
		return
	}
	r.handleAdminCommand(ctx, msg, session)
}

// handleText обрабатывает текст в зависимости от состояния сессии
func (r *Router) handleText(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch session.State {
	case entity.StateAwaitingCode:
		r.submitCode(ctx, chatID, session, text)

	case entity.StateAwaitingAdminTitle:
		if !r.c.Admin.IsAdmin(msg.From.ID) {
			r.c.Sessions.Cancel(ctx, session)
			r.replyWithMarkup(chatID, msgPressSearch, r.searchKeyboard())
			return
		}
		pending := session.Pending
		film, err := r.c.Admin.SubmitTitle(ctx, session, text)
		if err != nil {
			r.replyAdminError(chatID, pending, err)
			return
		}
		r.reply(chatID, msgSendVideo(film))

	case entity.StateAwaitingAdminMedia, entity.StateAwaitingAdminMediaReplacement:
		if !r.c.Admin.IsAdmin(msg.From.ID) {
			r.c.Sessions.Cancel(ctx, session)
			r.replyWithMarkup(chatID, msgPressSearch, r.searchKeyboard())
			return
		}
		if !isMediaURL(text) {
			r.reply(chatID, msgSendVideoFile)
			return
		}
		r.submitMedia(ctx, chatID, session, entity.MediaRef{URL: text})

	case entity.StateAwaitingTitle:
		r.submitTitle(ctx, chatID, session, text)

	case entity.StateAwaitingCandidateChoice, entity.StateAwaitingTrackChoice, entity.StateAwaitingQualityChoice:
		r.reply(chatID, msgUseButtons)

	default:
		r.replyWithMarkup(chatID, msgPressSearch, r.searchKeyboard())
	}
}

// handleMedia принимает видео от админа. Документ подходит, если это видеофайл.
func (r *Router) handleMedia(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	chatID := msg.Chat.ID

	if !session.AwaitsAdminMedia() || !r.c.Admin.IsAdmin(msg.From.ID) {
		if session.State == entity.StateAwaitingCode {
			r.reply(chatID, msgDigitsOnly)
			return
		}
		r.replyWithMarkup(chatID, msgPressSearch, r.searchKeyboard())
		return
	}

	var media entity.MediaRef
	switch {
	case msg.Video != nil:
		media.FileID = msg.Video.FileID
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "video/"):
		media.FileID = msg.Document.FileID
	default:
		r.reply(chatID, msgSendVideoFile)
		return
	}
	r.submitMedia(ctx, chatID, session, media)
}

// handleCallback обрабатывает нажатия inline-кнопок. На callback всегда отвечаем,
// иначе у пользователя крутится индикатор загрузки.
func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer r.answerCallback(cb.ID)

	if cb.From == nil {
		return
	}
	r.recordSeen(ctx, cb.From)

	chatID := cb.From.ID
	if cb.Message != nil && cb.Message.Chat != nil {
		chatID = cb.Message.Chat.ID
	}

	session, err := r.c.Sessions.Get(ctx, cb.From.ID, chatID)
	if err != nil {
		r.log.Error("session get failed", zap.Int64("user_id", cb.From.ID), zap.Error(err))
		r.reply(chatID, msgTryLater)
		return
	}

	switch data := cb.Data; {
	case data == cbSearchCode, data == cbCheckSubscription:
		r.enterSearch(ctx, chatID, session)

	case data == cbFindTitle:
		if !r.c.Resolve.Enabled() {
			return
		}
		r.c.Resolve.Begin(ctx, session)
		r.reply(chatID, msgAskTitle)

	case strings.HasPrefix(data, cbPickPrefix):
		r.chooseCandidate(ctx, chatID, session, strings.TrimPrefix(data, cbPickPrefix))

	case strings.HasPrefix(data, cbTrackPrefix):
		r.chooseTrack(ctx, chatID, session, strings.TrimPrefix(data, cbTrackPrefix))

	case strings.HasPrefix(data, cbQualityPrefix):
		r.chooseQuality(ctx, chatID, session, strings.TrimPrefix(data, cbQualityPrefix))

	default:
		r.log.Debug("unknown callback", zap.String("data", data))
	}
}

// enterSearch переводит в ожидание кода или показывает каналы для подписки
func (r *Router) enterSearch(ctx context.Context, chatID int64, session *entity.Session) {
	if missing := r.c.Search.EnterSearch(ctx, session); len(missing) > 0 {
		r.replyWithMarkup(chatID, subscribeText(missing), subscriptionKeyboard(missing))
		return
	}
	r.reply(chatID, msgEnterCode)
}

func (r *Router) submitCode(ctx context.Context, chatID int64, session *entity.Session, text string) {
	film, err := r.c.Search.SubmitCode(ctx, session, text)
	switch {
	case err == nil:
		r.sendFilm(chatID, film)
	case errors.Is(err, entity.ErrCodeNotDigits):
		r.reply(chatID, msgDigitsOnly)
	case errors.Is(err, entity.ErrCodeLength):
		r.reply(chatID, msgCodeLength)
	case errors.Is(err, entity.ErrNoMedia):
		r.reply(chatID, msgNoMedia)
	case errors.Is(err, entity.ErrFilmNotFound):
		r.reply(chatID, msgFilmNotFound)
	default:
		r.log.Error("code lookup failed", zap.Int64("user_id", session.UserID), zap.Error(err))
		r.reply(chatID, msgTryLater)
	}
}

// sendFilm отправляет видео и сразу предлагает новый поиск.
// Ссылку, которую Telegram не принял как видео, отдаём текстом.
func (r *Router) sendFilm(chatID int64, film entity.Film) {
	var file tgbotapi.RequestFileData = tgbotapi.FileID(film.FileID)
	if film.FileID == "" {
		file = tgbotapi.FileURL(film.URL)
	}
	video := tgbotapi.NewVideo(chatID, file)
	video.Caption = film.Caption()

	if _, err := r.api.Send(video); err != nil {
		if film.FileID != "" {
			r.log.Error("send film failed", zap.String("code", film.Code), zap.Error(err))
			r.reply(chatID, msgTryLater)
			return
		}
		r.log.Warn("send film by url failed, sending link", zap.String("code", film.Code), zap.Error(err))
		r.reply(chatID, filmLink(film))
	}
	r.replyWithMarkup(chatID, msgSearchAgain, r.searchKeyboard())
}

func (r *Router) submitMedia(ctx context.Context, chatID int64, session *entity.Session, media entity.MediaRef) {
	pending := session.Pending
	film, err := r.c.Admin.SubmitMedia(ctx, session, media)
	if err != nil {
		r.replyAdminError(chatID, pending, err)
		return
	}
	r.reply(chatID, msgFilmSaved(film))
}

func (r *Router) submitTitle(ctx context.Context, chatID int64, session *entity.Session, text string) {
	if !r.c.Resolve.Enabled() {
		r.c.Sessions.Cancel(ctx, session)
		r.replyWithMarkup(chatID, msgPressSearch, r.searchKeyboard())
		return
	}
	candidates, err := r.c.Resolve.SubmitTitle(ctx, session, text)
	if err != nil {
		r.replyResolveError(chatID, err)
		return
	}
	r.replyWithMarkup(chatID, msgChooseFilm, candidatesKeyboard(candidates))
}

func (r *Router) chooseCandidate(ctx context.Context, chatID int64, session *entity.Session, raw string) {
	idx, ok := r.choiceIndex(ctx, chatID, session, raw)
	if !ok {
		return
	}
	_, tracks, err := r.c.Resolve.ChooseCandidate(ctx, session, idx)
	if err != nil {
		r.replyResolveError(chatID, err)
		return
	}
	r.replyWithMarkup(chatID, msgChooseTrack, tracksKeyboard(tracks))
}

func (r *Router) chooseTrack(ctx context.Context, chatID int64, session *entity.Session, raw string) {
	idx, ok := r.choiceIndex(ctx, chatID, session, raw)
	if !ok {
		return
	}
	track, err := r.c.Resolve.ChooseTrack(ctx, session, idx)
	if err != nil {
		r.replyResolveError(chatID, err)
		return
	}
	r.replyWithMarkup(chatID, msgChooseQuality, qualitiesKeyboard(track.Qualities))
}

func (r *Router) chooseQuality(ctx context.Context, chatID int64, session *entity.Session, raw string) {
	idx, ok := r.choiceIndex(ctx, chatID, session, raw)
	if !ok {
		return
	}
	resolved, err := r.c.Resolve.ChooseQuality(ctx, session, idx)
	if err != nil {
		r.replyResolveError(chatID, err)
		return
	}

	caption := resolvedCaption(resolved)
	video := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(resolved.Quality.URL))
	video.Caption = caption
	if _, err := r.api.Send(video); err != nil {
		// поток не всегда принимается как видео, тогда отдаём ссылку
		r.log.Warn("send resolved video failed", zap.String("url", resolved.Quality.URL), zap.Error(err))
		r.reply(chatID, caption+"\n"+resolved.Quality.URL)
	}
	r.replyWithMarkup(chatID, msgSearchAgain, r.searchKeyboard())
}

// choiceIndex разбирает индекс из данных кнопки. Кнопка без активного сценария устарела.
func (r *Router) choiceIndex(ctx context.Context, chatID int64, session *entity.Session, raw string) (int, bool) {
	idx, err := strconv.Atoi(raw)
	if err != nil || !r.c.Resolve.Enabled() {
		r.c.Sessions.Cancel(ctx, session)
		r.reply(chatID, msgStaleChoice)
		return 0, false
	}
	return idx, true
}

func (r *Router) replyResolveError(chatID int64, err error) {
	if errors.Is(err, entity.ErrStaleChoice) {
		r.reply(chatID, msgStaleChoice)
		return
	}
	r.replyWithMarkup(chatID, msgResolveNotFound, r.searchKeyboard())
}

func (r *Router) recordSeen(ctx context.Context, user *tgbotapi.User) {
	if err := r.c.Users.RecordSeen(ctx, user.ID, displayName(user)); err != nil {
		r.log.Warn("record user failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

func (r *Router) searchKeyboard() tgbotapi.InlineKeyboardMarkup {
	return searchKeyboard(r.c.Resolve.Enabled())
}

func (r *Router) answerCallback(id string) {
	if _, err := r.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}

// reply отправляет текстовое сообщение
func (r *Router) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := r.api.Send(msg); err != nil {
		r.log.Warn("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (r *Router) replyWithMarkup(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := r.api.Send(msg); err != nil {
		r.log.Warn("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func displayName(user *tgbotapi.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.UserName
	}
	return name
}

func isMediaURL(text string) bool {
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}
