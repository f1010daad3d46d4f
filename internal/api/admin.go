package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"kino-bot/internal/domain/entity"
)

func isAdminCommand(command string) bool {
	switch command {
	case "add", "del", "editn", "editm", "list", "stats":
		return true
	}
	return false
}

// handleAdminCommand выполняет команду админа. Права уже проверены.
func (r *Router) handleAdminCommand(ctx context.Context, msg *tgbotapi.Message, session *entity.Session) {
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "add":
		if len(args) == 0 {
			r.reply(chatID, msgAddUsage)
			return
		}
		code, title := args[0], strings.Join(args[1:], " ")
		film, err := r.c.Admin.BeginAdd(ctx, session, code, title)
		if err != nil {
			r.replyAdminError(chatID, &entity.PendingAdminOperation{Kind: entity.AdminAdd, Code: code}, err)
			return
		}
		if session.State == entity.StateAwaitingAdminTitle {
			r.reply(chatID, msgAskAdminTitle(code))
			return
		}
		r.reply(chatID, msgSendVideo(film))

	case "editm":
		if len(args) != 1 {
			r.reply(chatID, msgEditMediaUsage)
			return
		}
		film, err := r.c.Admin.BeginEditMedia(ctx, session, args[0])
		if err != nil {
			r.replyAdminError(chatID, &entity.PendingAdminOperation{Kind: entity.AdminEditMedia, Code: args[0]}, err)
			return
		}
		r.reply(chatID, msgSendNewVideo(film))

	case "editn":
		if len(args) < 2 {
			r.reply(chatID, msgEditNameUsage)
			return
		}
		film, err := r.c.Admin.Rename(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			r.replyAdminError(chatID, &entity.PendingAdminOperation{Code: args[0]}, err)
			return
		}
		r.reply(chatID, msgRenamed(film))

	case "del":
		if len(args) != 1 {
			r.reply(chatID, msgDeleteUsage)
			return
		}
		deleted, err := r.c.Admin.Delete(ctx, args[0])
		if err != nil {
			r.replyAdminError(chatID, &entity.PendingAdminOperation{Code: args[0]}, err)
			return
		}
		if !deleted {
			r.reply(chatID, msgCodeNotFound(args[0]))
			return
		}
		r.reply(chatID, msgDeleted(args[0]))

	case "list":
		films := r.c.Admin.List()
		if len(films) == 0 {
			r.reply(chatID, msgCatalogEmpty)
			return
		}
		for _, chunk := range chunkLines(listLines(films), messageLimit) {
			r.reply(chatID, chunk)
		}

	case "stats":
		stats, err := r.c.Admin.Stats(ctx)
		if err != nil {
			r.log.Error("stats failed", zap.Error(err))
			r.reply(chatID, msgTryLater)
			return
		}
		r.reply(chatID, msgStats(stats))
	}
}

// replyAdminError переводит ошибку админской операции в ответ
func (r *Router) replyAdminError(chatID int64, op *entity.PendingAdminOperation, err error) {
	code := ""
	if op != nil {
		code = op.Code
	}

	switch {
	case errors.Is(err, entity.ErrCodeNotDigits):
		r.reply(chatID, msgDigitsOnly)
	case errors.Is(err, entity.ErrCodeLength):
		r.reply(chatID, msgCodeLength)
	case errors.Is(err, entity.ErrDuplicateCode):
		r.reply(chatID, msgDuplicate(code))
	case errors.Is(err, entity.ErrFilmNotFound):
		r.reply(chatID, msgCodeNotFound(code))
	case errors.Is(err, entity.ErrStaleChoice):
		r.reply(chatID, msgCancelled)
	default:
		r.log.Error("admin operation failed", zap.String("code", code), zap.Error(err))
		r.reply(chatID, msgTryLater)
	}
}
