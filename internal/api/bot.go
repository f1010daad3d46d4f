package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Bot представляет Telegram-бота
type Bot struct {
	api    *tgbotapi.BotAPI
	router *Router
	log    *zap.Logger
}

// NewBot создаёт нового бота
func NewBot(api *tgbotapi.BotAPI, router *Router, log *zap.Logger) *Bot {
	return &Bot{
		api:    api,
		router: router,
		log:    log,
	}
}

// Run запускает основной цикл обработки обновлений.
// Разные пользователи обрабатываются параллельно, обновления одного пользователя строго по порядку.
// После отмены ctx ждёт завершения начатых обработчиков.
func (b *Bot) Run(ctx context.Context) error {
	b.setCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	// обработчик доживает до конца даже при остановке
	handleCtx := context.WithoutCancel(ctx)
	queues := newUserQueues(func(update tgbotapi.Update) { b.handle(handleCtx, update) })
	defer queues.Wait()

	dispatch(ctx, updates, queues)
	b.api.StopReceivingUpdates()
	b.log.Info("stopped receiving updates")
	return nil
}

// dispatch раскладывает обновления по очередям пользователей, пока не отменён ctx
// или не закрыт канал
func dispatch(ctx context.Context, updates <-chan tgbotapi.Update, queues *userQueues) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			userID, ok := updateUserID(update)
			if !ok {
				continue
			}
			queues.Push(userID, update)
		}
	}
}

// handle защищает цикл от паники в одном обработчике
func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			b.log.Error("update handler panicked", zap.Int("update_id", update.UpdateID), zap.Any("panic", rec))
		}
	}()
	b.router.HandleUpdate(ctx, update)
}

// setCommands оставляет в меню только /start
func (b *Bot) setCommands() {
	cfg := tgbotapi.NewSetMyCommands(tgbotapi.BotCommand{Command: "start", Description: "Начать"})
	if _, err := b.api.Request(cfg); err != nil {
		b.log.Warn("set commands failed", zap.Error(err))
	}
}

func updateUserID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}
