package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kino-bot/internal/domain/entity"
)

const (
	cbSearchCode        = "search_code"
	cbCheckSubscription = "check_subscription"
	cbFindTitle         = "find_title"

	cbPickPrefix    = "pick:"
	cbTrackPrefix   = "track:"
	cbQualityPrefix = "quality:"
)

// searchKeyboard точка входа в поиск. Кнопка поиска по названию есть только при настроенном каталоге.
func searchKeyboard(withTitleSearch bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(btnSearchCode, cbSearchCode)),
	}
	if withTitleSearch {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(btnFindTitle, cbFindTitle)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// subscriptionKeyboard ссылки на каналы и кнопка повторной проверки
func subscriptionKeyboard(channels []entity.Channel) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(channels)+1)
	for _, ch := range channels {
		if ch.Link == "" {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("📢 "+ch.Name, ch.Link)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(btnCheckSubscription, cbCheckSubscription)))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func candidatesKeyboard(candidates []entity.Candidate) tgbotapi.InlineKeyboardMarkup {
	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = c.DisplayTitle()
	}
	return choiceKeyboard(cbPickPrefix, labels)
}

func tracksKeyboard(tracks []entity.Track) tgbotapi.InlineKeyboardMarkup {
	labels := make([]string, len(tracks))
	for i, t := range tracks {
		labels[i] = t.Name
	}
	return choiceKeyboard(cbTrackPrefix, labels)
}

func qualitiesKeyboard(qualities []entity.Quality) tgbotapi.InlineKeyboardMarkup {
	labels := make([]string, len(qualities))
	for i, q := range qualities {
		labels[i] = q.Name
	}
	return choiceKeyboard(cbQualityPrefix, labels)
}

// choiceKeyboard по кнопке на строку, в данных кнопки индекс варианта
func choiceKeyboard(prefix string, labels []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(labels))
	for i, label := range labels {
		data := fmt.Sprintf("%s%d", prefix, i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
