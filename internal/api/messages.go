package telegram

import (
	"fmt"
	"strings"

	app "kino-bot/internal/application"
	"kino-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я помогу найти фильм по коду.

🔍 Нажмите «Поиск по коду» и отправьте код из 3–5 цифр.`

	msgEnterCode       = "🔢 Введите код фильма (3–5 цифр)."
	msgPressSearch     = "👇 Сначала нажмите «Поиск по коду», затем отправьте код."
	msgDigitsOnly      = "⚠️ Код должен состоять только из цифр."
	msgCodeLength      = "⚠️ Код должен содержать от 3 до 5 цифр."
	msgFilmNotFound    = "😔 Фильм с таким кодом не найден. Попробуйте другой код."
	msgNoMedia         = "⏳ Фильм с этим кодом ещё не загружен. Попробуйте позже или введите другой код."
	msgSearchAgain     = "🔍 Хотите найти ещё один фильм?"
	msgTryLater        = "⚠️ Что-то пошло не так. Попробуйте позже."
	msgCancelled       = "❌ Действие отменено."
	msgUnknownCommand  = "❓ Неизвестная команда. Нажмите /start."
	msgSubscribe       = "📢 Чтобы пользоваться поиском, подпишитесь на каналы ниже и нажмите «Проверить подписку»."
	msgUseButtons      = "👆 Выберите вариант кнопкой или отправьте /cancel."
	msgStaleChoice     = "⌛ Этот выбор устарел. Начните поиск заново."
	msgAskTitle        = "🎬 Введите название фильма."
	msgResolveNotFound = "😔 Ничего не нашлось. Попробуйте другое название."
	msgChooseFilm      = "🎬 Выберите фильм:"
	msgChooseTrack     = "🎙 Выберите озвучку:"
	msgChooseQuality   = "📺 Выберите качество:"

	msgAddUsage       = "Использование: /add <код> [название]"
	msgEditNameUsage  = "Использование: /editn <код> <название>"
	msgEditMediaUsage = "Использование: /editm <код>"
	msgDeleteUsage    = "Использование: /del <код>"
	msgSendVideoFile  = "🎞 Отправьте видеофайл или ссылку http(s)://"
	msgCatalogEmpty   = "📭 Каталог пуст."
)

const (
	btnSearchCode        = "🔍 Поиск по коду"
	btnFindTitle         = "🎬 Поиск по названию"
	btnCheckSubscription = "✅ Проверить подписку"
)

func msgAskAdminTitle(code string) string {
	return fmt.Sprintf("✏️ Введите название для кода %s.", code)
}

func msgSendVideo(film entity.Film) string {
	return fmt.Sprintf("🎞 Код %s «%s» зарезервирован. Отправьте видео.", film.Code, film.Title)
}

func msgSendNewVideo(film entity.Film) string {
	return fmt.Sprintf("🎞 Отправьте новое видео для кода %s «%s».", film.Code, film.Title)
}

func msgFilmSaved(film entity.Film) string {
	return fmt.Sprintf("✅ Фильм «%s» сохранён под кодом %s.", film.Title, film.Code)
}

func msgDuplicate(code string) string {
	return fmt.Sprintf("⚠️ Код %s уже занят.", code)
}

func msgCodeNotFound(code string) string {
	return fmt.Sprintf("😔 Код %s не найден.", code)
}

func msgRenamed(film entity.Film) string {
	return fmt.Sprintf("✅ Код %s теперь называется «%s».", film.Code, film.Title)
}

func msgDeleted(code string) string {
	return fmt.Sprintf("🗑 Код %s удалён.", code)
}

func msgStats(stats app.Stats) string {
	return fmt.Sprintf("📊 Фильмов: %d\n⏳ Без видео: %d\n👥 Пользователей: %d",
		stats.Films, stats.WithoutMedia, stats.Users)
}

// subscribeText перечисляет каналы, на которые нет подписки.
// У канала, заданного только числовым ID, кнопки нет, поэтому имя должно быть в тексте.
func subscribeText(missing []entity.Channel) string {
	var b strings.Builder
	b.WriteString(msgSubscribe)
	for _, ch := range missing {
		b.WriteString("\n• ")
		b.WriteString(ch.Name)
	}
	return b.String()
}

// filmLink подпись и ссылка одним сообщением
func filmLink(film entity.Film) string {
	return film.Caption() + "\n" + film.URL
}

func resolvedCaption(r app.Resolved) string {
	return fmt.Sprintf("%s\n%s · %s", r.Candidate.DisplayTitle(), r.Track.Name, r.Quality.Name)
}

// listLines строки для /list. Записи без видео помечаются.
func listLines(films []entity.Film) []string {
	lines := make([]string, 0, len(films))
	for _, f := range films {
		line := fmt.Sprintf("%s — %s", f.Code, f.Title)
		if !f.HasMedia() {
			line += " ⏳"
		}
		lines = append(lines, line)
	}
	return lines
}

// chunkLines склеивает строки в сообщения не длиннее limit символов
func chunkLines(lines []string, limit int) []string {
	var (
		chunks []string
		b      strings.Builder
	)
	for _, line := range lines {
		if b.Len() > 0 && len([]rune(b.String()))+len([]rune(line))+1 > limit {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}
