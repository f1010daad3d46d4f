package entity

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	CodeMinLength = 3
	CodeMaxLength = 5
)

var (
	codePattern   = regexp.MustCompile(`^\d{3,5}$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// MediaRef ссылка на видео: file_id из Telegram или внешний URL
type MediaRef struct {
	FileID string `json:"file_id,omitempty" bson:"file_id,omitempty"`
	URL    string `json:"url,omitempty" bson:"url,omitempty"`
}

// IsEmpty сообщает, что видео ещё не загружено
func (m MediaRef) IsEmpty() bool {
	return m.FileID == "" && m.URL == ""
}

// Film запись каталога
type Film struct {
	Code  string `json:"-"`
	Title string `json:"title"`
	MediaRef
}

// NewFilm создаёт запись без видео. Пустое название заменяется заглушкой.
func NewFilm(code, title string) Film {
	return Film{Code: code, Title: NormalizeTitle(code, title)}
}

// HasMedia сообщает, что к записи привязано видео
func (f Film) HasMedia() bool {
	return !f.MediaRef.IsEmpty()
}

// Caption подпись к видео
func (f Film) Caption() string {
	return NormalizeTitle(f.Code, f.Title)
}

// NormalizeTitle обрезает пробелы и подставляет название по умолчанию
func NormalizeTitle(code, title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Sprintf("Фильм %s", code)
	}
	return title
}

// ValidateCode проверяет, что код состоит из 3–5 цифр
func ValidateCode(code string) error {
	if codePattern.MatchString(code) {
		return nil
	}
	if !digitsPattern.MatchString(code) {
		return ErrCodeNotDigits
	}
	return ErrCodeLength
}

// IsCode сообщает, похожа ли строка на код фильма
func IsCode(s string) bool {
	return codePattern.MatchString(s)
}

// CompareCodes сравнивает коды по числовому значению.
// При равных значениях ("0123" и "123") короткий код идёт первым.
func CompareCodes(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil && na != nb {
		if na < nb {
			return -1
		}
		return 1
	}
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Catalog каталог фильмов: код -> запись
type Catalog map[string]Film

// Clone возвращает независимую копию каталога
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for code, film := range c {
		out[code] = film
	}
	return out
}

// Sorted возвращает записи в порядке возрастания кода
func (c Catalog) Sorted() []Film {
	films := make([]Film, 0, len(c))
	for code, film := range c {
		film.Code = code
		films = append(films, film)
	}
	sort.Slice(films, func(i, j int) bool {
		return CompareCodes(films[i].Code, films[j].Code) < 0
	})
	return films
}

// Encode сериализует каталог в JSON. Результат детерминирован:
// одинаковые каталоги дают одинаковые байты.
func (c Catalog) Encode() ([]byte, error) {
	if c == nil {
		c = Catalog{}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeCatalog разбирает JSON каталога. Пустой ввод даёт пустой каталог.
func DecodeCatalog(data []byte) (Catalog, error) {
	catalog := Catalog{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return catalog, nil
	}
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if catalog == nil {
		catalog = Catalog{}
	}
	for code, film := range catalog {
		film.Code = code
		catalog[code] = film
	}
	return catalog, nil
}
