package entity

import "fmt"

// Candidate фильм, найденный внешним каталогом по названию
type Candidate struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Year  string `json:"year,omitempty"`
}

// DisplayTitle название для кнопки выбора
func (c Candidate) DisplayTitle() string {
	if c.Year == "" {
		return c.Title
	}
	return fmt.Sprintf("%s (%s)", c.Title, c.Year)
}

// Track озвучка с доступными вариантами качества
type Track struct {
	Name      string    `json:"name"`
	Qualities []Quality `json:"qualities"`
}

// Quality вариант качества с прямой ссылкой на поток
type Quality struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
