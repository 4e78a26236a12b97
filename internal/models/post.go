// Package models содержит доменные структуры портала: публикации, категории,
// авторов, подписки и пользователей, а также вспомогательные типы для приёма
// данных из JSON-запросов.
package models

import "time"

// Типы публикаций. Значения совпадают с кодами категорий исходной схемы.
const (
	CategoryTypeNews    = "NW"
	CategoryTypeArticle = "AR"
)

// Post представляет публикацию портала. Категории хранятся отдельной связью
// многие-ко-многим и загружаются вместе с постом.
type Post struct {
	ID           int64      // Уникальный идентификатор публикации
	AuthorID     int64      // Идентификатор автора
	CategoryType string     // Тип публикации: NW (новость) или AR (статья)
	DateCreation time.Time  // Дата и время создания
	Title        string     // Заголовок
	Text         string     // Полный текст
	Quantity     int        // Служебное числовое поле публикации
	Categories   []Category // Категории публикации
}

// Preview возвращает укороченный текст публикации для списков и писем.
func (p *Post) Preview() string {
	const limit = 124
	runes := []rune(p.Text)
	if len(runes) <= limit {
		return p.Text
	}
	return string(runes[:limit]) + "..."
}

// DummyPost используется для приёма данных публикации из JSON-запроса
// до их валидации и преобразования в Post.
type DummyPost struct {
	Title        string  `json:"title" validate:"required,max=128"`            // Заголовок
	Text         string  `json:"text" validate:"required"`                     // Текст публикации
	CategoryType string  `json:"category_type" validate:"required,oneof=NW AR"` // Тип публикации
	CategoryIDs  []int64 `json:"category_ids" validate:"required,min=1"`       // Идентификаторы категорий
}

// PostFilter представляет параметры фильтрации списка публикаций,
// которые передаются в слой доступа к данным.
type PostFilter struct {
	Title      string     // Подстрока заголовка (пусто — без фильтра)
	CategoryID *int64     // Категория (nil — без фильтра)
	DateAfter  *time.Time // Нижняя граница даты создания (nil — без фильтра)
}
