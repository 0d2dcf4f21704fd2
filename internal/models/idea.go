package models

import "time"

// Статусы идеи в жизненном цикле модерации.
// Отдельного статуса "rejected" нет: отклонение предложения — это удаление.
const (
	IdeaStatusPending  = "pending"
	IdeaStatusApproved = "approved"
)

// Idea представляет идею контента в лидерборде автора.
// Позиции считаются глобально по всем одобренным идеям: сортировка по числу
// голосов по убыванию, при равенстве раньше созданная идея выше.
type Idea struct {
	ID                 int
	CreatorUID         string     // Автор, которому принадлежит идея
	Title              string     // Заголовок идеи
	Description        string     // Описание идеи
	Status             string     // pending или approved
	Votes              int        // Счетчик голосов, только растет
	SuggestedBy        *string    // UID зрителя, если идея пришла как предложение
	CurrentPosition    *int       // Текущая позиция в рейтинге, 1-based
	PreviousPosition   *int       // Позиция до последнего пересчета
	LastPositionUpdate *time.Time // Время последнего пересчета позиций
	CreatedAt          time.Time
}

// Position описывает позицию идеи в рейтинге вместе с динамикой.
// Change положительный, если идея поднялась (номер позиции уменьшился).
type Position struct {
	Current  *int `json:"current"`
	Previous *int `json:"previous"`
	Change   int  `json:"change"`
}

// RankedIdea — идея, обогащенная позицией для выдачи лидерборда.
type RankedIdea struct {
	Idea     *Idea    `json:"idea"`
	Position Position `json:"position"`
}

// DummyIdea используется для приёма данных идеи из JSON-запроса.
type DummyIdea struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=500"`
}
