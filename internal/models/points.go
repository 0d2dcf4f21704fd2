package models

import "time"

// Типы операций в журнале баллов.
const (
	PointTypeEarned = "earned"
	PointTypeSpent  = "spent"
)

// Причины начисления и списания баллов.
const (
	PointReasonVote               = "vote"
	PointReasonSuggestionCost     = "suggestion_submitted"
	PointReasonSuggestionApproved = "suggestion_approved"
	PointReasonStoreRedemption    = "store_redemption"
)

// UserPoints хранит материализованный баланс баллов пользователя у конкретного
// автора. Источник истины — журнал PointTransaction, баланс всегда должен
// сходиться: TotalPoints == PointsEarned - PointsSpent, TotalPoints >= 0.
type UserPoints struct {
	UserUID      string
	CreatorUID   string
	TotalPoints  int
	PointsEarned int
	PointsSpent  int
	UpdatedAt    time.Time
}

// PointTransaction — неизменяемая запись журнала баллов.
// Amount всегда положительный, знак определяется полем Type.
type PointTransaction struct {
	ID         int
	UserUID    string
	CreatorUID string
	Type       string // earned или spent
	Amount     int
	Reason     string
	RelatedID  *int // ID связанной сущности: идеи или товара магазина
	CreatedAt  time.Time
}
