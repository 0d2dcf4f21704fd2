// Package models содержит доменные структуры приложения Fanlist:
// пользователей, идеи, голоса, баллы, товары магазина и публичные ссылки.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleCreator  = "creator"  // автор, владеет лидербордом идей
	RoleAudience = "audience" // зритель, голосует и предлагает идеи
)

// Статусы подписки пользователя на сервис.
const (
	SubscriptionFree     = "free"
	SubscriptionTrial    = "trial"
	SubscriptionPremium  = "premium"
	SubscriptionCanceled = "canceled"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                    string     // Уникальный идентификатор пользователя
	Email                  string     // Электронная почта
	Username               string     // Имя пользователя (уникальное)
	PasswordHash           string     // Хэш пароля пользователя
	Role                   string     // Роль пользователя, creator или audience
	SubscriptionStatus     string     // free, trial, premium или canceled
	SubscriptionPlan       *string    // Тарифный план (monthly/yearly), nil если нет подписки
	HasUsedTrial           bool       // Признак использованного пробного периода, назад не сбрасывается
	TrialStartDate         *time.Time // Дата начала пробного периода
	TrialEndDate           *time.Time // Дата истечения пробного периода
	SubscriptionStartDate  *time.Time // Дата начала оплаченной подписки
	SubscriptionEndDate    *time.Time // Дата истечения оплаченной подписки
	SubscriptionCanceledAt *time.Time // Дата отмены подписки
	StripeCustomerID       *string    // Идентификатор клиента во внешней платежной системе
	StripeSubscriptionID   *string    // Идентификатор подписки во внешней платежной системе
	CreatedAt              time.Time
}

// SubscriptionUpdate описывает изменение подписочных полей пользователя.
// Приходит из платежного слоя (вебхуки), который сам по себе вне ядра.
type SubscriptionUpdate struct {
	Status               string
	Plan                 *string
	StartDate            *time.Time
	EndDate              *time.Time
	CanceledAt           *time.Time
	StripeCustomerID     *string
	StripeSubscriptionID *string
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=creator audience"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DummyProfile используется для приёма данных обновления профиля.
type DummyProfile struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=30"`
}
