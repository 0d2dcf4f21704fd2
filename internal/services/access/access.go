// Package services содержит чистые функции вычисления премиум-доступа пользователя.
package services

import (
	"math"
	"time"

	"github.com/magabrotheeeer/fanlist/internal/models"
)

// Причины статуса доступа, значения используются напрямую в ответах API.
const (
	ReasonPremium         = "premium"
	ReasonTrial           = "trial"
	ReasonTrialExpired    = "trial_expired"
	ReasonPremiumExpired  = "premium_expired"
	ReasonPremiumCanceled = "premium_canceled"
	ReasonNoSubscription  = "no_subscription"
)

// AccessStatus описывает результат проверки премиум-доступа.
type AccessStatus struct {
	HasAccess     bool   `json:"has_access"`
	Reason        string `json:"reason"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
}

// HasActivePremiumAccess сообщает, действует ли сейчас премиум-доступ пользователя.
// Все сравнения дат строгие, без льготного периода после даты окончания.
func HasActivePremiumAccess(user *models.User, now time.Time) bool {
	if user == nil {
		return false
	}
	switch user.SubscriptionStatus {
	case models.SubscriptionPremium:
		return user.SubscriptionEndDate == nil || user.SubscriptionEndDate.After(now)
	case models.SubscriptionTrial:
		return user.TrialEndDate != nil && user.TrialEndDate.After(now)
	case models.SubscriptionCanceled:
		// отмененная, но еще не истекшая подписка продолжает давать доступ
		return user.SubscriptionEndDate != nil && user.SubscriptionEndDate.After(now)
	default:
		return false
	}
}

// TrialDaysRemaining возвращает число оставшихся дней триала, округленное вверх,
// не меньше нуля. Для пользователей вне триала всегда 0.
func TrialDaysRemaining(user *models.User, now time.Time) int {
	if user == nil || user.SubscriptionStatus != models.SubscriptionTrial || user.TrialEndDate == nil {
		return 0
	}
	remaining := user.TrialEndDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// PremiumAccessStatus возвращает канонический статус доступа с причиной,
// DaysRemaining заполняется только для причины trial.
func PremiumAccessStatus(user *models.User, now time.Time) AccessStatus {
	if user == nil {
		return AccessStatus{HasAccess: false, Reason: ReasonNoSubscription}
	}
	switch user.SubscriptionStatus {
	case models.SubscriptionPremium:
		if user.SubscriptionEndDate == nil || user.SubscriptionEndDate.After(now) {
			return AccessStatus{HasAccess: true, Reason: ReasonPremium}
		}
		return AccessStatus{HasAccess: false, Reason: ReasonPremiumExpired}
	case models.SubscriptionTrial:
		if user.TrialEndDate != nil && user.TrialEndDate.After(now) {
			return AccessStatus{
				HasAccess:     true,
				Reason:        ReasonTrial,
				DaysRemaining: TrialDaysRemaining(user, now),
			}
		}
		return AccessStatus{HasAccess: false, Reason: ReasonTrialExpired}
	case models.SubscriptionCanceled:
		if user.SubscriptionEndDate != nil && user.SubscriptionEndDate.After(now) {
			return AccessStatus{HasAccess: true, Reason: ReasonPremiumCanceled}
		}
		return AccessStatus{HasAccess: false, Reason: ReasonPremiumExpired}
	default:
		return AccessStatus{HasAccess: false, Reason: ReasonNoSubscription}
	}
}
