package models

import "time"

// PublicLink — публичная ссылка на лидерборд автора.
// Токен позволяет смотреть и голосовать без знания username автора.
type PublicLink struct {
	ID         int
	CreatorUID string
	Token      string
	IsActive   bool
	ExpiresAt  *time.Time
	CreatedAt  time.Time
}

// IsUsable сообщает, действует ли ссылка в данный момент.
func (l *PublicLink) IsUsable(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	return l.ExpiresAt == nil || l.ExpiresAt.After(now)
}

// DummyPublicLink используется для приёма данных ссылки из JSON-запроса.
type DummyPublicLink struct {
	ExpiresAt *time.Time `json:"expires_at"`
}
