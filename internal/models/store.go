package models

import "time"

// Статусы выдачи товара магазина.
const (
	RedemptionPending   = "pending"
	RedemptionCompleted = "completed"
)

// StoreItem — награда автора, покупаемая за баллы.
type StoreItem struct {
	ID              int
	CreatorUID      string
	Title           string
	Description     string
	PointsCost      int
	MaxQuantity     *int // nil — без ограничения
	CurrentQuantity int  // Сколько раз товар уже выкуплен
	IsActive        bool
	CreatedAt       time.Time
}

// IsAvailable сообщает, можно ли сейчас выкупить товар.
func (i *StoreItem) IsAvailable() bool {
	if !i.IsActive {
		return false
	}
	return i.MaxQuantity == nil || i.CurrentQuantity < *i.MaxQuantity
}

// StoreRedemption — запись о покупке товара за баллы.
// Создается в статусе pending, автор переводит её в completed.
type StoreRedemption struct {
	ID          int
	StoreItemID int
	UserUID     string
	CreatorUID  string
	PointsSpent int
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// DummyStoreItem используется для приёма данных товара из JSON-запроса.
type DummyStoreItem struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=500"`
	PointsCost  int    `json:"points_cost" validate:"required,gt=0"`
	MaxQuantity *int   `json:"max_quantity" validate:"omitempty,gt=0"`
	IsActive    *bool  `json:"is_active"`
}
