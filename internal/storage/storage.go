// Package storage определяет контракт хранилища Fanlist и общую таксономию
// ошибок бизнес-правил. Контракт реализуют два бэкенда: PostgreSQL
// (repository) и in-memory (memory); оба обязаны вести себя одинаково.
//
// Инвариант пересчета позиций: любая мутация, меняющая порядок по голосам
// (создание и удаление идеи, одобрение предложения, голос), пересчитывает
// позиции до возврата управления, внутри своей же транзакции. Идеи в статусе
// pending в рейтинг не попадают.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/magabrotheeeer/fanlist/internal/models"
)

// Ошибки бизнес-правил. Обработчики переводят их в HTTP-статусы,
// ядро не делает повторных попыток: здесь нет транзиентных отказов.
var (
	// ErrNotFound — сущность по идентификатору не существует.
	ErrNotFound = errors.New("not found")
	// ErrConflict — дубликат: повторный голос, занятый username или email.
	ErrConflict = errors.New("already exists")
	// ErrInsufficientPoints — списание превышает баланс.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrUnavailable — товар не активен или выкуплен весь тираж.
	ErrUnavailable = errors.New("item unavailable")
	// ErrQuotaExceeded — исчерпан лимит идей бесплатного тарифа.
	ErrQuotaExceeded = errors.New("idea quota exceeded")
	// ErrInvalidTransition — недопустимый переход статуса выдачи.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrForbidden — действие запрещено для данного пользователя.
	ErrForbidden = errors.New("forbidden")
)

// UserStorage описывает операции над пользователями.
type UserStorage interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, uid string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, uid, email, username string) error
	UpdateUserPassword(ctx context.Context, uid, passwordHash string) error
	UpdateUserSubscription(ctx context.Context, uid string, upd models.SubscriptionUpdate) error
	// StartUserTrial включает пробный период. Возвращает ErrConflict,
	// если пробный период уже был использован: HasUsedTrial монотонен.
	StartUserTrial(ctx context.Context, uid string, start, end time.Time) error
}

// IdeaStorage описывает операции жизненного цикла идей и рейтинга.
type IdeaStorage interface {
	// CreateIdea создает идею автора сразу в статусе approved
	// и пересчитывает позиции.
	CreateIdea(ctx context.Context, idea models.Idea) (int, error)
	// SuggestIdea создает предложение зрителя в статусе pending.
	// Позиции не пересчитываются: pending идеи вне рейтинга.
	SuggestIdea(ctx context.Context, idea models.Idea) (int, error)
	// ApproveIdea переводит предложение в approved и пересчитывает позиции.
	ApproveIdea(ctx context.Context, id int) (*models.Idea, error)
	GetIdea(ctx context.Context, id int) (*models.Idea, error)
	GetIdeas(ctx context.Context, creatorUID string) ([]*models.Idea, error)
	GetPendingIdeas(ctx context.Context, creatorUID string) ([]*models.Idea, error)
	UpdateIdea(ctx context.Context, id int, title, description string) (*models.Idea, error)
	// DeleteIdea удаляет идею вместе с голосами и пересчитывает позиции.
	// Этим же путем отклоняются pending предложения.
	DeleteIdea(ctx context.Context, id int) error
	GetIdeasWithPositions(ctx context.Context, creatorUID string) ([]*models.RankedIdea, error)
	// RecomputePositions пересчитывает позиции всех approved идей:
	// голоса по убыванию, при равенстве раньше созданная выше.
	// После вызова currentPosition — плотная перестановка 1..N.
	RecomputePositions(ctx context.Context) error
	CountIdeas(ctx context.Context, creatorUID string) (int, error)
}

// VoteStorage описывает операции голосования.
type VoteStorage interface {
	GetVote(ctx context.Context, ideaID int, voterUID string) (*models.Vote, error)
	// CreateVote регистрирует голос. Уникальность (idea, voter) обеспечивает
	// само хранилище, при дубликате возвращается ErrConflict.
	CreateVote(ctx context.Context, ideaID int, voterUID string) error
	// IncrementVote увеличивает счетчик голосов идеи,
	// пересчитывает позиции и возвращает новое значение счетчика.
	IncrementVote(ctx context.Context, ideaID int) (int, error)
}

// PointsStorage описывает журнал баллов.
type PointsStorage interface {
	// GetUserPoints возвращает баланс пары (пользователь, автор).
	// Для пары без операций возвращается нулевой баланс, не ошибка.
	GetUserPoints(ctx context.Context, userUID, creatorUID string) (*models.UserPoints, error)
	// UpdateUserPoints добавляет запись журнала и применяет её к балансу.
	// Списание условное: если баланс меньше суммы, возвращается
	// ErrInsufficientPoints и ни журнал, ни баланс не меняются.
	UpdateUserPoints(ctx context.Context, tx models.PointTransaction) (*models.UserPoints, error)
	GetUserPointTransactions(ctx context.Context, userUID string, limit int) ([]*models.PointTransaction, error)
}

// StoreStorage описывает магазин наград и выдачи.
type StoreStorage interface {
	GetStoreItems(ctx context.Context, creatorUID string) ([]*models.StoreItem, error)
	GetStoreItem(ctx context.Context, id int) (*models.StoreItem, error)
	CreateStoreItem(ctx context.Context, item models.StoreItem) (int, error)
	UpdateStoreItem(ctx context.Context, item models.StoreItem) error
	DeleteStoreItem(ctx context.Context, id int) error
	CountActiveStoreItems(ctx context.Context, creatorUID string) (int, error)
	// CreateStoreRedemption выполняет выкуп одним атомарным блоком:
	// проверка наличия и доступности товара, условное списание баллов,
	// запись выдачи в статусе pending, инкремент выкупленного количества.
	// Любая ошибка откатывает блок целиком.
	CreateStoreRedemption(ctx context.Context, storeItemID int, userUID string) (*models.StoreRedemption, error)
	GetStoreRedemptions(ctx context.Context, creatorUID string, limit, offset int) ([]*models.StoreRedemption, error)
	// UpdateRedemptionStatus выполняет переход pending -> completed.
	// Переход доступен только автору товара, остальное — ErrInvalidTransition.
	UpdateRedemptionStatus(ctx context.Context, redemptionID int, status, creatorUID string) (*models.StoreRedemption, error)
}

// PublicLinkStorage описывает публичные ссылки на лидерборд.
type PublicLinkStorage interface {
	CreatePublicLink(ctx context.Context, link models.PublicLink) (int, error)
	GetPublicLinkByToken(ctx context.Context, token string) (*models.PublicLink, error)
	GetUserPublicLinks(ctx context.Context, creatorUID string) ([]*models.PublicLink, error)
	TogglePublicLinkStatus(ctx context.Context, id int, creatorUID string) (*models.PublicLink, error)
	DeletePublicLink(ctx context.Context, id int, creatorUID string) error
}

// Storage — полный контракт хранилища Fanlist.
type Storage interface {
	UserStorage
	IdeaStorage
	VoteStorage
	PointsStorage
	StoreStorage
	PublicLinkStorage
}
