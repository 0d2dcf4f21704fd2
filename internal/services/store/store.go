// Package services содержит бизнес-логику магазина наград: товары,
// выкупы за баллы и переходы статусов выдач.
package services

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/fanlist/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/fanlist/internal/lib/sl"
	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// MaxActiveItems — максимум активных товаров у одного автора.
const MaxActiveItems = 5

// DefaultRedemptionsLimit применяется, когда клиент не указал размер выборки.
const DefaultRedemptionsLimit = 50

// StoreRepository описывает операции магазина в хранилище.
type StoreRepository interface {
	GetStoreItems(ctx context.Context, creatorUID string) ([]*models.StoreItem, error)
	GetStoreItem(ctx context.Context, id int) (*models.StoreItem, error)
	CreateStoreItem(ctx context.Context, item models.StoreItem) (int, error)
	UpdateStoreItem(ctx context.Context, item models.StoreItem) error
	DeleteStoreItem(ctx context.Context, id int) error
	CountActiveStoreItems(ctx context.Context, creatorUID string) (int, error)
	CreateStoreRedemption(ctx context.Context, storeItemID int, userUID string) (*models.StoreRedemption, error)
	GetStoreRedemptions(ctx context.Context, creatorUID string, limit, offset int) ([]*models.StoreRedemption, error)
	UpdateRedemptionStatus(ctx context.Context, redemptionID int, status, creatorUID string) (*models.StoreRedemption, error)
}

// UserGetter возвращает пользователя по UID, нужен для адресата уведомления.
type UserGetter interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// RedemptionCreatedEvent публикуется при выкупе товара зрителем.
type RedemptionCreatedEvent struct {
	RedemptionID int    `json:"redemption_id"`
	StoreItemID  int    `json:"store_item_id"`
	ItemTitle    string `json:"item_title"`
	UserUID      string `json:"user_uid"`
	CreatorUID   string `json:"creator_uid"`
	CreatorEmail string `json:"creator_email"`
	PointsSpent  int    `json:"points_spent"`
}

// StoreService реализует магазин наград поверх хранилища.
type StoreService struct {
	repo    StoreRepository
	users   UserGetter
	channel *amqp.Channel
	log     *slog.Logger
}

// NewStoreService создает новый экземпляр StoreService.
// channel может быть nil, тогда события уведомлений не публикуются.
func NewStoreService(repo StoreRepository, users UserGetter, channel *amqp.Channel, log *slog.Logger) *StoreService {
	return &StoreService{
		repo:    repo,
		users:   users,
		channel: channel,
		log:     log,
	}
}

// Items возвращает товары автора.
func (s *StoreService) Items(ctx context.Context, creatorUID string) ([]*models.StoreItem, error) {
	return s.repo.GetStoreItems(ctx, creatorUID)
}

// CreateItem добавляет товар автора. Товар создается активным, если
// явно не указано обратное; действует лимит MaxActiveItems активных
// товаров. Создание доступно только при активном премиуме, проверка
// выполняется на уровне маршрутов.
func (s *StoreService) CreateItem(ctx context.Context, creatorUID string, req models.DummyStoreItem) (int, error) {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if isActive {
		count, err := s.repo.CountActiveStoreItems(ctx, creatorUID)
		if err != nil {
			return 0, err
		}
		if count >= MaxActiveItems {
			return 0, storage.ErrQuotaExceeded
		}
	}
	return s.repo.CreateStoreItem(ctx, models.StoreItem{
		CreatorUID:  creatorUID,
		Title:       req.Title,
		Description: req.Description,
		PointsCost:  req.PointsCost,
		MaxQuantity: req.MaxQuantity,
		IsActive:    isActive,
	})
}

// UpdateItem изменяет товар автора. Чужой товар менять нельзя.
func (s *StoreService) UpdateItem(ctx context.Context, itemID int, creatorUID string, req models.DummyStoreItem) (*models.StoreItem, error) {
	item, err := s.repo.GetStoreItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.CreatorUID != creatorUID {
		return nil, storage.ErrForbidden
	}

	item.Title = req.Title
	item.Description = req.Description
	item.PointsCost = req.PointsCost
	item.MaxQuantity = req.MaxQuantity
	if req.IsActive != nil {
		// включение ранее выключенного товара тоже ограничено лимитом
		if *req.IsActive && !item.IsActive {
			count, err := s.repo.CountActiveStoreItems(ctx, creatorUID)
			if err != nil {
				return nil, err
			}
			if count >= MaxActiveItems {
				return nil, storage.ErrQuotaExceeded
			}
		}
		item.IsActive = *req.IsActive
	}
	if err := s.repo.UpdateStoreItem(ctx, *item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem удаляет товар автора.
func (s *StoreService) DeleteItem(ctx context.Context, itemID int, creatorUID string) error {
	item, err := s.repo.GetStoreItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.CreatorUID != creatorUID {
		return storage.ErrForbidden
	}
	return s.repo.DeleteStoreItem(ctx, itemID)
}

// Redeem выкупает товар за баллы. Хранилище выполняет проверки наличия,
// доступности и достаточности баллов одним атомарным блоком.
func (s *StoreService) Redeem(ctx context.Context, storeItemID int, userUID string) (*models.StoreRedemption, error) {
	redemption, err := s.repo.CreateStoreRedemption(ctx, storeItemID, userUID)
	if err != nil {
		return nil, err
	}
	s.publishRedemptionCreated(ctx, redemption)
	return redemption, nil
}

// Redemptions возвращает выдачи автора с пагинацией.
func (s *StoreService) Redemptions(ctx context.Context, creatorUID string, limit, offset int) ([]*models.StoreRedemption, error) {
	if limit <= 0 {
		limit = DefaultRedemptionsLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetStoreRedemptions(ctx, creatorUID, limit, offset)
}

// CompleteRedemption переводит выдачу pending -> completed.
// Переход доступен только автору товара.
func (s *StoreService) CompleteRedemption(ctx context.Context, redemptionID int, creatorUID string) (*models.StoreRedemption, error) {
	return s.repo.UpdateRedemptionStatus(ctx, redemptionID, models.RedemptionCompleted, creatorUID)
}

func (s *StoreService) publishRedemptionCreated(ctx context.Context, redemption *models.StoreRedemption) {
	if s.channel == nil {
		return
	}
	event := RedemptionCreatedEvent{
		RedemptionID: redemption.ID,
		StoreItemID:  redemption.StoreItemID,
		UserUID:      redemption.UserUID,
		CreatorUID:   redemption.CreatorUID,
		PointsSpent:  redemption.PointsSpent,
	}
	if item, err := s.repo.GetStoreItem(ctx, redemption.StoreItemID); err == nil {
		event.ItemTitle = item.Title
	}
	if creator, err := s.users.GetUser(ctx, redemption.CreatorUID); err == nil {
		event.CreatorEmail = creator.Email
	}
	if err := rabbitmq.PublishMessage(s.channel, "notifications", "redemption.created", event); err != nil {
		s.log.Error("failed to publish message", sl.Err(err))
	}
}
