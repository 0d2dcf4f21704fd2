// Package services содержит бизнес-логику журнала баллов: балансы,
// начисления и история операций.
package services

import (
	"context"
	"errors"

	"github.com/magabrotheeeer/fanlist/internal/models"
)

// DefaultHistoryLimit применяется, когда клиент не указал размер выборки.
const DefaultHistoryLimit = 50

// ErrInvalidAmount возвращается для транзакции с нулевой
// или отрицательной суммой.
var ErrInvalidAmount = errors.New("amount must be positive")

// PointsRepository описывает операции журнала баллов в хранилище.
type PointsRepository interface {
	// GetUserPoints возвращает баланс пары (пользователь, автор),
	// для пары без операций — нулевой баланс.
	GetUserPoints(ctx context.Context, userUID, creatorUID string) (*models.UserPoints, error)
	// UpdateUserPoints добавляет запись журнала и применяет её к балансу.
	UpdateUserPoints(ctx context.Context, tx models.PointTransaction) (*models.UserPoints, error)
	// GetUserPointTransactions возвращает последние записи журнала пользователя.
	GetUserPointTransactions(ctx context.Context, userUID string, limit int) ([]*models.PointTransaction, error)
}

// PointsService реализует операции с баллами поверх хранилища.
type PointsService struct {
	repo PointsRepository
}

// NewPointsService создает новый экземпляр PointsService.
func NewPointsService(repo PointsRepository) *PointsService {
	return &PointsService{repo: repo}
}

// Balance возвращает баланс пользователя у конкретного автора.
func (s *PointsService) Balance(ctx context.Context, userUID, creatorUID string) (*models.UserPoints, error) {
	return s.repo.GetUserPoints(ctx, userUID, creatorUID)
}

// Post добавляет запись журнала. Сумма обязана быть положительной,
// знак операции определяется типом транзакции.
func (s *PointsService) Post(ctx context.Context, tx models.PointTransaction) (*models.UserPoints, error) {
	if tx.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.UpdateUserPoints(ctx, tx)
}

// History возвращает последние операции пользователя по всем авторам.
func (s *PointsService) History(ctx context.Context, userUID string, limit int) ([]*models.PointTransaction, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return s.repo.GetUserPointTransactions(ctx, userUID, limit)
}
