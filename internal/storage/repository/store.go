package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

const itemColumns = `id, creator_uid, title, description, points_cost,
	max_quantity, current_quantity, is_active, created_at`

func scanStoreItem(row interface{ Scan(...any) error }) (*models.StoreItem, error) {
	item := &models.StoreItem{}
	var maxQuantity sql.NullInt64
	if err := row.Scan(&item.ID, &item.CreatorUID, &item.Title, &item.Description,
		&item.PointsCost, &maxQuantity, &item.CurrentQuantity, &item.IsActive,
		&item.CreatedAt); err != nil {
		return nil, err
	}
	if maxQuantity.Valid {
		q := int(maxQuantity.Int64)
		item.MaxQuantity = &q
	}
	return item, nil
}

// GetStoreItems возвращает товары автора.
func (s *Storage) GetStoreItems(ctx context.Context, creatorUID string) ([]*models.StoreItem, error) {
	const op = "storage.GetStoreItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + itemColumns + ` FROM store_items WHERE creator_uid = $1 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, creatorUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.StoreItem
	for rows.Next() {
		item, err := scanStoreItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetStoreItem возвращает товар по ID.
func (s *Storage) GetStoreItem(ctx context.Context, id int) (*models.StoreItem, error) {
	const op = "storage.GetStoreItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + itemColumns + ` FROM store_items WHERE id = $1`
	item, err := scanStoreItem(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return item, nil
}

// CreateStoreItem вставляет новый товар и возвращает его ID.
func (s *Storage) CreateStoreItem(ctx context.Context, item models.StoreItem) (int, error) {
	const op = "storage.CreateStoreItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO store_items (creator_uid, title, description, points_cost, max_quantity, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query,
		item.CreatorUID, item.Title, item.Description, item.PointsCost,
		item.MaxQuantity, item.IsActive).Scan(&newID); err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// UpdateStoreItem обновляет данные товара.
func (s *Storage) UpdateStoreItem(ctx context.Context, item models.StoreItem) error {
	const op = "storage.UpdateStoreItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE store_items
			  SET title = $1, description = $2, points_cost = $3,
			      max_quantity = $4, is_active = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		item.Title, item.Description, item.PointsCost, item.MaxQuantity,
		item.IsActive, item.ID)
	if err != nil {
		return mapError(op, err)
	}
	return requireRow(op, result)
}

// DeleteStoreItem удаляет товар.
func (s *Storage) DeleteStoreItem(ctx context.Context, id int) error {
	const op = "storage.DeleteStoreItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM store_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireRow(op, result)
}

// CountActiveStoreItems считает активные товары автора.
func (s *Storage) CountActiveStoreItems(ctx context.Context, creatorUID string) (int, error) {
	const op = "storage.CountActiveStoreItems"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM store_items WHERE creator_uid = $1 AND is_active = TRUE`
	if err := s.DB.QueryRowContext(ctx, query, creatorUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateStoreRedemption выполняет выкуп товара одной транзакцией.
// Строка товара блокируется FOR UPDATE, поэтому проверка доступности,
// списание баллов, запись выдачи и инкремент количества атомарны:
// ни одна ошибка не оставляет журнал и выдачи рассогласованными.
func (s *Storage) CreateStoreRedemption(ctx context.Context, storeItemID int, userUID string) (*models.StoreRedemption, error) {
	const op = "storage.CreateStoreRedemption"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var redemption *models.StoreRedemption
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		lock := `SELECT ` + itemColumns + ` FROM store_items WHERE id = $1 FOR UPDATE`
		item, err := scanStoreItem(tx.QueryRowContext(ctx, lock, storeItemID))
		if err != nil {
			return mapError(op, err)
		}
		if !item.IsAvailable() {
			return fmt.Errorf("%s: %w", op, storage.ErrUnavailable)
		}

		relatedID := item.ID
		if _, err := postTransaction(ctx, tx, op, models.PointTransaction{
			UserUID:    userUID,
			CreatorUID: item.CreatorUID,
			Type:       models.PointTypeSpent,
			Amount:     item.PointsCost,
			Reason:     models.PointReasonStoreRedemption,
			RelatedID:  &relatedID,
		}); err != nil {
			return err
		}

		insert := `INSERT INTO store_redemptions (store_item_id, user_uid, creator_uid, points_spent, status)
				   VALUES ($1, $2, $3, $4, $5)
				   RETURNING id, created_at`
		redemption = &models.StoreRedemption{
			StoreItemID: item.ID,
			UserUID:     userUID,
			CreatorUID:  item.CreatorUID,
			PointsSpent: item.PointsCost,
			Status:      models.RedemptionPending,
		}
		if err := tx.QueryRowContext(ctx, insert,
			item.ID, userUID, item.CreatorUID, item.PointsCost,
			models.RedemptionPending).Scan(&redemption.ID, &redemption.CreatedAt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		bump := `UPDATE store_items SET current_quantity = current_quantity + 1 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, bump, item.ID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// GetStoreRedemptions возвращает выдачи автора с пагинацией, новые первыми.
func (s *Storage) GetStoreRedemptions(ctx context.Context, creatorUID string, limit, offset int) ([]*models.StoreRedemption, error) {
	const op = "storage.GetStoreRedemptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, store_item_id, user_uid, creator_uid, points_spent, status, created_at, completed_at
			  FROM store_redemptions
			  WHERE creator_uid = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, creatorUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.StoreRedemption
	for rows.Next() {
		r := &models.StoreRedemption{}
		var completedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.StoreItemID, &r.UserUID, &r.CreatorUID,
			&r.PointsSpent, &r.Status, &r.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if completedAt.Valid {
			r.CompletedAt = &completedAt.Time
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateRedemptionStatus выполняет переход pending -> completed.
// Любой другой переход — ErrInvalidTransition, чужая выдача — ErrForbidden.
func (s *Storage) UpdateRedemptionStatus(ctx context.Context, redemptionID int, status, creatorUID string) (*models.StoreRedemption, error) {
	const op = "storage.UpdateRedemptionStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if status != models.RedemptionCompleted {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidTransition)
	}

	var redemption *models.StoreRedemption
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		lock := `SELECT id, store_item_id, user_uid, creator_uid, points_spent, status, created_at, completed_at
				 FROM store_redemptions WHERE id = $1 FOR UPDATE`
		r := &models.StoreRedemption{}
		var completedAt sql.NullTime
		if err := tx.QueryRowContext(ctx, lock, redemptionID).Scan(&r.ID, &r.StoreItemID,
			&r.UserUID, &r.CreatorUID, &r.PointsSpent, &r.Status, &r.CreatedAt, &completedAt); err != nil {
			return mapError(op, err)
		}
		if r.CreatorUID != creatorUID {
			return fmt.Errorf("%s: %w", op, storage.ErrForbidden)
		}
		if r.Status != models.RedemptionPending {
			return fmt.Errorf("%s: %w", op, storage.ErrInvalidTransition)
		}

		update := `UPDATE store_redemptions
				   SET status = $1, completed_at = NOW()
				   WHERE id = $2
				   RETURNING status, completed_at`
		var newCompletedAt sql.NullTime
		if err := tx.QueryRowContext(ctx, update, models.RedemptionCompleted, redemptionID).
			Scan(&r.Status, &newCompletedAt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if newCompletedAt.Valid {
			r.CompletedAt = &newCompletedAt.Time
		}
		redemption = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}
