package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// GetUserPoints возвращает баланс пары (пользователь, автор).
// Для пары без операций возвращается нулевой баланс, не ошибка.
func (s *Storage) GetUserPoints(ctx context.Context, userUID, creatorUID string) (*models.UserPoints, error) {
	const op = "storage.GetUserPoints"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, creator_uid, total_points, points_earned, points_spent, updated_at
			  FROM user_points
			  WHERE user_uid = $1 AND creator_uid = $2`
	p := &models.UserPoints{}
	row := s.DB.QueryRowContext(ctx, query, userUID, creatorUID)
	err := row.Scan(&p.UserUID, &p.CreatorUID, &p.TotalPoints, &p.PointsEarned,
		&p.PointsSpent, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return &models.UserPoints{UserUID: userUID, CreatorUID: creatorUID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdateUserPoints добавляет запись журнала и применяет её к балансу
// в одной транзакции.
func (s *Storage) UpdateUserPoints(ctx context.Context, ptx models.PointTransaction) (*models.UserPoints, error) {
	const op = "storage.UpdateUserPoints"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var result *models.UserPoints
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		var err error
		result, err = postTransaction(ctx, tx, op, ptx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// postTransaction — единая точка изменения баланса внутри транзакции.
// Списание условное: UPDATE проходит только при total_points >= amount,
// ноль затронутых строк означает ErrInsufficientPoints и откат.
func postTransaction(ctx context.Context, tx *sql.Tx, op string, ptx models.PointTransaction) (*models.UserPoints, error) {
	if ptx.Amount <= 0 {
		return nil, fmt.Errorf("%s: amount must be positive", op)
	}

	ensure := `INSERT INTO user_points (user_uid, creator_uid, total_points, points_earned, points_spent)
			   VALUES ($1, $2, 0, 0, 0)
			   ON CONFLICT (user_uid, creator_uid) DO NOTHING`
	if _, err := tx.ExecContext(ctx, ensure, ptx.UserUID, ptx.CreatorUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var apply string
	switch ptx.Type {
	case models.PointTypeEarned:
		apply = `UPDATE user_points
				 SET total_points = total_points + $3,
				     points_earned = points_earned + $3,
				     updated_at = NOW()
				 WHERE user_uid = $1 AND creator_uid = $2
				 RETURNING user_uid, creator_uid, total_points, points_earned, points_spent, updated_at`
	case models.PointTypeSpent:
		apply = `UPDATE user_points
				 SET total_points = total_points - $3,
				     points_spent = points_spent + $3,
				     updated_at = NOW()
				 WHERE user_uid = $1 AND creator_uid = $2 AND total_points >= $3
				 RETURNING user_uid, creator_uid, total_points, points_earned, points_spent, updated_at`
	default:
		return nil, fmt.Errorf("%s: unknown transaction type %q", op, ptx.Type)
	}

	p := &models.UserPoints{}
	row := tx.QueryRowContext(ctx, apply, ptx.UserUID, ptx.CreatorUID, ptx.Amount)
	err := row.Scan(&p.UserUID, &p.CreatorUID, &p.TotalPoints, &p.PointsEarned,
		&p.PointsSpent, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInsufficientPoints)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	insert := `INSERT INTO point_transactions (user_uid, creator_uid, type, amount, reason, related_id)
			   VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, insert,
		ptx.UserUID, ptx.CreatorUID, ptx.Type, ptx.Amount, ptx.Reason, ptx.RelatedID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetUserPointTransactions возвращает последние записи журнала пользователя.
func (s *Storage) GetUserPointTransactions(ctx context.Context, userUID string, limit int) ([]*models.PointTransaction, error) {
	const op = "storage.GetUserPointTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, creator_uid, type, amount, reason, related_id, created_at
			  FROM point_transactions
			  WHERE user_uid = $1
			  ORDER BY id DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PointTransaction
	for rows.Next() {
		item := &models.PointTransaction{}
		var relatedID sql.NullInt64
		if err := rows.Scan(&item.ID, &item.UserUID, &item.CreatorUID, &item.Type,
			&item.Amount, &item.Reason, &relatedID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if relatedID.Valid {
			id := int(relatedID.Int64)
			item.RelatedID = &id
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
