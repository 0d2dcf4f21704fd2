package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// GetVote возвращает голос пары (идея, пользователь).
func (s *Storage) GetVote(ctx context.Context, ideaID int, voterUID string) (*models.Vote, error) {
	const op = "storage.GetVote"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, idea_id, voter_uid, created_at
			  FROM votes
			  WHERE idea_id = $1 AND voter_uid = $2`
	v := &models.Vote{}
	row := s.DB.QueryRowContext(ctx, query, ideaID, voterUID)
	if err := row.Scan(&v.ID, &v.IdeaID, &v.VoterUID, &v.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return v, nil
}

// CreateVote регистрирует голос. Уникальный индекс (idea_id, voter_uid)
// закрывает гонку двух одновременных голосов: ON CONFLICT DO NOTHING
// и проверка числа строк переводят дубликат в ErrConflict.
func (s *Storage) CreateVote(ctx context.Context, ideaID int, voterUID string) error {
	const op = "storage.CreateVote"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO votes (idea_id, voter_uid)
			  VALUES ($1, $2)
			  ON CONFLICT (idea_id, voter_uid) DO NOTHING`
	result, err := s.DB.ExecContext(ctx, query, ideaID, voterUID)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	return nil
}

// IncrementVote увеличивает счетчик голосов идеи и в той же транзакции
// пересчитывает позиции. Возвращает новое значение счетчика.
func (s *Storage) IncrementVote(ctx context.Context, ideaID int) (int, error) {
	const op = "storage.IncrementVote"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var votes int
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		query := `UPDATE ideas SET votes = votes + 1 WHERE id = $1 RETURNING votes`
		if err := tx.QueryRowContext(ctx, query, ideaID).Scan(&votes); err != nil {
			return mapError(op, err)
		}
		if _, err := tx.ExecContext(ctx, recomputeQuery); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return votes, nil
}
