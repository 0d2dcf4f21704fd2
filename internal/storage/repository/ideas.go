package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/fanlist/internal/models"
)

const ideaColumns = `id, creator_uid, title, description, status, votes,
	suggested_by, current_position, previous_position, last_position_update, created_at`

// recomputeQuery назначает позиции всем одобренным идеям: голоса по убыванию,
// при равенстве раньше созданная выше. Позиции получаются плотной
// перестановкой 1..N, pending идеи не участвуют.
const recomputeQuery = `
	UPDATE ideas i
	SET previous_position = i.current_position,
	    current_position = r.rank,
	    last_position_update = NOW()
	FROM (
	    SELECT id, ROW_NUMBER() OVER (ORDER BY votes DESC, created_at ASC, id ASC) AS rank
	    FROM ideas
	    WHERE status = 'approved'
	) r
	WHERE i.id = r.id`

func scanIdea(row interface{ Scan(...any) error }) (*models.Idea, error) {
	idea := &models.Idea{}
	var suggestedBy sql.NullString
	var currentPosition, previousPosition sql.NullInt64
	var lastPositionUpdate sql.NullTime
	if err := row.Scan(&idea.ID, &idea.CreatorUID, &idea.Title, &idea.Description,
		&idea.Status, &idea.Votes, &suggestedBy, &currentPosition, &previousPosition,
		&lastPositionUpdate, &idea.CreatedAt); err != nil {
		return nil, err
	}
	if suggestedBy.Valid {
		idea.SuggestedBy = &suggestedBy.String
	}
	if currentPosition.Valid {
		pos := int(currentPosition.Int64)
		idea.CurrentPosition = &pos
	}
	if previousPosition.Valid {
		pos := int(previousPosition.Int64)
		idea.PreviousPosition = &pos
	}
	if lastPositionUpdate.Valid {
		idea.LastPositionUpdate = &lastPositionUpdate.Time
	}
	return idea, nil
}

// CreateIdea вставляет идею автора в статусе approved и в той же транзакции
// пересчитывает позиции. Возвращает ID новой идеи.
func (s *Storage) CreateIdea(ctx context.Context, idea models.Idea) (int, error) {
	const op = "storage.CreateIdea"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		query := `INSERT INTO ideas (creator_uid, title, description, status, votes, suggested_by)
				  VALUES ($1, $2, $3, $4, 0, $5)
				  RETURNING id`
		if err := tx.QueryRowContext(ctx, query,
			idea.CreatorUID, idea.Title, idea.Description,
			models.IdeaStatusApproved, idea.SuggestedBy).Scan(&newID); err != nil {
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
	return newID, nil
}

// SuggestIdea вставляет предложение зрителя в статусе pending.
// Позиции не пересчитываются: pending идеи в рейтинг не входят.
func (s *Storage) SuggestIdea(ctx context.Context, idea models.Idea) (int, error) {
	const op = "storage.SuggestIdea"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO ideas (creator_uid, title, description, status, votes, suggested_by)
			  VALUES ($1, $2, $3, $4, 0, $5)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query,
		idea.CreatorUID, idea.Title, idea.Description,
		models.IdeaStatusPending, idea.SuggestedBy).Scan(&newID); err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// ApproveIdea переводит предложение в approved и в той же транзакции
// пересчитывает позиции. Возвращает обновленную идею.
func (s *Storage) ApproveIdea(ctx context.Context, id int) (*models.Idea, error) {
	const op = "storage.ApproveIdea"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var idea *models.Idea
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		query := `UPDATE ideas SET status = $1 WHERE id = $2
				  RETURNING ` + ideaColumns
		var err error
		idea, err = scanIdea(tx.QueryRowContext(ctx, query, models.IdeaStatusApproved, id))
		if err != nil {
			return mapError(op, err)
		}
		if _, err := tx.ExecContext(ctx, recomputeQuery); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// GetIdea возвращает идею по её ID.
func (s *Storage) GetIdea(ctx context.Context, id int) (*models.Idea, error) {
	const op = "storage.GetIdea"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1`
	idea, err := scanIdea(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return idea, nil
}

// GetIdeas возвращает одобренные идеи автора по возрастанию позиции.
func (s *Storage) GetIdeas(ctx context.Context, creatorUID string) ([]*models.Idea, error) {
	const op = "storage.GetIdeas"
	return s.listIdeas(ctx, op, creatorUID, models.IdeaStatusApproved)
}

// GetPendingIdeas возвращает предложения зрителей, ожидающие модерации.
func (s *Storage) GetPendingIdeas(ctx context.Context, creatorUID string) ([]*models.Idea, error) {
	const op = "storage.GetPendingIdeas"
	return s.listIdeas(ctx, op, creatorUID, models.IdeaStatusPending)
}

func (s *Storage) listIdeas(ctx context.Context, op, creatorUID, status string) ([]*models.Idea, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + ideaColumns + `
			  FROM ideas
			  WHERE creator_uid = $1 AND status = $2
			  ORDER BY current_position NULLS LAST, created_at`
	rows, err := s.DB.QueryContext(ctx, query, creatorUID, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateIdea обновляет заголовок и описание идеи, не трогая голоса и позицию.
func (s *Storage) UpdateIdea(ctx context.Context, id int, title, description string) (*models.Idea, error) {
	const op = "storage.UpdateIdea"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE ideas SET title = $1, description = $2 WHERE id = $3
			  RETURNING ` + ideaColumns
	idea, err := scanIdea(s.DB.QueryRowContext(ctx, query, title, description, id))
	if err != nil {
		return nil, mapError(op, err)
	}
	return idea, nil
}

// DeleteIdea удаляет идею вместе с голосами и пересчитывает позиции
// в одной транзакции. Голоса снимаются каскадом по внешнему ключу.
func (s *Storage) DeleteIdea(ctx context.Context, id int) error {
	const op = "storage.DeleteIdea"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM ideas WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := requireRow(op, result); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, recomputeQuery); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
}

// GetIdeasWithPositions возвращает одобренные идеи автора с позициями
// и динамикой перемещения: change = previous - current, когда обе позиции
// известны и различаются, иначе 0.
func (s *Storage) GetIdeasWithPositions(ctx context.Context, creatorUID string) ([]*models.RankedIdea, error) {
	const op = "storage.GetIdeasWithPositions"

	ideas, err := s.listIdeas(ctx, op, creatorUID, models.IdeaStatusApproved)
	if err != nil {
		return nil, err
	}

	result := make([]*models.RankedIdea, 0, len(ideas))
	for _, idea := range ideas {
		change := 0
		if idea.CurrentPosition != nil && idea.PreviousPosition != nil &&
			*idea.CurrentPosition != *idea.PreviousPosition {
			change = *idea.PreviousPosition - *idea.CurrentPosition
		}
		result = append(result, &models.RankedIdea{
			Idea: idea,
			Position: models.Position{
				Current:  idea.CurrentPosition,
				Previous: idea.PreviousPosition,
				Change:   change,
			},
		})
	}
	return result, nil
}

// RecomputePositions пересчитывает позиции всех одобренных идей.
// Мутирующие операции вызывают пересчет сами, внутри своих транзакций;
// отдельный вызов нужен только служебным сценариям.
func (s *Storage) RecomputePositions(ctx context.Context) error {
	const op = "storage.RecomputePositions"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx, recomputeQuery); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountIdeas считает все идеи автора, включая pending. Используется квотой.
func (s *Storage) CountIdeas(ctx context.Context, creatorUID string) (int, error) {
	const op = "storage.CountIdeas"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM ideas WHERE creator_uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, creatorUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
