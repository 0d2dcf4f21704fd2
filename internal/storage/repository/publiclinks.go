package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

const linkColumns = `id, creator_uid, token, is_active, expires_at, created_at`

func scanPublicLink(row interface{ Scan(...any) error }) (*models.PublicLink, error) {
	l := &models.PublicLink{}
	var expiresAt sql.NullTime
	if err := row.Scan(&l.ID, &l.CreatorUID, &l.Token, &l.IsActive,
		&expiresAt, &l.CreatedAt); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		l.ExpiresAt = &expiresAt.Time
	}
	return l, nil
}

// CreatePublicLink вставляет новую публичную ссылку и возвращает её ID.
func (s *Storage) CreatePublicLink(ctx context.Context, link models.PublicLink) (int, error) {
	const op = "storage.CreatePublicLink"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO public_links (creator_uid, token, is_active, expires_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query,
		link.CreatorUID, link.Token, link.IsActive, link.ExpiresAt).Scan(&newID); err != nil {
		return 0, mapError(op, err)
	}
	return newID, nil
}

// GetPublicLinkByToken возвращает ссылку по токену.
func (s *Storage) GetPublicLinkByToken(ctx context.Context, token string) (*models.PublicLink, error) {
	const op = "storage.GetPublicLinkByToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + linkColumns + ` FROM public_links WHERE token = $1`
	l, err := scanPublicLink(s.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, mapError(op, err)
	}
	return l, nil
}

// GetUserPublicLinks возвращает все ссылки автора.
func (s *Storage) GetUserPublicLinks(ctx context.Context, creatorUID string) ([]*models.PublicLink, error) {
	const op = "storage.GetUserPublicLinks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + linkColumns + ` FROM public_links WHERE creator_uid = $1 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, creatorUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PublicLink
	for rows.Next() {
		l, err := scanPublicLink(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// TogglePublicLinkStatus переключает активность ссылки автора.
func (s *Storage) TogglePublicLinkStatus(ctx context.Context, id int, creatorUID string) (*models.PublicLink, error) {
	const op = "storage.TogglePublicLinkStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE public_links SET is_active = NOT is_active
			  WHERE id = $1 AND creator_uid = $2
			  RETURNING ` + linkColumns
	l, err := scanPublicLink(s.DB.QueryRowContext(ctx, query, id, creatorUID))
	if err == sql.ErrNoRows {
		return nil, s.linkOwnershipError(ctx, op, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

// DeletePublicLink удаляет ссылку автора.
func (s *Storage) DeletePublicLink(ctx context.Context, id int, creatorUID string) error {
	const op = "storage.DeletePublicLink"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM public_links WHERE id = $1 AND creator_uid = $2`, id, creatorUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return s.linkOwnershipError(ctx, op, id)
	}
	return nil
}

// linkOwnershipError различает отсутствующую и чужую ссылку.
func (s *Storage) linkOwnershipError(ctx context.Context, op string, id int) error {
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM public_links WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", op, storage.ErrForbidden)
	}
	return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}
