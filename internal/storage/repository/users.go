package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

const userColumns = `uid, email, username, password_hash, role, subscription_status,
	subscription_plan, has_used_trial, trial_start_date, trial_end_date,
	subscription_start_date, subscription_end_date, subscription_canceled_at,
	stripe_customer_id, stripe_subscription_id, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var plan, stripeCustomer, stripeSubscription sql.NullString
	var trialStart, trialEnd, subStart, subEnd, canceledAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.SubscriptionStatus, &plan, &u.HasUsedTrial, &trialStart, &trialEnd,
		&subStart, &subEnd, &canceledAt, &stripeCustomer, &stripeSubscription,
		&u.CreatedAt); err != nil {
		return nil, err
	}
	if plan.Valid {
		u.SubscriptionPlan = &plan.String
	}
	if trialStart.Valid {
		u.TrialStartDate = &trialStart.Time
	}
	if trialEnd.Valid {
		u.TrialEndDate = &trialEnd.Time
	}
	if subStart.Valid {
		u.SubscriptionStartDate = &subStart.Time
	}
	if subEnd.Valid {
		u.SubscriptionEndDate = &subEnd.Time
	}
	if canceledAt.Valid {
		u.SubscriptionCanceledAt = &canceledAt.Time
	}
	if stripeCustomer.Valid {
		u.StripeCustomerID = &stripeCustomer.String
	}
	if stripeSubscription.Valid {
		u.StripeSubscriptionID = &stripeSubscription.String
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, username, password_hash, role, subscription_status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	var newUID string
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role,
		user.SubscriptionStatus).Scan(&newUID); err != nil {
		return "", mapError(op, err)
	}
	return newUID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// GetUserByStripeCustomerID возвращает пользователя по идентификатору
// клиента платежной системы.
func (s *Storage) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	const op = "storage.GetUserByStripeCustomerID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE stripe_customer_id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, customerID))
	if err != nil {
		return nil, mapError(op, err)
	}
	return u, nil
}

// UpdateUserProfile обновляет email и username пользователя.
func (s *Storage) UpdateUserProfile(ctx context.Context, uid, email, username string) error {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET email = $1, username = $2 WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, email, username, uid)
	if err != nil {
		return mapError(op, err)
	}
	return requireRow(op, result)
}

// UpdateUserPassword обновляет хэш пароля пользователя.
func (s *Storage) UpdateUserPassword(ctx context.Context, uid, passwordHash string) error {
	const op = "storage.UpdateUserPassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET password_hash = $1 WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, uid)
	if err != nil {
		return mapError(op, err)
	}
	return requireRow(op, result)
}

// UpdateUserSubscription применяет изменение подписочных полей пользователя.
func (s *Storage) UpdateUserSubscription(ctx context.Context, uid string, upd models.SubscriptionUpdate) error {
	const op = "storage.UpdateUserSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_status = $1,
			      subscription_plan = $2,
			      subscription_start_date = $3,
			      subscription_end_date = $4,
			      subscription_canceled_at = $5,
			      stripe_customer_id = COALESCE($6, stripe_customer_id),
			      stripe_subscription_id = COALESCE($7, stripe_subscription_id)
			  WHERE uid = $8`
	result, err := s.DB.ExecContext(ctx, query,
		upd.Status, upd.Plan, upd.StartDate, upd.EndDate, upd.CanceledAt,
		upd.StripeCustomerID, upd.StripeSubscriptionID, uid)
	if err != nil {
		return mapError(op, err)
	}
	return requireRow(op, result)
}

// StartUserTrial включает пробный период. Условие has_used_trial = false
// в самом запросе гарантирует монотонность признака: повторный запуск
// не проходит даже при конкурентных запросах.
func (s *Storage) StartUserTrial(ctx context.Context, uid string, start, end time.Time) error {
	const op = "storage.StartUserTrial"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_status = $1,
			      has_used_trial = TRUE,
			      trial_start_date = $2,
			      trial_end_date = $3
			  WHERE uid = $4 AND has_used_trial = FALSE`
	result, err := s.DB.ExecContext(ctx, query, models.SubscriptionTrial, start, end, uid)
	if err != nil {
		return mapError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		// Либо пользователя нет, либо пробный период уже использован.
		if _, err := s.GetUser(ctx, uid); err != nil {
			return err
		}
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	return nil
}
