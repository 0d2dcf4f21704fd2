// Package repository реализует хранилище данных Fanlist на основе PostgreSQL.
// Предоставляет методы работы с пользователями, идеями, голосами, журналом
// баллов, магазином наград и публичными ссылками.
//
// Составные операции (голос, выкуп товара, пересчет позиций) выполняются
// внутри одной транзакции базы данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует контракт storage.Storage.
type Storage struct {
	DB *sql.DB
}

var _ storage.Storage = (*Storage)(nil)

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Ping проверяет соединение с базой данных.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(st *Storage) error {
	var exists bool
	err := st.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'ideas'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table ideas missing or query error: %w", err)
	}
	return nil
}

// requireRow возвращает ErrNotFound, если запрос не затронул ни одной строки.
func requireRow(op string, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

// withTx выполняет fn в транзакции: коммит при успехе, откат при ошибке.
func (s *Storage) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// mapError переводит ошибки драйвера в ошибки бизнес-правил:
// отсутствие строки — в ErrNotFound, нарушение уникальности — в ErrConflict.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
