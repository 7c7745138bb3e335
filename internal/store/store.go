// Package store is the Postgres persistence layer for users and books.
// Callers match the sentinel errors with errors.Is; anything else is an
// operational store failure to be wrapped at the service boundary.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/nvaldez/bookshelf/internal/config"
	"github.com/nvaldez/bookshelf/internal/models"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateEmail means the users unique email constraint fired.
	// This is the authoritative duplicate signal; the service-level
	// existence pre-check is only a fast path.
	ErrDuplicateEmail = errors.New("store: duplicate email")
)

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Connect opens a pooled connection to Postgres and verifies connectivity.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	pgCfg, err := pgx.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("store: failed to parse DSN: %w", err)
	}

	// Fail fast on startup if Postgres is unreachable
	pgCfg.ConnectTimeout = 5 * time.Second

	sqlDB := stdlib.OpenDB(*pgCfg)
	db := sqlx.NewDb(sqlDB, "pgx")

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("store: failed to connect to Postgres: %w", err)
	}

	return db, nil
}

// Ping verifies the pool is still healthy. Used by the liveness endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ---------------- users ----------------

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email=$1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) InsertUser(ctx context.Context, name, email, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, email, passwordHash).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrDuplicateEmail
	}
	if err != nil {
		return 0, fmt.Errorf("store: insert user: %w", err)
	}
	return id, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	users := []models.PublicUser{}
	err := s.db.SelectContext(ctx, &users, `
		SELECT id, name, email
		FROM users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	return users, nil
}

// ---------------- books ----------------

func (s *Store) ListBooksByOwner(ctx context.Context, ownerID int64) ([]models.Book, error) {
	books := []models.Book{}
	err := s.db.SelectContext(ctx, &books, `
		SELECT id, user_id, title, opinion, theme, progress, rating, created_at, updated_at
		FROM books
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("store: list books: %w", err)
	}
	return books, nil
}

func (s *Store) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	err := s.db.GetContext(ctx, &b, `
		SELECT id, user_id, title, opinion, theme, progress, rating, created_at, updated_at
		FROM books
		WHERE id=$1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get book: %w", err)
	}
	return &b, nil
}

// InsertBook stores a new book and fills in the store-assigned fields.
func (s *Store) InsertBook(ctx context.Context, b *models.Book) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO books (user_id, title, opinion, theme, progress, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, b.UserID, b.Title, b.Opinion, b.Theme, b.Progress, b.Rating).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert book: %w", err)
	}
	return nil
}

// UpdateBook writes the merged row back. Callers merge partial updates and
// check ownership before calling.
func (s *Store) UpdateBook(ctx context.Context, b *models.Book) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE books
		SET title=$1, opinion=$2, theme=$3, progress=$4, rating=$5, updated_at=$6
		WHERE id=$7
	`, b.Title, b.Opinion, b.Theme, b.Progress, b.Rating, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("store: update book: %w", err)
	}
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("store: delete book: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
