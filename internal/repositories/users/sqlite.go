package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/migrations"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// SQLiteRepository keeps credentials in the users table of a SQLite database.
// Uniqueness is enforced by the username primary key.
type SQLiteRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSQLiteRepository binds a repository to db. Each call is bounded by
// timeout; a non-positive timeout disables the bound.
func NewSQLiteRepository(db *sql.DB, timeout time.Duration) *SQLiteRepository {
	return &SQLiteRepository{db: db, timeout: timeout}
}

func (r *SQLiteRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

// EnsureSchema applies the embedded goose migrations.
func (r *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	provider, err := goose.NewProvider(database.DialectSQLite3, r.db, migrations.Migrations)
	if err != nil {
		return common.NewStoreError("ensure schema", fmt.Errorf("migrations: %w", err))
	}
	if _, err := provider.Up(ctx); err != nil {
		return common.NewStoreError("ensure schema", err)
	}
	return nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, userName string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query :=
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&exists); err != nil {
		return false, common.NewStoreError("exists", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, userName string, passwordHash []byte) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query :=
		`INSERT INTO users (username, password)
		 VALUES (?, ?)
		 ON CONFLICT(username) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, userName, string(passwordHash))
	if err != nil {
		return common.NewStoreError("insert", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return common.NewStoreError("insert", err)
	}
	if n == 0 {
		return common.ErrDuplicateUser
	}
	return nil
}

func (r *SQLiteRepository) Lookup(ctx context.Context, userName string) ([]byte, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query :=
		`SELECT password FROM users
		 WHERE username = ?`

	var hash string
	err := r.db.QueryRowContext(ctx, query, userName).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.NewStoreError("lookup", err)
	}
	return []byte(hash), nil
}
