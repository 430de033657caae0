package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
)

// collapse folds a multi-line SQL statement into one line for logging.
func collapse(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// executor returns the context transaction when one is present,
// otherwise the plain connection pool.
func executor(ctx context.Context, db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) sqlx.ExtContext {
	if txGetter != nil {
		if tx := txGetter(ctx); tx != nil {
			return tx
		}
	}
	return db
}

// UserReadRepository handles user read operations.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given email, or nil when absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT id, email, name, password_hash, is_active, is_staff, is_superuser, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, email)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByID returns the user with the given ID, or nil when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID int64) (*models.UserDB, error) {
	const query = `
		SELECT id, email, name, password_hash, is_active, is_staff, is_superuser, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, userID)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserWriteRepository handles user write operations.
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewUserWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a new user and returns the created record, or nil when
// the email is already taken. The conflict is resolved by the unique
// constraint itself, so concurrent registrations cannot both succeed.
func (r *UserWriteRepository) Save(ctx context.Context, email, passwordHash, name string, isStaff, isSuperuser bool) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (email, password_hash, name, is_staff, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, name, password_hash, is_active, is_staff, is_superuser, created_at, updated_at
	`
	args := []any{email, passwordHash, name, isStaff, isSuperuser}

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, args...)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{email, name, isStaff, isSuperuser},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Update applies a partial update to a user. Nil fields are left
// untouched.
func (r *UserWriteRepository) Update(ctx context.Context, userID int64, name, passwordHash *string) (*models.UserDB, error) {
	const query = `
		UPDATE users
		SET name          = COALESCE($2, name),
		    password_hash = COALESCE($3, password_hash),
		    updated_at    = NOW()
		WHERE id = $1
		RETURNING id, email, name, password_hash, is_active, is_staff, is_superuser, created_at, updated_at
	`

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, userID, name, passwordHash)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{userID, name},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
