package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
)

// TokenWriteRepository persists issued bearer tokens.
type TokenWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTokenWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TokenWriteRepository {
	return &TokenWriteRepository{db: db, txGetter: txGetter}
}

// Save upserts the token row for a user, keeping the 1:1 association.
func (r *TokenWriteRepository) Save(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	const query = `
		INSERT INTO auth_tokens (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token,
		    expires_at = EXCLUDED.expires_at,
		    created_at = NOW()
	`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, userID, token, expiresAt)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{userID, expiresAt},
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// TokenReadRepository resolves bearer tokens to their persisted rows.
type TokenReadRepository struct {
	db *sqlx.DB
}

func NewTokenReadRepository(db *sqlx.DB) *TokenReadRepository {
	return &TokenReadRepository{db: db}
}

// GetByToken returns the persisted token row matching the given value,
// or nil when the token is unknown.
func (r *TokenReadRepository) GetByToken(ctx context.Context, token string) (*models.AuthTokenDB, error) {
	const query = `
		SELECT user_id, token, expires_at, created_at
		FROM auth_tokens
		WHERE token = $1
	`

	var row models.AuthTokenDB
	err := r.db.GetContext(ctx, &row, query, token)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// GetByUserID returns the persisted token row for a user, or nil when
// the user holds no token.
func (r *TokenReadRepository) GetByUserID(ctx context.Context, userID int64) (*models.AuthTokenDB, error) {
	const query = `
		SELECT user_id, token, expires_at, created_at
		FROM auth_tokens
		WHERE user_id = $1
	`

	var row models.AuthTokenDB
	err := r.db.GetContext(ctx, &row, query, userID)

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

	return &row, nil
}

// TokenCache is a Redis read-through cache of token value to user ID.
// A nil client disables caching.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func tokenCacheKey(token string) string {
	return "auth:token:" + token
}

// Get returns the cached user ID for a token. The second return value
// reports whether the token was found in the cache.
func (c *TokenCache) Get(ctx context.Context, token string) (int64, bool) {
	if c.client == nil {
		return 0, false
	}

	userID, err := c.client.Get(ctx, tokenCacheKey(token)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Errorw("token cache read failed", "error", err)
		}
		return 0, false
	}

	return userID, true
}

// Set caches a token to user ID mapping for ttl.
func (c *TokenCache) Set(ctx context.Context, token string, userID int64, ttl time.Duration) {
	if c.client == nil || ttl <= 0 {
		return
	}

	if err := c.client.Set(ctx, tokenCacheKey(token), fmt.Sprintf("%d", userID), ttl).Err(); err != nil {
		logger.Log.Errorw("token cache write failed", "error", err)
	}
}

// Delete drops a token from the cache, e.g. after reissue.
func (c *TokenCache) Delete(ctx context.Context, token string) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, tokenCacheKey(token)).Err(); err != nil {
		logger.Log.Errorw("token cache delete failed", "error", err)
	}
}
