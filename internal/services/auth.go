package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
)

// Error variables
var (
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrInvalidToken       = errors.New("missing or invalid bearer token")
)

// TokenWriter persists issued bearer tokens.
type TokenWriter interface {
	Save(ctx context.Context, userID int64, token string, expiresAt time.Time) error
}

// TokenReader resolves persisted bearer tokens.
type TokenReader interface {
	GetByToken(ctx context.Context, token string) (*models.AuthTokenDB, error)
	GetByUserID(ctx context.Context, userID int64) (*models.AuthTokenDB, error)
}

// TokenCacher caches token-to-user resolutions.
type TokenCacher interface {
	Get(ctx context.Context, token string) (int64, bool)
	Set(ctx context.Context, token string, userID int64, ttl time.Duration)
	Delete(ctx context.Context, token string)
}

// TokenGenerator creates and validates signed token values.
type TokenGenerator interface {
	Generate(ctx context.Context, userID int64) (string, error)
	GetUserID(ctx context.Context, tokenString string) (int64, error)
}

// AuthService issues bearer tokens and resolves them back to users.
// Authority lies with the persisted token row; the signature only
// bounds token lifetime.
type AuthService struct {
	users       UserReader
	tokenWriter TokenWriter
	tokenReader TokenReader
	cache       TokenCacher
	generator   TokenGenerator
	exp         time.Duration
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(users UserReader, tokenWriter TokenWriter, tokenReader TokenReader, cache TokenCacher, generator TokenGenerator, exp time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		tokenWriter: tokenWriter,
		tokenReader: tokenReader,
		cache:       cache,
		generator:   generator,
		exp:         exp,
	}
}

// IssueToken authenticates a user by email and password and returns the
// bearer token for it. The token row is one per user: a still-valid
// persisted token is returned as-is, otherwise a fresh one replaces it.
// Failures never reveal which credential was wrong.
func (svc *AuthService) IssueToken(ctx context.Context, email, password string) (string, error) {
	user, err := svc.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil || !user.IsActive {
		logger.Log.Infow("authentication failed: unknown or inactive user")
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("authentication failed: password mismatch", "user_id", user.ID)
		return "", ErrInvalidCredentials
	}

	existing, err := svc.tokenReader.GetByUserID(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to read existing token", "err", err)
		return "", err
	}
	if existing != nil && time.Now().Before(existing.ExpiresAt) {
		return existing.Token, nil
	}

	token, err := svc.generator.Generate(ctx, user.ID)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	if err := svc.tokenWriter.Save(ctx, user.ID, token, time.Now().Add(svc.exp)); err != nil {
		logger.Log.Errorw("failed to persist token", "err", err)
		return "", err
	}

	if existing != nil && svc.cache != nil {
		svc.cache.Delete(ctx, existing.Token)
	}

	return token, nil
}

// Resolve maps a presented bearer token to its user ID. Unknown,
// revoked, or expired tokens yield ErrInvalidToken.
func (svc *AuthService) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrInvalidToken
	}

	if svc.cache != nil {
		if userID, ok := svc.cache.Get(ctx, token); ok {
			if _, err := svc.generator.GetUserID(ctx, token); err != nil {
				return 0, ErrInvalidToken
			}
			return userID, nil
		}
	}

	row, err := svc.tokenReader.GetByToken(ctx, token)
	if err != nil {
		logger.Log.Errorw("failed to look up token", "err", err)
		return 0, err
	}
	if row == nil || time.Now().After(row.ExpiresAt) {
		return 0, ErrInvalidToken
	}

	if _, err := svc.generator.GetUserID(ctx, token); err != nil {
		return 0, ErrInvalidToken
	}

	if svc.cache != nil {
		svc.cache.Set(ctx, token, row.UserID, time.Until(row.ExpiresAt))
	}

	return row.UserID, nil
}
