package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
)

// Tokener extracts the bearer token from a request.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Resolver maps a bearer token to the authenticated user ID.
type Resolver interface {
	Resolve(ctx context.Context, token string) (int64, error)
}

type userIDKey struct{}

// AuthMiddleware returns a middleware that resolves the bearer token to
// a user and stores the user ID in the request context. Requests with a
// missing, unknown, or expired token get a 401.
func AuthMiddleware(tokener Tokener, resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				writeUnauthorized(w)
				return
			}

			userID, err := resolver.Resolve(ctx, tokenString)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(ctx, userID)))
		})
	}
}

// ContextWithUserID returns a context carrying the authenticated user ID.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user ID stored by
// AuthMiddleware. The second return value is false outside an
// authenticated request.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey{}).(int64)
	return userID, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "Authentication credentials were not provided or are invalid",
	})
}
