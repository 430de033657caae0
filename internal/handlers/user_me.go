package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/middlewares"
	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
)

// ProfileProvider defines the interface that the user service must
// implement for the /user/me endpoints.
type ProfileProvider interface {
	Profile(ctx context.Context, userID int64) (*models.UserDB, error)
	UpdateProfile(ctx context.Context, userID int64, name, password *string) (*models.UserDB, error)
}

// UpdateMeRequest represents a partial profile update
// swagger:model UpdateMeRequest
type UpdateMeRequest struct {
	// Display name
	Name *string `json:"name" validate:"omitempty,max=255"`

	// New password, minimum 5 characters
	Password *string `json:"password" validate:"omitempty,min=5"`
}

// NewGetMeHandler returns an HTTP handler for reading the
// authenticated user's profile.
// @Summary Get own profile
// @Tags user
// @Produce json
// @Success 200 {object} handlers.UserResponse "Authenticated user"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Router /user/me [get]
// @Security BearerAuth
func NewGetMeHandler(svc ProfileProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		user, err := svc.Profile(r.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeNotFound(w)
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{Email: user.Email, Name: user.Name})
	}
}

// NewUpdateMeHandler returns an HTTP handler for partially updating the
// authenticated user's profile. A supplied password is re-hashed.
// @Summary Update own profile
// @Tags user
// @Accept json
// @Produce json
// @Param updateMeRequest body handlers.UpdateMeRequest true "Fields to update"
// @Success 200 {object} handlers.UserResponse "Updated user"
// @Failure 400 {object} map[string][]string "Per-field validation errors"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Router /user/me [patch]
// @Security BearerAuth
func NewUpdateMeHandler(svc ProfileProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req UpdateMeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrors(err))
			return
		}

		user, err := svc.UpdateProfile(r.Context(), userID, req.Name, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeNotFound(w)
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, UserResponse{Email: user.Email, Name: user.Name})
	}
}
