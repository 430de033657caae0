package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
)

// UserRegisterer defines the interface that the service must implement.
type UserRegisterer interface {
	Register(ctx context.Context, email, password, name string) (*models.UserDB, error)
}

// CreateUserRequest represents the JSON body for user registration
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	// Email
	// required: true
	// default: user@example.com
	Email string `json:"email" validate:"required,email"`

	// Password, minimum 5 characters
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required,min=5"`

	// Display name
	// default: Test User
	Name string `json:"name" validate:"max=255"`
}

// UserResponse represents a user in API responses; the password is
// never included.
// swagger:model UserResponse
type UserResponse struct {
	// Email
	// default: user@example.com
	Email string `json:"email"`

	// Display name
	// default: Test User
	Name string `json:"name"`
}

// NewCreateUserHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. The email domain is normalized to lower case and the password is hashed before storing.
// @Tags user
// @Accept json
// @Produce json
// @Param createUserRequest body handlers.CreateUserRequest true "User registration request"
// @Success 201 {object} handlers.UserResponse "User successfully registered"
// @Failure 400 {object} map[string][]string "Per-field validation errors"
// @Router /user/create [post]
func NewCreateUserHandler(svc UserRegisterer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrors(err))
			return
		}

		user, err := svc.Register(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				writeJSON(w, http.StatusBadRequest, map[string][]string{
					"email": {"A user with this email already exists."},
				})
			case errors.Is(err, services.ErrEmailRequired):
				writeJSON(w, http.StatusBadRequest, map[string][]string{
					"email": {"This field is required."},
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeInternalError(w)
			}
			return
		}

		writeJSON(w, http.StatusCreated, UserResponse{
			Email: user.Email,
			Name:  user.Name,
		})
	}
}
