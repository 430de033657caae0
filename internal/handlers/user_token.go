package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/services"
)

// TokenIssuer defines the interface that the auth service must implement.
type TokenIssuer interface {
	IssueToken(ctx context.Context, email, password string) (string, error)
}

// TokenRequest represents the JSON body for obtaining a bearer token
// swagger:model TokenRequest
type TokenRequest struct {
	// Email
	// required: true
	// default: user@example.com
	Email string `json:"email" validate:"required"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required"`
}

// TokenResponse represents a successful token response
// swagger:model TokenResponse
type TokenResponse struct {
	// Bearer token
	Token string `json:"token"`
}

// NewCreateTokenHandler returns an HTTP handler that issues bearer
// tokens for valid credentials.
// @Summary Obtain an auth token
// @Description Verifies email and password and returns the user's bearer token. Bad credentials yield a 400 without revealing which field was wrong.
// @Tags user
// @Accept json
// @Produce json
// @Param tokenRequest body handlers.TokenRequest true "Credentials"
// @Success 200 {object} handlers.TokenResponse "Token issued"
// @Failure 400 {object} map[string][]string "Blank or invalid credentials"
// @Router /user/token [post]
func NewCreateTokenHandler(svc TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrors(err))
			return
		}

		token, err := svc.IssueToken(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				writeJSON(w, http.StatusBadRequest, map[string][]string{
					"non_field_errors": {"Unable to authenticate with provided credentials."},
				})
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, TokenResponse{Token: token})
	}
}
