package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/middlewares"
	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
)

// Tag and ingredient endpoints share these handlers; they are mounted
// once per attribute kind with the matching service instance.

// AttributeLister defines the listing interface of the attribute service.
type AttributeLister interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]models.Attribute, error)
}

// AttributeUpdater defines the rename interface of the attribute service.
type AttributeUpdater interface {
	Update(ctx context.Context, userID, attrID int64, name string) (*models.Attribute, error)
}

// AttributeDeleter defines the delete interface of the attribute service.
type AttributeDeleter interface {
	Delete(ctx context.Context, userID, attrID int64) error
}

// UpdateAttributeRequest represents a tag or ingredient rename
// swagger:model UpdateAttributeRequest
type UpdateAttributeRequest struct {
	// New name
	// required: true
	Name string `json:"name" validate:"required,max=255"`
}

// NewListAttributesHandler returns an HTTP handler listing the caller's
// tags or ingredients, ordered by descending name.
// @Summary List tags or ingredients
// @Description Returns the authenticated user's records ordered by descending name. With assigned_only=1, only records attached to at least one recipe are returned, each at most once.
// @Tags attributes
// @Produce json
// @Param assigned_only query int false "1 restricts to records attached to a recipe" Enums(0, 1)
// @Success 200 {array} handlers.AttributePayload "Attributes"
// @Failure 400 {object} map[string][]string "Malformed assigned_only value"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Router /recipe/tags [get]
// @Security BearerAuth
func NewListAttributesHandler(svc AttributeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		assignedOnly := false
		if raw := r.URL.Query().Get("assigned_only"); raw != "" {
			value, err := strconv.Atoi(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string][]string{
					"assigned_only": {"Enter 0 or 1."},
				})
				return
			}
			assignedOnly = value != 0
		}

		attrs, err := svc.List(r.Context(), userID, assignedOnly)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, newAttributePayloads(attrs))
	}
}

// NewUpdateAttributeHandler returns an HTTP handler renaming an owned
// tag or ingredient. Records of other users behave as not found.
// @Summary Rename a tag or ingredient
// @Tags attributes
// @Accept json
// @Produce json
// @Param id path int true "Attribute ID"
// @Param updateAttributeRequest body handlers.UpdateAttributeRequest true "New name"
// @Success 200 {object} handlers.AttributePayload "Updated attribute"
// @Failure 400 {object} map[string][]string "Per-field validation errors"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} handlers.ErrorResponse "Not found or not owned"
// @Router /recipe/tags/{id} [patch]
// @Security BearerAuth
func NewUpdateAttributeHandler(svc AttributeUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		attrID, ok := idFromURL(r, "attrID")
		if !ok {
			writeNotFound(w)
			return
		}

		var req UpdateAttributeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrors(err))
			return
		}

		attr, err := svc.Update(r.Context(), userID, attrID, req.Name)
		if err != nil {
			if errors.Is(err, services.ErrAttributeNotFound) {
				writeNotFound(w)
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, AttributePayload{ID: attr.ID, Name: attr.Name})
	}
}

// NewDeleteAttributeHandler returns an HTTP handler deleting an owned
// tag or ingredient. Records of other users behave as not found.
// @Summary Delete a tag or ingredient
// @Tags attributes
// @Param id path int true "Attribute ID"
// @Success 204 "Deleted"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} handlers.ErrorResponse "Not found or not owned"
// @Router /recipe/tags/{id} [delete]
// @Security BearerAuth
func NewDeleteAttributeHandler(svc AttributeDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		attrID, ok := idFromURL(r, "attrID")
		if !ok {
			writeNotFound(w)
			return
		}

		if err := svc.Delete(r.Context(), userID, attrID); err != nil {
			if errors.Is(err, services.ErrAttributeNotFound) {
				writeNotFound(w)
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
