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

// RecipeUpdater defines the interface that the recipe service must
// implement for updates.
type RecipeUpdater interface {
	Update(ctx context.Context, userID, recipeID int64, in services.RecipeUpdate) (*models.Recipe, error)
}

// UpdateRecipeRequest represents a full or partial recipe update.
// Absent fields keep their values; a present tags or ingredients key
// (even an empty list) replaces the whole relation set.
// swagger:model UpdateRecipeRequest
type UpdateRecipeRequest struct {
	// Title
	Title *string `json:"title" validate:"omitempty,max=255"`

	// Time to cook in minutes
	TimeMinutes *int `json:"time_minutes"`

	// Price, decimal with up to 5 digits and 2 decimal places
	Price *string `json:"price" validate:"omitempty,price"`

	// Free-text description
	Description *string `json:"description"`

	// External link
	Link *string `json:"link" validate:"omitempty,max=255"`

	// Replacement tag set
	Tags *[]AttributePayload `json:"tags" validate:"omitempty,dive"`

	// Replacement ingredient set
	Ingredients *[]AttributePayload `json:"ingredients" validate:"omitempty,dive"`
}

// requiredForPut lists the fields a full update must carry.
func (req *UpdateRecipeRequest) requiredForPut() map[string][]string {
	missing := map[string][]string{}
	if req.Title == nil {
		missing["title"] = []string{"This field is required."}
	}
	if req.TimeMinutes == nil {
		missing["time_minutes"] = []string{"This field is required."}
	}
	if req.Price == nil {
		missing["price"] = []string{"This field is required."}
	}
	return missing
}

// NewUpdateRecipeHandler returns an HTTP handler serving both PUT
// (full) and PATCH (partial) recipe updates.
// @Summary Update a recipe
// @Description Overwrites supplied fields of an owned recipe. A present tags or ingredients key replaces the whole relation set via clear-then-attach; absent keys leave relations untouched. PUT additionally requires title, time_minutes, and price.
// @Tags recipe
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param updateRecipeRequest body handlers.UpdateRecipeRequest true "Fields to update"
// @Success 200 {object} handlers.RecipeResponse "Updated recipe"
// @Failure 400 {object} map[string][]string "Per-field validation errors"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} handlers.ErrorResponse "Not found or not owned"
// @Router /recipe/recipes/{id} [patch]
// @Security BearerAuth
func NewUpdateRecipeHandler(svc RecipeUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		recipeID, ok := idFromURL(r, "recipeID")
		if !ok {
			writeNotFound(w)
			return
		}

		var req UpdateRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrors(err))
			return
		}

		if r.Method == http.MethodPut {
			if missing := req.requiredForPut(); len(missing) > 0 {
				writeJSON(w, http.StatusBadRequest, missing)
				return
			}
		}

		update := services.RecipeUpdate{
			Title:       req.Title,
			Description: req.Description,
			TimeMinutes: req.TimeMinutes,
			Price:       req.Price,
			Link:        req.Link,
		}
		if req.Tags != nil {
			names := attributeNames(*req.Tags)
			update.Tags = &names
		}
		if req.Ingredients != nil {
			names := attributeNames(*req.Ingredients)
			update.Ingredients = &names
		}

		recipe, err := svc.Update(r.Context(), userID, recipeID, update)
		if err != nil {
			if errors.Is(err, services.ErrRecipeNotFound) {
				writeNotFound(w)
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, newRecipeResponse(*recipe))
	}
}
