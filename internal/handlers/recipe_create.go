package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/middlewares"
	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
)

// RecipeCreator defines the interface that the recipe service must
// implement for creation.
type RecipeCreator interface {
	Create(ctx context.Context, userID int64, in services.RecipeInput) (*models.Recipe, error)
}

// CreateRecipeRequest represents the JSON body for creating a recipe.
// The owner is always the authenticated user; any client-supplied owner
// is ignored.
// swagger:model CreateRecipeRequest
type CreateRecipeRequest struct {
	// Title
	// required: true
	Title string `json:"title" validate:"required,max=255"`

	// Time to cook in minutes
	// required: true
	TimeMinutes *int `json:"time_minutes" validate:"required"`

	// Price, decimal with up to 5 digits and 2 decimal places
	// required: true
	Price string `json:"price" validate:"required,price"`

	// Free-text description
	Description string `json:"description"`

	// External link
	Link string `json:"link" validate:"omitempty,max=255"`

	// Tags to attach, created on demand per (owner, name)
	Tags []AttributePayload `json:"tags" validate:"omitempty,dive"`

	// Ingredients to attach, created on demand per (owner, name)
	Ingredients []AttributePayload `json:"ingredients" validate:"omitempty,dive"`
}

// NewCreateRecipeHandler returns an HTTP handler for creating recipes.
// @Summary Create a recipe
// @Description Creates a recipe owned by the authenticated user. Nested tags and ingredients are resolved via get-or-create and attached.
// @Tags recipe
// @Accept json
// @Produce json
// @Param createRecipeRequest body handlers.CreateRecipeRequest true "Recipe to create"
// @Success 201 {object} handlers.RecipeResponse "Created recipe"
// @Failure 400 {object} map[string][]string "Per-field validation errors"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Router /recipe/recipes [post]
// @Security BearerAuth
func NewCreateRecipeHandler(svc RecipeCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var req CreateRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := validate.Struct(req); err != nil {
			writeJSON(w, http.StatusBadRequest, fieldErrors(err))
			return
		}

		recipe, err := svc.Create(r.Context(), userID, services.RecipeInput{
			Title:       req.Title,
			Description: req.Description,
			TimeMinutes: *req.TimeMinutes,
			Price:       req.Price,
			Link:        req.Link,
			Tags:        attributeNames(req.Tags),
			Ingredients: attributeNames(req.Ingredients),
		})
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusCreated, newRecipeResponse(*recipe))
	}
}
