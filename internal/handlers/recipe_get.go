package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/middlewares"
	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
)

// RecipeGetter defines the interface that the recipe service must
// implement for retrieval.
type RecipeGetter interface {
	Get(ctx context.Context, userID, recipeID int64) (*models.Recipe, error)
}

// NewGetRecipeHandler returns an HTTP handler for retrieving a single
// recipe in its detail shape.
// @Summary Retrieve a recipe
// @Description Returns one recipe owned by the authenticated user, including description and image. Recipes of other users behave as not found.
// @Tags recipe
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} handlers.RecipeDetailResponse "Recipe detail"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} handlers.ErrorResponse "Not found or not owned"
// @Router /recipe/recipes/{id} [get]
// @Security BearerAuth
func NewGetRecipeHandler(svc RecipeGetter) http.HandlerFunc {
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

		recipe, err := svc.Get(r.Context(), userID, recipeID)
		if err != nil {
			if errors.Is(err, services.ErrRecipeNotFound) {
				writeNotFound(w)
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, newRecipeDetailResponse(*recipe))
	}
}
