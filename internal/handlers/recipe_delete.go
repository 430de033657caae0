package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/middlewares"
	"github.com/akulinich/recipe-api/internal/services"
)

// RecipeDeleter defines the interface that the recipe service must
// implement for deletion.
type RecipeDeleter interface {
	Delete(ctx context.Context, userID, recipeID int64) error
}

// NewDeleteRecipeHandler returns an HTTP handler for deleting recipes.
// @Summary Delete a recipe
// @Description Deletes an owned recipe. Recipes of other users behave as not found.
// @Tags recipe
// @Param id path int true "Recipe ID"
// @Success 204 "Deleted"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} handlers.ErrorResponse "Not found or not owned"
// @Router /recipe/recipes/{id} [delete]
// @Security BearerAuth
func NewDeleteRecipeHandler(svc RecipeDeleter) http.HandlerFunc {
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

		if err := svc.Delete(r.Context(), userID, recipeID); err != nil {
			if errors.Is(err, services.ErrRecipeNotFound) {
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
