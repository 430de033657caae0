package handlers

import (
	"context"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/middlewares"
	"github.com/akulinich/recipe-api/internal/models"
)

// RecipeLister defines the interface that the recipe service must
// implement for listing.
type RecipeLister interface {
	List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]models.Recipe, error)
}

// NewListRecipesHandler returns an HTTP handler for listing the
// caller's recipes, newest first.
// @Summary List recipes
// @Description Returns recipes owned by the authenticated user, ordered by descending ID. Optional filters restrict to recipes carrying at least one of the given tag or ingredient IDs.
// @Tags recipe
// @Produce json
// @Param tags query string false "Comma-separated tag IDs"
// @Param ingredients query string false "Comma-separated ingredient IDs"
// @Success 200 {array} handlers.RecipeResponse "Recipes"
// @Failure 400 {object} map[string][]string "Malformed filter values"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Router /recipe/recipes [get]
// @Security BearerAuth
func NewListRecipesHandler(svc RecipeLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		tagIDs, err := parseIDList(r.URL.Query().Get("tags"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"tags": {"Enter a comma-separated list of integer IDs."},
			})
			return
		}

		ingredientIDs, err := parseIDList(r.URL.Query().Get("ingredients"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"ingredients": {"Enter a comma-separated list of integer IDs."},
			})
			return
		}

		recipes, err := svc.List(r.Context(), userID, tagIDs, ingredientIDs)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		out := make([]RecipeResponse, len(recipes))
		for i, recipe := range recipes {
			out[i] = newRecipeResponse(recipe)
		}

		writeJSON(w, http.StatusOK, out)
	}
}
