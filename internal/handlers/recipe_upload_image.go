package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/middlewares"
	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
	"github.com/akulinich/recipe-api/internal/storage"
)

// maxImageUploadBytes caps the in-memory part of multipart parsing.
const maxImageUploadBytes = 32 << 20

// ImageUploader defines the interface that the recipe service must
// implement for image upload.
type ImageUploader interface {
	UploadImage(ctx context.Context, userID, recipeID int64, content io.Reader, filename string) (*models.RecipeDB, error)
}

// RecipeImageResponse represents a successful image upload
// swagger:model RecipeImageResponse
type RecipeImageResponse struct {
	// Recipe ID
	ID int64 `json:"id"`
	// Stored image path
	Image *string `json:"image"`
}

// NewUploadRecipeImageHandler returns an HTTP handler for uploading a
// recipe image as a multipart "image" field.
// @Summary Upload a recipe image
// @Description Validates the multipart image field, stores the file under the media root, and persists the generated path on the recipe.
// @Tags recipe
// @Accept mpfd
// @Produce json
// @Param id path int true "Recipe ID"
// @Param image formData file true "Image file"
// @Success 200 {object} handlers.RecipeImageResponse "Stored image"
// @Failure 400 {object} map[string][]string "Missing or invalid image"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} handlers.ErrorResponse "Not found or not owned"
// @Router /recipe/recipes/{id}/upload-image [post]
// @Security BearerAuth
func NewUploadRecipeImageHandler(svc ImageUploader) http.HandlerFunc {
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

		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"image": {"No file was submitted."},
			})
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"image": {"No file was submitted."},
			})
			return
		}
		defer file.Close()

		if err := storage.ValidateImage(file); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string][]string{
				"image": {"Upload a valid image. The file you uploaded was either not an image or a corrupted image."},
			})
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			logger.Log.Errorw("failed to rewind upload", "err", err)
			writeInternalError(w)
			return
		}

		recipe, err := svc.UploadImage(r.Context(), userID, recipeID, file, header.Filename)
		if err != nil {
			if errors.Is(err, services.ErrRecipeNotFound) {
				writeNotFound(w)
				return
			}
			logger.Log.Errorw("internal server error", "err", err)
			writeInternalError(w)
			return
		}

		writeJSON(w, http.StatusOK, RecipeImageResponse{
			ID:    recipe.ID,
			Image: imageField(recipe.ImagePath),
		})
	}
}
