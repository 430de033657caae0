package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestUploadRecipeImageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockImageUploader(ctrl)
	handler := NewUploadRecipeImageHandler(svc)

	t.Run("stores a valid image", func(t *testing.T) {
		svc.EXPECT().
			UploadImage(gomock.Any(), testUserID, int64(1), gomock.Any(), "photo.png").
			Return(&models.RecipeDB{ID: 1, UserID: testUserID, Title: "Soup", ImagePath: "uploads/recipe/abc.png"}, nil)

		body, contentType := multipartImage(t, "image", "photo.png", pngBytes(t))
		req := withURLParam(newAuthRequest(t, http.MethodPost, "/recipe/recipes/1/upload-image", body), "recipeID", "1")
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp RecipeImageResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		require.NotNil(t, resp.Image)
		assert.Equal(t, "uploads/recipe/abc.png", *resp.Image)
	})

	t.Run("missing image field", func(t *testing.T) {
		body, contentType := multipartImage(t, "file", "photo.png", pngBytes(t))
		req := withURLParam(newAuthRequest(t, http.MethodPost, "/recipe/recipes/1/upload-image", body), "recipeID", "1")
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var errBody map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
		assert.Contains(t, errBody, "image")
	})

	t.Run("content that is not an image", func(t *testing.T) {
		body, contentType := multipartImage(t, "image", "notes.txt", []byte("just some text"))
		req := withURLParam(newAuthRequest(t, http.MethodPost, "/recipe/recipes/1/upload-image", body), "recipeID", "1")
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var errBody map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errBody))
		assert.Contains(t, errBody, "image")
	})

	t.Run("missing or foreign recipe", func(t *testing.T) {
		svc.EXPECT().
			UploadImage(gomock.Any(), testUserID, int64(99), gomock.Any(), "photo.png").
			Return(nil, services.ErrRecipeNotFound)

		body, contentType := multipartImage(t, "image", "photo.png", pngBytes(t))
		req := withURLParam(newAuthRequest(t, http.MethodPost, "/recipe/recipes/99/upload-image", body), "recipeID", "99")
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("non-multipart body", func(t *testing.T) {
		req := withURLParam(newAuthRequest(t, http.MethodPost, "/recipe/recipes/1/upload-image",
			bytes.NewReader([]byte("{}"))), "recipeID", "1")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
