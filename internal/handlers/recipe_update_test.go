package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
)

func TestUpdateRecipeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockRecipeUpdater(ctrl)
	handler := NewUpdateRecipeHandler(svc)

	t.Run("patch with a single field", func(t *testing.T) {
		title := "New Title"

		svc.EXPECT().
			Update(gomock.Any(), testUserID, int64(1), services.RecipeUpdate{Title: &title}).
			Return(&models.Recipe{
				RecipeDB:    models.RecipeDB{ID: 1, UserID: testUserID, Title: title},
				Tags:        []models.Attribute{},
				Ingredients: []models.Attribute{},
			}, nil)

		req := withURLParam(newAuthRequest(t, http.MethodPatch, "/recipe/recipes/1",
			strings.NewReader(`{"title":"New Title"}`)), "recipeID", "1")
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp RecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "New Title", resp.Title)
	})

	t.Run("patch without tags key leaves relations nil", func(t *testing.T) {
		title := "Keep Tags"

		svc.EXPECT().
			Update(gomock.Any(), testUserID, int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ int64, in services.RecipeUpdate) (*models.Recipe, error) {
				assert.Equal(t, &title, in.Title)
				assert.Nil(t, in.Tags)
				assert.Nil(t, in.Ingredients)
				return &models.Recipe{
					RecipeDB:    models.RecipeDB{ID: 1, UserID: testUserID, Title: title},
					Tags:        []models.Attribute{{ID: 10, Name: "Breakfast"}},
					Ingredients: []models.Attribute{},
				}, nil
			})

		req := withURLParam(newAuthRequest(t, http.MethodPatch, "/recipe/recipes/1",
			strings.NewReader(`{"title":"Keep Tags"}`)), "recipeID", "1")
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("patch with empty tags list clears the relation", func(t *testing.T) {
		svc.EXPECT().
			Update(gomock.Any(), testUserID, int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ int64, in services.RecipeUpdate) (*models.Recipe, error) {
				require.NotNil(t, in.Tags)
				assert.Empty(t, *in.Tags)
				return &models.Recipe{
					RecipeDB:    models.RecipeDB{ID: 1, UserID: testUserID, Title: "Soup"},
					Tags:        []models.Attribute{},
					Ingredients: []models.Attribute{},
				}, nil
			})

		req := withURLParam(newAuthRequest(t, http.MethodPatch, "/recipe/recipes/1",
			strings.NewReader(`{"tags":[]}`)), "recipeID", "1")
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("put requires title time_minutes and price", func(t *testing.T) {
		req := withURLParam(newAuthRequest(t, http.MethodPut, "/recipe/recipes/1",
			strings.NewReader(`{"title":"Only Title"}`)), "recipeID", "1")
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "time_minutes")
		assert.Contains(t, body, "price")
		assert.NotContains(t, body, "title")
	})

	t.Run("put with all required fields", func(t *testing.T) {
		svc.EXPECT().
			Update(gomock.Any(), testUserID, int64(1), gomock.Any()).
			Return(&models.Recipe{
				RecipeDB:    models.RecipeDB{ID: 1, UserID: testUserID, Title: "Full", TimeMinutes: 10, Price: "2.00"},
				Tags:        []models.Attribute{},
				Ingredients: []models.Attribute{},
			}, nil)

		req := withURLParam(newAuthRequest(t, http.MethodPut, "/recipe/recipes/1",
			strings.NewReader(`{"title":"Full","time_minutes":10,"price":"2.00"}`)), "recipeID", "1")
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid price", func(t *testing.T) {
		req := withURLParam(newAuthRequest(t, http.MethodPatch, "/recipe/recipes/1",
			strings.NewReader(`{"price":"12345.678"}`)), "recipeID", "1")
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing or foreign recipe", func(t *testing.T) {
		title := "Ghost"

		svc.EXPECT().
			Update(gomock.Any(), testUserID, int64(99), services.RecipeUpdate{Title: &title}).
			Return(nil, services.ErrRecipeNotFound)

		req := withURLParam(newAuthRequest(t, http.MethodPatch, "/recipe/recipes/99",
			strings.NewReader(`{"title":"Ghost"}`)), "recipeID", "99")
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteRecipeHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockRecipeDeleter(ctrl)
	handler := NewDeleteRecipeHandler(svc)

	t.Run("deletes an owned recipe", func(t *testing.T) {
		svc.EXPECT().Delete(gomock.Any(), testUserID, int64(1)).Return(nil)

		req := withURLParam(newAuthRequest(t, http.MethodDelete, "/recipe/recipes/1", nil), "recipeID", "1")
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("missing or foreign recipe", func(t *testing.T) {
		svc.EXPECT().Delete(gomock.Any(), testUserID, int64(99)).Return(services.ErrRecipeNotFound)

		req := withURLParam(newAuthRequest(t, http.MethodDelete, "/recipe/recipes/99", nil), "recipeID", "99")
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
