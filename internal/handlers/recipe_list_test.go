package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/recipe-api/internal/models"
)

func TestListRecipesHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockRecipeLister(ctrl)
	handler := NewListRecipesHandler(svc)

	t.Run("no filters", func(t *testing.T) {
		svc.EXPECT().
			List(gomock.Any(), testUserID, nil, nil).
			Return([]models.Recipe{
				{
					RecipeDB:    models.RecipeDB{ID: 2, UserID: testUserID, Title: "Pancakes", TimeMinutes: 20, Price: "5.50"},
					Tags:        []models.Attribute{{ID: 1, Name: "Breakfast"}},
					Ingredients: []models.Attribute{},
				},
				{
					RecipeDB:    models.RecipeDB{ID: 1, UserID: testUserID, Title: "Soup", TimeMinutes: 30, Price: "3.00"},
					Tags:        []models.Attribute{},
					Ingredients: []models.Attribute{},
				},
			}, nil)

		req := newAuthRequest(t, http.MethodGet, "/recipe/recipes", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp []RecipeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, int64(2), resp[0].ID)
		assert.Equal(t, "Breakfast", resp[0].Tags[0].Name)
	})

	t.Run("compact shape has no description or image", func(t *testing.T) {
		svc.EXPECT().
			List(gomock.Any(), testUserID, nil, nil).
			Return([]models.Recipe{{
				RecipeDB: models.RecipeDB{
					ID: 1, UserID: testUserID, Title: "Soup",
					Description: "Hot", ImagePath: "uploads/recipe/a.jpg",
				},
			}}, nil)

		req := newAuthRequest(t, http.MethodGet, "/recipe/recipes", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "description")
		assert.NotContains(t, w.Body.String(), "image")
	})

	t.Run("tag and ingredient filters are forwarded", func(t *testing.T) {
		svc.EXPECT().
			List(gomock.Any(), testUserID, []int64{1, 2}, []int64{3}).
			Return([]models.Recipe{}, nil)

		req := newAuthRequest(t, http.MethodGet, "/recipe/recipes?tags=1,2&ingredients=3", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed tags filter", func(t *testing.T) {
		req := newAuthRequest(t, http.MethodGet, "/recipe/recipes?tags=1,abc", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "tags")
	})

	t.Run("malformed ingredients filter", func(t *testing.T) {
		req := newAuthRequest(t, http.MethodGet, "/recipe/recipes?ingredients=x", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing auth context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/recipe/recipes", nil)
		w := httptest.NewRecorder()
		handler(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
