package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recipeColumnNames = []string{
	"id", "user_id", "title", "description", "time_minutes",
	"price", "link", "image_path", "created_at", "updated_at",
}

func recipeRow(mock sqlmock.Sqlmock, id, userID int64, title string) *sqlmock.Rows {
	now := time.Now()
	return mock.NewRows(recipeColumnNames).
		AddRow(id, userID, title, "", 20, "5.50", "", "", now, now)
}

func TestRecipeReadRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeReadRepository(db)
	ctx := context.Background()

	t.Run("no filters", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("FROM recipes r WHERE r.user_id = $1 ORDER BY r.id DESC")).
			WithArgs(int64(7)).
			WillReturnRows(mock.NewRows(recipeColumnNames).
				AddRow(int64(2), int64(7), "Pancakes", "", 20, "5.50", "", "", now, now).
				AddRow(int64(1), int64(7), "Soup", "", 30, "3.00", "", "", now, now))

		recipes, err := repo.List(ctx, 7, nil, nil)
		require.NoError(t, err)
		require.Len(t, recipes, 2)
		assert.Equal(t, int64(2), recipes[0].ID)
	})

	t.Run("tag filter expands the IN clause", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("rt.tag_id IN ($2, $3)")).
			WithArgs(int64(7), int64(1), int64(2)).
			WillReturnRows(mock.NewRows(recipeColumnNames))

		recipes, err := repo.List(ctx, 7, []int64{1, 2}, nil)
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	t.Run("ingredient filter", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("ri.ingredient_id IN ($2)")).
			WithArgs(int64(7), int64(3)).
			WillReturnRows(mock.NewRows(recipeColumnNames))

		recipes, err := repo.List(ctx, 7, nil, []int64{3})
		require.NoError(t, err)
		assert.Empty(t, recipes)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeReadRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeReadRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1 AND r.user_id = $2")).
			WithArgs(int64(1), int64(7)).
			WillReturnRows(recipeRow(mock, 1, 7, "Soup"))

		recipe, err := repo.Get(ctx, 7, 1)
		require.NoError(t, err)
		require.NotNil(t, recipe)
		assert.Equal(t, "Soup", recipe.Title)
	})

	t.Run("other user's recipe yields nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1 AND r.user_id = $2")).
			WithArgs(int64(1), int64(8)).
			WillReturnRows(mock.NewRows(recipeColumnNames))

		recipe, err := repo.Get(ctx, 8, 1)
		require.NoError(t, err)
		assert.Nil(t, recipe)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeWriteRepository(db, nil)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO recipes")).
		WithArgs(int64(7), "Pancakes", "Fluffy", 20, "5.50", "").
		WillReturnRows(recipeRow(mock, 1, 7, "Pancakes"))

	recipe, err := repo.Save(ctx, 7, "Pancakes", "Fluffy", 20, "5.50", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), recipe.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeWriteRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeWriteRepository(db, nil)
	ctx := context.Background()

	t.Run("partial update", func(t *testing.T) {
		title := "New Title"

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE recipes")).
			WithArgs(int64(1), int64(7), "New Title", nil, nil, nil, nil).
			WillReturnRows(recipeRow(mock, 1, 7, title))

		recipe, err := repo.Update(ctx, 7, 1, &title, nil, nil, nil, nil)
		require.NoError(t, err)
		require.NotNil(t, recipe)
		assert.Equal(t, "New Title", recipe.Title)
	})

	t.Run("other user's recipe yields nil", func(t *testing.T) {
		title := "Ghost"

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE recipes")).
			WithArgs(int64(1), int64(8), "Ghost", nil, nil, nil, nil).
			WillReturnRows(mock.NewRows(recipeColumnNames))

		recipe, err := repo.Update(ctx, 8, 1, &title, nil, nil, nil, nil)
		require.NoError(t, err)
		assert.Nil(t, recipe)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeWriteRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeWriteRepository(db, nil)
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM recipes WHERE id = $1 AND user_id = $2")).
			WithArgs(int64(1), int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Delete(ctx, 7, 1)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("other user's recipe reports false", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM recipes WHERE id = $1 AND user_id = $2")).
			WithArgs(int64(1), int64(8)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Delete(ctx, 8, 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipeWriteRepository_SetImagePath(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecipeWriteRepository(db, nil)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("SET image_path = $3")).
		WithArgs(int64(1), int64(7), "uploads/recipe/abc.jpg").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SetImagePath(ctx, 7, 1, "uploads/recipe/abc.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}
