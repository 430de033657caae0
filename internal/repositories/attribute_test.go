package repositories

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attributeColumns = []string{"id", "user_id", "name"}

func TestAttributeReadRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttributeReadRepository(db, TagTables)
	ctx := context.Background()

	t.Run("all owned tags", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("FROM tags a WHERE a.user_id = $1 ORDER BY a.name DESC")).
			WithArgs(int64(7)).
			WillReturnRows(mock.NewRows(attributeColumns).
				AddRow(int64(2), int64(7), "Vegan").
				AddRow(int64(1), int64(7), "Dessert"))

		attrs, err := repo.List(ctx, 7, false)
		require.NoError(t, err)
		require.Len(t, attrs, 2)
		assert.Equal(t, "Vegan", attrs[0].Name)
	})

	t.Run("assigned only adds the link-table filter", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("EXISTS (SELECT 1 FROM recipe_tags l WHERE l.tag_id = a.id)")).
			WithArgs(int64(7)).
			WillReturnRows(mock.NewRows(attributeColumns))

		attrs, err := repo.List(ctx, 7, true)
		require.NoError(t, err)
		assert.Empty(t, attrs)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeReadRepository_ListByRecipeIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttributeReadRepository(db, IngredientTables)
	ctx := context.Background()

	t.Run("groups attributes by recipe", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("JOIN ingredients a ON a.id = l.ingredient_id")).
			WithArgs(int64(1), int64(2)).
			WillReturnRows(mock.NewRows([]string{"recipe_id", "id", "user_id", "name"}).
				AddRow(int64(1), int64(20), int64(7), "Flour").
				AddRow(int64(1), int64(21), int64(7), "Milk").
				AddRow(int64(2), int64(20), int64(7), "Flour"))

		byRecipe, err := repo.ListByRecipeIDs(ctx, []int64{1, 2})
		require.NoError(t, err)
		require.Len(t, byRecipe[1], 2)
		require.Len(t, byRecipe[2], 1)
		assert.Equal(t, "Flour", byRecipe[2][0].Name)
	})

	t.Run("no recipe IDs skips the query", func(t *testing.T) {
		byRecipe, err := repo.ListByRecipeIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, byRecipe)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeWriteRepository_GetOrCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttributeWriteRepository(db, nil, TagTables)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tags (user_id, name)")).
		WithArgs(int64(7), "Breakfast").
		WillReturnRows(mock.NewRows(attributeColumns).
			AddRow(int64(10), int64(7), "Breakfast"))

	attr, err := repo.GetOrCreate(ctx, 7, "Breakfast")
	require.NoError(t, err)
	assert.Equal(t, int64(10), attr.ID)
	assert.Equal(t, "Breakfast", attr.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeWriteRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttributeWriteRepository(db, nil, TagTables)
	ctx := context.Background()

	t.Run("renamed", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tags SET name = $3")).
			WithArgs(int64(3), int64(7), "Brunch").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Update(ctx, 7, 3, "Brunch")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("other user's tag reports false", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE tags SET name = $3")).
			WithArgs(int64(3), int64(8), "Brunch").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Update(ctx, 8, 3, "Brunch")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeWriteRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttributeWriteRepository(db, nil, IngredientTables)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM ingredients WHERE id = $1 AND user_id = $2")).
		WithArgs(int64(5), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Delete(ctx, 7, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeWriteRepository_Attach(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttributeWriteRepository(db, nil, TagTables)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING")).
		WithArgs(int64(1), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Attach(ctx, 1, 10))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttributeWriteRepository_ClearForRecipe(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAttributeWriteRepository(db, nil, TagTables)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM recipe_tags WHERE recipe_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.ClearForRecipe(ctx, 1))
	require.NoError(t, mock.ExpectationsWereMet())
}
