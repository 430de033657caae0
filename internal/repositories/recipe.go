package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
)

const recipeColumns = `r.id, r.user_id, r.title, r.description, r.time_minutes, r.price, r.link, r.image_path, r.created_at, r.updated_at`

// RecipeReadRepository handles recipe read operations.
type RecipeReadRepository struct {
	db *sqlx.DB
}

func NewRecipeReadRepository(db *sqlx.DB) *RecipeReadRepository {
	return &RecipeReadRepository{db: db}
}

// List returns the recipes owned by userID, newest first. Non-empty
// tagIDs and ingredientIDs restrict the result to recipes carrying at
// least one of the given IDs in the respective dimension.
func (r *RecipeReadRepository) List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]models.RecipeDB, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.user_id = ?`
	args := []any{userID}

	if len(tagIDs) > 0 {
		query += ` AND EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = r.id AND rt.tag_id IN (?))`
		args = append(args, tagIDs)
	}
	if len(ingredientIDs) > 0 {
		query += ` AND EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = r.id AND ri.ingredient_id IN (?))`
		args = append(args, ingredientIDs)
	}

	query += ` ORDER BY r.id DESC`

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	recipes := []models.RecipeDB{}
	err = r.db.SelectContext(ctx, &recipes, query, inArgs...)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", inArgs,
		"result", len(recipes),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return recipes, nil
}

// Get returns a recipe by ID scoped to its owner, or nil when the
// recipe does not exist or belongs to another user.
func (r *RecipeReadRepository) Get(ctx context.Context, userID, recipeID int64) (*models.RecipeDB, error) {
	const query = `
		SELECT ` + recipeColumns + `
		FROM recipes r
		WHERE r.id = $1 AND r.user_id = $2
	`

	var recipe models.RecipeDB
	err := r.db.GetContext(ctx, &recipe, query, recipeID, userID)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{recipeID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &recipe, nil
}

// RecipeWriteRepository handles recipe write operations.
type RecipeWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewRecipeWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *RecipeWriteRepository {
	return &RecipeWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a new recipe owned by userID and returns the created
// record.
func (r *RecipeWriteRepository) Save(ctx context.Context, userID int64, title, description string, timeMinutes int, price, link string) (*models.RecipeDB, error) {
	const query = `
		INSERT INTO recipes (user_id, title, description, time_minutes, price, link, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, user_id, title, description, time_minutes, price, link, image_path, created_at, updated_at
	`
	args := []any{userID, title, description, timeMinutes, price, link}

	var recipe models.RecipeDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &recipe, query, args...)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &recipe, nil
}

// Update applies a partial update to a recipe scoped to its owner.
// Nil fields keep their current values. Returns nil when the recipe is
// not owned by userID.
func (r *RecipeWriteRepository) Update(ctx context.Context, userID, recipeID int64, title, description *string, timeMinutes *int, price, link *string) (*models.RecipeDB, error) {
	const query = `
		UPDATE recipes
		SET title        = COALESCE($3, title),
		    description  = COALESCE($4, description),
		    time_minutes = COALESCE($5, time_minutes),
		    price        = COALESCE($6, price),
		    link         = COALESCE($7, link),
		    updated_at   = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, time_minutes, price, link, image_path, created_at, updated_at
	`

	var recipe models.RecipeDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &recipe, query,
		recipeID, userID, title, description, timeMinutes, price, link)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{recipeID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &recipe, nil
}

// Delete removes a recipe scoped to its owner. Returns false when the
// recipe is not owned by userID.
func (r *RecipeWriteRepository) Delete(ctx context.Context, userID, recipeID int64) (bool, error) {
	const query = `DELETE FROM recipes WHERE id = $1 AND user_id = $2`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, recipeID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{recipeID, userID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// SetImagePath stores the media path of an uploaded recipe image.
// Returns false when the recipe is not owned by userID.
func (r *RecipeWriteRepository) SetImagePath(ctx context.Context, userID, recipeID int64, imagePath string) (bool, error) {
	const query = `
		UPDATE recipes
		SET image_path = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, recipeID, userID, imagePath)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{recipeID, userID, imagePath},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
