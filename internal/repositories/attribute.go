package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
)

// AttributeTables names the tables backing one owner-scoped attribute
// kind. Tags and ingredients share the repository implementation and
// differ only in this configuration.
type AttributeTables struct {
	Table      string // attribute table, e.g. "tags"
	LinkTable  string // recipe link table, e.g. "recipe_tags"
	LinkColumn string // attribute FK column in the link table, e.g. "tag_id"
}

var (
	// TagTables configures repositories for recipe tags.
	TagTables = AttributeTables{Table: "tags", LinkTable: "recipe_tags", LinkColumn: "tag_id"}
	// IngredientTables configures repositories for recipe ingredients.
	IngredientTables = AttributeTables{Table: "ingredients", LinkTable: "recipe_ingredients", LinkColumn: "ingredient_id"}
)

// AttributeReadRepository handles read operations for one attribute kind.
type AttributeReadRepository struct {
	db     *sqlx.DB
	tables AttributeTables
}

func NewAttributeReadRepository(db *sqlx.DB, tables AttributeTables) *AttributeReadRepository {
	return &AttributeReadRepository{db: db, tables: tables}
}

// List returns the attributes owned by userID ordered by name
// descending. With assignedOnly, only attributes attached to at least
// one recipe are returned, each at most once.
func (r *AttributeReadRepository) List(ctx context.Context, userID int64, assignedOnly bool) ([]models.Attribute, error) {
	query := fmt.Sprintf(`SELECT a.id, a.user_id, a.name FROM %s a WHERE a.user_id = $1`, r.tables.Table)
	if assignedOnly {
		query += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM %s l WHERE l.%s = a.id)`, r.tables.LinkTable, r.tables.LinkColumn)
	}
	query += ` ORDER BY a.name DESC`

	attrs := []models.Attribute{}
	err := r.db.SelectContext(ctx, &attrs, query, userID)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{userID},
		"result", len(attrs),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return attrs, nil
}

// linkedAttribute is an attribute row joined with the recipe it is
// attached to.
type linkedAttribute struct {
	RecipeID int64 `db:"recipe_id"`
	models.Attribute
}

// ListByRecipeIDs returns the attributes attached to each of the given
// recipes, keyed by recipe ID and ordered by name.
func (r *AttributeReadRepository) ListByRecipeIDs(ctx context.Context, recipeIDs []int64) (map[int64][]models.Attribute, error) {
	result := make(map[int64][]models.Attribute, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(
		`SELECT l.recipe_id, a.id, a.user_id, a.name FROM %s l JOIN %s a ON a.id = l.%s WHERE l.recipe_id IN (?) ORDER BY a.name`,
		r.tables.LinkTable, r.tables.Table, r.tables.LinkColumn,
	)

	query, args, err := sqlx.In(query, recipeIDs)
	if err != nil {
		return nil, err
	}
	query = r.db.Rebind(query)

	rows := []linkedAttribute{}
	err = r.db.SelectContext(ctx, &rows, query, args...)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", args,
		"result", len(rows),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.RecipeID] = append(result[row.RecipeID], row.Attribute)
	}

	return result, nil
}

// AttributeWriteRepository handles write operations for one attribute kind.
type AttributeWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
	tables   AttributeTables
}

func NewAttributeWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx, tables AttributeTables) *AttributeWriteRepository {
	return &AttributeWriteRepository{db: db, txGetter: txGetter, tables: tables}
}

// GetOrCreate returns the attribute with the given (owner, name) tuple,
// inserting it first when absent. The upsert leans on the (user_id,
// name) unique constraint, so concurrent requests converge on one row.
func (r *AttributeWriteRepository) GetOrCreate(ctx context.Context, userID int64, name string) (*models.Attribute, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name)
		VALUES ($1, $2)
		ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, user_id, name
	`, r.tables.Table)

	var attr models.Attribute
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &attr, query, userID, name)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{userID, name},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &attr, nil
}

// Update renames an attribute scoped to its owner. Returns false when
// the attribute is not owned by userID.
func (r *AttributeWriteRepository) Update(ctx context.Context, userID, attrID int64, name string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET name = $3 WHERE id = $1 AND user_id = $2`, r.tables.Table)

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, attrID, userID, name)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{attrID, userID, name},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// Delete removes an attribute scoped to its owner. Returns false when
// the attribute is not owned by userID.
func (r *AttributeWriteRepository) Delete(ctx context.Context, userID, attrID int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Table)

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, attrID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{attrID, userID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// Attach links an attribute to a recipe. Re-attaching is a no-op.
func (r *AttributeWriteRepository) Attach(ctx context.Context, recipeID, attrID int64) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (recipe_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		r.tables.LinkTable, r.tables.LinkColumn,
	)

	_, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, recipeID, attrID)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{recipeID, attrID},
		"error", err,
	)

	return err
}

// ClearForRecipe detaches all attributes of this kind from a recipe.
func (r *AttributeWriteRepository) ClearForRecipe(ctx context.Context, recipeID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = $1`, r.tables.LinkTable)

	_, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, recipeID)

	logger.Log.Infow("query",
		"sql", collapse(query),
		"args", []any{recipeID},
		"error", err,
	)

	return err
}
