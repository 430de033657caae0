package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
)

// Error variables
var (
	ErrRecipeNotFound = errors.New("recipe does not exist")
)

// RecipeReader defines read operations for recipes.
type RecipeReader interface {
	List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]models.RecipeDB, error)
	Get(ctx context.Context, userID, recipeID int64) (*models.RecipeDB, error)
}

// RecipeWriter defines write operations for recipes.
type RecipeWriter interface {
	Save(ctx context.Context, userID int64, title, description string, timeMinutes int, price, link string) (*models.RecipeDB, error)
	Update(ctx context.Context, userID, recipeID int64, title, description *string, timeMinutes *int, price, link *string) (*models.RecipeDB, error)
	Delete(ctx context.Context, userID, recipeID int64) (bool, error)
	SetImagePath(ctx context.Context, userID, recipeID int64, imagePath string) (bool, error)
}

// AttributeLinker covers the get-or-create-and-attach path for one
// attribute kind.
type AttributeLinker interface {
	GetOrCreate(ctx context.Context, userID int64, name string) (*models.Attribute, error)
	Attach(ctx context.Context, recipeID, attrID int64) error
	ClearForRecipe(ctx context.Context, recipeID int64) error
}

// RecipeAttributeReader resolves the attributes attached to recipes.
type RecipeAttributeReader interface {
	ListByRecipeIDs(ctx context.Context, recipeIDs []int64) (map[int64][]models.Attribute, error)
}

// ImageStore persists uploaded recipe images.
type ImageStore interface {
	SaveRecipeImage(r io.Reader, original string) (string, error)
	Remove(rel string) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// RecipeInput carries the fields for creating a recipe. Tag and
// ingredient names are attached via get-or-create.
type RecipeInput struct {
	Title       string
	Description string
	TimeMinutes int
	Price       string
	Link        string
	Tags        []string
	Ingredients []string
}

// RecipeUpdate carries a partial recipe update. Nil fields are left
// untouched; a non-nil Tags or Ingredients slice (even empty) replaces
// the whole relation set.
type RecipeUpdate struct {
	Title       *string
	Description *string
	TimeMinutes *int
	Price       *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// RecipeService handles recipe CRUD, nested attribute attachment,
// image upload, and lifecycle event publishing.
type RecipeService struct {
	readRepo         RecipeReader
	writeRepo        RecipeWriter
	tagLinker        AttributeLinker
	ingredientLinker AttributeLinker
	tagReader        RecipeAttributeReader
	ingredientReader RecipeAttributeReader
	images           ImageStore
	kafkaWriter      KafkaWriter
}

// NewRecipeService creates a new RecipeService. kafkaWriter may be nil;
// events are then skipped.
func NewRecipeService(
	readRepo RecipeReader,
	writeRepo RecipeWriter,
	tagLinker AttributeLinker,
	ingredientLinker AttributeLinker,
	tagReader RecipeAttributeReader,
	ingredientReader RecipeAttributeReader,
	images ImageStore,
	kafkaWriter KafkaWriter,
) *RecipeService {
	return &RecipeService{
		readRepo:         readRepo,
		writeRepo:        writeRepo,
		tagLinker:        tagLinker,
		ingredientLinker: ingredientLinker,
		tagReader:        tagReader,
		ingredientReader: ingredientReader,
		images:           images,
		kafkaWriter:      kafkaWriter,
	}
}

// publishEvent publishes a recipe lifecycle event to Kafka. Failures
// are logged and never fail the request.
func (svc *RecipeService) publishEvent(ctx context.Context, action string, userID int64, recipe *models.RecipeDB) {
	if svc.kafkaWriter == nil {
		return
	}

	event := models.RecipeEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Action:    action,
		UserID:    userID,
		RecipeID:  recipe.ID,
		Title:     recipe.Title,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal recipe event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish recipe event", "event_id", event.EventID, "error", err)
	}
}

// attachAll runs the get-or-create-and-attach path for every name and
// returns the attached attributes sorted by name.
func (svc *RecipeService) attachAll(ctx context.Context, linker AttributeLinker, userID, recipeID int64, names []string) ([]models.Attribute, error) {
	attrs := make([]models.Attribute, 0, len(names))
	seen := make(map[int64]bool, len(names))

	for _, name := range names {
		attr, err := linker.GetOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		if seen[attr.ID] {
			continue
		}
		seen[attr.ID] = true

		if err := linker.Attach(ctx, recipeID, attr.ID); err != nil {
			return nil, err
		}
		attrs = append(attrs, *attr)
	}

	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs, nil
}

// List returns the recipes owned by userID with their attributes,
// optionally filtered by tag and ingredient ID sets.
func (svc *RecipeService) List(ctx context.Context, userID int64, tagIDs, ingredientIDs []int64) ([]models.Recipe, error) {
	rows, err := svc.readRepo.List(ctx, userID, tagIDs, ingredientIDs)
	if err != nil {
		logger.Log.Errorw("failed to list recipes", "user_id", userID, "err", err)
		return nil, err
	}

	recipeIDs := make([]int64, len(rows))
	for i, row := range rows {
		recipeIDs[i] = row.ID
	}

	tagsByRecipe, err := svc.tagReader.ListByRecipeIDs(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	ingredientsByRecipe, err := svc.ingredientReader.ListByRecipeIDs(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}

	recipes := make([]models.Recipe, len(rows))
	for i, row := range rows {
		recipes[i] = models.Recipe{
			RecipeDB:    row,
			Tags:        orEmpty(tagsByRecipe[row.ID]),
			Ingredients: orEmpty(ingredientsByRecipe[row.ID]),
		}
	}

	return recipes, nil
}

// Get returns a single owned recipe with its attributes.
func (svc *RecipeService) Get(ctx context.Context, userID, recipeID int64) (*models.Recipe, error) {
	row, err := svc.readRepo.Get(ctx, userID, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to get recipe", "recipe_id", recipeID, "err", err)
		return nil, err
	}
	if row == nil {
		return nil, ErrRecipeNotFound
	}

	return svc.resolve(ctx, row)
}

func (svc *RecipeService) resolve(ctx context.Context, row *models.RecipeDB) (*models.Recipe, error) {
	tags, err := svc.tagReader.ListByRecipeIDs(ctx, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	ingredients, err := svc.ingredientReader.ListByRecipeIDs(ctx, []int64{row.ID})
	if err != nil {
		return nil, err
	}

	return &models.Recipe{
		RecipeDB:    *row,
		Tags:        orEmpty(tags[row.ID]),
		Ingredients: orEmpty(ingredients[row.ID]),
	}, nil
}

// Create stores a new recipe owned by userID. Nested tag and ingredient
// names are resolved through get-or-create and attached.
func (svc *RecipeService) Create(ctx context.Context, userID int64, in RecipeInput) (*models.Recipe, error) {
	row, err := svc.writeRepo.Save(ctx, userID, in.Title, in.Description, in.TimeMinutes, in.Price, in.Link)
	if err != nil {
		logger.Log.Errorw("failed to save recipe", "user_id", userID, "err", err)
		return nil, err
	}

	tags, err := svc.attachAll(ctx, svc.tagLinker, userID, row.ID, in.Tags)
	if err != nil {
		return nil, err
	}
	ingredients, err := svc.attachAll(ctx, svc.ingredientLinker, userID, row.ID, in.Ingredients)
	if err != nil {
		return nil, err
	}

	svc.publishEvent(ctx, "created", userID, row)

	return &models.Recipe{RecipeDB: *row, Tags: tags, Ingredients: ingredients}, nil
}

// Update applies a partial update to an owned recipe. A present Tags or
// Ingredients set replaces the whole relation via clear-then-attach;
// absent sets are left untouched.
func (svc *RecipeService) Update(ctx context.Context, userID, recipeID int64, in RecipeUpdate) (*models.Recipe, error) {
	row, err := svc.writeRepo.Update(ctx, userID, recipeID, in.Title, in.Description, in.TimeMinutes, in.Price, in.Link)
	if err != nil {
		logger.Log.Errorw("failed to update recipe", "recipe_id", recipeID, "err", err)
		return nil, err
	}
	if row == nil {
		return nil, ErrRecipeNotFound
	}

	var tags []models.Attribute
	if in.Tags != nil {
		if err := svc.tagLinker.ClearForRecipe(ctx, recipeID); err != nil {
			return nil, err
		}
		if tags, err = svc.attachAll(ctx, svc.tagLinker, userID, recipeID, *in.Tags); err != nil {
			return nil, err
		}
	} else {
		byRecipe, err := svc.tagReader.ListByRecipeIDs(ctx, []int64{recipeID})
		if err != nil {
			return nil, err
		}
		tags = orEmpty(byRecipe[recipeID])
	}

	var ingredients []models.Attribute
	if in.Ingredients != nil {
		if err := svc.ingredientLinker.ClearForRecipe(ctx, recipeID); err != nil {
			return nil, err
		}
		if ingredients, err = svc.attachAll(ctx, svc.ingredientLinker, userID, recipeID, *in.Ingredients); err != nil {
			return nil, err
		}
	} else {
		byRecipe, err := svc.ingredientReader.ListByRecipeIDs(ctx, []int64{recipeID})
		if err != nil {
			return nil, err
		}
		ingredients = orEmpty(byRecipe[recipeID])
	}

	svc.publishEvent(ctx, "updated", userID, row)

	return &models.Recipe{RecipeDB: *row, Tags: tags, Ingredients: ingredients}, nil
}

// Delete removes an owned recipe.
func (svc *RecipeService) Delete(ctx context.Context, userID, recipeID int64) error {
	row, err := svc.readRepo.Get(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrRecipeNotFound
	}

	ok, err := svc.writeRepo.Delete(ctx, userID, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to delete recipe", "recipe_id", recipeID, "err", err)
		return err
	}
	if !ok {
		return ErrRecipeNotFound
	}

	if row.ImagePath != "" {
		if err := svc.images.Remove(row.ImagePath); err != nil {
			logger.Log.Errorw("failed to remove recipe image", "recipe_id", recipeID, "err", err)
		}
	}

	svc.publishEvent(ctx, "deleted", userID, row)
	return nil
}

// UploadImage stores image content for an owned recipe and persists
// the generated media path. The previous image file, if any, is
// removed.
func (svc *RecipeService) UploadImage(ctx context.Context, userID, recipeID int64, content io.Reader, filename string) (*models.RecipeDB, error) {
	row, err := svc.readRepo.Get(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrRecipeNotFound
	}

	imagePath, err := svc.images.SaveRecipeImage(content, filename)
	if err != nil {
		logger.Log.Errorw("failed to store recipe image", "recipe_id", recipeID, "err", err)
		return nil, err
	}

	ok, err := svc.writeRepo.SetImagePath(ctx, userID, recipeID, imagePath)
	if err != nil || !ok {
		if rmErr := svc.images.Remove(imagePath); rmErr != nil {
			logger.Log.Errorw("failed to remove orphaned recipe image", "recipe_id", recipeID, "err", rmErr)
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrRecipeNotFound
	}

	if row.ImagePath != "" && row.ImagePath != imagePath {
		if err := svc.images.Remove(row.ImagePath); err != nil {
			logger.Log.Errorw("failed to remove previous recipe image", "recipe_id", recipeID, "err", err)
		}
	}

	row.ImagePath = imagePath
	svc.publishEvent(ctx, "image_uploaded", userID, row)

	return row, nil
}

func orEmpty(attrs []models.Attribute) []models.Attribute {
	if attrs == nil {
		return []models.Attribute{}
	}
	return attrs
}
