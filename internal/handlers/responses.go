package handlers

import (
	"github.com/akulinich/recipe-api/internal/models"
)

// AttributePayload is the wire shape of a tag or ingredient. On input
// only the name is honored; IDs are assigned server-side.
// swagger:model AttributePayload
type AttributePayload struct {
	// Attribute ID, read-only
	ID int64 `json:"id"`
	// Attribute name
	// required: true
	Name string `json:"name" validate:"required,max=255"`
}

func newAttributePayloads(attrs []models.Attribute) []AttributePayload {
	out := make([]AttributePayload, len(attrs))
	for i, attr := range attrs {
		out[i] = AttributePayload{ID: attr.ID, Name: attr.Name}
	}
	return out
}

func attributeNames(payloads []AttributePayload) []string {
	names := make([]string, len(payloads))
	for i, p := range payloads {
		names[i] = p.Name
	}
	return names
}

// RecipeResponse is the compact recipe shape used by list, create, and
// update responses.
// swagger:model RecipeResponse
type RecipeResponse struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	TimeMinutes int                `json:"time_minutes"`
	Price       string             `json:"price"`
	Link        string             `json:"link"`
	Tags        []AttributePayload `json:"tags"`
	Ingredients []AttributePayload `json:"ingredients"`
}

// RecipeDetailResponse is the extended recipe shape used by retrieve.
// It adds the description and image fields.
// swagger:model RecipeDetailResponse
type RecipeDetailResponse struct {
	RecipeResponse
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

func newRecipeResponse(recipe models.Recipe) RecipeResponse {
	return RecipeResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Link:        recipe.Link,
		Tags:        newAttributePayloads(recipe.Tags),
		Ingredients: newAttributePayloads(recipe.Ingredients),
	}
}

func newRecipeDetailResponse(recipe models.Recipe) RecipeDetailResponse {
	return RecipeDetailResponse{
		RecipeResponse: newRecipeResponse(recipe),
		Description:    recipe.Description,
		Image:          imageField(recipe.ImagePath),
	}
}

// imageField maps an empty stored path to JSON null.
func imageField(path string) *string {
	if path == "" {
		return nil
	}
	return &path
}
