package storage

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipeImagePath_InjectedID(t *testing.T) {
	store := NewFileStore(t.TempDir(), func() string { return "test-uuid" })

	got := store.RecipeImagePath("example.jpg")
	assert.Equal(t, "uploads/recipe/test-uuid.jpg", got)
}

func TestRecipeImagePath_KeepsExtension(t *testing.T) {
	store := NewFileStore(t.TempDir(), func() string { return "id" })

	tests := []struct {
		original string
		want     string
	}{
		{"photo.PNG", "uploads/recipe/id.png"},
		{"dinner.webp", "uploads/recipe/id.webp"},
		{"noext", "uploads/recipe/id"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, store.RecipeImagePath(tt.original))
	}
}

func TestRecipeImagePath_UniquePerCall(t *testing.T) {
	store := NewFileStore(t.TempDir(), nil)

	first := store.RecipeImagePath("example.jpg")
	second := store.RecipeImagePath("example.jpg")
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "uploads/recipe/"))
}

func TestSaveRecipeImage_RoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root, func() string { return "saved" })

	rel, err := store.SaveRecipeImage(bytes.NewBufferString("image-bytes"), "pic.jpg")
	assert.NoError(t, err)
	assert.Equal(t, "uploads/recipe/saved.jpg", rel)

	content, err := os.ReadFile(filepath.Join(root, "uploads", "recipe", "saved.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))
}

func TestRemove(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root, func() string { return "gone" })

	rel, err := store.SaveRecipeImage(bytes.NewBufferString("x"), "pic.jpg")
	assert.NoError(t, err)

	assert.NoError(t, store.Remove(rel))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	assert.NoError(t, store.Remove(rel))
	assert.NoError(t, store.Remove(""))
}

func TestValidateImage(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	assert.NoError(t, ValidateImage(&buf))
	assert.ErrorIs(t, ValidateImage(bytes.NewBufferString("not an image")), ErrNotAnImage)
}
