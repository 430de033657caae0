// Package storage persists uploaded recipe images under a configured
// media root.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// recipeImageDir is the media-root-relative directory for recipe images.
const recipeImageDir = "uploads/recipe"

// FileStore writes uploaded files below a media root directory.
type FileStore struct {
	root  string
	newID func() string
}

// NewFileStore creates a FileStore rooted at root. newID generates the
// unique identifier used in stored file names; pass nil to use random
// UUIDs.
func NewFileStore(root string, newID func() string) *FileStore {
	if newID == nil {
		newID = uuid.NewString
	}
	return &FileStore{root: root, newID: newID}
}

// RecipeImagePath derives a fresh media-root-relative path for a recipe
// image, keeping the extension of the original file name.
func (s *FileStore) RecipeImagePath(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return path.Join(recipeImageDir, s.newID()+ext)
}

// SaveRecipeImage stores the image content under a freshly generated
// path and returns the media-root-relative path.
func (s *FileStore) SaveRecipeImage(r io.Reader, original string) (string, error) {
	rel := s.RecipeImagePath(original)
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return rel, nil
}

// Remove deletes a previously stored file by its media-root-relative
// path. Missing files are not an error.
func (s *FileStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
