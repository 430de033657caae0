package services

import (
	"context"
	"errors"

	"github.com/akulinich/recipe-api/internal/logger"
	"github.com/akulinich/recipe-api/internal/models"
)

// ErrAttributeNotFound is returned when an attribute is absent or owned
// by another user. Callers map it to a not-found response either way,
// so existence is never leaked across users.
var ErrAttributeNotFound = errors.New("attribute does not exist")

// AttributeReader defines read operations for one attribute kind.
type AttributeReader interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]models.Attribute, error)
}

// AttributeWriter defines write operations for one attribute kind.
type AttributeWriter interface {
	Update(ctx context.Context, userID, attrID int64, name string) (bool, error)
	Delete(ctx context.Context, userID, attrID int64) (bool, error)
}

// AttributeService manages one owner-scoped attribute collection.
// The same implementation serves tags and ingredients.
type AttributeService struct {
	reader AttributeReader
	writer AttributeWriter
}

// NewAttributeService creates a new AttributeService instance.
func NewAttributeService(reader AttributeReader, writer AttributeWriter) *AttributeService {
	return &AttributeService{reader: reader, writer: writer}
}

// List returns the caller's attributes ordered by name descending.
// With assignedOnly, only attributes attached to at least one recipe
// are returned.
func (svc *AttributeService) List(ctx context.Context, userID int64, assignedOnly bool) ([]models.Attribute, error) {
	attrs, err := svc.reader.List(ctx, userID, assignedOnly)
	if err != nil {
		logger.Log.Errorw("failed to list attributes", "user_id", userID, "err", err)
		return nil, err
	}
	return attrs, nil
}

// Update renames an owned attribute.
func (svc *AttributeService) Update(ctx context.Context, userID, attrID int64, name string) (*models.Attribute, error) {
	ok, err := svc.writer.Update(ctx, userID, attrID, name)
	if err != nil {
		logger.Log.Errorw("failed to update attribute", "attr_id", attrID, "err", err)
		return nil, err
	}
	if !ok {
		return nil, ErrAttributeNotFound
	}

	return &models.Attribute{ID: attrID, UserID: userID, Name: name}, nil
}

// Delete removes an owned attribute.
func (svc *AttributeService) Delete(ctx context.Context, userID, attrID int64) error {
	ok, err := svc.writer.Delete(ctx, userID, attrID)
	if err != nil {
		logger.Log.Errorw("failed to delete attribute", "attr_id", attrID, "err", err)
		return err
	}
	if !ok {
		return ErrAttributeNotFound
	}
	return nil
}
