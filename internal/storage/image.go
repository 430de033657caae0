package storage

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrNotAnImage is returned when uploaded content cannot be decoded as
// a supported image format.
var ErrNotAnImage = errors.New("content is not a valid image")

// ValidateImage checks that r contains a decodable image header.
// Supported formats: jpeg, png, gif, bmp, webp.
func ValidateImage(r io.Reader) error {
	if _, _, err := image.DecodeConfig(r); err != nil {
		return ErrNotAnImage
	}
	return nil
}
