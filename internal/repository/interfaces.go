package repository

import (
	"context"
	"image"
)

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage loads the image at a local path, http(s) URL or az:// reference
	FetchImage(ctx context.Context, location string) (image.Image, error)

	// ValidateLocation validates if the provided location is acceptable
	ValidateLocation(location string) error

	// StoreImage writes an enhanced image for the given input location and
	// returns where it was stored
	StoreImage(ctx context.Context, inputLocation string, img image.Image) (string, error)

	// OutputName returns the name StoreImage would use for inputLocation
	OutputName(inputLocation string) string
}
