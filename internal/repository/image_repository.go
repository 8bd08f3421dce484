package repository

import (
	"context"
	"fmt"
	"image"

	"github.com/anime-shed/image-enhancer-go/internal/storage"
	"github.com/anime-shed/image-enhancer-go/pkg/validation"
)

// Fetchers groups the backends a location can be served from. Blob may be
// nil when Azure is not configured.
type Fetchers struct {
	Local storage.ImageFetcher
	HTTP  storage.ImageFetcher
	Blob  storage.ImageFetcher
}

// LocationRepository routes each location to the matching fetcher and writes
// results to a single sink
type LocationRepository struct {
	fetchers  Fetchers
	sink      storage.ImageSink
	namer     OutputNamer
	validator *validation.LocationValidator
}

// NewLocationRepository creates a new location-routing image repository
func NewLocationRepository(fetchers Fetchers, sink storage.ImageSink, namer OutputNamer, validator *validation.LocationValidator) ImageRepository {
	return &LocationRepository{
		fetchers:  fetchers,
		sink:      sink,
		namer:     namer,
		validator: validator,
	}
}

// FetchImage retrieves an image from any supported location
func (r *LocationRepository) FetchImage(ctx context.Context, location string) (image.Image, error) {
	kind, err := r.validator.Validate(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}

	switch kind {
	case validation.RemoteURL:
		return r.fetchers.HTTP.FetchImage(ctx, location)
	case validation.BlobRef:
		if r.fetchers.Blob == nil {
			return nil, fmt.Errorf("%w: %s", ErrBlobStorageUnavailable, location)
		}
		return r.fetchers.Blob.FetchImage(ctx, location)
	default:
		return r.fetchers.Local.FetchImage(ctx, location)
	}
}

// ValidateLocation validates if the provided location is acceptable
func (r *LocationRepository) ValidateLocation(location string) error {
	_, err := r.validator.Validate(location)
	return err
}

// StoreImage writes img under the output name derived from inputLocation
func (r *LocationRepository) StoreImage(ctx context.Context, inputLocation string, img image.Image) (string, error) {
	return r.sink.Store(ctx, r.OutputName(inputLocation), img)
}

// OutputName derives the sink name for an input location
func (r *LocationRepository) OutputName(inputLocation string) string {
	return r.namer.Name(inputLocation)
}
