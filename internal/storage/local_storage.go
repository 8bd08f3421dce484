package storage

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
)

// LocalImageFetcher reads images from the filesystem
type LocalImageFetcher struct{}

// NewLocalImageFetcher creates a filesystem fetcher
func NewLocalImageFetcher() ImageFetcher {
	return &LocalImageFetcher{}
}

func (f *LocalImageFetcher) FetchImage(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return img, nil
}

// LocalSink writes images into an existing directory. The directory is not
// created; a missing directory is a write failure.
type LocalSink struct {
	dir      string
	encoding Encoding
}

// NewLocalSink creates a sink writing into dir
func NewLocalSink(dir string, encoding Encoding) ImageSink {
	return &LocalSink{dir: dir, encoding: encoding}
}

func (s *LocalSink) Store(ctx context.Context, name string, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, name)
	if err := imgio.Save(path, img, s.encoding.Encoder()); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}
