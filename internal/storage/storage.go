// Package storage loads input images and writes enhanced ones.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageFetcher loads and decodes the image at a location
type ImageFetcher interface {
	FetchImage(ctx context.Context, location string) (image.Image, error)
}

// ImageSink stores an encoded image under name and returns where it went
type ImageSink interface {
	Store(ctx context.Context, name string, img image.Image) (string, error)
}

// Decode decodes any registered format: JPEG, PNG, GIF, BMP, TIFF or WebP.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Encoding selects the output format
type Encoding struct {
	Format      string
	JPEGQuality int
}

// Extension returns the file extension without the dot
func (e Encoding) Extension() string {
	if e.isPNG() {
		return "png"
	}
	return "jpg"
}

// ContentType returns the MIME type of the encoded output
func (e Encoding) ContentType() string {
	if e.isPNG() {
		return "image/png"
	}
	return "image/jpeg"
}

// Encoder returns the bild encoder for the format
func (e Encoding) Encoder() imgio.Encoder {
	if e.isPNG() {
		return imgio.PNGEncoder()
	}
	return imgio.JPEGEncoder(e.JPEGQuality)
}

// Bytes encodes img into memory for the remote sinks
func (e Encoding) Bytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Encoder()(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", e.Extension(), err)
	}
	return buf.Bytes(), nil
}

func (e Encoding) isPNG() bool {
	return strings.EqualFold(e.Format, "png")
}
