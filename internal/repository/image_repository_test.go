package repository

import (
	"context"
	"errors"
	"image"
	"testing"

	apperrors "github.com/anime-shed/image-enhancer-go/internal/errors"
	"github.com/anime-shed/image-enhancer-go/pkg/validation"
)

type recordingFetcher struct {
	calls []string
}

func (f *recordingFetcher) FetchImage(ctx context.Context, location string) (image.Image, error) {
	f.calls = append(f.calls, location)
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

type recordingSink struct {
	names []string
}

func (s *recordingSink) Store(ctx context.Context, name string, img image.Image) (string, error) {
	s.names = append(s.names, name)
	return "mem://" + name, nil
}

func TestLocationRepository_Routing(t *testing.T) {
	local, remote, blob := &recordingFetcher{}, &recordingFetcher{}, &recordingFetcher{}
	repo := NewLocationRepository(Fetchers{Local: local, HTTP: remote, Blob: blob}, &recordingSink{},
		OutputNamer{Suffix: "_enhanced", Extension: "jpg"}, validation.NewLocationValidator())

	for _, location := range []string{"input/1.jpg", "https://example.com/a.png", "az://photos/b.jpg"} {
		if _, err := repo.FetchImage(context.Background(), location); err != nil {
			t.Fatalf("Unexpected error for %s: %v", location, err)
		}
	}

	if len(local.calls) != 1 || local.calls[0] != "input/1.jpg" {
		t.Errorf("Expected local fetch, got %v", local.calls)
	}
	if len(remote.calls) != 1 || remote.calls[0] != "https://example.com/a.png" {
		t.Errorf("Expected http fetch, got %v", remote.calls)
	}
	if len(blob.calls) != 1 || blob.calls[0] != "az://photos/b.jpg" {
		t.Errorf("Expected blob fetch, got %v", blob.calls)
	}
}

func TestLocationRepository_Errors(t *testing.T) {
	repo := NewLocationRepository(Fetchers{Local: &recordingFetcher{}, HTTP: &recordingFetcher{}}, &recordingSink{},
		OutputNamer{}, validation.NewLocationValidator())

	_, err := repo.FetchImage(context.Background(), "ftp://example.com/a.jpg")
	if !errors.Is(err, ErrInvalidLocation) || !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected invalid location validation error, got %v", err)
	}

	_, err = repo.FetchImage(context.Background(), "az://photos/a.jpg")
	if !errors.Is(err, ErrBlobStorageUnavailable) {
		t.Errorf("Expected ErrBlobStorageUnavailable, got %v", err)
	}

	if err := repo.ValidateLocation(" "); err == nil {
		t.Error("Expected empty location to fail validation")
	}
}

func TestLocationRepository_StoreImage(t *testing.T) {
	sink := &recordingSink{}
	repo := NewLocationRepository(Fetchers{}, sink,
		OutputNamer{Prefix: "out_", Suffix: "_enhanced", Extension: "png"}, validation.NewLocationValidator())

	location, err := repo.StoreImage(context.Background(), "input/3.jpg", image.NewGray(image.Rect(0, 0, 1, 1)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if location != "mem://out_3_enhanced.png" {
		t.Errorf("Expected mem://out_3_enhanced.png, got %s", location)
	}
	if name := repo.OutputName("https://example.com/3.webp"); name != "out_3_enhanced.png" {
		t.Errorf("Expected out_3_enhanced.png, got %s", name)
	}
}

func TestOutputNamer(t *testing.T) {
	namer := OutputNamer{Suffix: "_enhanced", Extension: "jpg"}

	testCases := []struct {
		location string
		expected string
	}{
		{"input/1.jpg", "1_enhanced.jpg"},
		{"/tmp/photos/holiday.final.png", "holiday.final_enhanced.jpg"},
		{`C:\photos\scan.bmp`, "scan_enhanced.jpg"},
		{"noext", "noext_enhanced.jpg"},
		{"https://example.com/img/cat.webp?size=large", "cat_enhanced.jpg"},
		{"az://photos/2024/dog.tiff", "dog_enhanced.jpg"},
		{"https://example.com/", "image_enhanced.jpg"},
	}

	for _, tc := range testCases {
		if got := namer.Name(tc.location); got != tc.expected {
			t.Errorf("Name(%q): expected %s, got %s", tc.location, tc.expected, got)
		}
	}
}
