package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/anime-shed/image-enhancer-go/internal/enhancer"
	apperrors "github.com/anime-shed/image-enhancer-go/internal/errors"
	"github.com/anime-shed/image-enhancer-go/internal/logger"
	"github.com/anime-shed/image-enhancer-go/internal/observer"
	"github.com/anime-shed/image-enhancer-go/internal/raster"
	"github.com/anime-shed/image-enhancer-go/internal/repository"
	"github.com/anime-shed/image-enhancer-go/internal/storage"
	"github.com/anime-shed/image-enhancer-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// EnhancementService loads, enhances and stores images
type EnhancementService interface {
	// EnhanceLocation enhances the image at a local path, URL or blob reference
	EnhanceLocation(ctx context.Context, location string) (*models.EnhancementReport, error)

	// EnhanceBatch enhances every location. A failing image is recorded in its
	// item and does not stop the others; items keep the input order. An input
	// whose output name was already claimed by an earlier input fails with a
	// validation error instead of overwriting that output.
	EnhanceBatch(ctx context.Context, locations []string) *models.BatchResult

	// EnhanceUpload enhances an image read from r; name is used for the output name
	EnhanceUpload(ctx context.Context, name string, r io.Reader) (*models.EnhancementReport, error)

	ValidateLocation(location string) error
}

// Options bounds the time spent per image and the batch parallelism
type Options struct {
	FetchTimeout   time.Duration
	EnhanceTimeout time.Duration
	Workers        int
}

type enhancementService struct {
	imageRepo repository.ImageRepository
	enhancer  *enhancer.Enhancer
	events    observer.Subject
	opts      Options
}

// NewEnhancementService creates a new enhancement service
func NewEnhancementService(
	imageRepository repository.ImageRepository,
	imageEnhancer *enhancer.Enhancer,
	events observer.Subject,
	opts Options,
) EnhancementService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &enhancementService{
		imageRepo: imageRepository,
		enhancer:  imageEnhancer,
		events:    events,
		opts:      opts,
	}
}

func (s *enhancementService) EnhanceLocation(ctx context.Context, location string) (*models.EnhancementReport, error) {
	if err := s.imageRepo.ValidateLocation(location); err != nil {
		return nil, err
	}

	start := time.Now()
	s.publish(ctx, observer.EnhancementEvent{EventType: observer.EnhancementStarted, Location: location})

	img, err := s.fetch(ctx, location)
	if err != nil {
		s.publish(ctx, observer.EnhancementEvent{EventType: observer.ImageFetchFailed, Location: location, ErrorMessage: err.Error()})
		return nil, s.fail(ctx, location, start, err)
	}
	s.publish(ctx, observer.EnhancementEvent{EventType: observer.ImageFetched, Location: location, Success: true})

	return s.process(ctx, location, img, start)
}

func (s *enhancementService) EnhanceUpload(ctx context.Context, name string, r io.Reader) (*models.EnhancementReport, error) {
	start := time.Now()
	s.publish(ctx, observer.EnhancementEvent{EventType: observer.EnhancementStarted, Location: name})

	img, err := storage.Decode(r)
	if err != nil {
		return nil, s.fail(ctx, name, start, apperrors.NewImageLoadError("failed to decode uploaded image", err))
	}
	return s.process(ctx, name, img, start)
}

func (s *enhancementService) EnhanceBatch(ctx context.Context, locations []string) *models.BatchResult {
	items := make([]models.BatchItem, len(locations))

	pool := NewWorkerPool(s.opts.Workers)
	pool.Start()
	defer pool.Close()

	claimed := make(map[string]string, len(locations))
	for i, location := range locations {
		i, location := i, location

		name := s.imageRepo.OutputName(location)
		if first, ok := claimed[name]; ok {
			logger.WithFields(logrus.Fields{
				"location":    location,
				"output_name": name,
				"claimed_by":  first,
			}).Warn("Duplicate output name in batch, skipping input")
			items[i] = models.BatchItem{
				Input: location,
				Error: apperrors.NewValidationError(
					fmt.Sprintf("output name %s is already used by %s", name, first), nil).Error(),
			}
			continue
		}
		claimed[name] = location

		pool.Submit(func() {
			items[i] = s.batchItem(ctx, location)
		})
	}
	pool.Wait()

	result := &models.BatchResult{Items: make([]models.BatchItem, 0, len(items))}
	for _, item := range items {
		result.Add(item)
	}
	return result
}

func (s *enhancementService) ValidateLocation(location string) error {
	return s.imageRepo.ValidateLocation(location)
}

// batchItem runs one image and converts its outcome, including a panic, into an item
func (s *enhancementService) batchItem(ctx context.Context, location string) (item models.BatchItem) {
	item.Input = location
	defer func() {
		if r := recover(); r != nil {
			item.Report = nil
			item.Error = apperrors.NewInternalError("enhancement panicked", fmt.Errorf("%v", r)).Error()
		}
	}()

	report, err := s.EnhanceLocation(ctx, location)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.Report = report
	return item
}

func (s *enhancementService) fetch(ctx context.Context, location string) (image.Image, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	img, err := s.imageRepo.FetchImage(fetchCtx, location)
	switch {
	case err == nil:
		return img, nil
	case errors.Is(err, repository.ErrInvalidLocation):
		return nil, apperrors.NewValidationError("invalid image location", err)
	case errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.NewTimeoutError("timed out fetching image", err)
	default:
		return nil, apperrors.NewImageLoadError("failed to load image", err)
	}
}

// process enhances img, stores the result and publishes the outcome
func (s *enhancementService) process(ctx context.Context, location string, img image.Image, start time.Time) (*models.EnhancementReport, error) {
	enhanceCtx, cancel := context.WithTimeout(ctx, s.opts.EnhanceTimeout)
	defer cancel()

	final, report, err := s.enhancer.Enhance(enhanceCtx, raster.FromImage(img))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, s.fail(ctx, location, start, apperrors.NewTimeoutError("enhancement timed out", err))
		}
		return nil, s.fail(ctx, location, start, apperrors.NewInternalError("enhancement failed", err))
	}
	report.Input = location

	output, err := s.imageRepo.StoreImage(ctx, location, final.RGBA())
	if err != nil {
		return nil, s.fail(ctx, location, start, apperrors.NewImageWriteError("failed to store enhanced image", err))
	}
	report.Output = output

	s.publishFilters(ctx, location, report)
	report.ProcessingTimeSec = time.Since(start).Seconds()
	s.publish(ctx, observer.EnhancementEvent{
		EventType:      observer.EnhancementCompleted,
		Location:       location,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"output":        output,
			"noise_percent": report.Metrics.NoisePercent,
			"blur_percent":  report.Metrics.BlurPercent,
			"range_percent": report.Metrics.RangePercent,
		},
	})
	return &report, nil
}

func (s *enhancementService) publishFilters(ctx context.Context, location string, report models.EnhancementReport) {
	applied := map[string]bool{
		"median":  report.Filters.Median,
		"unsharp": report.Filters.Unsharp,
		"stretch": report.Filters.Stretch,
	}
	for _, name := range []string{"median", "unsharp", "stretch"} {
		if applied[name] {
			s.publish(ctx, observer.EnhancementEvent{
				EventType: observer.FilterApplied,
				Location:  location,
				Success:   true,
				Metadata:  map[string]interface{}{"filter": name},
			})
		}
	}
	if report.Filters.DegenerateHistogram {
		s.publish(ctx, observer.EnhancementEvent{
			EventType: observer.StretchDegenerate,
			Location:  location,
			Metadata: map[string]interface{}{
				"low_bound":  report.Metrics.LowBound,
				"high_bound": report.Metrics.HighBound,
			},
		})
	}
}

func (s *enhancementService) fail(ctx context.Context, location string, start time.Time, err error) error {
	s.publish(ctx, observer.EnhancementEvent{
		EventType:      observer.EnhancementFailed,
		Location:       location,
		ProcessingTime: time.Since(start),
		ErrorMessage:   err.Error(),
	})
	return err
}

func (s *enhancementService) publish(ctx context.Context, event observer.EnhancementEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}
