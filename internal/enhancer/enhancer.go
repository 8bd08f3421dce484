// Package enhancer runs the adaptive enhancement pipeline: denoise, then
// sharpen, then stretch, each stage measuring the image left by the previous one.
package enhancer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anime-shed/image-enhancer-go/internal/analyzer"
	apperrors "github.com/anime-shed/image-enhancer-go/internal/errors"
	"github.com/anime-shed/image-enhancer-go/internal/filters"
	"github.com/anime-shed/image-enhancer-go/internal/raster"
	"github.com/anime-shed/image-enhancer-go/internal/strategy"
	"github.com/anime-shed/image-enhancer-go/pkg/models"
)

// Options configures the enhancer
type Options struct {
	Analysis analyzer.AnalysisOptions
	Decision DecisionThresholds
	// Filters.OccupancyThreshold is overridden by Analysis.OccupancyThreshold so
	// the measured and stretched ranges agree.
	Filters filters.Options
}

// DefaultOptions returns the reference configuration
func DefaultOptions() Options {
	return Options{
		Analysis: analyzer.DefaultOptions(),
		Decision: DefaultThresholds(),
		Filters:  filters.DefaultOptions(),
	}
}

// Enhancer is safe for concurrent use; it holds no per-image state.
type Enhancer struct {
	opts   Options
	stages []strategy.CorrectionStrategy
}

// New creates an enhancer with the given options
func New(opts Options) *Enhancer {
	opts.Filters.OccupancyThreshold = opts.Analysis.OccupancyThreshold
	calc := analyzer.NewMetricsCalculator(opts.Analysis)

	return &Enhancer{
		opts: opts,
		stages: []strategy.CorrectionStrategy{
			strategy.NewDenoiseStrategy(calc, opts.Filters.MedianRadius, opts.Decision.ShouldDenoise),
			strategy.NewSharpenStrategy(calc, opts.Filters.SharpenSigma, opts.Filters.SharpenAmount, opts.Decision.ShouldSharpen),
			strategy.NewStretchStrategy(calc, opts.Filters, opts.Decision.ShouldStretch),
		},
	}
}

// Options returns the configuration in use
func (e *Enhancer) Options() Options {
	return e.opts
}

// Enhance measures and corrects img. The input is never modified; the returned
// image is the result of every filter that fired, or a copy of img if none did.
// A degenerate histogram skips the stretch and is reported as a warning.
func (e *Enhancer) Enhance(ctx context.Context, img *raster.Image) (*raster.Image, models.EnhancementReport, error) {
	start := time.Now()
	report := models.EnhancementReport{
		Timestamp: start,
		Width:     img.Cols(),
		Height:    img.Rows(),
	}

	working := img.Clone()
	for _, stage := range e.stages {
		if err := ctx.Err(); err != nil {
			return nil, report, fmt.Errorf("enhancement interrupted before %s: %w", stage.GetStrategyName(), err)
		}

		m := stage.Measure(working)
		recordMeasurement(&report, stage.GetStrategyName(), m)
		if !stage.ShouldApply(m) {
			continue
		}

		out, err := stage.Apply(working)
		if errors.Is(err, filters.ErrDegenerateHistogram) {
			report.Filters.DegenerateHistogram = true
			report.Warnings = append(report.Warnings, degenerateWarning(err, m))
			continue
		}
		if err != nil {
			return nil, report, fmt.Errorf("%s failed: %w", stage.GetStrategyName(), err)
		}

		working = out
		recordApplied(&report, stage.GetStrategyName())
	}

	report.ProcessingTimeSec = time.Since(start).Seconds()
	return working, report, nil
}

func degenerateWarning(err error, m strategy.Measurement) string {
	details := fmt.Sprintf("low=%d high=%d", m.Low, m.High)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Details != "" {
		details = appErr.Details
	}
	return fmt.Sprintf("contrast stretch skipped: degenerate histogram (%s)", details)
}

func recordMeasurement(report *models.EnhancementReport, name string, m strategy.Measurement) {
	switch name {
	case strategy.Denoise:
		report.Metrics.NoisePercent = m.Percent
	case strategy.Sharpen:
		report.Metrics.BlurPercent = m.Percent
	case strategy.Stretch:
		report.Metrics.RangePercent = m.Percent
		report.Metrics.LowBound = m.Low
		report.Metrics.HighBound = m.High
	}
}

func recordApplied(report *models.EnhancementReport, name string) {
	switch name {
	case strategy.Denoise:
		report.Filters.Median = true
	case strategy.Sharpen:
		report.Filters.Unsharp = true
	case strategy.Stretch:
		report.Filters.Stretch = true
	}
}
