package strategy

import (
	"errors"
	"fmt"

	"github.com/anime-shed/image-enhancer-go/internal/analyzer"
	apperrors "github.com/anime-shed/image-enhancer-go/internal/errors"
	"github.com/anime-shed/image-enhancer-go/internal/filters"
	"github.com/anime-shed/image-enhancer-go/internal/raster"
)

// Strategy names, also used as report keys.
const (
	Denoise = "denoise"
	Sharpen = "sharpen"
	Stretch = "stretch"
)

// Measurement is what a strategy observed on the working image
type Measurement struct {
	Percent float64
	// Low and High are the histogram bounds; only the stretch strategy sets them.
	Low, High int
}

// Rule decides whether a measured percentage calls for correction
type Rule func(percent float64) bool

// CorrectionStrategy measures one defect and corrects it when its rule fires
type CorrectionStrategy interface {
	Measure(img *raster.Image) Measurement
	ShouldApply(m Measurement) bool
	Apply(img *raster.Image) (*raster.Image, error)
	GetStrategyName() string
}

// DenoiseStrategy measures noise on the image and applies a median filter
type DenoiseStrategy struct {
	calc   analyzer.MetricsCalculator
	radius float64
	rule   Rule
}

// NewDenoiseStrategy creates a denoise strategy
func NewDenoiseStrategy(calc analyzer.MetricsCalculator, radius float64, rule Rule) CorrectionStrategy {
	return &DenoiseStrategy{calc: calc, radius: radius, rule: rule}
}

func (s *DenoiseStrategy) Measure(img *raster.Image) Measurement {
	return Measurement{Percent: s.calc.Noise(img)}
}

func (s *DenoiseStrategy) ShouldApply(m Measurement) bool {
	return s.rule(m.Percent)
}

func (s *DenoiseStrategy) Apply(img *raster.Image) (*raster.Image, error) {
	return filters.Median(img, s.radius), nil
}

func (s *DenoiseStrategy) GetStrategyName() string {
	return Denoise
}

// SharpenStrategy measures blur on the edge gradient and applies an unsharp mask
type SharpenStrategy struct {
	calc   analyzer.MetricsCalculator
	sigma  float64
	amount float64
	rule   Rule
}

// NewSharpenStrategy creates a sharpen strategy
func NewSharpenStrategy(calc analyzer.MetricsCalculator, sigma, amount float64, rule Rule) CorrectionStrategy {
	return &SharpenStrategy{calc: calc, sigma: sigma, amount: amount, rule: rule}
}

// Measure runs the blur metric on EdgeGradient(img), never on img itself.
func (s *SharpenStrategy) Measure(img *raster.Image) Measurement {
	return Measurement{Percent: s.calc.Blur(analyzer.EdgeGradient(img))}
}

func (s *SharpenStrategy) ShouldApply(m Measurement) bool {
	return s.rule(m.Percent)
}

func (s *SharpenStrategy) Apply(img *raster.Image) (*raster.Image, error) {
	return filters.Unsharp(img, s.sigma, s.amount), nil
}

func (s *SharpenStrategy) GetStrategyName() string {
	return Sharpen
}

// StretchStrategy measures the dynamic range and applies a contrast stretch
type StretchStrategy struct {
	calc analyzer.MetricsCalculator
	opts filters.Options
	rule Rule
}

// NewStretchStrategy creates a stretch strategy
func NewStretchStrategy(calc analyzer.MetricsCalculator, opts filters.Options, rule Rule) CorrectionStrategy {
	return &StretchStrategy{calc: calc, opts: opts, rule: rule}
}

func (s *StretchStrategy) Measure(img *raster.Image) Measurement {
	percent, low, high := s.calc.Range(img)
	return Measurement{Percent: percent, Low: low, High: high}
}

func (s *StretchStrategy) ShouldApply(m Measurement) bool {
	return s.rule(m.Percent)
}

// Apply returns a degenerate_histogram AppError wrapping
// filters.ErrDegenerateHistogram when there is no range to stretch. Its
// Details carry the histogram bounds.
func (s *StretchStrategy) Apply(img *raster.Image) (*raster.Image, error) {
	out, result, err := filters.ContrastStretch(img, s.opts)
	if errors.Is(err, filters.ErrDegenerateHistogram) {
		return nil, apperrors.NewDegenerateHistogramError("contrast stretch skipped", err).
			WithDetails(fmt.Sprintf("low=%d high=%d", result.Low, result.High))
	}
	return out, err
}

func (s *StretchStrategy) GetStrategyName() string {
	return Stretch
}
