package analyzer

import "github.com/anime-shed/image-enhancer-go/internal/raster"

// metricsCalculator implements MetricsCalculator with configurable thresholds
type metricsCalculator struct {
	opts AnalysisOptions
}

// NewMetricsCalculator creates a metrics calculator using the given options
func NewMetricsCalculator(opts AnalysisOptions) MetricsCalculator {
	return &metricsCalculator{opts: opts}
}

func (mc *metricsCalculator) Options() AnalysisOptions {
	return mc.opts
}

// Noise counts interior pixels whose local variance is strictly above the noise threshold.
func (mc *metricsCalculator) Noise(img *raster.Image) float64 {
	threshold := mc.opts.NoiseVarianceThreshold
	count := countInterior(img, func(variance float64) bool {
		return variance > threshold
	})
	return percentage(count, img, mc.opts.Normalization)
}

// Blur counts interior pixels of the gradient image whose local variance is
// at or below the blur threshold.
func (mc *metricsCalculator) Blur(gradient *raster.Image) float64 {
	threshold := mc.opts.BlurVarianceThreshold
	count := countInterior(gradient, func(variance float64) bool {
		return variance <= threshold
	})
	return percentage(count, gradient, mc.opts.Normalization)
}

func (mc *metricsCalculator) Range(img *raster.Image) (float64, int, int) {
	hist := NewHistogram(img)
	low := hist.LowBoundAbove(mc.opts.OccupancyThreshold)
	high := hist.HighBoundAbove(mc.opts.OccupancyThreshold)
	return RangePercent(low, high), low, high
}

var defaultCalculator = NewMetricsCalculator(DefaultOptions())

// CalculateNoise returns the noise percentage of img under the reference thresholds.
func CalculateNoise(img *raster.Image) float64 {
	return defaultCalculator.Noise(img)
}

// CalculateBlur returns the blur percentage of a gradient image under the
// reference thresholds. Pass EdgeGradient(img), not the raw image.
func CalculateBlur(gradient *raster.Image) float64 {
	return defaultCalculator.Blur(gradient)
}

// CheckRange returns the dynamic range percentage of img under the reference
// occupancy threshold.
func CheckRange(img *raster.Image) float64 {
	percent, _, _ := defaultCalculator.Range(img)
	return percent
}
