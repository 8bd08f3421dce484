package analyzer

import "github.com/anime-shed/image-enhancer-go/internal/raster"

// MetricsCalculator computes the three quality metrics of an image
type MetricsCalculator interface {
	// Noise returns the percentage of pixels with high local variance.
	Noise(img *raster.Image) float64
	// Blur returns the percentage of pixels with low local variance on a
	// gradient image produced by EdgeGradient.
	Blur(gradient *raster.Image) float64
	// Range returns the occupied intensity span as a percentage of 0-255
	// together with the histogram bounds it was derived from.
	Range(img *raster.Image) (percent float64, low, high int)
	// Options returns the thresholds in use.
	Options() AnalysisOptions
}
