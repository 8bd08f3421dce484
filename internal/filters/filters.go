// Package filters holds the corrective filters applied by the enhancer.
//
// Median and unsharp masking are delegated to bild; contrast stretching is
// driven by the histogram bounds computed in the analyzer package.
package filters

import (
	"image"
	"math"

	"github.com/anime-shed/image-enhancer-go/internal/raster"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Reference filter parameters.
const (
	// MedianRadius of 1 gives a 3x3 median window.
	MedianRadius = 1.0
	// SharpenSigma is the standard deviation of the unsharp mask's Gaussian.
	SharpenSigma = 10.0
	// SharpenAmount weights original-minus-blurred, giving 1.7*original - 0.7*blurred.
	SharpenAmount = 0.7
)

// Options configures the corrective filters
type Options struct {
	MedianRadius  float64
	SharpenSigma  float64
	SharpenAmount float64
	// RealScaling uses floating-point division for the stretch factor
	// instead of the reference integer division.
	RealScaling bool
	// OccupancyThreshold is the bin count that bounds the stretched range.
	OccupancyThreshold int
}

// DefaultOptions returns the reference filter parameters
func DefaultOptions() Options {
	return Options{
		MedianRadius:       MedianRadius,
		SharpenSigma:       SharpenSigma,
		SharpenAmount:      SharpenAmount,
		RealScaling:        false,
		OccupancyThreshold: 5000,
	}
}

// Median applies a median filter to every channel.
func Median(img *raster.Image, radius float64) *raster.Image {
	return raster.FromImage(effect.Median(img.RGBA(), radius))
}

// Unsharp sharpens img as (1+amount)*original - amount*gaussian(original),
// rounded and clamped to the valid intensity range. For sigma 10 the blur is
// the kernel effect.UnsharpMask(img, 10, amount) uses; that function truncates
// the blend instead of rounding it.
func Unsharp(img *raster.Image, sigma, amount float64) *raster.Image {
	src := img.RGBA()
	blurred := blur.Gaussian(src, gaussianRadius(sigma))

	out := image.NewRGBA(src.Rect)
	for i := 0; i < len(src.Pix); i += 4 {
		for ch := 0; ch < 3; ch++ {
			o := float64(src.Pix[i+ch])
			b := float64(blurred.Pix[i+ch])
			out.Pix[i+ch] = clampUint8((1+amount)*o - amount*b)
		}
		out.Pix[i+3] = src.Pix[i+3]
	}
	return raster.FromImage(out)
}

// gaussianRadius converts a standard deviation into bild's blur radius: its
// kernel is exp(-x²/(4r)), so sigma² = 2r.
func gaussianRadius(sigma float64) float64 {
	return sigma * sigma / 2
}

func clampUint8(v float64) uint8 {
	v = math.Round(v)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
