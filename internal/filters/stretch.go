package filters

import (
	"errors"
	"image/color"
	"math"

	"github.com/anime-shed/image-enhancer-go/internal/analyzer"
	"github.com/anime-shed/image-enhancer-go/internal/raster"

	"github.com/anthonynsimon/bild/adjust"
)

// ErrDegenerateHistogram is returned when the low and high histogram bounds
// coincide, leaving no range to stretch.
var ErrDegenerateHistogram = errors.New("degenerate histogram: low bound equals high bound")

// StretchResult describes a contrast stretch.
type StretchResult struct {
	Low, High int
	Factor    float64
}

// ContrastStretch linearly remaps intensities so the occupied histogram range
// [low, high] fills 0-255. Every channel receives the same value, so the
// output is gray. Results outside 0-255 saturate.
//
// By default the scale factor is 255/(high-low) in integer arithmetic. When
// low == high ErrDegenerateHistogram is returned and img is not touched.
func ContrastStretch(img *raster.Image, opts Options) (*raster.Image, StretchResult, error) {
	hist := analyzer.NewHistogram(img)
	low := hist.LowBoundAbove(opts.OccupancyThreshold)
	high := hist.HighBoundAbove(opts.OccupancyThreshold)
	result := StretchResult{Low: low, High: high}

	if low == high {
		return nil, result, ErrDegenerateHistogram
	}

	result.Factor = scalingFactor(low, high, opts.RealScaling)
	var lut [256]uint8
	for v := range lut {
		lut[v] = stretchSample(v, low, result.Factor, opts.RealScaling)
	}

	out := adjust.Apply(img.RGBA(), func(c color.RGBA) color.RGBA {
		v := lut[raster.Intensity(c)]
		return color.RGBA{R: v, G: v, B: v, A: 255}
	})
	return raster.FromImage(out), result, nil
}

func scalingFactor(low, high int, real bool) float64 {
	if real {
		return 255.0 / float64(high-low)
	}
	return float64(255 / (high - low))
}

func stretchSample(v, low int, factor float64, real bool) uint8 {
	nv := float64(v-low) * factor
	if real {
		nv = math.Round(nv)
	}
	switch {
	case nv < 0:
		return 0
	case nv > 255:
		return 255
	default:
		return uint8(nv)
	}
}
