package analyzer

import "github.com/anime-shed/image-enhancer-go/internal/raster"

// Histogram counts intensity occurrences, indexed by intensity value.
type Histogram [256]int

// NewHistogram counts every pixel of img, border pixels included.
func NewHistogram(img *raster.Image) Histogram {
	var h Histogram
	for _, v := range img.Gray().Pix {
		h[v]++
	}
	return h
}

// Total returns the number of samples counted.
func (h *Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// LowBound returns the first intensity, scanning up from 0, whose count
// exceeds OccupancyThreshold, or 0 when there is none.
func (h *Histogram) LowBound() int {
	return h.LowBoundAbove(OccupancyThreshold)
}

// HighBound returns the first intensity, scanning down from 255, whose count
// exceeds OccupancyThreshold, or 0 when there is none.
func (h *Histogram) HighBound() int {
	return h.HighBoundAbove(OccupancyThreshold)
}

// LowBoundAbove is LowBound with an explicit occupancy threshold.
func (h *Histogram) LowBoundAbove(minCount int) int {
	for i := 0; i < len(h); i++ {
		if h[i] > minCount {
			return i
		}
	}
	return 0
}

// HighBoundAbove is HighBound with an explicit occupancy threshold.
// Like LowBoundAbove it falls back to 0, not 255.
func (h *Histogram) HighBoundAbove(minCount int) int {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] > minCount {
			return i
		}
	}
	return 0
}

// RangePercent expresses high-low as a percentage of the 0-255 span.
func RangePercent(low, high int) float64 {
	return float64(high-low) * 100.0 / 255.0
}
