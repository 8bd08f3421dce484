package analyzer

import (
	"math"
	"testing"

	"github.com/anime-shed/image-enhancer-go/internal/raster"
)

func TestNewHistogram_SumsToPixelCount(t *testing.T) {
	img := createSaltAndPepper(37, 53, 7)

	h := NewHistogram(img)
	if h.Total() != 37*53 {
		t.Errorf("Expected histogram total %d, got %d", 37*53, h.Total())
	}
	if h[0]+h[255] != h.Total() {
		t.Errorf("Expected only 0 and 255 to be occupied, got %d+%d of %d", h[0], h[255], h.Total())
	}
}

func TestNewHistogram_Idempotent(t *testing.T) {
	img := createCheckerboard(30, 30, 3, 12, 240)

	first := NewHistogram(img)
	second := NewHistogram(img)
	if first != second {
		t.Error("Expected repeated histograms of the same image to be equal")
	}
}

func TestNewHistogram_IncludesBorderPixels(t *testing.T) {
	img := raster.NewUniform(4, 4, 0)
	img.Set(0, 0, 9)
	img.Set(3, 3, 9)

	h := NewHistogram(img)
	if h[9] != 2 {
		t.Errorf("Expected border samples to be counted, got %d", h[9])
	}
}

func TestBounds_SingleValueRoundTrip(t *testing.T) {
	var h Histogram
	h[142] = 6000

	low, high := h.LowBound(), h.HighBound()
	if low != 142 || high != 142 {
		t.Errorf("Expected low == high == 142, got %d and %d", low, high)
	}
	if r := RangePercent(low, high); r != 0 {
		t.Errorf("Expected range 0, got %f", r)
	}
}

func TestBounds_NothingOccupied(t *testing.T) {
	var h Histogram
	h[10] = 5000 // not strictly above the threshold
	h[200] = 4999

	if low := h.LowBound(); low != 0 {
		t.Errorf("Expected low bound fallback 0, got %d", low)
	}
	if high := h.HighBound(); high != 0 {
		t.Errorf("Expected high bound fallback 0, got %d", high)
	}
}

func TestBounds_CustomThreshold(t *testing.T) {
	var h Histogram
	h[3] = 2
	h[30] = 11
	h[220] = 11
	h[250] = 2

	if low := h.LowBoundAbove(10); low != 30 {
		t.Errorf("Expected low bound 30, got %d", low)
	}
	if high := h.HighBoundAbove(10); high != 220 {
		t.Errorf("Expected high bound 220, got %d", high)
	}
	if low := h.LowBoundAbove(1); low != 3 {
		t.Errorf("Expected low bound 3, got %d", low)
	}
}

func TestRangePercent(t *testing.T) {
	if r := RangePercent(0, 255); r != 100 {
		t.Errorf("Expected 100, got %f", r)
	}
	if r := RangePercent(50, 101); math.Abs(r-20) > 1e-9 {
		t.Errorf("Expected 20, got %f", r)
	}
}
