package analyzer

import (
	"github.com/anime-shed/image-enhancer-go/internal/raster"

	"gonum.org/v1/gonum/stat"
)

// windowSize is the side of the square neighborhood used by the local statistics.
const windowSize = 3

// MeanGrid holds the 3x3 neighborhood mean of every interior pixel.
// Border entries are left at zero and must not be read.
type MeanGrid struct {
	rows, cols int
	values     []float64
}

// At returns the neighborhood mean centered on (row, col).
func (g *MeanGrid) At(row, col int) float64 {
	return g.values[row*g.cols+col]
}

// WindowedMean computes the 3x3 box mean for every interior pixel of img.
func WindowedMean(img *raster.Image) *MeanGrid {
	rows, cols := img.Rows(), img.Cols()
	grid := &MeanGrid{rows: rows, cols: cols, values: make([]float64, rows*cols)}

	window := make([]float64, windowSize*windowSize)
	for i := 1; i < rows-1; i++ {
		for j := 1; j < cols-1; j++ {
			grid.values[i*cols+j] = stat.Mean(neighborhood(img, i, j, window), nil)
		}
	}
	return grid
}

// WindowedVariance returns the population variance (divisor 9) of the 3x3
// neighborhood of (row, col) about the precomputed mean. row and col must be
// interior coordinates.
func WindowedVariance(img *raster.Image, means *MeanGrid, row, col int) float64 {
	var window [windowSize * windowSize]float64
	return stat.MomentAbout(2, neighborhood(img, row, col, window[:]), means.At(row, col), nil)
}

// neighborhood fills buf with the 3x3 samples around (row, col) in row-major order.
func neighborhood(img *raster.Image, row, col int, buf []float64) []float64 {
	buf = buf[:0]
	for k := row - 1; k <= row+1; k++ {
		for l := col - 1; l <= col+1; l++ {
			buf = append(buf, float64(img.At(k, l)))
		}
	}
	return buf
}

// countInterior counts the interior pixels whose local variance satisfies match.
func countInterior(img *raster.Image, match func(variance float64) bool) int {
	means := WindowedMean(img)
	count := 0
	for i := 1; i < img.Rows()-1; i++ {
		for j := 1; j < img.Cols()-1; j++ {
			if match(WindowedVariance(img, means, i, j)) {
				count++
			}
		}
	}
	return count
}

// percentage turns a pixel count into a percentage using the configured denominator.
func percentage(count int, img *raster.Image, n Normalization) float64 {
	total := img.Pixels()
	if n == InteriorOnly {
		total = interiorPixels(img)
	}
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100.0
}

func interiorPixels(img *raster.Image) int {
	rows, cols := img.Rows()-2, img.Cols()-2
	if rows <= 0 || cols <= 0 {
		return 0
	}
	return rows * cols
}
