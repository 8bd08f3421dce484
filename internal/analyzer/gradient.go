package analyzer

import (
	"math"

	"github.com/anime-shed/image-enhancer-go/internal/raster"
)

// EdgeGradient returns the edge-gradient magnitude of img: the 3x3 Sobel
// derivatives in x and y, each taken in absolute value and saturated to 255,
// blended with equal 0.5 weights. The result has the same dimensions as img.
func EdgeGradient(img *raster.Image) *raster.Image {
	rows, cols := img.Rows(), img.Cols()
	out := raster.New(rows, cols)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			gx := saturate(abs(sobelX(img, x, y)))
			gy := saturate(abs(sobelY(img, x, y)))
			out.Set(y, x, uint8(saturate(int(math.RoundToEven(0.5*float64(gx)+0.5*float64(gy))))))
		}
	}
	return out
}

// sobelX computes the horizontal Sobel derivative at (x, y)
func sobelX(img *raster.Image, x, y int) int {
	return -1*sample(img, x-1, y-1) + 1*sample(img, x+1, y-1) +
		-2*sample(img, x-1, y) + 2*sample(img, x+1, y) +
		-1*sample(img, x-1, y+1) + 1*sample(img, x+1, y+1)
}

// sobelY computes the vertical Sobel derivative at (x, y)
func sobelY(img *raster.Image, x, y int) int {
	return -1*sample(img, x-1, y-1) - 2*sample(img, x, y-1) - 1*sample(img, x+1, y-1) +
		1*sample(img, x-1, y+1) + 2*sample(img, x, y+1) + 1*sample(img, x+1, y+1)
}

// sample reads (x, y), mirroring out-of-range coordinates about the edge
// sample without repeating it (reflect-101).
func sample(img *raster.Image, x, y int) int {
	return int(img.At(reflect101(y, img.Rows()), reflect101(x, img.Cols())))
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func saturate(x int) int {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
