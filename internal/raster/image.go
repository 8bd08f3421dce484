// Package raster provides the pixel grid the enhancement pipeline works on.
//
// An Image keeps the full RGBA raster for the filter primitives and encoders,
// plus a single intensity plane that the quality metrics read from.
package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is a rows x cols grid of 8-bit intensity samples backed by an RGBA raster.
// Images are treated as immutable once built: filters return new Images.
type Image struct {
	rgba *image.RGBA
	lum  *image.Gray
}

// New creates an opaque black image of the given size.
func New(rows, cols int) *Image {
	return NewUniform(rows, cols, 0)
}

// NewUniform creates an image with every sample set to v.
func NewUniform(rows, cols int, v uint8) *Image {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	rect := image.Rect(0, 0, cols, rows)
	im := &Image{
		rgba: image.NewRGBA(rect),
		lum:  image.NewGray(rect),
	}
	draw.Draw(im.rgba, rect, &image.Uniform{C: color.RGBA{R: v, G: v, B: v, A: 255}}, image.Point{}, draw.Src)
	draw.Draw(im.lum, rect, &image.Uniform{C: color.Gray{Y: v}}, image.Point{}, draw.Src)
	return im
}

// FromImage copies src into a new Image anchored at the origin and derives
// its intensity plane.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	rect := image.Rect(0, 0, bounds.Dx(), bounds.Dy())

	rgba := image.NewRGBA(rect)
	draw.Draw(rgba, rect, src, bounds.Min, draw.Src)

	lum := image.NewGray(rect)
	draw.Draw(lum, rect, rgba, image.Point{}, draw.Src)

	return &Image{rgba: rgba, lum: lum}
}

// FromGrid builds an image from row-major intensity samples. Rows shorter
// than the first row are padded with zeros.
func FromGrid(samples [][]uint8) *Image {
	rows := len(samples)
	cols := 0
	if rows > 0 {
		cols = len(samples[0])
	}
	im := New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols && c < len(samples[r]); c++ {
			im.Set(r, c, samples[r][c])
		}
	}
	return im
}

// Rows returns the image height.
func (im *Image) Rows() int { return im.lum.Rect.Dy() }

// Cols returns the image width.
func (im *Image) Cols() int { return im.lum.Rect.Dx() }

// Pixels returns rows*cols.
func (im *Image) Pixels() int { return im.Rows() * im.Cols() }

// At returns the intensity sample at (row, col).
func (im *Image) At(row, col int) uint8 {
	return im.lum.Pix[row*im.lum.Stride+col]
}

// Set writes v to every color channel of (row, col) with full opacity.
// It is meant for building images; pipeline stages never call it on an
// image they did not allocate.
func (im *Image) Set(row, col int, v uint8) {
	im.lum.Pix[row*im.lum.Stride+col] = v
	i := im.rgba.PixOffset(col, row)
	im.rgba.Pix[i+0] = v
	im.rgba.Pix[i+1] = v
	im.rgba.Pix[i+2] = v
	im.rgba.Pix[i+3] = 255
}

// RGBA exposes the color raster for filter primitives and encoders.
// Callers must not modify it.
func (im *Image) RGBA() *image.RGBA { return im.rgba }

// Gray exposes the intensity plane. Callers must not modify it.
func (im *Image) Gray() *image.Gray { return im.lum }

// Clone returns a deep copy.
func (im *Image) Clone() *Image {
	rgba := image.NewRGBA(im.rgba.Rect)
	copy(rgba.Pix, im.rgba.Pix)
	lum := image.NewGray(im.lum.Rect)
	copy(lum.Pix, im.lum.Pix)
	return &Image{rgba: rgba, lum: lum}
}

// Intensity converts a color to the representative intensity sample used
// throughout the analysis.
func Intensity(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}
