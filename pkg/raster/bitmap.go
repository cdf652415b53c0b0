package raster

import (
	"image"
	"image/color"
)

// Bitmap is a binary raster, one boolean per pixel, used for the final
// edge map. Same row-major addressing as Raster.
type Bitmap struct {
	Width  int
	Height int
	Bits   []bool
}

// NewBitmap allocates an all-false bitmap of the given dimensions.
func NewBitmap(width, height int) (*Bitmap, error) {
	if width < 1 || height < 1 {
		return nil, ErrEmptyRaster
	}
	return &Bitmap{
		Width:  width,
		Height: height,
		Bits:   make([]bool, width*height),
	}, nil
}

// At reports the bit at row i, column j.
func (b *Bitmap) At(i, j int) bool {
	return b.Bits[i*b.Width+j]
}

// Set writes the bit at row i, column j.
func (b *Bitmap) Set(i, j int, v bool) {
	b.Bits[i*b.Width+j] = v
}

// Count returns the number of set pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Bits {
		if v {
			n++
		}
	}
	return n
}

// ToImage renders the bitmap as an 8-bit grayscale image, set pixels
// white on a black background.
func (b *Bitmap) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.Width, b.Height))
	for i := 0; i < b.Height; i++ {
		for j := 0; j < b.Width; j++ {
			if b.Bits[i*b.Width+j] {
				img.SetGray(j, i, color.Gray{Y: 255})
			}
		}
	}
	return img
}
