// Package raster provides the single-channel image representation shared
// by every stage of the edge detection pipeline. A Raster is a fixed-size
// W×H grid of float64 intensity samples stored row-major, addressed by
// (row i, column j) with 0 <= i < H and 0 <= j < W.
//
// Rasters are treated as immutable once a stage has produced them: each
// stage allocates a fresh output raster rather than writing through its
// input, so stages stay independently testable.
package raster

import (
	"errors"
	"image"
	"image/color"
)

// Sentinel errors for raster construction and pairing.
var (
	// ErrEmptyRaster indicates a requested raster with no rows or no columns.
	ErrEmptyRaster = errors.New("raster: width and height must be at least 1")
	// ErrShortData indicates a backing slice smaller than width*height.
	ErrShortData = errors.New("raster: data length does not match width*height")
	// ErrDimensionMismatch indicates paired rasters of differing dimensions.
	ErrDimensionMismatch = errors.New("raster: paired rasters differ in width or height")
)

// Raster is a single-channel 2D grid of intensity samples.
type Raster struct {
	// Width and Height are the raster dimensions in pixels.
	Width  int
	Height int

	// Data holds the samples in row-major order: Data[i*Width+j] is the
	// sample at row i, column j.
	Data []float64
}

// New allocates a zero-filled raster of the given dimensions.
func New(width, height int) (*Raster, error) {
	if width < 1 || height < 1 {
		return nil, ErrEmptyRaster
	}
	return &Raster{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}, nil
}

// FromData wraps an existing row-major sample slice. The slice is copied
// so later mutation of data cannot alias the raster.
func FromData(width, height int, data []float64) (*Raster, error) {
	if width < 1 || height < 1 {
		return nil, ErrEmptyRaster
	}
	if len(data) != width*height {
		return nil, ErrShortData
	}
	r := &Raster{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
	copy(r.Data, data)
	return r, nil
}

// At returns the sample at row i, column j. Callers are responsible for
// bounds; hot loops index Data directly.
func (r *Raster) At(i, j int) float64 {
	return r.Data[i*r.Width+j]
}

// Set writes the sample at row i, column j.
func (r *Raster) Set(i, j int, v float64) {
	r.Data[i*r.Width+j] = v
}

// Index maps (i,j) to the row-major position in Data.
func (r *Raster) Index(i, j int) int {
	return i*r.Width + j
}

// Coordinate converts a row-major index back to (i,j).
func (r *Raster) Coordinate(idx int) (i, j int) {
	return idx / r.Width, idx % r.Width
}

// InBounds reports whether (i,j) lies within the raster.
func (r *Raster) InBounds(i, j int) bool {
	return i >= 0 && i < r.Height && j >= 0 && j < r.Width
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	out := &Raster{
		Width:  r.Width,
		Height: r.Height,
		Data:   make([]float64, len(r.Data)),
	}
	copy(out.Data, r.Data)
	return out
}

// SameSize reports whether two rasters share dimensions.
func (r *Raster) SameSize(o *Raster) bool {
	return r.Width == o.Width && r.Height == o.Height
}

// CheckPair returns ErrDimensionMismatch unless the two rasters share
// dimensions. Stages that consume paired rasters call this before any
// pixel work so a caller bug upstream fails fast instead of being
// silently cropped or padded.
func CheckPair(a, b *Raster) error {
	if !a.SameSize(b) {
		return ErrDimensionMismatch
	}
	return nil
}

// FromImage converts an image to a raster of 0-255 intensity samples.
// Color input is reduced to luminance via the standard library grayscale
// model, so the pipeline always operates on a single channel.
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	r := &Raster{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			r.Data[y*width+x] = float64(g.Y)
		}
	}
	return r
}

// ToImage converts the raster back to an 8-bit grayscale image, clamping
// samples to the 0-255 range.
func (r *Raster) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for i := 0; i < r.Height; i++ {
		for j := 0; j < r.Width; j++ {
			v := r.Data[i*r.Width+j]
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			img.SetGray(j, i, color.Gray{Y: uint8(v + 0.5)})
		}
	}
	return img
}
