// Package visualization renders edge detection pipeline outputs for
// inspection: normalized magnitude images, binary edge maps, overlays
// of detected edges on the source raster, and per-stage image dumps.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"

	"cannyedge/internal/models"
	"cannyedge/pkg/raster"
)

// MagnitudeImage renders a raster of non-negative responses as an 8-bit
// grayscale image, scaling the raster's full range onto 0-255. A
// constant raster renders black.
func MagnitudeImage(r *raster.Raster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))

	maxVal := floats.Max(r.Data)
	minVal := floats.Min(r.Data)
	span := maxVal - minVal
	if span == 0 {
		return img
	}

	for i := 0; i < r.Height; i++ {
		for j := 0; j < r.Width; j++ {
			v := (r.Data[i*r.Width+j] - minVal) / span
			img.SetGray(j, i, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

// Overlay draws the edge map over the source raster: non-edge pixels
// keep their grayscale intensity, edge pixels are painted red. Returns
// an error if the raster and edge map differ in shape.
func Overlay(src *raster.Raster, edges *raster.Bitmap) (*image.RGBA, error) {
	if src.Width != edges.Width || src.Height != edges.Height {
		return nil, fmt.Errorf("visualization: %w", raster.ErrDimensionMismatch)
	}

	img := image.NewRGBA(image.Rect(0, 0, src.Width, src.Height))
	for i := 0; i < src.Height; i++ {
		for j := 0; j < src.Width; j++ {
			idx := i*src.Width + j
			if edges.Bits[idx] {
				img.SetRGBA(j, i, color.RGBA{R: 255, A: 255})
				continue
			}
			v := src.Data[idx]
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			g := uint8(v + 0.5)
			img.SetRGBA(j, i, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}
	return img, nil
}

// SaveImage writes an image as a PNG file.
func SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveStageSequence writes one PNG per captured pipeline stage into
// outputDir, named by stage. Magnitude-like stages are range-normalized
// so faint responses stay visible.
func SaveStageSequence(stages []models.StageResult, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for _, res := range stages {
		var img image.Image
		switch res.Stage {
		case models.StageMagnitude, models.StageSuppressed:
			img = MagnitudeImage(res.Raster)
		default:
			img = res.Raster.ToImage()
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s.png", res.Stage))
		if err := SaveImage(img, filename); err != nil {
			return fmt.Errorf("visualization: saving stage %s: %w", res.Stage, err)
		}
	}

	return nil
}
