// Package suppress implements non-maximum suppression: thinning a
// gradient magnitude raster by keeping only pixels that dominate their
// two neighbors along the gradient direction and zeroing everything
// else.
package suppress

import (
	"fmt"
	"runtime"
	"sync"

	"cannyedge/pkg/gradient"
	"cannyedge/pkg/raster"
)

// Options configures suppression.
type Options struct {
	// Workers is the number of goroutines partitioning the interior
	// rows. Values below 1 default to the machine's CPU count.
	Workers int
}

// Run suppresses non-maxima in the gradient field's magnitude raster
// and returns a fresh raster of identical dimensions. An interior pixel
// survives iff its magnitude is >= both neighbors selected by its
// direction sector; ties keep the pixel, so a single-pixel-wide ridge
// of exactly equal magnitude is not erased and re-running suppression
// on its own output is idempotent. The outermost ring is always zero:
// border pixels lack two full neighbors and are excluded from edge
// candidacy outright.
//
// Run fails with raster.ErrDimensionMismatch if the field's magnitude
// and direction rasters disagree in shape, which indicates a caller bug
// upstream and is never silently tolerated.
func Run(field *gradient.Field, opts Options) (*raster.Raster, error) {
	if err := raster.CheckPair(field.Mag, field.Dir); err != nil {
		return nil, fmt.Errorf("suppress: %w", err)
	}
	if len(field.Sectors) != field.Mag.Width*field.Mag.Height {
		return nil, fmt.Errorf("suppress: %w", raster.ErrDimensionMismatch)
	}

	mag := field.Mag
	out := &raster.Raster{
		Width:  mag.Width,
		Height: mag.Height,
		Data:   make([]float64, mag.Width*mag.Height),
	}
	// Rasters too small to have an interior are entirely border: the
	// output stays all-zero.
	if mag.Width < 3 || mag.Height < 3 {
		return out, nil
	}

	interior := mag.Height - 2
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > interior {
		workers = interior
	}
	rowsPerWorker := (interior + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			startRow := 1 + workerID*rowsPerWorker
			endRow := startRow + rowsPerWorker
			if endRow > mag.Height-1 {
				endRow = mag.Height - 1
			}
			if startRow >= mag.Height-1 {
				return
			}

			suppressRows(out, field, startRow, endRow)
		}(w)
	}
	wg.Wait()

	return out, nil
}

// suppressRows thins interior rows [startRow, endRow). Each pixel's
// competing neighbors come from the sector lookup table, never from
// re-deriving the direction, so the sector that produced a magnitude is
// exactly the sector that judges it.
func suppressRows(out *raster.Raster, field *gradient.Field, startRow, endRow int) {
	mag := field.Mag
	width := mag.Width
	for i := startRow; i < endRow; i++ {
		for j := 1; j < width-1; j++ {
			idx := i*width + j
			m := mag.Data[idx]
			if m == 0 {
				continue
			}
			pair := field.Sectors[idx].Neighbors()
			a := mag.Data[(i+pair[0].DI)*width+(j+pair[0].DJ)]
			b := mag.Data[(i+pair[1].DI)*width+(j+pair[1].DJ)]
			if m >= a && m >= b {
				out.Data[idx] = m
			}
		}
	}
}
