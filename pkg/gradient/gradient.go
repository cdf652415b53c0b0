// Package gradient implements the directional gradient stage of the
// edge detection pipeline. It derives horizontal and vertical derivative
// rasters from a single-channel input, then combines them into a
// magnitude raster, a folded direction raster, and a per-pixel direction
// sector quantized once at gradient time so suppression can never
// consult a sector inconsistent with the magnitude it was derived from.
package gradient

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"cannyedge/pkg/kernel"
	"cannyedge/pkg/raster"
)

// Norm selects how the two derivative responses combine into a
// magnitude. The choice shifts the effective scale of good threshold
// values downstream, so it is part of the stage contract rather than an
// internal detail.
type Norm int

const (
	// NormL2 is sqrt(Gx²+Gy²), the Euclidean gradient magnitude.
	NormL2 Norm = iota
	// NormL1 is |Gx|+|Gy|, a cheaper documented approximation. L1
	// magnitudes run up to sqrt(2)× larger than L2 for the same
	// gradient, so thresholds calibrated for one norm do not transfer
	// to the other.
	NormL1
)

// Options configures gradient computation.
type Options struct {
	// KernelSize is the derivative kernel side length, odd and >= 3.
	KernelSize int
	// Norm selects the magnitude combination formula.
	Norm Norm
	// Workers is the number of goroutines partitioning the per-pixel
	// combination over row ranges. Values below 1 default to the
	// machine's CPU count.
	Workers int
}

// DefaultOptions returns the calibration this repository documents:
// 3×3 Sobel derivatives combined with the L2 norm.
func DefaultOptions() Options {
	return Options{
		KernelSize: 3,
		Norm:       NormL2,
		Workers:    runtime.NumCPU(),
	}
}

// Field holds the per-pixel gradient samples for a raster: magnitude,
// direction folded into [0, π), and the quantized direction sector.
// All three share the input's dimensions.
type Field struct {
	Mag *raster.Raster
	Dir *raster.Raster

	// Sectors holds the 4-way direction quantization, row-major, one
	// entry per pixel. A zero-magnitude pixel carries an arbitrary
	// sector; suppression never promotes such a pixel, so the value is
	// never consulted.
	Sectors []Sector
}

// Compute runs the gradient stage over the input raster. It fails with
// kernel.ErrInvalidKernelSize before touching any pixel if the kernel
// size is even or below 3; once configuration validates, the stage is a
// pure, total function of its input.
func Compute(in *raster.Raster, opts Options) (*Field, error) {
	if err := kernel.ValidateSize(opts.KernelSize); err != nil {
		return nil, fmt.Errorf("gradient: %w", err)
	}
	kx, err := kernel.DerivativeX(opts.KernelSize)
	if err != nil {
		return nil, fmt.Errorf("gradient: %w", err)
	}
	ky, err := kernel.DerivativeY(opts.KernelSize)
	if err != nil {
		return nil, fmt.Errorf("gradient: %w", err)
	}

	// Raw derivative responses via the convolution primitive with its
	// replicate-border policy.
	gx := kernel.Convolve(in, kx)
	gy := kernel.Convolve(in, ky)

	field := &Field{
		Mag: &raster.Raster{
			Width:  in.Width,
			Height: in.Height,
			Data:   make([]float64, in.Width*in.Height),
		},
		Dir: &raster.Raster{
			Width:  in.Width,
			Height: in.Height,
			Data:   make([]float64, in.Width*in.Height),
		},
		Sectors: make([]Sector, in.Width*in.Height),
	}

	combineParallel(field, gx, gy, opts)
	return field, nil
}

// combineParallel partitions the per-pixel magnitude/direction
// combination across worker goroutines operating on disjoint row
// ranges. Workers read the shared immutable derivative rasters and
// write disjoint regions of the output, so no locking is needed.
func combineParallel(field *Field, gx, gy *raster.Raster, opts Options) {
	height := gx.Height
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > height {
		workers = height
	}
	rowsPerWorker := (height + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			startRow := workerID * rowsPerWorker
			endRow := startRow + rowsPerWorker
			if endRow > height {
				endRow = height
			}
			if startRow >= height {
				return
			}

			combineRows(field, gx, gy, startRow, endRow, opts.Norm)
		}(w)
	}
	wg.Wait()
}

// combineRows fills magnitude, direction, and sector for rows
// [startRow, endRow).
func combineRows(field *Field, gx, gy *raster.Raster, startRow, endRow int, norm Norm) {
	width := gx.Width
	for i := startRow; i < endRow; i++ {
		for j := 0; j < width; j++ {
			idx := i*width + j
			dx := gx.Data[idx]
			dy := gy.Data[idx]

			switch norm {
			case NormL1:
				field.Mag.Data[idx] = math.Abs(dx) + math.Abs(dy)
			default:
				field.Mag.Data[idx] = math.Hypot(dx, dy)
			}

			dir := Fold(math.Atan2(dy, dx))
			field.Dir.Data[idx] = dir
			field.Sectors[idx] = SectorOf(dir)
		}
	}
}
