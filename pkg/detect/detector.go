// Package detect wires the edge detection stages into a single
// pipeline: optional Gaussian pre-smoothing, directional gradient
// computation, non-maximum suppression, and double-threshold hysteresis
// linking. The detector is a pure function of (raster, parameters):
// configuration is validated eagerly before any pixel work, every stage
// allocates its own output, and nothing persists between invocations.
package detect

import (
	"fmt"

	"cannyedge/internal/models"
	"cannyedge/pkg/gradient"
	"cannyedge/pkg/hysteresis"
	"cannyedge/pkg/kernel"
	"cannyedge/pkg/raster"
	"cannyedge/pkg/suppress"
)

// Params holds the detection parameters for one pipeline invocation.
type Params struct {
	// KernelSize is the derivative kernel side length, odd and >= 3.
	KernelSize int

	// LowThreshold and HighThreshold are the hysteresis thresholds, in
	// the same units as the magnitude computation: with 0-255 input
	// intensities, a 3×3 Sobel kernel and the L2 norm, useful values
	// commonly land in the 50-150 range.
	LowThreshold  float64
	HighThreshold float64

	// Norm selects the magnitude combination formula; see gradient.Norm
	// for the calibration implications.
	Norm gradient.Norm

	// Smooth enables Gaussian pre-smoothing before the gradient stage.
	Smooth bool

	// SmoothKernelSize and SmoothSigma configure the smoothing kernel
	// when Smooth is set. A sigma at or below zero derives one from the
	// kernel size.
	SmoothKernelSize int
	SmoothSigma      float64

	// Workers bounds the goroutines used by the row-parallel stages.
	// Values below 1 use the machine's CPU count.
	Workers int

	// KeepStages retains intermediate stage rasters on the Result for
	// inspection and visualization.
	KeepStages bool
}

// DefaultParams returns the documented default calibration: 3×3 Sobel
// derivatives, L2 magnitude, 5×5 Gaussian smoothing, and the 50/150
// threshold pair conventional for 0-255 input.
func DefaultParams() Params {
	return Params{
		KernelSize:       3,
		LowThreshold:     50,
		HighThreshold:    150,
		Norm:             gradient.NormL2,
		Smooth:           true,
		SmoothKernelSize: 5,
		SmoothSigma:      1.4,
	}
}

// Validate checks the parameter set eagerly, before any pixel
// processing, so an invalid configuration can never yield partial
// output.
func (p Params) Validate() error {
	if err := kernel.ValidateSize(p.KernelSize); err != nil {
		return fmt.Errorf("detect: derivative kernel: %w", err)
	}
	if p.Smooth {
		if err := kernel.ValidateSize(p.SmoothKernelSize); err != nil {
			return fmt.Errorf("detect: smoothing kernel: %w", err)
		}
	}
	if p.LowThreshold < 0 || p.HighThreshold < 0 || p.LowThreshold > p.HighThreshold {
		return fmt.Errorf("detect: %w", hysteresis.ErrInvalidThresholds)
	}
	return nil
}

// Result carries the final edge map and, when requested, the
// intermediate stage rasters in pipeline order.
type Result struct {
	// Edges is the final binary edge raster, same dimensions as the
	// input.
	Edges *raster.Bitmap

	// Stages holds captured intermediates when Params.KeepStages is
	// set; empty otherwise.
	Stages []models.StageResult
}

// Detector runs the edge detection pipeline with a fixed parameter set.
type Detector struct {
	params Params
}

// NewDetector validates the parameters and returns a detector. The
// returned detector is safe for concurrent use: Detect carries no
// state between calls.
func NewDetector(params Params) (*Detector, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Detector{params: params}, nil
}

// Params returns the detector's parameter set.
func (d *Detector) Params() Params {
	return d.params
}

// Detect runs the full pipeline over the input raster and returns the
// binary edge map. The input is never written.
func (d *Detector) Detect(in *raster.Raster) (*Result, error) {
	p := d.params
	result := &Result{}
	keep := func(stage models.Stage, r *raster.Raster) {
		if p.KeepStages {
			result.Stages = append(result.Stages, models.StageResult{Stage: stage, Raster: r})
		}
	}
	keep(models.StageInput, in)

	// Stage 1: optional Gaussian smoothing through the convolution
	// primitive. From the gradient stage's perspective the smoothed
	// raster is just another input of the same dimensions.
	work := in
	if p.Smooth {
		gk, err := kernel.Gaussian(p.SmoothKernelSize, p.SmoothSigma)
		if err != nil {
			return nil, fmt.Errorf("detect: %w", err)
		}
		work = kernel.Convolve(work, gk)
		keep(models.StageSmoothed, work)
	}

	// Stage 2: directional gradients.
	field, err := gradient.Compute(work, gradient.Options{
		KernelSize: p.KernelSize,
		Norm:       p.Norm,
		Workers:    p.Workers,
	})
	if err != nil {
		return nil, err
	}
	keep(models.StageMagnitude, field.Mag)

	// Stage 3: non-maximum suppression.
	thinned, err := suppress.Run(field, suppress.Options{Workers: p.Workers})
	if err != nil {
		return nil, err
	}
	keep(models.StageSuppressed, thinned)

	// Stage 4: double-threshold hysteresis linking.
	edges, err := hysteresis.Link(thinned, p.LowThreshold, p.HighThreshold)
	if err != nil {
		return nil, err
	}
	result.Edges = edges

	return result, nil
}
