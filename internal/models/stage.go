package models

import "cannyedge/pkg/raster"

// Stage identifies a point in the edge detection pipeline at which an
// intermediate raster can be captured for inspection.
type Stage int

const (
	// StageInput is the raster as handed to the detector, before any
	// processing.
	StageInput Stage = iota

	// StageSmoothed is the raster after optional Gaussian pre-smoothing.
	StageSmoothed

	// StageMagnitude is the combined gradient magnitude raster.
	StageMagnitude

	// StageSuppressed is the magnitude raster after non-maximum
	// suppression.
	StageSuppressed
)

// String returns the directory-friendly stage name used when stage
// results are written to disk.
func (s Stage) String() string {
	switch s {
	case StageInput:
		return "01_input"
	case StageSmoothed:
		return "02_smoothed"
	case StageMagnitude:
		return "03_magnitude"
	case StageSuppressed:
		return "04_suppressed"
	}
	return "unknown"
}

// StageResult pairs a pipeline stage with the raster it produced.
// Results are scoped to a single detector invocation; nothing persists
// across calls.
type StageResult struct {
	// Stage identifies where in the pipeline the raster was captured.
	Stage Stage

	// Raster is the captured intermediate output.
	Raster *raster.Raster
}
