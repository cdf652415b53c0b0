// Package kernel implements the convolution primitive consumed by the
// edge detection core: odd-sized square kernels applied to a raster with
// replicate-border extension, plus constructors for the derivative and
// Gaussian kernels the pipeline uses.
//
// Border policy is fixed to REPLICATE: samples outside the raster read
// the nearest edge pixel. Replicating avoids the spurious high-gradient
// ring that zero padding produces at the image boundary.
package kernel

import (
	"errors"
	"math"

	"cannyedge/pkg/raster"
)

// Sentinel errors for kernel construction.
var (
	// ErrInvalidKernelSize indicates a kernel size that is even or below 3.
	ErrInvalidKernelSize = errors.New("kernel: size must be an odd integer >= 3")
	// ErrWeightCount indicates a weight slice whose length does not match
	// the declared kernel size.
	ErrWeightCount = errors.New("kernel: weights length does not match size*size")
)

// Kernel is a square convolution kernel of odd size.
type Kernel struct {
	// Size is the kernel side length (odd, >= 3).
	Size int

	// Weights holds Size*Size coefficients in row-major order.
	Weights []float64
}

// New validates the size and wraps the given weights. The weights slice
// must hold exactly size*size coefficients.
func New(size int, weights []float64) (*Kernel, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	if len(weights) != size*size {
		return nil, ErrWeightCount
	}
	k := &Kernel{Size: size, Weights: make([]float64, size*size)}
	copy(k.Weights, weights)
	return k, nil
}

// ValidateSize returns ErrInvalidKernelSize unless size is odd and >= 3.
func ValidateSize(size int) error {
	if size < 3 || size%2 == 0 {
		return ErrInvalidKernelSize
	}
	return nil
}

// At returns the weight at kernel row u, column v.
func (k *Kernel) At(u, v int) float64 {
	return k.Weights[u*k.Size+v]
}

// Outer builds a size×size kernel as the outer product col ⊗ row.
// Both vectors must have length size. This is how the separable
// derivative and smoothing kernels below are assembled.
func Outer(col, row []float64) (*Kernel, error) {
	size := len(col)
	if len(row) != size {
		return nil, ErrWeightCount
	}
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	k := &Kernel{Size: size, Weights: make([]float64, size*size)}
	for u := 0; u < size; u++ {
		for v := 0; v < size; v++ {
			k.Weights[u*size+v] = col[u] * row[v]
		}
	}
	return k, nil
}

// Convolve applies the kernel to the raster and returns a same-size
// response raster. Out-of-bounds taps replicate the nearest edge sample.
// The kernel is applied as written (cross-correlation, no 180° flip),
// which is the convention the derivative constructors assume.
// The operation is deterministic and side-effect free; the input raster
// is never written.
func Convolve(r *raster.Raster, k *Kernel) *raster.Raster {
	out := &raster.Raster{
		Width:  r.Width,
		Height: r.Height,
		Data:   make([]float64, r.Width*r.Height),
	}
	half := k.Size / 2
	for i := 0; i < r.Height; i++ {
		for j := 0; j < r.Width; j++ {
			var sum float64
			for u := 0; u < k.Size; u++ {
				si := clamp(i+u-half, 0, r.Height-1)
				for v := 0; v < k.Size; v++ {
					sj := clamp(j+v-half, 0, r.Width-1)
					sum += r.Data[si*r.Width+sj] * k.Weights[u*k.Size+v]
				}
			}
			out.Data[i*r.Width+j] = sum
		}
	}
	return out
}

// DerivativeX returns the horizontal derivative kernel of the given odd
// size. Size 3 is the classical Sobel operator, the outer product of the
// smoothing vector [1 2 1] and the central-difference vector [-1 0 1];
// larger sizes generalize both vectors binomially.
func DerivativeX(size int) (*Kernel, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	return Outer(smoothingVector(size), differenceVector(size))
}

// DerivativeY returns the vertical derivative kernel of the given odd
// size: the transpose of DerivativeX. Positive responses point down the
// image (row index grows downward).
func DerivativeY(size int) (*Kernel, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	return Outer(differenceVector(size), smoothingVector(size))
}

// Gaussian returns a normalized Gaussian smoothing kernel. Sigma at or
// below zero defaults to size/6, a common rule keeping the kernel
// support near three standard deviations.
func Gaussian(size int, sigma float64) (*Kernel, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	if sigma <= 0 {
		sigma = float64(size) / 6.0
	}
	half := size / 2
	k := &Kernel{Size: size, Weights: make([]float64, size*size)}
	var sum float64
	for u := 0; u < size; u++ {
		for v := 0; v < size; v++ {
			du := float64(u - half)
			dv := float64(v - half)
			w := math.Exp(-(du*du + dv*dv) / (2 * sigma * sigma))
			k.Weights[u*size+v] = w
			sum += w
		}
	}
	for i := range k.Weights {
		k.Weights[i] /= sum
	}
	return k, nil
}

// smoothingVector returns the binomial smoothing column of the Sobel
// family: [1 2 1] for size 3, extended by repeated [1 1] convolution.
func smoothingVector(size int) []float64 {
	v := []float64{1}
	for len(v) < size {
		next := make([]float64, len(v)+1)
		for i, w := range v {
			next[i] += w
			next[i+1] += w
		}
		v = next
	}
	return v
}

// differenceVector returns the central-difference row: the discrete
// derivative of the binomial smoothing vector, [-1 0 1] for size 3.
func differenceVector(size int) []float64 {
	s := smoothingVector(size - 1)
	d := make([]float64, size)
	// Negative weight at the lower tap, positive at the higher, so the
	// response is positive when intensity increases with the coordinate.
	for i, w := range s {
		d[i] -= w
		d[i+1] += w
	}
	return d
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
