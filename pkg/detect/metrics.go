package detect

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"cannyedge/pkg/hysteresis"
	"cannyedge/pkg/raster"
)

// Metrics summarizes the agreement between two edge maps of identical
// dimensions. It mirrors the edge-preservation measurements used when
// tuning the detector against a reference map.
type Metrics struct {
	// DensityA and DensityB are the fraction of set pixels in each map.
	DensityA float64
	DensityB float64

	// Overlap is |A∧B| / |A∨B| (Jaccard), 1.0 when both maps are empty.
	Overlap float64

	// Correlation is the Pearson correlation of the two maps viewed as
	// 0/1 samples. Zero when either map is constant.
	Correlation float64
}

// Compare computes agreement metrics between two edge maps. It fails
// with raster.ErrDimensionMismatch when the maps differ in shape.
func Compare(a, b *raster.Bitmap) (Metrics, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return Metrics{}, fmt.Errorf("detect: %w", raster.ErrDimensionMismatch)
	}

	n := len(a.Bits)
	fa := make([]float64, n)
	fb := make([]float64, n)
	var setA, setB, both, either int
	for i := 0; i < n; i++ {
		if a.Bits[i] {
			fa[i] = 1
			setA++
		}
		if b.Bits[i] {
			fb[i] = 1
			setB++
		}
		if a.Bits[i] && b.Bits[i] {
			both++
		}
		if a.Bits[i] || b.Bits[i] {
			either++
		}
	}

	m := Metrics{
		DensityA: float64(setA) / float64(n),
		DensityB: float64(setB) / float64(n),
		Overlap:  1,
	}
	if either > 0 {
		m.Overlap = float64(both) / float64(either)
	}
	// Correlation is undefined for a constant map; report zero rather
	// than NaN.
	if setA > 0 && setA < n && setB > 0 && setB < n {
		m.Correlation = stat.Correlation(fa, fb, nil)
	}
	return m, nil
}

// EstimateThresholds derives a hysteresis threshold pair from the
// distribution of nonzero gradient magnitudes: the high threshold is
// the given quantile of that distribution and the low threshold is
// lowRatio times the high one. Quantile must lie in (0, 1) and lowRatio
// in (0, 1]; the conventional starting point is quantile 0.9 with
// lowRatio 0.4.
//
// A raster with no nonzero magnitude (a flat image) yields (0, 0),
// which degenerates hysteresis to an all-or-nothing strong map exactly
// as the linker documents.
func EstimateThresholds(mag *raster.Raster, quantile, lowRatio float64) (low, high float64, err error) {
	if quantile <= 0 || quantile >= 1 || lowRatio <= 0 || lowRatio > 1 {
		return 0, 0, fmt.Errorf("detect: %w", hysteresis.ErrInvalidThresholds)
	}

	nonzero := make([]float64, 0, len(mag.Data))
	for _, v := range mag.Data {
		if v > 0 {
			nonzero = append(nonzero, v)
		}
	}
	if len(nonzero) == 0 {
		return 0, 0, nil
	}

	// stat.Quantile requires sorted input.
	sort.Float64s(nonzero)
	high = stat.Quantile(quantile, stat.Empirical, nonzero, nil)
	low = high * lowRatio
	return low, high, nil
}
