package hysteresis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cannyedge/pkg/raster"
)

func mustRaster(t *testing.T, width, height int, data []float64) *raster.Raster {
	t.Helper()
	r, err := raster.FromData(width, height, data)
	require.NoError(t, err)
	return r
}

// TestLinkInvalidThresholds verifies eager validation: low > high and
// negative thresholds fail before any pixel work.
func TestLinkInvalidThresholds(t *testing.T) {
	m := mustRaster(t, 3, 3, make([]float64, 9))

	_, err := Link(m, 100, 50)
	assert.ErrorIs(t, err, ErrInvalidThresholds)

	_, err = Link(m, -1, 50)
	assert.ErrorIs(t, err, ErrInvalidThresholds)

	_, err = Link(m, 0, -5)
	assert.ErrorIs(t, err, ErrInvalidThresholds)
}

// TestClassify verifies the three-way classification boundaries: the
// low threshold is inclusive for weak, the high threshold inclusive for
// strong.
func TestClassify(t *testing.T) {
	m := mustRaster(t, 5, 1, []float64{0, 49.9, 50, 99.9, 100})

	classes, err := Classify(m, 50, 100)
	require.NoError(t, err)

	assert.Equal(t, []Class{Rejected, Rejected, Weak, Weak, Strong}, classes)
}

// TestLinkStrongAlwaysRejectedNever verifies the classification
// guarantees on the final map.
func TestLinkStrongAlwaysRejectedNever(t *testing.T) {
	// 150 strong, 75 weak but isolated from strong, 10 rejected
	m := mustRaster(t, 5, 5, []float64{
		150, 0, 0, 0, 75,
		0, 0, 0, 0, 0,
		0, 0, 10, 0, 0,
		0, 0, 0, 0, 0,
		75, 0, 0, 0, 150,
	})

	edges, err := Link(m, 50, 100)
	require.NoError(t, err)

	assert.True(t, edges.At(0, 0), "strong pixel must be an edge")
	assert.True(t, edges.At(4, 4), "strong pixel must be an edge")
	assert.False(t, edges.At(2, 2), "rejected pixel must never be an edge")
	assert.False(t, edges.At(0, 4), "weak pixel without a strong link must stay unset")
	assert.False(t, edges.At(4, 0), "weak pixel without a strong link must stay unset")
	assert.Equal(t, 2, edges.Count())
}

// TestLinkPromotesConnectedWeak verifies transitive promotion through a
// chain of weak pixels, including diagonal steps.
func TestLinkPromotesConnectedWeak(t *testing.T) {
	// A strong seed at (0,0) with a weak chain running to (3,3) via a
	// diagonal hop; a second weak group is disconnected from it.
	m := mustRaster(t, 5, 5, []float64{
		150, 75, 0, 0, 0,
		0, 75, 0, 0, 0,
		0, 0, 75, 0, 0,
		0, 0, 0, 75, 0,
		0, 0, 0, 0, 0,
	})

	edges, err := Link(m, 50, 100)
	require.NoError(t, err)

	// Whole chain promoted through 8-connectivity
	for _, pt := range [][2]int{{0, 0}, {0, 1}, {1, 1}, {2, 2}, {3, 3}} {
		assert.True(t, edges.At(pt[0], pt[1]), "chain pixel (%d,%d) should be promoted", pt[0], pt[1])
	}
	assert.Equal(t, 5, edges.Count())
}

// TestLinkWeakIslandStaysUnset verifies that a weak component with no
// strong seed is never promoted.
func TestLinkWeakIslandStaysUnset(t *testing.T) {
	m := mustRaster(t, 4, 4, []float64{
		0, 0, 0, 0,
		0, 75, 75, 0,
		0, 75, 75, 0,
		0, 0, 0, 0,
	})

	edges, err := Link(m, 50, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, edges.Count())
}

// TestLinkEqualThresholds verifies the degenerate low == high case:
// the weak set collapses to empty, linking contributes nothing, and the
// result is pure strong-threshold binarization. Exercises magnitudes
// {50, 100, 150} against the 100/100 pair.
func TestLinkEqualThresholds(t *testing.T) {
	m := mustRaster(t, 3, 3, []float64{
		50, 0, 100,
		0, 0, 0,
		150, 0, 0,
	})

	edges, err := Link(m, 100, 100)
	require.NoError(t, err)

	assert.False(t, edges.At(0, 0), "magnitude 50 below both thresholds")
	assert.True(t, edges.At(0, 2), "magnitude 100 meets the high threshold")
	assert.True(t, edges.At(2, 0), "magnitude 150 exceeds the high threshold")
	assert.Equal(t, 2, edges.Count())
}

// TestLinkZeroHighThreshold verifies the degenerate high == 0 case:
// every pixel is strong, a single-threshold edge map.
func TestLinkZeroHighThreshold(t *testing.T) {
	m := mustRaster(t, 2, 2, []float64{0, 5, 10, 0})

	edges, err := Link(m, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, edges.Count())
}

// TestLinkAllZero verifies a flat suppressed raster yields an all-false
// map under any positive threshold pair.
func TestLinkAllZero(t *testing.T) {
	m := mustRaster(t, 10, 10, make([]float64, 100))

	edges, err := Link(m, 50, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, edges.Count())
}

// TestLinkMonotonicThresholds verifies that raising both thresholds
// never adds edge pixels: edges(low2, high2) ⊆ edges(low, high) for
// low2 >= low, high2 >= high.
func TestLinkMonotonicThresholds(t *testing.T) {
	width, height := 12, 12
	data := make([]float64, width*height)
	for i := 0; i < height; i++ {
		for j := 0; j < width; j++ {
			data[i*width+j] = float64((i*29 + j*13) % 180)
		}
	}
	m := mustRaster(t, width, height, data)

	loose, err := Link(m, 40, 90)
	require.NoError(t, err)
	tight, err := Link(m, 60, 120)
	require.NoError(t, err)

	for idx := range tight.Bits {
		if tight.Bits[idx] {
			assert.True(t, loose.Bits[idx],
				"pixel %d set under tighter thresholds but not looser ones", idx)
		}
	}
	assert.LessOrEqual(t, tight.Count(), loose.Count())
}

// TestLinkDeepComponent verifies the explicit queue handles a long
// serpentine weak chain that would overflow a naive recursive fill.
func TestLinkDeepComponent(t *testing.T) {
	width, height := 201, 201
	data := make([]float64, width*height)
	// Serpentine path: weak along every even row, connected at
	// alternating ends by weak column segments.
	for i := 0; i < height; i += 2 {
		for j := 0; j < width; j++ {
			data[i*width+j] = 75
		}
		if i+1 < height {
			col := 0
			if (i/2)%2 == 1 {
				col = width - 1
			}
			data[(i+1)*width+col] = 75
		}
	}
	// Single strong seed at the start of the path
	data[0] = 150
	m := mustRaster(t, width, height, data)

	edges, err := Link(m, 50, 100)
	require.NoError(t, err)

	// Every path pixel is reachable from the seed
	want := 0
	for _, v := range data {
		if v > 0 {
			want++
		}
	}
	assert.Equal(t, want, edges.Count())
}
