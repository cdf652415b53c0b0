// Package hysteresis implements double-threshold edge linking: pixels
// of a suppressed magnitude raster are classified strong, weak, or
// rejected against two thresholds, then weak pixels are promoted into
// the final binary edge map only if an 8-connected path of weak pixels
// links them to a strong pixel.
package hysteresis

import (
	"errors"
	"fmt"

	"cannyedge/pkg/raster"
)

// ErrInvalidThresholds indicates a negative threshold or low > high.
var ErrInvalidThresholds = errors.New("hysteresis: thresholds must satisfy 0 <= low <= high")

// Class is the three-way pixel classification produced by thresholding.
type Class uint8

const (
	// Rejected pixels fall below the low threshold and are discarded
	// permanently.
	Rejected Class = iota
	// Weak pixels sit between the thresholds; they become edges only
	// through connectivity to a strong pixel.
	Weak
	// Strong pixels meet the high threshold and are always edges.
	Strong
)

// String implements fmt.Stringer for diagnostics.
func (c Class) String() string {
	switch c {
	case Rejected:
		return "rejected"
	case Weak:
		return "weak"
	case Strong:
		return "strong"
	}
	return "invalid"
}

// eightNeighbors is the 8-connectivity offset set used by the linking
// flood: a pixel and its 8 immediate neighbors.
var eightNeighbors = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Classify maps every pixel of the suppressed magnitude raster to its
// class: Rejected below low, Strong at or above high, Weak between.
// The returned slice is row-major, one entry per pixel.
func Classify(m *raster.Raster, low, high float64) ([]Class, error) {
	if low < 0 || high < 0 || low > high {
		return nil, ErrInvalidThresholds
	}
	classes := make([]Class, len(m.Data))
	for idx, v := range m.Data {
		switch {
		case v >= high:
			classes[idx] = Strong
		case v >= low:
			classes[idx] = Weak
		}
	}
	return classes, nil
}

// Link produces the binary edge map from a suppressed magnitude raster
// and a threshold pair. Every strong pixel is an edge; a weak pixel is
// an edge iff it is reachable from some strong pixel through a chain of
// weak pixels under 8-connectivity. Rejected pixels never appear.
//
// The flood is an explicit-queue breadth-first traversal seeded from
// every strong pixel; connected components in an image can run deep
// enough to overflow a recursive fill, so recursion is never used. Each
// pixel is enqueued at most once (the edge map doubles as the visited
// marking), which bounds the traversal at O(W×H) and guarantees
// termination on any finite raster. Traversal order does not affect the
// result; reachability is order-independent.
//
// Link fails with ErrInvalidThresholds before any pixel work if low >
// high or either threshold is negative.
func Link(m *raster.Raster, low, high float64) (*raster.Bitmap, error) {
	classes, err := Classify(m, low, high)
	if err != nil {
		return nil, fmt.Errorf("hysteresis: %w", err)
	}

	edges := &raster.Bitmap{
		Width:  m.Width,
		Height: m.Height,
		Bits:   make([]bool, len(m.Data)),
	}

	// Seed the queue with every strong pixel, marking them edges
	// immediately so they also serve as visited flags.
	queue := make([]int, 0, len(m.Data)/8)
	for idx, c := range classes {
		if c == Strong {
			edges.Bits[idx] = true
			queue = append(queue, idx)
		}
	}

	// Flood outward through weak pixels. The queue index walks forward
	// instead of popping so the backing array is reused.
	width := m.Width
	height := m.Height
	for qi := 0; qi < len(queue); qi++ {
		idx := queue[qi]
		i, j := idx/width, idx%width
		for _, d := range eightNeighbors {
			ni, nj := i+d[0], j+d[1]
			if ni < 0 || ni >= height || nj < 0 || nj >= width {
				continue
			}
			nIdx := ni*width + nj
			if edges.Bits[nIdx] || classes[nIdx] != Weak {
				continue
			}
			edges.Bits[nIdx] = true
			queue = append(queue, nIdx)
		}
	}

	return edges, nil
}
