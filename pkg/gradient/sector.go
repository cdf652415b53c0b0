package gradient

import "math"

// Sector is the coarse 4-way quantization of a gradient direction used
// to pick which two neighbors compete with a pixel during non-maximum
// suppression. Each sector spans a 45° arc centered on its nominal
// angle, after the direction has been folded into [0, π).
type Sector uint8

const (
	// Sector0 covers directions near 0°/180° (horizontal gradient,
	// vertical edge): the pixel competes with its left and right
	// neighbors.
	Sector0 Sector = iota
	// Sector45 covers directions near 45°.
	Sector45
	// Sector90 covers directions near 90° (vertical gradient, horizontal
	// edge): the pixel competes with the neighbors above and below.
	Sector90
	// Sector135 covers directions near 135°.
	Sector135

	numSectors = 4
)

// Offset is a (row, column) displacement from a pixel.
type Offset struct {
	DI, DJ int
}

// NeighborPair is the two opposing displacements along a sector's axis.
type NeighborPair [2]Offset

// sectorNeighbors maps each sector to the two neighbors lying along the
// gradient axis. Row index grows downward, so a 45° direction
// (cos 45°, sin 45°) steps right and down.
var sectorNeighbors = [numSectors]NeighborPair{
	Sector0:   {{0, -1}, {0, 1}},
	Sector45:  {{-1, -1}, {1, 1}},
	Sector90:  {{-1, 0}, {1, 0}},
	Sector135: {{-1, 1}, {1, -1}},
}

// Neighbors returns the two neighbor displacements for the sector.
func (s Sector) Neighbors() NeighborPair {
	return sectorNeighbors[s]
}

// String implements fmt.Stringer for diagnostics.
func (s Sector) String() string {
	switch s {
	case Sector0:
		return "0°"
	case Sector45:
		return "45°"
	case Sector90:
		return "90°"
	case Sector135:
		return "135°"
	}
	return "invalid"
}

// SectorOf quantizes a folded direction (radians in [0, π)) into its
// sector. The 0° sector wraps: it covers [157.5°, 180°) as well as
// [0°, 22.5°).
func SectorOf(dir float64) Sector {
	deg := dir * 180 / math.Pi
	switch {
	case deg < 22.5 || deg >= 157.5:
		return Sector0
	case deg < 67.5:
		return Sector45
	case deg < 112.5:
		return Sector90
	default:
		return Sector135
	}
}

// Fold maps an atan2 angle in (-π, π] into the line-symmetric range
// [0, π): a gradient and its 180°-rotated opposite describe the same
// edge orientation.
func Fold(angle float64) float64 {
	if angle < 0 {
		angle += math.Pi
	}
	if angle >= math.Pi {
		angle -= math.Pi
	}
	return angle
}
