package gradient

import (
	"math"
	"testing"
)

// TestSectorOf verifies the 45° bin boundaries, including the wrap of
// the 0° sector at the top of the folded range
func TestSectorOf(t *testing.T) {
	deg := func(d float64) float64 { return d * math.Pi / 180 }

	cases := []struct {
		degrees float64
		want    Sector
	}{
		{0, Sector0},
		{10, Sector0},
		{22.4, Sector0},
		{22.5, Sector45},
		{45, Sector45},
		{67.4, Sector45},
		{67.5, Sector90},
		{90, Sector90},
		{112.4, Sector90},
		{112.5, Sector135},
		{135, Sector135},
		{157.4, Sector135},
		{157.5, Sector0},
		{179.9, Sector0},
	}
	for _, c := range cases {
		if got := SectorOf(deg(c.degrees)); got != c.want {
			t.Errorf("SectorOf(%v°) = %v, want %v", c.degrees, got, c.want)
		}
	}
}

// TestFold verifies the line-symmetry folding of atan2 output
func TestFold(t *testing.T) {
	cases := []struct {
		angle, want float64
	}{
		{0, 0},
		{math.Pi / 4, math.Pi / 4},
		{-math.Pi / 4, 3 * math.Pi / 4},
		{-math.Pi / 2, math.Pi / 2},
		{math.Pi, 0},
	}
	for _, c := range cases {
		if got := Fold(c.angle); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("Fold(%v) = %v, want %v", c.angle, got, c.want)
		}
		if got := Fold(c.angle); got < 0 || got >= math.Pi {
			t.Errorf("Fold(%v) = %v outside [0, π)", c.angle, got)
		}
	}
}

// TestNeighbors verifies the sector lookup table: each sector selects
// two opposing displacements along the gradient axis
func TestNeighbors(t *testing.T) {
	cases := []struct {
		sector Sector
		want   NeighborPair
	}{
		{Sector0, NeighborPair{{0, -1}, {0, 1}}},
		{Sector45, NeighborPair{{-1, -1}, {1, 1}}},
		{Sector90, NeighborPair{{-1, 0}, {1, 0}}},
		{Sector135, NeighborPair{{-1, 1}, {1, -1}}},
	}
	for _, c := range cases {
		got := c.sector.Neighbors()
		if got != c.want {
			t.Errorf("%v neighbors = %v, want %v", c.sector, got, c.want)
		}
		// The two displacements must be exact opposites
		if got[0].DI != -got[1].DI || got[0].DJ != -got[1].DJ {
			t.Errorf("%v displacements are not opposing: %v", c.sector, got)
		}
	}
}
