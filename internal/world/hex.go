// Package world provides the hex grid, terrain, and map generation.
// Uses axial coordinates (q, r) for the hex grid; s is derived.
package world

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r, so q + r + s == 0
// holds for every value of this type.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Cube builds a coordinate from all three cube components. Passing
// components that do not sum to zero is a programming error.
func Cube(q, r, s int) HexCoord {
	if q+r+s != 0 {
		panic(fmt.Sprintf("world: invalid cube coordinate (%d,%d,%d)", q, r, s))
	}
	return HexCoord{Q: q, R: r}
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns the component-wise sum of two coordinates.
func (h HexCoord) Add(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q + o.Q, R: h.R + o.R}
}

// Scale multiplies a coordinate vector by k.
func (h HexCoord) Scale(k int) HexCoord {
	return HexCoord{Q: h.Q * k, R: h.R * k}
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", h.Q, h.R, h.S())
}

// Less orders coordinates by q then r. Used wherever a stable order is needed.
func (h HexCoord) Less(o HexCoord) bool {
	if h.Q != o.Q {
		return h.Q < o.Q
	}
	return h.R < o.R
}

// HexNeighborDirections defines the six neighbor offsets in clockwise order
// for a flat-top layout with y growing downward: N, NE, SE, S, SW, NW.
// Every search and scan in this module breaks ties in this order.
var HexNeighborDirections = [6]HexCoord{
	{Q: 0, R: -1},
	{Q: 1, R: -1},
	{Q: 1, R: 0},
	{Q: 0, R: 1},
	{Q: -1, R: 1},
	{Q: -1, R: 0},
}

// Direction returns the unit vector for direction index i (mod 6).
func Direction(i int) HexCoord {
	return HexNeighborDirections[((i%6)+6)%6]
}

// Neighbor returns the adjacent coordinate in direction i.
func (h HexCoord) Neighbor(i int) HexCoord {
	return h.Add(Direction(i))
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	return max3(abs(a.Q-b.Q), abs(a.R-b.R), abs(a.S()-b.S()))
}

// Ring returns the coordinates exactly n steps from center, starting at the
// south-west corner and walking the directions in order.
func Ring(center HexCoord, n int) []HexCoord {
	if n <= 0 {
		return []HexCoord{center}
	}
	out := make([]HexCoord, 0, 6*n)
	cur := center.Add(Direction(4).Scale(n))
	for i := 0; i < 6; i++ {
		for j := 0; j < n; j++ {
			out = append(out, cur)
			cur = cur.Neighbor(i)
		}
	}
	return out
}

// Spiral returns the center followed by rings 1..n.
func Spiral(center HexCoord, n int) []HexCoord {
	out := make([]HexCoord, 0, 1+3*n*(n+1))
	out = append(out, center)
	for k := 1; k <= n; k++ {
		out = append(out, Ring(center, k)...)
	}
	return out
}

// Round converts fractional cube coordinates to the nearest hex.
func Round(fq, fr, fs float64) HexCoord {
	q := math.Round(fq)
	r := math.Round(fr)
	s := math.Round(fs)

	dq := math.Abs(q - fq)
	dr := math.Abs(r - fr)
	ds := math.Abs(s - fs)

	if dq > dr && dq > ds {
		q = -r - s
	} else if dr > ds {
		r = -q - s
	}
	return HexCoord{Q: int(q), R: int(r)}
}

// Nudge keeps lines that run exactly along hex edges from rounding
// inconsistently.
const (
	nudgeQ = 1e-6
	nudgeR = 2e-6
	nudgeS = -3e-6
)

// Line returns the hexes on the straight line from a to b, both inclusive.
func Line(a, b HexCoord) []HexCoord {
	n := Distance(a, b)
	out := make([]HexCoord, 0, n+1)
	if n == 0 {
		return append(out, a)
	}
	aq, ar, as := float64(a.Q)+nudgeQ, float64(a.R)+nudgeR, float64(a.S())+nudgeS
	bq, br, bs := float64(b.Q)+nudgeQ, float64(b.R)+nudgeR, float64(b.S())+nudgeS
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		out = append(out, Round(lerp(aq, bq, t), lerp(ar, br, t), lerp(as, bs, t)))
	}
	return out
}

// Point is a position in pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToPixel projects a hex center to pixel space for a flat-top layout.
func ToPixel(h HexCoord, size float64) Point {
	return Point{
		X: size * 1.5 * float64(h.Q),
		Y: size * math.Sqrt(3) * (float64(h.R) + float64(h.Q)/2),
	}
}

// ToHex returns the hex containing the pixel for a flat-top layout.
func ToHex(p Point, size float64) HexCoord {
	fq := (2.0 / 3.0 * p.X) / size
	fr := (-1.0/3.0*p.X + math.Sqrt(3)/3.0*p.Y) / size
	return Round(fq, fr, -fq-fr)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func max3[T constraints.Signed](a, b, c T) T {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
