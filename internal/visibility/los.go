// Package visibility computes what a unit can see from its tile and derives
// each player's fog-of-war state from that.
package visibility

import (
	"slices"

	"github.com/talgya/hexsim/internal/world"
)

// Rules are the configurable parts of line of sight.
type Rules struct {
	ForestBlocksSight bool
}

// DefaultRules blocks sight on mountains only.
func DefaultRules() Rules {
	return Rules{}
}

// Opaque reports whether terrain blocks sight to tiles behind it.
func Opaque(t world.Terrain, rules Rules) bool {
	switch t {
	case world.TerrainMountain:
		return true
	case world.TerrainForest:
		return rules.ForestBlocksSight
	}
	return false
}

// Set is a set of coordinates.
type Set map[world.HexCoord]struct{}

// Add inserts c.
func (s Set) Add(c world.HexCoord) { s[c] = struct{}{} }

// Contains reports whether c is in the set.
func (s Set) Contains(c world.HexCoord) bool {
	_, ok := s[c]
	return ok
}

// Union adds every member of o to s.
func (s Set) Union(o Set) {
	for c := range o {
		s[c] = struct{}{}
	}
}

// Coords returns the members in stable q-then-r order.
func (s Set) Coords() []world.HexCoord {
	out := make([]world.HexCoord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b world.HexCoord) int {
		if a.Q != b.Q {
			return a.Q - b.Q
		}
		return a.R - b.R
	})
	return out
}

// VisibleTiles returns the map tiles a viewer at origin can see within
// radius. Without shadowCasting every tile within radius is visible. With it,
// a tile is visible only when no opaque tile lies strictly between origin and
// the tile on the hex line joining them; the blocking tile itself stays
// visible.
func VisibleTiles(m *world.Map, origin world.HexCoord, radius int, shadowCasting bool, rules Rules) Set {
	out := make(Set)
	if radius < 0 {
		return out
	}
	for _, c := range world.Spiral(origin, radius) {
		if m.Get(c) == nil {
			continue
		}
		if shadowCasting && blocked(m, origin, c, rules) {
			continue
		}
		out.Add(c)
	}
	return out
}

func blocked(m *world.Map, origin, target world.HexCoord, rules Rules) bool {
	line := world.Line(origin, target)
	if len(line) < 3 {
		return false
	}
	for _, c := range line[1 : len(line)-1] {
		if t := m.Get(c); t != nil && Opaque(t.Terrain, rules) {
			return true
		}
	}
	return false
}

// CanSee reports whether target is visible from origin within radius.
func CanSee(m *world.Map, origin, target world.HexCoord, radius int, rules Rules) bool {
	if m.Get(target) == nil || world.Distance(origin, target) > radius {
		return false
	}
	if origin == target {
		return true
	}
	return !blocked(m, origin, target, rules)
}
