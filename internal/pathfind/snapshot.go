package pathfind

import "github.com/talgya/hexsim/internal/world"

// Snapshot is a self-contained copy of the passable tiles around a search:
// coordinate to entry cost. It is what gets handed to a worker, never a live
// map reference.
type Snapshot map[world.HexCoord]int

// NewSnapshot copies the passable tiles within radius of center.
func NewSnapshot(m *world.Map, passable func(t *world.Tile) bool, center world.HexCoord, radius int) Snapshot {
	snap := make(Snapshot)
	cost := TerrainCosts(m, passable)
	for _, c := range world.Spiral(center, radius) {
		if v, ok := cost(c); ok {
			snap[c] = v
		}
	}
	return snap
}

// Costs turns the snapshot into a CostFunc.
func (s Snapshot) Costs() CostFunc {
	return func(c world.HexCoord) (int, bool) {
		v, ok := s[c]
		return v, ok
	}
}
