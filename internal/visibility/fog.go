package visibility

import "github.com/talgya/hexsim/internal/world"

// FogState is a player's knowledge of one tile. It is always derived, never
// stored.
type FogState uint8

const (
	FogUnexplored FogState = iota // never seen
	FogExplored                   // seen before but not now
	FogVisible                    // currently visible
)

var fogNames = [...]string{"unexplored", "explored", "visible"}

func (f FogState) String() string {
	if int(f) < len(fogNames) {
		return fogNames[f]
	}
	return "unknown"
}

// Viewer is anything that sees: a unit at a tile with a vision radius.
type Viewer struct {
	At     world.HexCoord
	Radius int
}

// PlayerVisible unions the shadow-cast sight of every viewer.
func PlayerVisible(m *world.Map, viewers []Viewer, rules Rules) Set {
	out := make(Set)
	for _, v := range viewers {
		out.Union(VisibleTiles(m, v.At, v.Radius, true, rules))
	}
	return out
}

// FogOf derives the fog state of a tile for player given the player's
// current visible set.
func FogOf(t *world.Tile, visible Set, player world.PlayerID) FogState {
	switch {
	case visible.Contains(t.Coord):
		return FogVisible
	case t.IsExploredBy(player):
		return FogExplored
	default:
		return FogUnexplored
	}
}

// Reveal marks every visible tile as explored by player on m, copying tiles
// before changing them. It returns how many tiles were newly explored.
func Reveal(m *world.Map, visible Set, player world.PlayerID) int {
	n := 0
	for _, c := range visible.Coords() {
		t := m.Get(c)
		if t == nil || t.IsExploredBy(player) {
			continue
		}
		m.Update(c, func(t *world.Tile) { t.ExploredBy = t.WithExplorer(player) })
		n++
	}
	return n
}
