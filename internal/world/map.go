package world

import (
	"fmt"
	"maps"
	"slices"
)

// Map holds the hex grid: every tile keyed by coordinate plus a stable
// coordinate order so iteration never depends on Go map ordering.
//
// Tiles are shared between game states. Never mutate a tile returned by Get
// on a map you did not just Clone; use Update, which copies first.
type Map struct {
	Tiles  map[HexCoord]*Tile
	Radius int
	Width  int
	Height int

	order []HexCoord
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Tiles:  make(map[HexCoord]*Tile),
		Radius: radius,
		Width:  2*radius + 1,
		Height: 2*radius + 1,
	}
}

// FromTiles rebuilds a map from a flat tile list, for example a snapshot.
func FromTiles(radius int, tiles []Tile) (*Map, error) {
	m := NewMap(radius)
	for i := range tiles {
		t := tiles[i]
		if !m.InBounds(t.Coord) {
			return nil, fmt.Errorf("tile %s outside radius %d", t.Coord, radius)
		}
		if m.Get(t.Coord) != nil {
			return nil, fmt.Errorf("duplicate tile %s", t.Coord)
		}
		m.Set(&t)
	}
	return m, nil
}

// Get returns the tile at the given coordinate, or nil if there is none.
func (m *Map) Get(coord HexCoord) *Tile {
	return m.Tiles[coord]
}

// Set places a tile at its coordinate, replacing any tile already there.
func (m *Map) Set(t *Tile) {
	if _, ok := m.Tiles[t.Coord]; !ok {
		i, _ := slices.BinarySearchFunc(m.order, t.Coord, compareCoords)
		// Clip so a clone never writes into a shared backing array.
		m.order = slices.Insert(slices.Clip(m.order), i, t.Coord)
	}
	m.Tiles[t.Coord] = t
}

// Update replaces the tile at coord with a modified copy. It returns false
// when there is no tile there.
func (m *Map) Update(coord HexCoord, fn func(t *Tile)) bool {
	old := m.Tiles[coord]
	if old == nil {
		return false
	}
	t := old.Clone()
	fn(t)
	t.Coord = coord
	m.Tiles[coord] = t
	return true
}

// Clone returns a map with its own tile index that shares the tiles
// themselves. Pair it with Update for copy-on-write.
func (m *Map) Clone() *Map {
	return &Map{
		Tiles:  maps.Clone(m.Tiles),
		Radius: m.Radius,
		Width:  m.Width,
		Height: m.Height,
		order:  m.order,
	}
}

// Coords returns every coordinate in stable (q, then r) order. The returned
// slice must not be modified.
func (m *Map) Coords() []HexCoord {
	return m.order
}

// TileList returns copies of all tiles in stable order.
func (m *Map) TileList() []Tile {
	out := make([]Tile, 0, len(m.order))
	for _, c := range m.order {
		out = append(out, *m.Tiles[c])
	}
	return out
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return Distance(HexCoord{}, coord) <= m.Radius
}

// TileCount returns the total number of tiles in the map.
func (m *Map) TileCount() int {
	return len(m.Tiles)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, tiles=%d)", m.Radius, m.TileCount())
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(m *Map) map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, t := range m.Tiles {
		counts[t.Terrain]++
	}
	return counts
}

// TilesWithFeature returns the coordinates of tiles carrying f, in stable order.
func (m *Map) TilesWithFeature(f Feature) []HexCoord {
	var out []HexCoord
	for _, c := range m.order {
		if m.Tiles[c].Feature == f {
			out = append(out, c)
		}
	}
	return out
}

func compareCoords(a, b HexCoord) int {
	if a.Q != b.Q {
		return a.Q - b.Q
	}
	return a.R - b.R
}
