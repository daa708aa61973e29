package world

import (
	"github.com/talgya/hexsim/internal/entropy"
)

// resourceRule is the chance a tile of some terrain carries a resource and
// which resources it can be.
type resourceRule struct {
	chance float64
	kinds  []ResourceType
}

var terrainResources = map[Terrain]resourceRule{
	TerrainPlains:   {chance: 0.20, kinds: []ResourceType{ResourceCrop, ResourceFruit}},
	TerrainForest:   {chance: 0.22, kinds: []ResourceType{ResourceGame, ResourceFruit}},
	TerrainMountain: {chance: 0.30, kinds: []ResourceType{ResourceOre}},
	TerrainHill:     {chance: 0.18, kinds: []ResourceType{ResourceOre}},
	TerrainWater:    {chance: 0.15, kinds: []ResourceType{ResourceFish}},
	TerrainDesert:   {chance: 0.20, kinds: []ResourceType{ResourceSpice}},
	TerrainSwamp:    {chance: 0.20, kinds: []ResourceType{ResourceHerbs}},
}

// startRegionRadius is how far from a start position resources count
// toward that player's share.
const startRegionRadius = 2

// resourceIndex tracks placed resources by type for distance checks.
type resourceIndex map[ResourceType][]HexCoord

func indexResources(m *Map) resourceIndex {
	idx := make(resourceIndex)
	for _, c := range m.Coords() {
		for _, r := range m.Get(c).Resources {
			idx[r] = append(idx[r], c)
		}
	}
	return idx
}

// farEnough reports whether a resource of type r at c keeps at least minDist
// from every other resource of the same type.
func (idx resourceIndex) farEnough(r ResourceType, c HexCoord, minDist int) bool {
	for _, other := range idx[r] {
		if other != c && Distance(other, c) < minDist {
			return false
		}
	}
	return true
}

func (idx resourceIndex) remove(r ResourceType, c HexCoord) {
	list := idx[r]
	for i, other := range list {
		if other == c {
			idx[r] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// placeResources scatters resources in seeded order, one pass over the map.
func placeResources(m *Map, p GenParams) {
	rng := entropy.NewStream(p.Seed, entropy.StageResources)
	idx := make(resourceIndex)

	coords := append([]HexCoord(nil), m.Coords()...)
	rng.Shuffle(len(coords), func(i, j int) {
		coords[i], coords[j] = coords[j], coords[i]
	})

	for _, c := range coords {
		t := m.Get(c)
		rule, ok := terrainResources[t.Terrain]
		if !ok {
			continue
		}
		// Draw both numbers unconditionally so the stream stays aligned.
		roll := rng.Float64()
		pick := rule.kinds[rng.Intn(len(rule.kinds))]
		if roll >= rule.chance {
			continue
		}
		if t.Terrain == TerrainWater && !touchesLand(m, c) {
			continue
		}
		if !idx.farEnough(pick, c, p.MinResourceDistance) {
			continue
		}
		t.Resources = t.WithResource(pick)
		idx[pick] = append(idx[pick], c)
	}
}

// balanceStartResources gives every start region a comparable resource
// share: first top each region up to a small floor, then trim every region
// down to MaxResourcesPerPlayer. Trimming runs last so the cap always holds.
func balanceStartResources(m *Map, p GenParams, starts []HexCoord) {
	idx := indexResources(m)
	floor := min(2, p.MaxResourcesPerPlayer)

	for _, s := range starts {
		have := countRegionResources(m, s)
		for _, c := range Spiral(s, startRegionRadius)[1:] {
			if have >= floor {
				break
			}
			t := m.Get(c)
			if t == nil || len(t.Resources) > 0 || t.Feature != FeatureNone {
				continue
			}
			rule, ok := terrainResources[t.Terrain]
			if !ok {
				continue
			}
			if t.Terrain == TerrainWater && !touchesLand(m, c) {
				continue
			}
			r := rule.kinds[0]
			if !idx.farEnough(r, c, p.MinResourceDistance) {
				continue
			}
			t.Resources = t.WithResource(r)
			idx[r] = append(idx[r], c)
			have++
		}
	}

	for _, s := range starts {
		region := Spiral(s, startRegionRadius)
		have := countRegionResources(m, s)
		// Farthest tiles are dropped first.
		for i := len(region) - 1; i >= 0 && have > p.MaxResourcesPerPlayer; i-- {
			t := m.Get(region[i])
			if t == nil {
				continue
			}
			for len(t.Resources) > 0 && have > p.MaxResourcesPerPlayer {
				r := t.Resources[len(t.Resources)-1]
				t.Resources = t.WithoutResource(r)
				idx.remove(r, t.Coord)
				have--
			}
		}
	}
}

// countRegionResources counts resources within the start region around c.
func countRegionResources(m *Map, c HexCoord) int {
	n := 0
	for _, rc := range Spiral(c, startRegionRadius) {
		if t := m.Get(rc); t != nil {
			n += len(t.Resources)
		}
	}
	return n
}

func touchesLand(m *Map, c HexCoord) bool {
	for _, n := range c.Neighbors() {
		if t := m.Get(n); t != nil && t.Terrain.IsLand() {
			return true
		}
	}
	return false
}
