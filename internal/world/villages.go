// Village and ruins placement: finds suitable sites and marks them on the map.
package world

import (
	"sort"

	"github.com/talgya/hexsim/internal/entropy"
)

// Placement constraints for neutral sites.
const (
	MinVillageDistance     = 3
	MinVillageCityDistance = 4
	villageRadiusFactor    = 0.85
	// Never place villages on more than this fraction of tiles.
	maxVillageShare = 0.10

	minRuinsSettlementDistance = 2
	minRuinsStartDistance      = 3
)

// placeVillages scores every eligible tile and greedily accepts the best
// ones that keep their distance from cities and other villages. Villages are
// always neutral.
func placeVillages(m *Map, seed int64, cities []HexCoord) []HexCoord {
	rng := entropy.NewStream(seed, entropy.StageVillages)
	center := HexCoord{}
	maxDist := villageRadiusFactor * float64(m.Radius)

	type scored struct {
		coord HexCoord
		score float64
	}
	var candidates []scored

	for _, c := range m.Coords() {
		t := m.Get(c)
		// One draw per tile keeps the stream aligned whatever gets filtered.
		jitter := rng.Float64() * 0.5
		if t.Terrain == TerrainWater || t.Feature != FeatureNone || t.CityOwner != "" {
			continue
		}
		if float64(Distance(center, c)) > maxDist {
			continue
		}
		candidates = append(candidates, scored{c, villageScore(m, c, t) + jitter})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].coord.Less(candidates[j].coord)
	})

	limit := int(float64(m.TileCount()) * maxVillageShare)
	if limit < 1 {
		limit = 1
	}

	var villages []HexCoord
	for _, cand := range candidates {
		if len(villages) >= limit {
			break
		}
		if tooClose(cand.coord, cities, MinVillageCityDistance) {
			continue
		}
		if tooClose(cand.coord, villages, MinVillageDistance) {
			continue
		}
		m.Get(cand.coord).Feature = FeatureVillage
		villages = append(villages, cand.coord)
	}

	return villages
}

// villageScore prefers open, varied land next to water.
func villageScore(m *Map, coord HexCoord, t *Tile) float64 {
	score := 0.0

	switch t.Terrain {
	case TerrainPlains:
		score += 3.0
	case TerrainForest, TerrainHill:
		score += 1.5
	case TerrainDesert, TerrainSwamp:
		score += 0.5
	case TerrainMountain:
		score += 0.3
	}

	kinds := make(map[Terrain]bool)
	nearWater := false
	for _, nc := range coord.Neighbors() {
		nt := m.Get(nc)
		if nt == nil {
			continue
		}
		if nt.Terrain == TerrainWater {
			nearWater = true
			continue
		}
		kinds[nt.Terrain] = true
	}
	score += float64(len(kinds)) * 0.3
	if nearWater {
		score += 0.5
	}
	score += float64(len(t.Resources)) * 0.2

	return score
}

// placeRuins scatters a few ruins on open land away from settlements.
func placeRuins(m *Map, seed int64, starts []HexCoord) []HexCoord {
	rng := entropy.NewStream(seed, entropy.StageRuins)

	want := m.Radius / 2
	if want < 1 {
		want = 1
	}

	coords := append([]HexCoord(nil), m.Coords()...)
	rng.Shuffle(len(coords), func(i, j int) {
		coords[i], coords[j] = coords[j], coords[i]
	})

	settlements := append(m.TilesWithFeature(FeatureVillage), starts...)
	var ruins []HexCoord
	for _, c := range coords {
		if len(ruins) >= want {
			break
		}
		t := m.Get(c)
		if !t.Terrain.IsLand() || t.Terrain == TerrainMountain || t.Feature != FeatureNone {
			continue
		}
		if tooClose(c, starts, minRuinsStartDistance) ||
			tooClose(c, settlements, minRuinsSettlementDistance) ||
			tooClose(c, ruins, minRuinsSettlementDistance) {
			continue
		}
		t.Feature = FeatureRuins
		ruins = append(ruins, c)
	}
	return ruins
}
