package world

import (
	"log/slog"
	"math"

	"github.com/talgya/hexsim/internal/entropy"
)

// minStartSeparation is the closest two start positions may be when the
// generator has a choice.
const minStartSeparation = 3

// startRing is the preferred distance of start positions from the center.
func startRing(radius int) int {
	ring := int(math.Round(0.6 * float64(radius)))
	if ring < 1 {
		ring = 1
	}
	return ring
}

func validStartTerrain(t Terrain) bool {
	return t != TerrainWater && t != TerrainMountain
}

// placeStarts spreads start positions evenly around the preferred ring with
// a seeded rotation. For each ideal point the nearest valid tile inside the
// ring band is used; when none exists the ideal tile is forced to plains and
// reported as an override.
func placeStarts(m *Map, p GenParams) (starts, overrides []HexCoord) {
	rng := entropy.NewStream(p.Seed, entropy.StageStarts)
	center := HexCoord{}
	ring := startRing(m.Radius)
	rotation := rng.Float64() * 2 * math.Pi
	used := make(map[HexCoord]bool)

	for i := 0; i < p.PlayerCount; i++ {
		angle := rotation + 2*math.Pi*float64(i)/float64(p.PlayerCount)
		// Adjacent hex centers are sqrt(3) apart at size 1.
		dist := float64(ring) * math.Sqrt(3)
		ideal := ToHex(Point{X: dist * math.Cos(angle), Y: dist * math.Sin(angle)}, 1)
		if !m.InBounds(ideal) {
			ideal = Ring(center, ring)[0]
		}

		chosen, ok := nearestStart(m, ideal, ring, starts, used)
		if !ok {
			chosen = ideal
			if used[chosen] {
				for _, c := range Ring(center, ring) {
					if !used[c] {
						chosen = c
						break
					}
				}
			}
			m.Get(chosen).Terrain = TerrainPlains
			overrides = append(overrides, chosen)
			slog.Warn("start position forced to plains",
				"player", i,
				"coord", chosen.String(),
				"seed", p.Seed,
			)
		}

		used[chosen] = true
		starts = append(starts, chosen)
		m.Get(chosen).Feature = FeatureCity
	}

	return starts, overrides
}

// nearestStart searches outward from ideal for a valid start tile on the
// ring band, keeping clear of earlier starts.
func nearestStart(m *Map, ideal HexCoord, ring int, starts []HexCoord, used map[HexCoord]bool) (HexCoord, bool) {
	center := HexCoord{}
	for _, c := range Spiral(ideal, ring) {
		t := m.Get(c)
		if t == nil || used[c] || !validStartTerrain(t.Terrain) {
			continue
		}
		if abs(Distance(center, c)-ring) > 1 {
			continue
		}
		if tooClose(c, starts, minStartSeparation) {
			continue
		}
		return c, true
	}
	return HexCoord{}, false
}

func tooClose(coord HexCoord, existing []HexCoord, minDist int) bool {
	for _, e := range existing {
		if Distance(coord, e) < minDist {
			return true
		}
	}
	return false
}
