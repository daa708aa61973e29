// World generation using layered simplex noise. Elevation and moisture
// fields are ranked, not thresholded, so every seed yields the same terrain
// proportions; only the layout changes.
package world

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexsim/internal/entropy"
)

// Terrain shares, as fractions of land tiles.
const (
	mountainShare = 0.08
	hillShare     = 0.12
	swampShare    = 0.08
	forestShare   = 0.25
	desertShare   = 0.12
)

// GenResult is everything the generator produces.
type GenResult struct {
	Map            *Map       `json:"-"`
	StartPositions []HexCoord `json:"start_positions"`
	Villages       []HexCoord `json:"villages"`
	Ruins          []HexCoord `json:"ruins"`
	// Overrides lists start positions whose terrain was forced to plains
	// because no valid tile existed on the preferred ring.
	Overrides []HexCoord `json:"overrides,omitempty"`
}

// Generate creates a complete map with terrain, resources, start positions,
// villages and ruins. The output depends only on p.
func Generate(p GenParams) (*GenResult, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generation params: %w", err)
	}

	m := generateTerrain(p)
	placeResources(m, p)
	starts, overrides := placeStarts(m, p)
	balanceStartResources(m, p, starts)
	villages := placeVillages(m, p.Seed, starts)
	ruins := placeRuins(m, p.Seed, starts)

	slog.Debug("map generated",
		"seed", p.Seed,
		"radius", m.Radius,
		"tiles", m.TileCount(),
		"starts", len(starts),
		"villages", len(villages),
		"ruins", len(ruins),
		"overrides", len(overrides),
	)

	return &GenResult{
		Map:            m,
		StartPositions: starts,
		Villages:       villages,
		Ruins:          ruins,
		Overrides:      overrides,
	}, nil
}

type sample struct {
	coord HexCoord
	elev  float64
	moist float64
}

// generateTerrain fills the hexagon with tiles and assigns terrain by rank.
func generateTerrain(p GenParams) *Map {
	radius := p.Radius()
	elevNoise := opensimplex.NewNormalized(p.Seed + entropy.StageTerrain)
	moistNoise := opensimplex.NewNormalized(p.Seed + entropy.StageTerrain + 1)

	m := NewMap(radius)
	var samples []sample

	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if !m.InBounds(coord) {
				continue
			}
			pt := ToPixel(coord, 1)

			elev := octaveNoise(elevNoise, pt.X, pt.Y, 4, 0.12, 0.5)
			moist := octaveNoise(moistNoise, pt.X, pt.Y, 3, 0.10, 0.5)

			// Continental shaping: lower elevation toward the rim so water
			// collects at the map edge.
			dist := float64(Distance(HexCoord{}, coord)) / float64(radius)
			falloff := 1.0 - math.Pow(dist, 3.5)
			if falloff < 0 {
				falloff = 0
			}
			elev *= 0.3 + 0.7*falloff

			samples = append(samples, sample{coord: coord, elev: elev, moist: moist})
			m.Set(&Tile{Coord: coord, Terrain: TerrainPlains})
		}
	}

	assignTerrain(m, samples, p.waterRatio())
	return m
}

// assignTerrain ranks samples by elevation then moisture and hands out
// terrain by share.
func assignTerrain(m *Map, samples []sample, waterRatio float64) {
	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].elev != samples[j].elev {
			return samples[i].elev < samples[j].elev
		}
		return samples[i].coord.Less(samples[j].coord)
	})

	nWater := int(float64(len(samples)) * waterRatio)
	for _, s := range samples[:nWater] {
		m.Get(s.coord).Terrain = TerrainWater
	}

	land := samples[nWater:]
	nMountain := int(float64(len(land)) * mountainShare)
	nHill := int(float64(len(land)) * hillShare)
	highStart := len(land) - nMountain - nHill
	for i, s := range land[highStart:] {
		if i >= nHill {
			m.Get(s.coord).Terrain = TerrainMountain
		} else {
			m.Get(s.coord).Terrain = TerrainHill
		}
	}

	flat := append([]sample(nil), land[:highStart]...)
	sort.SliceStable(flat, func(i, j int) bool {
		if flat[i].moist != flat[j].moist {
			return flat[i].moist > flat[j].moist
		}
		return flat[i].coord.Less(flat[j].coord)
	})

	nSwamp := int(float64(len(land)) * swampShare)
	nForest := int(float64(len(land)) * forestShare)
	nDesert := int(float64(len(land)) * desertShare)
	for i, s := range flat {
		t := m.Get(s.coord)
		switch {
		case i < nSwamp:
			t.Terrain = TerrainSwamp
		case i < nSwamp+nForest:
			t.Terrain = TerrainForest
		case i >= len(flat)-nDesert:
			t.Terrain = TerrainDesert
		default:
			t.Terrain = TerrainPlains
		}
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
