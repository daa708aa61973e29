package game

import (
	"slices"

	"github.com/talgya/hexsim/internal/combat"
	"github.com/talgya/hexsim/internal/world"
)

// StructureType names a buildable structure.
type StructureType string

const (
	StructureTemple  StructureType = "temple"
	StructureTower   StructureType = "tower"
	StructurePort    StructureType = "port"
	StructureSawmill StructureType = "sawmill"
)

// StructureSpec is the catalogue entry for a structure type.
type StructureSpec struct {
	Type       StructureType
	Cost       int
	BuildTurns int
	Terrain    []world.Terrain
	Tech       TechID
	Population int // added to the city on completion
	Faith      int // per turn once complete
	Vision     int // sight radius once complete, 0 for none
	HP         int
	Defense    float64
}

var structureCatalog = map[StructureType]StructureSpec{
	StructureTemple: {
		Type: StructureTemple, Cost: 10, BuildTurns: 2, Tech: TechSpiritualism,
		Terrain:    []world.Terrain{world.TerrainPlains, world.TerrainHill, world.TerrainDesert, world.TerrainForest},
		Population: 1, Faith: 1, HP: 20, Defense: 2,
	},
	StructureTower: {
		Type: StructureTower, Cost: 6, BuildTurns: 1, Tech: TechClimbing,
		Terrain: []world.Terrain{world.TerrainHill, world.TerrainMountain},
		Vision:  3, HP: 25, Defense: 3,
	},
	StructurePort: {
		Type: StructurePort, Cost: 7, BuildTurns: 1, Tech: TechFishing,
		Terrain:    []world.Terrain{world.TerrainWater},
		Population: 1, HP: 15, Defense: 1,
	},
	StructureSawmill: {
		Type: StructureSawmill, Cost: 5, BuildTurns: 1, Tech: TechForestry,
		Terrain:    []world.Terrain{world.TerrainPlains},
		Population: 2, HP: 15, Defense: 1,
	},
}

// LookupStructure returns the catalogue entry for a structure type.
func LookupStructure(t StructureType) (StructureSpec, bool) {
	s, ok := structureCatalog[t]
	return s, ok
}

// AllowsTerrain reports whether the structure may stand on t.
func (s StructureSpec) AllowsTerrain(t world.Terrain) bool {
	return slices.Contains(s.Terrain, t)
}

// Structure is a building on the map, finished or under construction.
type Structure struct {
	ID             StructureID    `json:"id"`
	Type           StructureType  `json:"type"`
	Coord          world.HexCoord `json:"coord"`
	Owner          PlayerID       `json:"owner"`
	City           CityID         `json:"city"`
	HP             int            `json:"hp"`
	TurnsRemaining int            `json:"turns_remaining"`
}

// Complete reports whether construction has finished.
func (s *Structure) Complete() bool {
	return s.TurnsRemaining <= 0
}

// Target is the combat view of the structure.
func (s *Structure) Target() combat.Target {
	spec := structureCatalog[s.Type]
	return combat.Target{Defense: spec.Defense, HP: s.HP, MaxHP: spec.HP}
}
