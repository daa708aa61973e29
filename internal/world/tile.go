package world

import (
	"fmt"
	"slices"
)

// PlayerID identifies a player. The empty ID means "nobody".
type PlayerID string

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains   Terrain = iota // Open ground, cheapest to cross
	TerrainForest                  // Slows movement, optionally blocks sight
	TerrainMountain                // Blocks sight, needs climbing to enter
	TerrainHill                    // Slows movement, defensive
	TerrainWater                   // Naval units only
	TerrainDesert
	TerrainSwamp
)

var terrainNames = [...]string{
	TerrainPlains:   "plains",
	TerrainForest:   "forest",
	TerrainMountain: "mountain",
	TerrainHill:     "hill",
	TerrainWater:    "water",
	TerrainDesert:   "desert",
	TerrainSwamp:    "swamp",
}

// AllTerrains lists every terrain in declaration order.
var AllTerrains = []Terrain{
	TerrainPlains, TerrainForest, TerrainMountain, TerrainHill,
	TerrainWater, TerrainDesert, TerrainSwamp,
}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// ParseTerrain is the inverse of Terrain.String.
func ParseTerrain(s string) (Terrain, error) {
	for i, name := range terrainNames {
		if name == s {
			return Terrain(i), nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", s)
}

func (t Terrain) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Terrain) UnmarshalText(b []byte) error {
	v, err := ParseTerrain(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MoveCost is the movement points spent entering a tile of this terrain.
// Water costs 1 for units that may enter it at all.
func (t Terrain) MoveCost() int {
	switch t {
	case TerrainForest, TerrainHill, TerrainSwamp:
		return 2
	case TerrainMountain:
		return 3
	default:
		return 1
	}
}

// IsLand reports whether land units can stand on this terrain at all.
func (t Terrain) IsLand() bool {
	return t != TerrainWater
}

// ResourceType enumerates harvestable resources found on tiles.
type ResourceType uint8

const (
	ResourceFruit ResourceType = iota // Plains, forest
	ResourceCrop                      // Plains
	ResourceGame                      // Forest
	ResourceFish                      // Water
	ResourceOre                       // Mountain, hill
	ResourceSpice                     // Desert
	ResourceHerbs                     // Swamp
)

var resourceNames = [...]string{
	ResourceFruit: "fruit",
	ResourceCrop:  "crop",
	ResourceGame:  "game",
	ResourceFish:  "fish",
	ResourceOre:   "ore",
	ResourceSpice: "spice",
	ResourceHerbs: "herbs",
}

func (r ResourceType) String() string {
	if int(r) < len(resourceNames) {
		return resourceNames[r]
	}
	return "unknown"
}

// ParseResource is the inverse of ResourceType.String.
func ParseResource(s string) (ResourceType, error) {
	for i, name := range resourceNames {
		if name == s {
			return ResourceType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown resource %q", s)
}

func (r ResourceType) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *ResourceType) UnmarshalText(b []byte) error {
	v, err := ParseResource(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Feature is a notable site on a tile.
type Feature uint8

const (
	FeatureNone Feature = iota
	FeatureVillage
	FeatureCity
	FeatureRuins
)

var featureNames = [...]string{
	FeatureNone:    "none",
	FeatureVillage: "village",
	FeatureCity:    "city",
	FeatureRuins:   "ruins",
}

func (f Feature) String() string {
	if int(f) < len(featureNames) {
		return featureNames[f]
	}
	return "unknown"
}

func (f Feature) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Feature) UnmarshalText(b []byte) error {
	for i, name := range featureNames {
		if name == string(b) {
			*f = Feature(i)
			return nil
		}
	}
	return fmt.Errorf("unknown feature %q", string(b))
}

// IsSettlement reports whether the feature can be captured.
func (f Feature) IsSettlement() bool {
	return f == FeatureVillage || f == FeatureCity
}

// Tile is a single hex of the game map. Slices held by a Tile are treated as
// immutable: helpers return fresh slices instead of appending in place, so
// tiles can be shared between successive game states.
type Tile struct {
	Coord      HexCoord       `json:"coord"`
	Terrain    Terrain        `json:"terrain"`
	Resources  []ResourceType `json:"resources,omitempty"`
	Feature    Feature        `json:"feature"`
	ExploredBy []PlayerID     `json:"explored_by,omitempty"`
	CityOwner  PlayerID       `json:"city_owner,omitempty"`
}

// HasResource reports whether the tile carries the resource.
func (t *Tile) HasResource(r ResourceType) bool {
	return slices.Contains(t.Resources, r)
}

// WithResource returns the resource set with r added, sorted.
func (t *Tile) WithResource(r ResourceType) []ResourceType {
	if t.HasResource(r) {
		return t.Resources
	}
	out := append(slices.Clone(t.Resources), r)
	slices.Sort(out)
	return out
}

// WithoutResource returns the resource set with r removed.
func (t *Tile) WithoutResource(r ResourceType) []ResourceType {
	out := make([]ResourceType, 0, len(t.Resources))
	for _, have := range t.Resources {
		if have != r {
			out = append(out, have)
		}
	}
	return out
}

// IsExploredBy reports whether the player has ever seen this tile.
func (t *Tile) IsExploredBy(p PlayerID) bool {
	_, ok := slices.BinarySearch(t.ExploredBy, p)
	return ok
}

// WithExplorer returns the explored set with p added. The set only grows.
func (t *Tile) WithExplorer(p PlayerID) []PlayerID {
	i, ok := slices.BinarySearch(t.ExploredBy, p)
	if ok {
		return t.ExploredBy
	}
	return slices.Insert(slices.Clone(t.ExploredBy), i, p)
}

// Clone returns a copy of the tile that shares its immutable slices.
func (t *Tile) Clone() *Tile {
	c := *t
	return &c
}
