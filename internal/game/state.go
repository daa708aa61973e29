// Package game holds the authoritative game state and the reducer that
// advances it. Apply is a pure function: it never mutates its input and
// never blocks, logs or reads the clock.
package game

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/talgya/hexsim/internal/visibility"
	"github.com/talgya/hexsim/internal/world"
)

// PlayerID identifies a player.
type PlayerID = world.PlayerID

type (
	UnitID        string
	CityID        string
	StructureID   string
	ImprovementID string
)

// Phase is the game-level state machine.
type Phase int

const (
	PhaseSetup Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for _, v := range []Phase{PhaseSetup, PhasePlaying, PhaseGameOver} {
		if v.String() == string(b) {
			*p = v
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Stats are a player's secondary resource pools.
type Stats struct {
	Faith           int `json:"faith"`
	Pride           int `json:"pride"`
	InternalDissent int `json:"internal_dissent"`
}

// Player is one seat at the table. Visible and CitiesOwned are derived after
// every transition and never edited directly.
type Player struct {
	ID               PlayerID         `json:"id"`
	Faction          FactionID        `json:"faction"`
	Stars            int              `json:"stars"`
	Stats            Stats            `json:"stats"`
	ResearchProgress int              `json:"research_progress"`
	ResearchedTechs  []TechID         `json:"researched_techs"`
	Visible          []world.HexCoord `json:"visible,omitempty"`
	CitiesOwned      []CityID         `json:"cities_owned,omitempty"`
	IsEliminated     bool             `json:"is_eliminated"`
}

// City is a settlement owned by a player.
type City struct {
	ID         CityID         `json:"id"`
	Name       string         `json:"name"`
	Coord      world.HexCoord `json:"coord"`
	Owner      PlayerID       `json:"owner"`
	Population int            `json:"population"`
	Level      int            `json:"level"`
	Capital    bool           `json:"capital,omitempty"`
}

// cityVision is how far a city sees.
const cityVision = 2

// Production is the city's star income per turn.
func (c *City) Production() int {
	p := c.Level
	if c.Capital {
		p++
	}
	return p
}

// Capacity is how many units the city can support.
func (c *City) Capacity() int {
	return c.Level + 1
}

// grow levels the city up while it has the population for it.
func (c *City) grow() {
	for c.Population >= c.Level+1 {
		c.Population -= c.Level + 1
		c.Level++
	}
}

// Rules are per-game options fixed at setup.
type Rules struct {
	ForestBlocksSight bool `json:"forest_blocks_sight"`
	// TurnLimit ends the game after that many rounds; 0 means no limit.
	TurnLimit int `json:"turn_limit"`
}

func (r Rules) sight() visibility.Rules {
	return visibility.Rules{ForestBlocksSight: r.ForestBlocksSight}
}

// State is the aggregate root. Treat every State as immutable: Apply returns
// a new one and shares whatever it did not change.
type State struct {
	ID                 string
	Seed               int64
	Players            []Player
	CurrentPlayerIndex int
	Turn               int
	Map                *world.Map
	Units              []Unit
	Cities             []City
	Structures         []Structure
	Improvements       []Improvement
	Phase              Phase
	Rules              Rules
	// Sequence counts applied commands. It seeds anything that needs
	// per-action variation.
	Sequence int64
	NextID   int
	Winner   PlayerID
}

// clone copies the state's top-level slices and tile index. Nested slices
// (techs, visible sets, tile resources) are never edited in place, so they
// are shared.
func (s *State) clone() *State {
	c := *s
	c.Players = slices.Clone(s.Players)
	c.Units = slices.Clone(s.Units)
	c.Cities = slices.Clone(s.Cities)
	c.Structures = slices.Clone(s.Structures)
	c.Improvements = slices.Clone(s.Improvements)
	c.Map = s.Map.Clone()
	return &c
}

func (s *State) newID(prefix string) string {
	s.NextID++
	return prefix + strconv.Itoa(s.NextID)
}

func (s *State) playerIndex(id PlayerID) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

func (s *State) unitIndex(id UnitID) int {
	return slices.IndexFunc(s.Units, func(u Unit) bool { return u.ID == id })
}

func (s *State) unitIndexAt(c world.HexCoord) int {
	return slices.IndexFunc(s.Units, func(u Unit) bool { return u.Coord == c })
}

func (s *State) cityIndex(id CityID) int {
	return slices.IndexFunc(s.Cities, func(c City) bool { return c.ID == id })
}

func (s *State) cityIndexAt(at world.HexCoord) int {
	return slices.IndexFunc(s.Cities, func(c City) bool { return c.Coord == at })
}

func (s *State) structureIndex(id StructureID) int {
	return slices.IndexFunc(s.Structures, func(st Structure) bool { return st.ID == id })
}

func (s *State) structureIndexAt(at world.HexCoord) int {
	return slices.IndexFunc(s.Structures, func(st Structure) bool { return st.Coord == at })
}

func (s *State) improvementIndexAt(at world.HexCoord) int {
	return slices.IndexFunc(s.Improvements, func(im Improvement) bool { return im.Coord == at })
}

// territoryOf returns the index of the city owned by p whose territory
// (the city tile and its neighbours) contains at, or -1.
func (s *State) territoryOf(p PlayerID, at world.HexCoord) int {
	return slices.IndexFunc(s.Cities, func(c City) bool {
		return c.Owner == p && world.Distance(c.Coord, at) <= 1
	})
}

func (s *State) countCities(p PlayerID) int {
	n := 0
	for _, c := range s.Cities {
		if c.Owner == p {
			n++
		}
	}
	return n
}

func (s *State) countUnits(p PlayerID) int {
	n := 0
	for _, u := range s.Units {
		if u.Owner == p {
			n++
		}
	}
	return n
}

func (s *State) removeUnit(i int) {
	s.Units = slices.Delete(s.Units, i, i+1)
}

// canEnter reports whether a unit of this spec may stand on t given the
// owner's techs. Occupancy is not considered.
func canEnter(spec UnitSpec, owner *Player, t *world.Tile) bool {
	if spec.Naval {
		return t.Terrain == world.TerrainWater
	}
	if !t.Terrain.IsLand() {
		return false
	}
	if t.Terrain == world.TerrainMountain {
		return owner.HasTech(TechClimbing)
	}
	return true
}

func compareCoords(a, b world.HexCoord) int {
	if a.Q != b.Q {
		return a.Q - b.Q
	}
	return a.R - b.R
}
