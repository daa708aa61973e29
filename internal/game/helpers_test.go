package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/hexsim/internal/world"
)

// Fixed spots on the test board.
var (
	p1Capital = world.HexCoord{Q: -3, R: 0}
	p2Capital = world.HexCoord{Q: 3, R: 0}
)

// createTestState builds a two-player game in progress on an open plains
// board of radius 5, with one capital each and no units. Overrides change
// individual tiles' terrain.
func createTestState(overrides map[world.HexCoord]world.Terrain) *State {
	m := world.NewMap(5)
	for _, c := range world.Spiral(world.HexCoord{}, 5) {
		terr := world.TerrainPlains
		if o, ok := overrides[c]; ok {
			terr = o
		}
		m.Set(&world.Tile{Coord: c, Terrain: terr})
	}

	s := &State{
		ID:    "test",
		Seed:  7,
		Map:   m,
		Phase: PhasePlaying,
		Turn:  1,
		Players: []Player{
			{ID: "p1", Faction: FactionImperius, Stars: startingStars, ResearchedTechs: []TechID{TechOrganization}},
			{ID: "p2", Faction: FactionBardur, Stars: startingStars, ResearchedTechs: []TechID{TechHunting}},
		},
	}
	addCity(s, "p1", p1Capital, true)
	addCity(s, "p2", p2Capital, true)
	ready(s)
	return s
}

func addCity(s *State, owner PlayerID, at world.HexCoord, capital bool) CityID {
	id := CityID(s.newID("c"))
	s.Cities = append(s.Cities, City{ID: id, Name: string(id), Coord: at, Owner: owner, Level: 1, Capital: capital})
	s.Map.Update(at, func(t *world.Tile) {
		t.Feature = world.FeatureCity
		t.CityOwner = owner
	})
	return id
}

// addUnit places a unit that is ready to act.
func addUnit(s *State, typ UnitType, owner PlayerID, at world.HexCoord) UnitID {
	id := UnitID(s.newID("u"))
	u := newUnit(id, unitCatalog[typ], owner, at, "")
	u.refresh()
	s.Units = append(s.Units, u)
	return id
}

func setFeature(s *State, at world.HexCoord, f world.Feature) {
	s.Map.Update(at, func(t *world.Tile) { t.Feature = f })
}

func giveTech(s *State, pid PlayerID, techs ...TechID) {
	p := &s.Players[s.playerIndex(pid)]
	p.ResearchedTechs = append(append([]TechID(nil), p.ResearchedTechs...), techs...)
}

// ready re-derives the bookkeeping after a fixture was edited by hand.
func ready(s *State) {
	s.deriveCities()
	s.deriveVisibility()
}

func apply(t *testing.T, s *State, cmd Command) *State {
	t.Helper()
	next, err := Apply(s, cmd)
	require.NoError(t, err)
	require.NoError(t, next.Validate())
	return next
}

// rejected applies cmd, expects it to fail with sentinel and checks that the
// input state came back untouched.
func rejected(t *testing.T, s *State, cmd Command, sentinel error) {
	t.Helper()
	before, err := Marshal(s)
	require.NoError(t, err)

	next, err := Apply(s, cmd)
	require.ErrorIs(t, err, sentinel)
	require.Same(t, s, next)

	after, err := Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, string(before), string(after))
}

func player(t *testing.T, s *State, id PlayerID) Player {
	t.Helper()
	p, ok := s.Player(id)
	require.True(t, ok)
	return p
}

func unit(t *testing.T, s *State, id UnitID) Unit {
	t.Helper()
	u, ok := s.Unit(id)
	require.True(t, ok, "unit %s missing", id)
	return u
}
