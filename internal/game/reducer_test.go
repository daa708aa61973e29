package game

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexsim/internal/world"
)

func TestApplyRejectsNilCommand(t *testing.T) {
	s := createTestState(nil)
	next, err := Apply(s, nil)
	require.ErrorIs(t, err, ErrInvalidAction)
	assert.Same(t, s, next)
}

func TestApplyRejectsCommandsBeforeStart(t *testing.T) {
	s := createTestState(nil)
	s.Phase = PhaseSetup
	rejected(t, s, EndTurn{Player: "p1"}, ErrInvalidAction)
}

func TestNotYourTurn(t *testing.T) {
	s := createTestState(nil)
	rejected(t, s, EndTurn{Player: "p2"}, ErrNotYourTurn)

	_, err := Apply(s, EndTurn{Player: "p2"})
	var ae *ActionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, NotYourTurn, ae.Kind)
	assert.Equal(t, CmdEndTurn, ae.Action)
}

func TestUnknownPlayer(t *testing.T) {
	s := createTestState(nil)
	rejected(t, s, EndTurn{Player: "p9"}, ErrInvalidAction)
}

func TestEndTurnPassesToNextPlayer(t *testing.T) {
	s := createTestState(nil)
	next := apply(t, s, EndTurn{Player: "p1"})
	assert.Equal(t, 1, next.CurrentPlayerIndex)
	assert.Equal(t, 1, next.Turn)
	assert.Equal(t, int64(1), next.Sequence)
	assert.Equal(t, 0, s.CurrentPlayerIndex, "input state must not change")
}

func TestEndTurnWrapsAndIncrementsTurn(t *testing.T) {
	s := createTestState(nil)
	s.CurrentPlayerIndex = 1

	next := apply(t, s, EndTurn{Player: "p2"})
	assert.Equal(t, 0, next.CurrentPlayerIndex)
	assert.Equal(t, 2, next.Turn)
}

func TestEndTurnSkipsEliminatedPlayers(t *testing.T) {
	s := createTestState(nil)
	removeCity(s, p2Capital)
	s.Players[1].IsEliminated = true
	s.Players = append(s.Players, Player{ID: "p3", Faction: FactionKickoo, Stars: startingStars, ResearchedTechs: []TechID{TechFishing}})
	addCity(s, "p3", world.HexCoord{Q: 0, R: 3}, true)
	ready(s)

	next := apply(t, s, EndTurn{Player: "p1"})
	assert.Equal(t, PlayerID("p3"), next.CurrentPlayer().ID)
	assert.Equal(t, 1, next.Turn)

	next = apply(t, next, EndTurn{Player: "p3"})
	assert.Equal(t, PlayerID("p1"), next.CurrentPlayer().ID)
	assert.Equal(t, 2, next.Turn)
}

func TestBeginTurnRefreshesUnitsAndPaysIncome(t *testing.T) {
	s := createTestState(nil)
	w := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	ready(s)

	s = apply(t, s, MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{Q: 1, R: 0}})
	assert.Equal(t, 0, unit(t, s, w).RemainingMovement)

	s = apply(t, s, EndTurn{Player: "p1"})
	assert.Equal(t, startingStars+2, player(t, s, "p2").Stars, "capital produces level+1")
	s = apply(t, s, EndTurn{Player: "p2"})

	assert.Equal(t, 1, unit(t, s, w).RemainingMovement)
	assert.False(t, unit(t, s, w).HasAttacked)
	assert.Equal(t, startingStars+2, player(t, s, "p1").Stars)
}

func TestDissentReducesIncome(t *testing.T) {
	s := createTestState(nil)
	s.Players[1].Stats.InternalDissent = 4

	next := apply(t, s, EndTurn{Player: "p1"})
	p2 := player(t, next, "p2")
	assert.Equal(t, startingStars, p2.Stars)
	assert.Equal(t, 3, p2.Stats.InternalDissent)
}

func TestCaptureVillageNotOnTile(t *testing.T) {
	s := createTestState(nil)
	village := world.HexCoord{Q: 0, R: 0}
	setFeature(s, village, world.FeatureVillage)
	w := addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 1, R: 0})
	ready(s)

	rejected(t, s, CaptureVillage{Player: "p1", Unit: w, Village: village}, ErrOutOfRange)
}

func TestCaptureVillageReward(t *testing.T) {
	s := createTestState(nil)
	village := world.HexCoord{Q: 0, R: 0}
	setFeature(s, village, world.FeatureVillage)
	w := addUnit(s, UnitWarrior, "p1", village)
	ready(s)

	next := apply(t, s, CaptureVillage{Player: "p1", Unit: w, Village: village})

	p1 := player(t, next, "p1")
	assert.Equal(t, startingStars+5, p1.Stars)
	assert.Equal(t, 1, p1.ResearchProgress)
	assert.Len(t, p1.CitiesOwned, 2)

	tile := next.Map.Get(village)
	assert.Equal(t, world.FeatureCity, tile.Feature)
	assert.Equal(t, PlayerID("p1"), tile.CityOwner)
	assert.True(t, tile.IsExploredBy("p1"))

	city, ok := next.CityAt(village)
	require.True(t, ok)
	assert.Equal(t, PlayerID("p1"), city.Owner)
	assert.Equal(t, 1, city.Level)
	assert.NotEmpty(t, city.Name)

	u := unit(t, next, w)
	assert.Equal(t, 0, u.RemainingMovement)
	assert.True(t, u.HasAttacked)

	// The original tile is untouched.
	assert.Equal(t, world.FeatureVillage, s.Map.Get(village).Feature)

	rejected(t, next, CaptureVillage{Player: "p1", Unit: w, Village: village}, ErrInvalidAction)
}

func TestCaptureVillageRequiresSettlement(t *testing.T) {
	s := createTestState(nil)
	w := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	ready(s)
	rejected(t, s, CaptureVillage{Player: "p1", Unit: w, Village: world.HexCoord{}}, ErrInvalidAction)
}

func TestCaptureEnemyCity(t *testing.T) {
	s := createTestState(nil)
	w := addUnit(s, UnitWarrior, "p1", p2Capital)
	ready(s)

	next := apply(t, s, CaptureVillage{Player: "p1", Unit: w, Village: p2Capital})
	city, ok := next.CityAt(p2Capital)
	require.True(t, ok)
	assert.Equal(t, PlayerID("p1"), city.Owner)
	assert.False(t, city.Capital)
	assert.Empty(t, player(t, next, "p2").CitiesOwned)
	assert.True(t, player(t, next, "p2").IsEliminated)
	assert.Equal(t, PhaseGameOver, next.Phase)
	assert.Equal(t, PlayerID("p1"), next.Winner)
}

func TestExploreRuins(t *testing.T) {
	s := createTestState(nil)
	ruins := world.HexCoord{Q: 0, R: 0}
	setFeature(s, ruins, world.FeatureRuins)
	w := addUnit(s, UnitWarrior, "p1", ruins)
	ready(s)

	a := apply(t, s, ExploreRuins{Player: "p1", Unit: w})
	b := apply(t, s, ExploreRuins{Player: "p1", Unit: w})

	ab, err := Marshal(a)
	require.NoError(t, err)
	bb, err := Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ab), string(bb), "same state and command give the same reward")

	assert.Equal(t, world.FeatureNone, a.Map.Get(ruins).Feature)
	assert.True(t, unit(t, a, w).HasAttacked)

	before, after := player(t, s, "p1"), player(t, a, "p1")
	gained := after.Stars > before.Stars ||
		after.ResearchProgress > before.ResearchProgress ||
		after.Stats.Faith > before.Stats.Faith ||
		after.Stats.Pride > before.Stats.Pride
	assert.True(t, gained)

	rejected(t, a, ExploreRuins{Player: "p1", Unit: w}, ErrInvalidAction)
}

func TestEliminationEndsGame(t *testing.T) {
	s := createTestState(nil)
	removeCity(s, p2Capital)
	att := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	def := addUnit(s, UnitWarrior, "p2", world.HexCoord{Q: 1, R: 0})
	s.Units[len(s.Units)-1].HP = 1
	ready(s)

	next := apply(t, s, AttackUnit{Player: "p1", Attacker: att, Defender: def})
	assert.True(t, player(t, next, "p2").IsEliminated)
	assert.Empty(t, player(t, next, "p2").Visible)
	assert.Equal(t, PhaseGameOver, next.Phase)
	assert.Equal(t, PlayerID("p1"), next.Winner)

	rejected(t, next, EndTurn{Player: "p1"}, ErrInvalidAction)
}

func TestTurnLimitEndsGame(t *testing.T) {
	s := createTestState(nil)
	s.Rules.TurnLimit = 1

	s = apply(t, s, EndTurn{Player: "p1"})
	assert.Equal(t, PhasePlaying, s.Phase)
	s = apply(t, s, EndTurn{Player: "p2"})
	assert.Equal(t, PhaseGameOver, s.Phase)
	assert.Contains(t, []PlayerID{"p1", "p2"}, s.Winner)
}

func TestScoreCountsCitiesTechsAndUnits(t *testing.T) {
	s := createTestState(nil)
	base := s.Score("p1")
	addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: -3, R: 1})
	assert.Equal(t, base+10, s.Score("p1"))
	giveTech(s, "p1", TechClimbing)
	assert.Equal(t, base+30, s.Score("p1"))
	assert.Zero(t, s.Score("p9"))
}

func removeCity(s *State, at world.HexCoord) {
	s.Cities = slices.DeleteFunc(s.Cities, func(c City) bool { return c.Coord == at })
	s.Map.Update(at, func(t *world.Tile) {
		t.Feature = world.FeatureNone
		t.CityOwner = ""
	})
}
