package game

import (
	"fmt"

	"github.com/talgya/hexsim/internal/combat"
	"github.com/talgya/hexsim/internal/pathfind"
	"github.com/talgya/hexsim/internal/visibility"
	"github.com/talgya/hexsim/internal/world"
)

// Read-only accessors. They return copies; nothing here changes the state.

// CurrentPlayer returns the player holding the turn.
func (s *State) CurrentPlayer() Player {
	return s.Players[s.CurrentPlayerIndex]
}

// Player returns the player with the given ID.
func (s *State) Player(id PlayerID) (Player, bool) {
	if i := s.playerIndex(id); i >= 0 {
		return s.Players[i], true
	}
	return Player{}, false
}

// Unit returns the unit with the given ID.
func (s *State) Unit(id UnitID) (Unit, bool) {
	if i := s.unitIndex(id); i >= 0 {
		return s.Units[i], true
	}
	return Unit{}, false
}

// UnitAt returns the unit standing on c.
func (s *State) UnitAt(c world.HexCoord) (Unit, bool) {
	if i := s.unitIndexAt(c); i >= 0 {
		return s.Units[i], true
	}
	return Unit{}, false
}

// City returns the city with the given ID.
func (s *State) City(id CityID) (City, bool) {
	if i := s.cityIndex(id); i >= 0 {
		return s.Cities[i], true
	}
	return City{}, false
}

// CityAt returns the city on c.
func (s *State) CityAt(c world.HexCoord) (City, bool) {
	if i := s.cityIndexAt(c); i >= 0 {
		return s.Cities[i], true
	}
	return City{}, false
}

// Structure returns the structure with the given ID.
func (s *State) Structure(id StructureID) (Structure, bool) {
	if i := s.structureIndex(id); i >= 0 {
		return s.Structures[i], true
	}
	return Structure{}, false
}

// UnitsOf returns a player's units in creation order.
func (s *State) UnitsOf(pid PlayerID) []Unit {
	var out []Unit
	for _, u := range s.Units {
		if u.Owner == pid {
			out = append(out, u)
		}
	}
	return out
}

// ReachableFor returns the tiles the unit can move to with its remaining
// movement, its own tile included.
func (s *State) ReachableFor(id UnitID) (pathfind.Reach, error) {
	i := s.unitIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("unknown unit %q", id)
	}
	u := &s.Units[i]
	budget := u.RemainingMovement
	if u.Status == StatusSiegeMode {
		budget = 0
	}
	return pathfind.Reachable(u.Coord, budget, s.costsFor(u)), nil
}

// PathFor returns the cheapest path for the unit to goal within its
// remaining movement, or an empty path.
func (s *State) PathFor(id UnitID, goal world.HexCoord) ([]world.HexCoord, error) {
	i := s.unitIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("unknown unit %q", id)
	}
	u := &s.Units[i]
	return pathfind.FindPath(u.Coord, goal, s.costsFor(u), u.RemainingMovement), nil
}

// PassableSnapshot copies the tiles the unit could cross within radius, for
// handing to a pathfinding worker.
func (s *State) PassableSnapshot(id UnitID, radius int) (pathfind.Snapshot, error) {
	i := s.unitIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("unknown unit %q", id)
	}
	u := &s.Units[i]
	return pathfind.NewSnapshot(s.Map, s.passableFor(u), u.Coord, radius), nil
}

// VisibleTiles returns what the player currently sees.
func (s *State) VisibleTiles(pid PlayerID) visibility.Set {
	out := make(visibility.Set)
	if p, ok := s.Player(pid); ok {
		for _, c := range p.Visible {
			out.Add(c)
		}
	}
	return out
}

// FogAt derives the player's fog state for one tile.
func (s *State) FogAt(pid PlayerID, c world.HexCoord) visibility.FogState {
	t := s.Map.Get(c)
	if t == nil {
		return visibility.FogUnexplored
	}
	p, ok := s.Player(pid)
	if !ok {
		return visibility.FogUnexplored
	}
	if p.Sees(c) {
		return visibility.FogVisible
	}
	if t.IsExploredBy(pid) {
		return visibility.FogExplored
	}
	return visibility.FogUnexplored
}

// FogMap derives the player's fog state for every tile.
func (s *State) FogMap(pid PlayerID) map[world.HexCoord]visibility.FogState {
	vis := s.VisibleTiles(pid)
	out := make(map[world.HexCoord]visibility.FogState, s.Map.TileCount())
	for _, c := range s.Map.Coords() {
		out[c] = visibility.FogOf(s.Map.Get(c), vis, pid)
	}
	return out
}

// VisibleUnits lists the units the player knows about: its own, plus enemy
// units on visible tiles. Stealthed enemies show only when adjacent to one
// of the player's units.
func (s *State) VisibleUnits(pid PlayerID) []Unit {
	if s.playerIndex(pid) < 0 {
		return nil
	}
	var out []Unit
	for i := range s.Units {
		u := &s.Units[i]
		if u.Owner == pid || s.canTarget(pid, u) {
			out = append(out, *u)
		}
	}
	return out
}

// PreviewAttack resolves an attack the current player could make without
// applying it.
func (s *State) PreviewAttack(attacker, defender UnitID) (combat.Outcome, error) {
	ai := s.unitIndex(attacker)
	if ai < 0 {
		return combat.Outcome{}, reject(InvalidAction, CmdAttackUnit, "unknown unit %q", attacker)
	}
	owner := s.Units[ai].Owner
	if _, err := s.actor(CmdAttackUnit, owner); err != nil {
		return combat.Outcome{}, err
	}
	_, _, out, err := s.checkAttack(CmdAttackUnit, owner, attacker, defender)
	if err != nil {
		return combat.Outcome{}, err
	}
	return out, nil
}

// Score ranks players when the turn limit ends the game.
func (s *State) Score(pid PlayerID) int {
	p, ok := s.Player(pid)
	if !ok {
		return 0
	}
	score := 0
	for _, c := range s.Cities {
		if c.Owner == pid {
			score += 100*c.Level + 5*c.Population
		}
	}
	score += 20 * len(p.ResearchedTechs)
	score += 10 * s.countUnits(pid)
	for _, c := range s.Map.Coords() {
		if s.Map.Get(c).IsExploredBy(pid) {
			score++
		}
	}
	return score
}
