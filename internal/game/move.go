package game

import (
	"slices"

	"github.com/talgya/hexsim/internal/pathfind"
	"github.com/talgya/hexsim/internal/world"
)

// passableFor returns the tiles u may cross: terrain it can enter and no
// enemy unit in the way. Friendly units can be passed through.
func (s *State) passableFor(u *Unit) func(t *world.Tile) bool {
	spec := u.Spec()
	owner := &s.Players[s.playerIndex(u.Owner)]
	enemies := make(map[world.HexCoord]bool)
	for _, o := range s.Units {
		if o.Owner != u.Owner {
			enemies[o.Coord] = true
		}
	}
	return func(t *world.Tile) bool {
		return canEnter(spec, owner, t) && !enemies[t.Coord]
	}
}

func (s *State) costsFor(u *Unit) pathfind.CostFunc {
	return pathfind.TerrainCosts(s.Map, s.passableFor(u))
}

func (s *State) moveUnit(c MoveUnit) (*State, *ActionError) {
	pi, err := s.actor(CmdMoveUnit, c.Player)
	if err != nil {
		return nil, err
	}
	ui, err := s.ownUnit(CmdMoveUnit, c.Player, c.Unit)
	if err != nil {
		return nil, err
	}
	u := &s.Units[ui]

	if u.Status == StatusSiegeMode {
		return nil, reject(InvalidAction, CmdMoveUnit, "unit %s is in siege mode", u.ID)
	}
	if u.RemainingMovement <= 0 {
		return nil, reject(AlreadyActed, CmdMoveUnit, "unit %s has no movement left", u.ID)
	}
	t := s.Map.Get(c.To)
	if t == nil {
		return nil, reject(InvalidAction, CmdMoveUnit, "no tile at %s", c.To)
	}
	if c.To == u.Coord {
		return nil, reject(InvalidAction, CmdMoveUnit, "unit %s is already at %s", u.ID, c.To)
	}
	if !canEnter(u.Spec(), &s.Players[pi], t) {
		return nil, reject(IllegalTerrain, CmdMoveUnit, "%s cannot enter %s", u.Type, t.Terrain)
	}
	if s.unitIndexAt(c.To) >= 0 {
		return nil, reject(InvalidAction, CmdMoveUnit, "%s is occupied", c.To)
	}
	reach := pathfind.Reachable(u.Coord, u.RemainingMovement, s.costsFor(u))
	cost, ok := reach.Cost(c.To)
	if !ok {
		return nil, reject(OutOfRange, CmdMoveUnit, "%s is not reachable from %s", c.To, u.Coord)
	}
	if len(c.Reachable) > 0 && !slices.Contains(c.Reachable, c.To) {
		return nil, reject(OutOfRange, CmdMoveUnit, "%s is not in the supplied reach set", c.To)
	}

	n := s.clone()
	m := &n.Units[ui]
	m.Coord = c.To
	m.RemainingMovement -= cost
	if m.Status == StatusFormation {
		m.Status = StatusActive
	}
	return n, nil
}
