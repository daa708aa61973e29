package game

import (
	"fmt"

	"github.com/talgya/hexsim/internal/world"
)

// Validate checks the structural invariants of a state. A failure means a
// bug or a corrupt snapshot, never a rejected command.
func (s *State) Validate() error {
	if s.Map == nil {
		return fmt.Errorf("%w: no map", ErrCorruptSnapshot)
	}
	if len(s.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrCorruptSnapshot)
	}
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return fmt.Errorf("%w: current player index %d of %d", ErrCorruptSnapshot, s.CurrentPlayerIndex, len(s.Players))
	}

	players := make(map[PlayerID]int, len(s.Players))
	for i, p := range s.Players {
		if _, dup := players[p.ID]; dup {
			return fmt.Errorf("%w: duplicate player %s", ErrCorruptSnapshot, p.ID)
		}
		players[p.ID] = i
	}

	seen := make(map[string]bool)
	occupied := make(map[world.HexCoord]UnitID)
	for _, u := range s.Units {
		if seen[string(u.ID)] {
			return fmt.Errorf("%w: duplicate id %s", ErrCorruptSnapshot, u.ID)
		}
		seen[string(u.ID)] = true
		pi, ok := players[u.Owner]
		if !ok {
			return fmt.Errorf("%w: unit %s owned by unknown player %s", ErrCorruptSnapshot, u.ID, u.Owner)
		}
		spec, ok := LookupUnit(u.Type)
		if !ok {
			return fmt.Errorf("%w: unit %s has unknown type %s", ErrCorruptSnapshot, u.ID, u.Type)
		}
		t := s.Map.Get(u.Coord)
		if t == nil || !canEnter(spec, &s.Players[pi], t) {
			return fmt.Errorf("%w: unit %s on impassable %s", ErrCorruptSnapshot, u.ID, u.Coord)
		}
		if other, ok := occupied[u.Coord]; ok {
			return fmt.Errorf("%w: units %s and %s share %s", ErrCorruptSnapshot, other, u.ID, u.Coord)
		}
		occupied[u.Coord] = u.ID
		if u.RemainingMovement < 0 || u.RemainingMovement > u.Movement {
			return fmt.Errorf("%w: unit %s movement %d of %d", ErrCorruptSnapshot, u.ID, u.RemainingMovement, u.Movement)
		}
		if u.HP <= 0 || u.HP > u.MaxHP {
			return fmt.Errorf("%w: unit %s hp %d of %d", ErrCorruptSnapshot, u.ID, u.HP, u.MaxHP)
		}
	}

	for _, c := range s.Cities {
		if seen[string(c.ID)] {
			return fmt.Errorf("%w: duplicate id %s", ErrCorruptSnapshot, c.ID)
		}
		seen[string(c.ID)] = true
		t := s.Map.Get(c.Coord)
		if t == nil || t.Feature != world.FeatureCity || t.CityOwner != c.Owner {
			return fmt.Errorf("%w: city %s does not match its tile", ErrCorruptSnapshot, c.ID)
		}
	}

	for _, st := range s.Structures {
		if seen[string(st.ID)] {
			return fmt.Errorf("%w: duplicate id %s", ErrCorruptSnapshot, st.ID)
		}
		seen[string(st.ID)] = true
		if s.Map.Get(st.Coord) == nil {
			return fmt.Errorf("%w: structure %s off the map", ErrCorruptSnapshot, st.ID)
		}
	}

	for _, p := range s.Players {
		for _, c := range p.Visible {
			if t := s.Map.Get(c); t == nil || !t.IsExploredBy(p.ID) {
				return fmt.Errorf("%w: %s sees %s without having explored it", ErrCorruptSnapshot, p.ID, c)
			}
		}
	}
	return nil
}
