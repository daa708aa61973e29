package game

import (
	"slices"

	"github.com/talgya/hexsim/internal/visibility"
	"github.com/talgya/hexsim/internal/world"
)

// Apply validates cmd against s and returns the next state. On rejection it
// returns s itself and an *ActionError; nothing is partially applied.
func Apply(s *State, cmd Command) (*State, error) {
	if cmd == nil {
		return s, reject(InvalidAction, "", "nil command")
	}
	if s.Phase == PhaseGameOver {
		return s, reject(InvalidAction, cmd.Type(), "game is over")
	}

	var (
		next *State
		err  *ActionError
	)
	switch c := cmd.(type) {
	case StartGame:
		next, err = s.startGame()
	case MoveUnit:
		next, err = s.moveUnit(c)
	case AttackUnit:
		next, err = s.attackUnit(c)
	case AttackStructure:
		next, err = s.attackStructure(c)
	case CaptureVillage:
		next, err = s.captureVillage(c)
	case ExploreRuins:
		next, err = s.exploreRuins(c)
	case StartConstruction:
		next, err = s.startConstruction(c)
	case ResearchTech:
		next, err = s.researchTech(c)
	case UseAbility:
		next, err = s.useAbility(c)
	case RecruitUnit:
		next, err = s.recruitUnit(c)
	case HarvestResource:
		next, err = s.harvestResource(c)
	case EndTurn:
		next, err = s.endTurn(c)
	default:
		return s, reject(InvalidAction, cmd.Type(), "unsupported command %T", cmd)
	}
	if err != nil {
		return s, err
	}

	next.Sequence++
	next.settle()
	return next, nil
}

// actor checks that the game is running and that pid holds the turn. It
// returns pid's player index.
func (s *State) actor(action CommandType, pid PlayerID) (int, *ActionError) {
	if s.Phase != PhasePlaying {
		return -1, reject(InvalidAction, action, "game is in %s phase", s.Phase)
	}
	pi := s.playerIndex(pid)
	if pi < 0 {
		return -1, reject(InvalidAction, action, "unknown player %q", pid)
	}
	if s.Players[pi].IsEliminated {
		return -1, reject(InvalidAction, action, "player %s is eliminated", pid)
	}
	if pi != s.CurrentPlayerIndex {
		return -1, reject(NotYourTurn, action, "it is %s's turn", s.Players[s.CurrentPlayerIndex].ID)
	}
	return pi, nil
}

// ownUnit looks up a unit that must belong to pid.
func (s *State) ownUnit(action CommandType, pid PlayerID, id UnitID) (int, *ActionError) {
	ui := s.unitIndex(id)
	if ui < 0 {
		return -1, reject(InvalidAction, action, "unknown unit %q", id)
	}
	if s.Units[ui].Owner != pid {
		return -1, reject(InvalidAction, action, "unit %s belongs to %s", id, s.Units[ui].Owner)
	}
	return ui, nil
}

// settle re-derives everything that follows from the rest of the state:
// city lists, eliminations, game end and visibility.
func (s *State) settle() {
	if s.Phase != PhasePlaying {
		return
	}
	s.deriveCities()
	s.checkElimination()
	s.checkGameOver()
	if s.Phase == PhasePlaying && s.Players[s.CurrentPlayerIndex].IsEliminated {
		s.advance()
		s.checkGameOver()
	}
	s.deriveVisibility()
}

func (s *State) deriveCities() {
	for i := range s.Players {
		p := &s.Players[i]
		var owned []CityID
		for _, c := range s.Cities {
			if c.Owner == p.ID {
				owned = append(owned, c.ID)
			}
		}
		p.CitiesOwned = owned
	}
}

func (s *State) checkElimination() {
	for i := range s.Players {
		p := &s.Players[i]
		if !p.IsEliminated && s.countCities(p.ID) == 0 && s.countUnits(p.ID) == 0 {
			p.IsEliminated = true
		}
	}
}

func (s *State) checkGameOver() {
	alive := make([]int, 0, len(s.Players))
	for i, p := range s.Players {
		if !p.IsEliminated {
			alive = append(alive, i)
		}
	}
	switch {
	case len(alive) == 1:
		s.Phase = PhaseGameOver
		s.Winner = s.Players[alive[0]].ID
	case len(alive) == 0:
		s.Phase = PhaseGameOver
	case s.Rules.TurnLimit > 0 && s.Turn > s.Rules.TurnLimit:
		s.Phase = PhaseGameOver
		best := alive[0]
		for _, i := range alive[1:] {
			if s.Score(s.Players[i].ID) > s.Score(s.Players[best].ID) {
				best = i
			}
		}
		s.Winner = s.Players[best].ID
	}
}

// deriveVisibility recomputes every player's visible set and marks those
// tiles explored. Explored sets only ever grow.
func (s *State) deriveVisibility() {
	rules := s.Rules.sight()
	for i := range s.Players {
		p := &s.Players[i]
		if p.IsEliminated {
			p.Visible = nil
			continue
		}
		vis := visibility.PlayerVisible(s.Map, s.viewers(p.ID), rules)
		visibility.Reveal(s.Map, vis, p.ID)
		p.Visible = vis.Coords()
	}
}

// viewers lists every sight source of a player: its units, its cities and
// its completed structures that have a vision radius.
func (s *State) viewers(pid PlayerID) []visibility.Viewer {
	var out []visibility.Viewer
	for _, u := range s.Units {
		if u.Owner == pid {
			out = append(out, visibility.Viewer{At: u.Coord, Radius: u.VisionRadius})
		}
	}
	for _, c := range s.Cities {
		if c.Owner == pid {
			out = append(out, visibility.Viewer{At: c.Coord, Radius: cityVision})
		}
	}
	for _, st := range s.Structures {
		if st.Owner != pid || !st.Complete() {
			continue
		}
		if r := structureCatalog[st.Type].Vision; r > 0 {
			out = append(out, visibility.Viewer{At: st.Coord, Radius: r})
		}
	}
	return out
}

// Sees reports whether c is in the player's current visible set.
func (p *Player) Sees(c world.HexCoord) bool {
	_, ok := slices.BinarySearchFunc(p.Visible, c, compareCoords)
	return ok
}
