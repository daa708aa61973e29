package game

func (s *State) startGame() (*State, *ActionError) {
	if s.Phase != PhaseSetup {
		return nil, reject(InvalidAction, CmdStartGame, "game already started")
	}
	if len(s.Players) == 0 {
		return nil, reject(InvalidAction, CmdStartGame, "no players")
	}
	n := s.clone()
	n.Phase = PhasePlaying
	n.Turn = 1
	n.CurrentPlayerIndex = 0
	n.refreshUnits(n.Players[0].ID)
	return n, nil
}

func (s *State) endTurn(c EndTurn) (*State, *ActionError) {
	if _, err := s.actor(CmdEndTurn, c.Player); err != nil {
		return nil, err
	}
	n := s.clone()
	n.advance()
	return n, nil
}

// advance hands the turn to the next player still in the game, counting a
// new round whenever the order wraps, and runs that player's turn start.
func (s *State) advance() {
	idx := s.CurrentPlayerIndex
	for range s.Players {
		idx++
		if idx == len(s.Players) {
			idx = 0
			s.Turn++
		}
		if !s.Players[idx].IsEliminated {
			break
		}
	}
	s.CurrentPlayerIndex = idx
	s.beginTurn(idx)
}

// beginTurn runs the start-of-turn step for player i: unit refresh,
// construction, income and unrest.
func (s *State) beginTurn(i int) {
	p := &s.Players[i]
	s.refreshUnits(p.ID)

	for si := range s.Structures {
		st := &s.Structures[si]
		if st.Owner != p.ID || st.Complete() {
			continue
		}
		st.TurnsRemaining--
		if st.Complete() {
			s.completeStructure(st)
		}
	}

	income := 0
	for _, c := range s.Cities {
		if c.Owner == p.ID {
			income += c.Production()
		}
	}
	income -= p.Stats.InternalDissent / 2
	p.Stars += max(income, 0)
	p.Stats.InternalDissent = max(p.Stats.InternalDissent-1, 0)

	for _, st := range s.Structures {
		if st.Owner == p.ID && st.Complete() {
			p.Stats.Faith += structureCatalog[st.Type].Faith
		}
	}
}

func (s *State) completeStructure(st *Structure) {
	spec := structureCatalog[st.Type]
	if ci := s.cityIndex(st.City); ci >= 0 && spec.Population > 0 {
		c := &s.Cities[ci]
		c.Population += spec.Population
		c.grow()
	}
}

func (s *State) refreshUnits(pid PlayerID) {
	for i := range s.Units {
		if s.Units[i].Owner == pid {
			s.Units[i].refresh()
		}
	}
}
