package game

import "github.com/talgya/hexsim/internal/world"

// Ability costs and effects.
const (
	rallyPrideCost = 2
	healFaithCost  = 2
	healAmount     = 4
)

func (s *State) useAbility(c UseAbility) (*State, *ActionError) {
	pi, err := s.actor(CmdUseAbility, c.Player)
	if err != nil {
		return nil, err
	}
	ui, err := s.ownUnit(CmdUseAbility, c.Player, c.Unit)
	if err != nil {
		return nil, err
	}
	u := &s.Units[ui]
	if !u.Spec().Has(c.Ability) {
		return nil, reject(InvalidAction, CmdUseAbility, "%s cannot use %s", u.Type, c.Ability)
	}
	p := &s.Players[pi]

	switch c.Ability {
	case AbilityStealth:
		if !p.HasTech(TechCloaking) {
			return nil, reject(InvalidAction, CmdUseAbility, "stealth requires %s", TechCloaking)
		}
		if u.Status == StatusStealthed {
			return nil, reject(InvalidAction, CmdUseAbility, "unit %s is already stealthed", u.ID)
		}
		if u.HasAttacked {
			return nil, reject(AlreadyActed, CmdUseAbility, "unit %s has already acted", u.ID)
		}
		return s.withUnit(ui, func(m *Unit) { m.Status = StatusStealthed }), nil

	case AbilitySiege:
		if u.Status == StatusSiegeMode {
			return nil, reject(InvalidAction, CmdUseAbility, "unit %s is already in siege mode", u.ID)
		}
		if u.RemainingMovement < u.Movement {
			return nil, reject(AlreadyActed, CmdUseAbility, "unit %s has already moved", u.ID)
		}
		return s.withUnit(ui, func(m *Unit) {
			m.Status = StatusSiegeMode
			m.RemainingMovement = 0
		}), nil

	case AbilityBreakCamp:
		if u.Status != StatusSiegeMode {
			return nil, reject(InvalidAction, CmdUseAbility, "unit %s is not in siege mode", u.ID)
		}
		if u.HasAttacked {
			return nil, reject(AlreadyActed, CmdUseAbility, "unit %s has already acted", u.ID)
		}
		return s.withUnit(ui, func(m *Unit) {
			m.Status = StatusActive
			m.RemainingMovement = 0
		}), nil

	case AbilityFormation:
		if u.Status == StatusFormation {
			return nil, reject(InvalidAction, CmdUseAbility, "unit %s is already in formation", u.ID)
		}
		if u.HasAttacked {
			return nil, reject(AlreadyActed, CmdUseAbility, "unit %s has already acted", u.ID)
		}
		return s.withUnit(ui, func(m *Unit) {
			m.Status = StatusFormation
			m.RemainingMovement = 0
		}), nil

	case AbilityRally:
		if u.HasAttacked {
			return nil, reject(AlreadyActed, CmdUseAbility, "unit %s has already acted", u.ID)
		}
		if u.Status == StatusRallied {
			return nil, reject(AlreadyActed, CmdUseAbility, "unit %s is already rallied this turn", u.ID)
		}
		if p.Stats.Pride < rallyPrideCost {
			return nil, reject(InsufficientResources, CmdUseAbility, "rally costs %d pride, have %d", rallyPrideCost, p.Stats.Pride)
		}
		n := s.clone()
		n.Players[pi].Stats.Pride -= rallyPrideCost
		center := u.Coord
		for i := range n.Units {
			o := &n.Units[i]
			if o.ID == u.ID || (o.Owner == c.Player && o.Status == StatusActive && world.Distance(o.Coord, center) <= 1) {
				o.Status = StatusRallied
			}
		}
		return n, nil

	case AbilityHeal:
		if u.HasAttacked || u.RemainingMovement < u.Movement {
			return nil, reject(AlreadyActed, CmdUseAbility, "unit %s has already acted", u.ID)
		}
		if u.HP >= u.MaxHP {
			return nil, reject(InvalidAction, CmdUseAbility, "unit %s is unhurt", u.ID)
		}
		if p.Stats.Faith < healFaithCost {
			return nil, reject(InsufficientResources, CmdUseAbility, "heal costs %d faith, have %d", healFaithCost, p.Stats.Faith)
		}
		n := s.clone()
		n.Players[pi].Stats.Faith -= healFaithCost
		m := &n.Units[ui]
		m.HP = min(m.HP+healAmount, m.MaxHP)
		m.exhaust()
		return n, nil

	default:
		return nil, reject(InvalidAction, CmdUseAbility, "unknown ability %q", c.Ability)
	}
}

// withUnit clones the state and edits one unit.
func (s *State) withUnit(i int, fn func(u *Unit)) *State {
	n := s.clone()
	fn(&n.Units[i])
	return n
}
