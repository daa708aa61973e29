package game

import (
	"slices"

	"github.com/talgya/hexsim/internal/combat"
	"github.com/talgya/hexsim/internal/entropy"
	"github.com/talgya/hexsim/internal/world"
)

// canTarget reports whether pid can see u well enough to attack it.
// Stealthed units are only spotted from an adjacent tile.
func (s *State) canTarget(pid PlayerID, u *Unit) bool {
	p := &s.Players[s.playerIndex(pid)]
	if !p.Sees(u.Coord) {
		return false
	}
	if u.Status != StatusStealthed {
		return true
	}
	for _, o := range s.Units {
		if o.Owner == pid && world.Distance(o.Coord, u.Coord) <= 1 {
			return true
		}
	}
	return false
}

func (s *State) modifiersFor(def *Unit, distance int) combat.Modifiers {
	t := s.Map.Get(def.Coord)
	return combat.Modifiers{
		DefenderTerrain: t.Terrain,
		DefenderInCity:  t.Feature == world.FeatureCity && t.CityOwner == def.Owner,
		Distance:        distance,
		Seed:            entropy.Mix(s.Seed, s.Sequence),
	}
}

// checkAttack runs every precondition of a unit attack and resolves it
// without touching the state.
func (s *State) checkAttack(action CommandType, pid PlayerID, attacker, defender UnitID) (ai, di int, out combat.Outcome, err *ActionError) {
	ai, err = s.ownUnit(action, pid, attacker)
	if err != nil {
		return
	}
	di = s.unitIndex(defender)
	if di < 0 {
		err = reject(InvalidAction, action, "unknown unit %q", defender)
		return
	}
	att, def := &s.Units[ai], &s.Units[di]
	if def.Owner == pid {
		err = reject(InvalidAction, action, "unit %s is your own", def.ID)
		return
	}
	if att.HasAttacked {
		err = reject(AlreadyActed, action, "unit %s has already attacked", att.ID)
		return
	}
	dist := world.Distance(att.Coord, def.Coord)
	if !combat.InRange(att.AttackRange, dist) {
		err = reject(OutOfRange, action, "target %d away, range %d", dist, att.AttackRange)
		return
	}
	if !s.canTarget(pid, def) {
		err = reject(OutOfRange, action, "unit %s is not visible", def.ID)
		return
	}
	out = combat.ResolveAttack(att.Fighter(), def.Fighter(), s.modifiersFor(def, dist))
	return
}

func (s *State) attackUnit(c AttackUnit) (*State, *ActionError) {
	pi, err := s.actor(CmdAttackUnit, c.Player)
	if err != nil {
		return nil, err
	}
	ai, di, out, err := s.checkAttack(CmdAttackUnit, c.Player, c.Attacker, c.Defender)
	if err != nil {
		return nil, err
	}

	n := s.clone()
	att, def := &n.Units[ai], &n.Units[di]
	def.HP = out.DefenderHP
	att.HP = out.AttackerHP
	att.exhaust()

	if out.DefenderKilled {
		n.Players[pi].Stats.Pride++
	}
	if out.AttackerKilled {
		if dpi := n.playerIndex(def.Owner); dpi >= 0 {
			n.Players[dpi].Stats.Pride++
		}
	}

	// Remove the higher index first so the other stays valid.
	dead := make([]int, 0, 2)
	if out.DefenderKilled {
		dead = append(dead, di)
	}
	if out.AttackerKilled {
		dead = append(dead, ai)
	}
	if len(dead) == 2 && dead[0] < dead[1] {
		dead[0], dead[1] = dead[1], dead[0]
	}
	for _, i := range dead {
		n.removeUnit(i)
	}
	return n, nil
}

func (s *State) attackStructure(c AttackStructure) (*State, *ActionError) {
	pi, err := s.actor(CmdAttackStructure, c.Player)
	if err != nil {
		return nil, err
	}
	ai, err := s.ownUnit(CmdAttackStructure, c.Player, c.Attacker)
	if err != nil {
		return nil, err
	}
	si := s.structureIndex(c.Structure)
	if si < 0 {
		return nil, reject(InvalidAction, CmdAttackStructure, "unknown structure %q", c.Structure)
	}
	att, st := &s.Units[ai], &s.Structures[si]
	if st.Owner == c.Player {
		return nil, reject(InvalidAction, CmdAttackStructure, "structure %s is your own", st.ID)
	}
	if att.HasAttacked {
		return nil, reject(AlreadyActed, CmdAttackStructure, "unit %s has already attacked", att.ID)
	}
	dist := world.Distance(att.Coord, st.Coord)
	if !combat.InRange(att.AttackRange, dist) {
		return nil, reject(OutOfRange, CmdAttackStructure, "target %d away, range %d", dist, att.AttackRange)
	}
	if !s.Players[pi].Sees(st.Coord) {
		return nil, reject(OutOfRange, CmdAttackStructure, "structure %s is not visible", st.ID)
	}
	out := combat.ResolveStructureAttack(att.Fighter(), st.Target())

	n := s.clone()
	n.Units[ai].exhaust()
	if out.DefenderKilled {
		n.Players[pi].Stats.Pride++
		n.Structures = slices.Delete(n.Structures, si, si+1)
	} else {
		n.Structures[si].HP = out.DefenderHP
	}
	return n, nil
}
