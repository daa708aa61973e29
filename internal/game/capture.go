package game

import (
	"github.com/talgya/hexsim/internal/entropy"
	"github.com/talgya/hexsim/internal/world"
)

// Capture rewards.
const (
	captureStars    = 5
	captureResearch = 1
)

func (s *State) captureVillage(c CaptureVillage) (*State, *ActionError) {
	pi, err := s.actor(CmdCaptureVillage, c.Player)
	if err != nil {
		return nil, err
	}
	ui, err := s.ownUnit(CmdCaptureVillage, c.Player, c.Unit)
	if err != nil {
		return nil, err
	}
	u := &s.Units[ui]
	t := s.Map.Get(c.Village)
	if t == nil {
		return nil, reject(InvalidAction, CmdCaptureVillage, "no tile at %s", c.Village)
	}
	if u.Coord != c.Village {
		return nil, reject(OutOfRange, CmdCaptureVillage, "unit %s is at %s, not on %s", u.ID, u.Coord, c.Village)
	}
	if !t.Feature.IsSettlement() {
		return nil, reject(InvalidAction, CmdCaptureVillage, "no village at %s", c.Village)
	}
	if t.CityOwner == c.Player {
		return nil, reject(InvalidAction, CmdCaptureVillage, "%s already owns %s", c.Player, c.Village)
	}
	if u.HasAttacked {
		return nil, reject(AlreadyActed, CmdCaptureVillage, "unit %s has already acted", u.ID)
	}

	n := s.clone()
	p := &n.Players[pi]
	p.Stars += captureStars
	p.ResearchProgress += captureResearch

	n.Map.Update(c.Village, func(t *world.Tile) {
		t.Feature = world.FeatureCity
		t.CityOwner = c.Player
		t.ExploredBy = t.WithExplorer(c.Player)
	})

	if ci := n.cityIndexAt(c.Village); ci >= 0 {
		n.Cities[ci].Owner = c.Player
		n.Cities[ci].Capital = false
	} else {
		n.Cities = append(n.Cities, City{
			ID:    CityID(n.newID("c")),
			Name:  n.cityName(),
			Coord: c.Village,
			Owner: c.Player,
			Level: 1,
		})
	}

	n.Units[ui].exhaust()
	return n, nil
}

// cityName picks the next procedural name for a newly founded city.
func (s *State) cityName() string {
	names := world.SettlementNames(s.Seed, len(s.Cities)+1)
	return names[len(names)-1]
}

// Ruins rewards, picked by a roll seeded from the game seed and the action's
// position in the command sequence.
const (
	ruinsStars    = 10
	ruinsResearch = 3
	ruinsFaith    = 3
	ruinsPride    = 2
)

func (s *State) exploreRuins(c ExploreRuins) (*State, *ActionError) {
	pi, err := s.actor(CmdExploreRuins, c.Player)
	if err != nil {
		return nil, err
	}
	ui, err := s.ownUnit(CmdExploreRuins, c.Player, c.Unit)
	if err != nil {
		return nil, err
	}
	u := &s.Units[ui]
	if s.Map.Get(u.Coord).Feature != world.FeatureRuins {
		return nil, reject(InvalidAction, CmdExploreRuins, "no ruins at %s", u.Coord)
	}
	if u.HasAttacked {
		return nil, reject(AlreadyActed, CmdExploreRuins, "unit %s has already acted", u.ID)
	}

	n := s.clone()
	p := &n.Players[pi]
	m := &n.Units[ui]
	switch entropy.Mix(n.Seed, n.Sequence, int64(m.Coord.Q), int64(m.Coord.R)) % 4 {
	case 0:
		p.Stars += ruinsStars
	case 1:
		p.ResearchProgress += ruinsResearch
	case 2:
		p.Stats.Faith += ruinsFaith
	default:
		p.Stats.Pride += ruinsPride
		m.HP = m.MaxHP
	}
	n.Map.Update(m.Coord, func(t *world.Tile) {
		t.Feature = world.FeatureNone
		t.ExploredBy = t.WithExplorer(c.Player)
	})
	m.exhaust()
	return n, nil
}
