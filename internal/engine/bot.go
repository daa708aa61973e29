package engine

import (
	"context"
	"math"

	"github.com/talgya/hexsim/internal/game"
	"github.com/talgya/hexsim/internal/pathfind"
	"github.com/talgya/hexsim/internal/visibility"
	"github.com/talgya/hexsim/internal/world"
)

// Bot is a greedy scripted controller. Every unit captures or explores what
// it stands on, attacks when the trade is not a losing one, and otherwise
// heads for the nearest settlement it does not own or, failing that, the
// nearest unexplored tile. After the units it researches and recruits once,
// then ends the turn. Its choices depend only on the state, so a game of
// bots replays exactly.
type Bot struct {
	Seat game.PlayerID
	// Preview, when set, answers reach queries on the worker pool.
	Preview *Previewer

	turn       int
	moved      map[game.UnitID]bool
	researched bool
	recruited  bool
}

// NewBot creates a bot for seat.
func NewBot(seat game.PlayerID, preview *Previewer) *Bot {
	return &Bot{Seat: seat, Preview: preview}
}

// Next implements Controller.
func (b *Bot) Next(ctx context.Context, s *game.State) (game.Command, error) {
	if s.Turn != b.turn || b.moved == nil {
		b.turn = s.Turn
		b.moved = make(map[game.UnitID]bool)
		b.researched, b.recruited = false, false
	}

	for _, u := range s.UnitsOf(b.Seat) {
		if cmd := b.act(s, u); cmd != nil {
			return cmd, nil
		}
		if b.moved[u.ID] || u.RemainingMovement == 0 || u.Status == game.StatusSiegeMode {
			continue
		}
		b.moved[u.ID] = true
		to, err := b.destination(ctx, s, u)
		if err != nil {
			return nil, err
		}
		if to != u.Coord {
			return game.MoveUnit{Player: b.Seat, Unit: u.ID, To: to}, nil
		}
	}

	if !b.researched {
		b.researched = true
		if cmd := b.research(s); cmd != nil {
			return cmd, nil
		}
	}
	if !b.recruited {
		b.recruited = true
		if cmd := b.recruit(s); cmd != nil {
			return cmd, nil
		}
	}
	return game.EndTurn{Player: b.Seat}, nil
}

// act returns a capture, ruins or attack command for u, or nil.
func (b *Bot) act(s *game.State, u game.Unit) game.Command {
	if u.HasAttacked {
		return nil
	}
	t := s.Map.Get(u.Coord)
	if t.Feature.IsSettlement() && t.CityOwner != b.Seat {
		return game.CaptureVillage{Player: b.Seat, Unit: u.ID, Village: u.Coord}
	}
	if t.Feature == world.FeatureRuins {
		return game.ExploreRuins{Player: b.Seat, Unit: u.ID}
	}
	for _, enemy := range s.VisibleUnits(b.Seat) {
		if enemy.Owner == b.Seat {
			continue
		}
		out, err := s.PreviewAttack(u.ID, enemy.ID)
		if err != nil {
			continue
		}
		if out.DefenderKilled || out.DefenderDamage >= out.AttackerDamage {
			return game.AttackUnit{Player: b.Seat, Attacker: u.ID, Defender: enemy.ID}
		}
	}
	return nil
}

func (b *Bot) reach(ctx context.Context, s *game.State, u game.Unit) (pathfind.Reach, error) {
	if b.Preview != nil {
		return b.Preview.Reach(ctx, string(b.Seat), s, u.ID)
	}
	return s.ReachableFor(u.ID)
}

// destination picks the free reachable tile closest to a target. Ties go to
// the first tile in coordinate order.
func (b *Bot) destination(ctx context.Context, s *game.State, u game.Unit) (world.HexCoord, error) {
	reach, err := b.reach(ctx, s, u)
	if err != nil {
		return u.Coord, err
	}
	targets := b.targets(s)
	if len(targets) == 0 {
		return u.Coord, nil
	}

	best, bestDist := u.Coord, nearest(u.Coord, targets)
	for _, c := range reach.Coords() {
		if _, taken := s.UnitAt(c); taken {
			continue
		}
		if d := nearest(c, targets); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, nil
}

// targets are the known settlements the bot does not own, or the
// unexplored tiles when there are none.
func (b *Bot) targets(s *game.State) []world.HexCoord {
	var settlements, unexplored []world.HexCoord
	for _, c := range s.Map.Coords() {
		switch s.FogAt(b.Seat, c) {
		case visibility.FogUnexplored:
			unexplored = append(unexplored, c)
		default:
			t := s.Map.Get(c)
			if t.Feature.IsSettlement() && t.CityOwner != b.Seat {
				settlements = append(settlements, c)
			}
		}
	}
	if len(settlements) > 0 {
		return settlements
	}
	return unexplored
}

func nearest(from world.HexCoord, targets []world.HexCoord) int {
	best := math.MaxInt
	for _, t := range targets {
		best = min(best, world.Distance(from, t))
	}
	return best
}

// research picks the cheapest affordable tech.
func (b *Bot) research(s *game.State) game.Command {
	p, ok := s.Player(b.Seat)
	if !ok {
		return nil
	}
	var pick game.TechID
	pickCost := math.MaxInt
	for _, id := range p.AvailableTechs() {
		tech, _ := game.LookupTech(id)
		cost := game.TechCost(tech, len(p.CitiesOwned))
		cost -= min(p.ResearchProgress, cost)
		if cost <= p.Stars && cost < pickCost {
			pick, pickCost = id, cost
		}
	}
	if pick == "" {
		return nil
	}
	return game.ResearchTech{Player: b.Seat, Tech: pick}
}

// recruit trains the strongest affordable unit in the first city with room.
func (b *Bot) recruit(s *game.State) game.Command {
	p, ok := s.Player(b.Seat)
	if !ok {
		return nil
	}
	for _, id := range p.CitiesOwned {
		city, ok := s.City(id)
		if !ok {
			continue
		}
		if _, taken := s.UnitAt(city.Coord); taken {
			continue
		}
		supported := 0
		for _, u := range s.Units {
			if u.HomeCity == city.ID {
				supported++
			}
		}
		if supported >= city.Capacity() {
			continue
		}
		if t := b.affordableUnit(p); t != "" {
			return game.RecruitUnit{Player: b.Seat, City: city.ID, UnitType: t}
		}
	}
	return nil
}

func (b *Bot) affordableUnit(p game.Player) game.UnitType {
	var pick game.UnitType
	bestAttack := 0.0
	for _, t := range []game.UnitType{game.UnitWarrior, game.UnitArcher, game.UnitRider, game.UnitDefender, game.UnitSwordsman, game.UnitKnight} {
		spec, _ := game.LookupUnit(t)
		if spec.Cost <= p.Stars && p.HasTech(spec.Tech) && spec.Attack > bestAttack {
			pick, bestAttack = t, spec.Attack
		}
	}
	return pick
}
