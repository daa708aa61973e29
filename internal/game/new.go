package game

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/talgya/hexsim/internal/world"
)

// Setup describes a new game.
type Setup struct {
	Params world.GenParams
	// Factions per seat. Missing seats get DefaultFaction.
	Factions []FactionID
	Rules    Rules
}

// gameNamespace scopes game IDs derived from setup parameters.
var gameNamespace = uuid.MustParse("6f1c2a9e-52d4-4c1b-9b61-4d3e0f8a7c25")

// GameID derives a stable ID from the setup, so the same setup always names
// the same game.
func GameID(setup Setup) string {
	p := setup.Params
	key := fmt.Sprintf("%d/%d/%s/%dx%d/%d/%d/%g/%v/%t/%d", p.Seed, p.PlayerCount,
		p.MapSize, p.Width, p.Height, p.MinResourceDistance, p.MaxResourcesPerPlayer, p.WaterRatio,
		setup.Factions, setup.Rules.ForestBlocksSight, setup.Rules.TurnLimit)
	return uuid.NewSHA1(gameNamespace, []byte(key)).String()
}

// New generates the map and builds the initial state: one capital and one
// starting unit per player, in SETUP phase. Apply StartGame to begin.
func New(setup Setup) (*State, *world.GenResult, error) {
	gen, err := world.Generate(setup.Params)
	if err != nil {
		return nil, nil, err
	}

	s := &State{
		ID:    GameID(setup),
		Seed:  setup.Params.Seed,
		Map:   gen.Map,
		Phase: PhaseSetup,
		Rules: setup.Rules,
	}

	names := world.SettlementNames(setup.Params.Seed, len(gen.StartPositions))
	for i, start := range gen.StartPositions {
		fid := DefaultFaction(i)
		if i < len(setup.Factions) && setup.Factions[i] != "" {
			fid = setup.Factions[i]
		}
		faction, err := LookupFaction(fid)
		if err != nil {
			return nil, nil, fmt.Errorf("seat %d: %w", i, err)
		}

		pid := PlayerID("p" + strconv.Itoa(i+1))
		s.Players = append(s.Players, Player{
			ID:              pid,
			Faction:         faction.ID,
			Stars:           startingStars,
			ResearchedTechs: []TechID{faction.StartTech},
		})

		capital := City{
			ID:      CityID(s.newID("c")),
			Name:    names[i],
			Coord:   start,
			Owner:   pid,
			Level:   1,
			Capital: true,
		}
		s.Cities = append(s.Cities, capital)
		s.Map.Update(start, func(t *world.Tile) {
			t.Feature = world.FeatureCity
			t.CityOwner = pid
			t.ExploredBy = t.WithExplorer(pid)
		})

		spec := unitCatalog[faction.StartUnit]
		s.Units = append(s.Units, newUnit(UnitID(s.newID("u")), spec, pid, start, capital.ID))
	}
	s.deriveCities()

	if err := s.Validate(); err != nil {
		return nil, nil, fmt.Errorf("building initial state: %w", err)
	}
	return s, gen, nil
}
