package game

import (
	"slices"

	"github.com/talgya/hexsim/internal/world"
)

func (s *State) startConstruction(c StartConstruction) (*State, *ActionError) {
	pi, err := s.actor(CmdStartConstruction, c.Player)
	if err != nil {
		return nil, err
	}
	spec, ok := LookupStructure(c.Structure)
	if !ok {
		return nil, reject(InvalidAction, CmdStartConstruction, "unknown structure %q", c.Structure)
	}
	t := s.Map.Get(c.At)
	if t == nil {
		return nil, reject(InvalidAction, CmdStartConstruction, "no tile at %s", c.At)
	}
	ci := s.territoryOf(c.Player, c.At)
	if ci < 0 {
		return nil, reject(OutOfRange, CmdStartConstruction, "%s is outside your territory", c.At)
	}
	p := &s.Players[pi]
	if !p.HasTech(spec.Tech) {
		return nil, reject(InvalidAction, CmdStartConstruction, "%s requires %s", spec.Type, spec.Tech)
	}
	if t.Feature.IsSettlement() || !spec.AllowsTerrain(t.Terrain) {
		return nil, reject(IllegalTerrain, CmdStartConstruction, "%s cannot stand on %s", spec.Type, t.Terrain)
	}
	if s.structureIndexAt(c.At) >= 0 {
		return nil, reject(InvalidAction, CmdStartConstruction, "%s already has a structure", c.At)
	}
	if p.Stars < spec.Cost {
		return nil, reject(InsufficientResources, CmdStartConstruction, "%s costs %d stars, have %d", spec.Type, spec.Cost, p.Stars)
	}

	n := s.clone()
	n.Players[pi].Stars -= spec.Cost
	n.Structures = append(n.Structures, Structure{
		ID:             StructureID(n.newID("s")),
		Type:           spec.Type,
		Coord:          c.At,
		Owner:          c.Player,
		City:           n.Cities[ci].ID,
		HP:             spec.HP,
		TurnsRemaining: spec.BuildTurns,
	})
	return n, nil
}

func (s *State) researchTech(c ResearchTech) (*State, *ActionError) {
	pi, err := s.actor(CmdResearchTech, c.Player)
	if err != nil {
		return nil, err
	}
	tech, ok := LookupTech(c.Tech)
	if !ok {
		return nil, reject(InvalidAction, CmdResearchTech, "unknown tech %q", c.Tech)
	}
	p := &s.Players[pi]
	if p.HasTech(tech.ID) {
		return nil, reject(InvalidAction, CmdResearchTech, "%s already researched", tech.ID)
	}
	if !p.HasTech(tech.Requires) {
		return nil, reject(InvalidAction, CmdResearchTech, "%s requires %s", tech.ID, tech.Requires)
	}
	cost := TechCost(tech, s.countCities(c.Player))
	discount := min(p.ResearchProgress, cost)
	if p.Stars < cost-discount {
		return nil, reject(InsufficientResources, CmdResearchTech, "%s costs %d stars, have %d", tech.ID, cost-discount, p.Stars)
	}

	n := s.clone()
	np := &n.Players[pi]
	np.Stars -= cost - discount
	np.ResearchProgress -= discount
	np.ResearchedTechs = append(slices.Clip(np.ResearchedTechs), tech.ID)
	return n, nil
}

func (s *State) recruitUnit(c RecruitUnit) (*State, *ActionError) {
	pi, err := s.actor(CmdRecruitUnit, c.Player)
	if err != nil {
		return nil, err
	}
	ci := s.cityIndex(c.City)
	if ci < 0 {
		return nil, reject(InvalidAction, CmdRecruitUnit, "unknown city %q", c.City)
	}
	city := &s.Cities[ci]
	if city.Owner != c.Player {
		return nil, reject(InvalidAction, CmdRecruitUnit, "city %s belongs to %s", city.ID, city.Owner)
	}
	spec, ok := LookupUnit(c.UnitType)
	if !ok {
		return nil, reject(InvalidAction, CmdRecruitUnit, "unknown unit type %q", c.UnitType)
	}
	p := &s.Players[pi]
	if !p.HasTech(spec.Tech) {
		return nil, reject(InvalidAction, CmdRecruitUnit, "%s requires %s", spec.Type, spec.Tech)
	}
	supported := 0
	for _, u := range s.Units {
		if u.HomeCity == city.ID {
			supported++
		}
	}
	if supported >= city.Capacity() {
		return nil, reject(InvalidAction, CmdRecruitUnit, "%s supports %d units already", city.Name, supported)
	}

	spawn := city.Coord
	if spec.Naval {
		port := slices.IndexFunc(s.Structures, func(st Structure) bool {
			return st.City == city.ID && st.Type == StructurePort && st.Complete()
		})
		if port < 0 {
			return nil, reject(IllegalTerrain, CmdRecruitUnit, "%s has no port", city.Name)
		}
		spawn = s.Structures[port].Coord
	}
	if s.unitIndexAt(spawn) >= 0 {
		return nil, reject(InvalidAction, CmdRecruitUnit, "%s is occupied", spawn)
	}
	if p.Stars < spec.Cost {
		return nil, reject(InsufficientResources, CmdRecruitUnit, "%s costs %d stars, have %d", spec.Type, spec.Cost, p.Stars)
	}

	n := s.clone()
	n.Players[pi].Stars -= spec.Cost
	n.Units = append(n.Units, newUnit(UnitID(n.newID("u")), spec, c.Player, spawn, city.ID))
	return n, nil
}

func (s *State) harvestResource(c HarvestResource) (*State, *ActionError) {
	pi, err := s.actor(CmdHarvestResource, c.Player)
	if err != nil {
		return nil, err
	}
	t := s.Map.Get(c.At)
	if t == nil {
		return nil, reject(InvalidAction, CmdHarvestResource, "no tile at %s", c.At)
	}
	ci := s.territoryOf(c.Player, c.At)
	if ci < 0 {
		return nil, reject(OutOfRange, CmdHarvestResource, "%s is outside your territory", c.At)
	}
	if !t.HasResource(c.Resource) {
		return nil, reject(InvalidAction, CmdHarvestResource, "no %s at %s", c.Resource, c.At)
	}
	rule, lerr := LookupHarvest(c.Resource)
	if lerr != nil {
		return nil, reject(InvalidAction, CmdHarvestResource, "%v", lerr)
	}
	p := &s.Players[pi]

	switch c.Option {
	case HarvestQuick:
		n := s.clone()
		np := &n.Players[pi]
		np.Stars += rule.Quick.Stars
		np.Stats.InternalDissent += rule.Quick.Dissent
		n.Map.Update(c.At, func(t *world.Tile) { t.Resources = t.WithoutResource(c.Resource) })
		return n, nil

	case HarvestSustainable:
		sus := rule.Sustainable
		if !p.HasTech(sus.Tech) {
			return nil, reject(InvalidAction, CmdHarvestResource, "%s requires %s", sus.Improvement, sus.Tech)
		}
		if s.improvementIndexAt(c.At) >= 0 {
			return nil, reject(InvalidAction, CmdHarvestResource, "%s is already improved", c.At)
		}
		if p.Stars < sus.Cost {
			return nil, reject(InsufficientResources, CmdHarvestResource, "%s costs %d stars, have %d", sus.Improvement, sus.Cost, p.Stars)
		}
		n := s.clone()
		np := &n.Players[pi]
		np.Stars -= sus.Cost
		np.Stats.Pride += sus.Pride
		city := &n.Cities[ci]
		city.Population += sus.Population
		city.grow()
		n.Improvements = append(n.Improvements, Improvement{
			ID:       ImprovementID(n.newID("i")),
			Type:     sus.Improvement,
			Coord:    c.At,
			Owner:    c.Player,
			City:     city.ID,
			Resource: c.Resource,
		})
		n.Map.Update(c.At, func(t *world.Tile) { t.Resources = t.WithoutResource(c.Resource) })
		return n, nil

	default:
		return nil, reject(InvalidAction, CmdHarvestResource, "unknown harvest option %q", c.Option)
	}
}
