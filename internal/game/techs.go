package game

import "slices"

// TechID names a technology.
type TechID string

const (
	TechOrganization TechID = "organization"
	TechClimbing     TechID = "climbing"
	TechFishing      TechID = "fishing"
	TechHunting      TechID = "hunting"
	TechRiding       TechID = "riding"
	TechArchery      TechID = "archery"
	TechMining       TechID = "mining"
	TechShields      TechID = "shields"
	TechForestry     TechID = "forestry"
	TechCloaking     TechID = "cloaking"
	TechSpiritualism TechID = "spiritualism"
	TechMathematics  TechID = "mathematics"
	TechSmithery     TechID = "smithery"
	TechChivalry     TechID = "chivalry"
)

// Tech is one node of the tech tree.
type Tech struct {
	ID       TechID
	Tier     int
	Requires TechID // empty for tier 1
}

var techTree = map[TechID]Tech{
	TechOrganization: {ID: TechOrganization, Tier: 1},
	TechClimbing:     {ID: TechClimbing, Tier: 1},
	TechFishing:      {ID: TechFishing, Tier: 1},
	TechHunting:      {ID: TechHunting, Tier: 1},
	TechRiding:       {ID: TechRiding, Tier: 1},
	TechArchery:      {ID: TechArchery, Tier: 2, Requires: TechHunting},
	TechMining:       {ID: TechMining, Tier: 2, Requires: TechClimbing},
	TechShields:      {ID: TechShields, Tier: 2, Requires: TechOrganization},
	TechForestry:     {ID: TechForestry, Tier: 2, Requires: TechHunting},
	TechCloaking:     {ID: TechCloaking, Tier: 2, Requires: TechFishing},
	TechSpiritualism: {ID: TechSpiritualism, Tier: 3, Requires: TechArchery},
	TechMathematics:  {ID: TechMathematics, Tier: 3, Requires: TechForestry},
	TechSmithery:     {ID: TechSmithery, Tier: 3, Requires: TechMining},
	TechChivalry:     {ID: TechChivalry, Tier: 3, Requires: TechShields},
}

// LookupTech returns the tech tree node for id.
func LookupTech(id TechID) (Tech, bool) {
	t, ok := techTree[id]
	return t, ok
}

// TechCost is the star price of a tech for a player owning cities cities.
// Bigger empires pay more.
func TechCost(t Tech, cities int) int {
	return 4 + t.Tier*max(cities, 1)
}

// HasTech reports whether the player has researched id. An empty id is
// always satisfied.
func (p *Player) HasTech(id TechID) bool {
	return id == "" || slices.Contains(p.ResearchedTechs, id)
}

// AvailableTechs lists the techs the player could research next, sorted.
func (p *Player) AvailableTechs() []TechID {
	var out []TechID
	for id, t := range techTree {
		if !p.HasTech(id) && p.HasTech(t.Requires) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
