package game

import "fmt"

// FactionID names a playable faction.
type FactionID string

const (
	FactionImperius FactionID = "imperius"
	FactionBardur   FactionID = "bardur"
	FactionOumaji   FactionID = "oumaji"
	FactionKickoo   FactionID = "kickoo"
)

// Faction is the starting kit of a faction.
type Faction struct {
	ID        FactionID
	StartTech TechID
	StartUnit UnitType
}

var factions = []Faction{
	{ID: FactionImperius, StartTech: TechOrganization, StartUnit: UnitWarrior},
	{ID: FactionBardur, StartTech: TechHunting, StartUnit: UnitWarrior},
	{ID: FactionOumaji, StartTech: TechRiding, StartUnit: UnitRider},
	{ID: FactionKickoo, StartTech: TechFishing, StartUnit: UnitWarrior},
}

// startingStars is every player's treasury at game start.
const startingStars = 5

// LookupFaction returns the faction with the given ID.
func LookupFaction(id FactionID) (Faction, error) {
	for _, f := range factions {
		if f.ID == id {
			return f, nil
		}
	}
	return Faction{}, fmt.Errorf("unknown faction %q", id)
}

// DefaultFaction is the faction assigned to seat i when setup names none.
func DefaultFaction(i int) FactionID {
	return factions[i%len(factions)].ID
}
