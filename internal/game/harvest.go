package game

import (
	"fmt"

	"github.com/talgya/hexsim/internal/world"
)

// HarvestOption picks between taking a resource now and building on it.
type HarvestOption string

const (
	HarvestQuick       HarvestOption = "quick"
	HarvestSustainable HarvestOption = "sustainable"
)

// QuickHarvest consumes the resource for an immediate payout at the cost of
// unrest.
type QuickHarvest struct {
	Stars   int
	Dissent int
}

// SustainableHarvest replaces the resource with a permanent improvement that
// grows the owning city.
type SustainableHarvest struct {
	Improvement ImprovementType
	Cost        int
	Population  int
	Pride       int
	Tech        TechID
}

// HarvestRule is the pair of options for one resource type.
type HarvestRule struct {
	Quick       QuickHarvest
	Sustainable SustainableHarvest
}

// ImprovementType names the improvement a sustainable harvest builds.
type ImprovementType string

var harvestTable = map[world.ResourceType]HarvestRule{
	world.ResourceFruit: {
		Quick:       QuickHarvest{Stars: 2},
		Sustainable: SustainableHarvest{Improvement: "orchard", Cost: 4, Population: 1, Tech: TechOrganization},
	},
	world.ResourceCrop: {
		Quick:       QuickHarvest{Stars: 2, Dissent: 1},
		Sustainable: SustainableHarvest{Improvement: "farm", Cost: 5, Population: 2, Tech: TechOrganization},
	},
	world.ResourceGame: {
		Quick:       QuickHarvest{Stars: 2},
		Sustainable: SustainableHarvest{Improvement: "hunting_lodge", Cost: 3, Population: 1, Tech: TechHunting},
	},
	world.ResourceFish: {
		Quick:       QuickHarvest{Stars: 2},
		Sustainable: SustainableHarvest{Improvement: "fishery", Cost: 5, Population: 1, Tech: TechFishing},
	},
	world.ResourceOre: {
		Quick:       QuickHarvest{Stars: 3, Dissent: 2},
		Sustainable: SustainableHarvest{Improvement: "mine", Cost: 5, Population: 2, Tech: TechMining},
	},
	world.ResourceSpice: {
		Quick:       QuickHarvest{Stars: 4, Dissent: 2},
		Sustainable: SustainableHarvest{Improvement: "plantation", Cost: 6, Population: 1, Pride: 1, Tech: TechForestry},
	},
	world.ResourceHerbs: {
		Quick:       QuickHarvest{Stars: 2, Dissent: 1},
		Sustainable: SustainableHarvest{Improvement: "apothecary", Cost: 4, Population: 1, Pride: 1, Tech: TechSpiritualism},
	},
}

// LookupHarvest returns the harvest options for a resource.
func LookupHarvest(r world.ResourceType) (HarvestRule, error) {
	rule, ok := harvestTable[r]
	if !ok {
		return HarvestRule{}, fmt.Errorf("no harvest rule for %s", r)
	}
	return rule, nil
}

// Improvement is a permanent tile improvement built by a sustainable harvest.
type Improvement struct {
	ID       ImprovementID      `json:"id"`
	Type     ImprovementType    `json:"type"`
	Coord    world.HexCoord     `json:"coord"`
	Owner    PlayerID           `json:"owner"`
	City     CityID             `json:"city"`
	Resource world.ResourceType `json:"resource"`
}
