package game

import (
	"fmt"
	"slices"

	"github.com/talgya/hexsim/internal/combat"
	"github.com/talgya/hexsim/internal/world"
)

// UnitType names an entry of the unit catalogue.
type UnitType string

const (
	UnitWarrior   UnitType = "warrior"
	UnitRider     UnitType = "rider"
	UnitArcher    UnitType = "archer"
	UnitDefender  UnitType = "defender"
	UnitSwordsman UnitType = "swordsman"
	UnitCatapult  UnitType = "catapult"
	UnitKnight    UnitType = "knight"
	UnitScout     UnitType = "scout"
	UnitBoat      UnitType = "boat"
)

// Ability is a special action a unit can take instead of moving or attacking.
type Ability string

const (
	AbilityStealth   Ability = "stealth"
	AbilitySiege     Ability = "siege"
	AbilityBreakCamp Ability = "break_camp"
	AbilityFormation Ability = "formation"
	AbilityRally     Ability = "rally"
	AbilityHeal      Ability = "heal"
)

// UnitSpec is the catalogue entry for a unit type.
type UnitSpec struct {
	Type      UnitType
	Cost      int
	HP        int
	Attack    float64
	Defense   float64
	Movement  int
	Range     int
	Vision    int
	Tech      TechID
	Naval     bool
	Abilities []Ability
}

var unitCatalog = map[UnitType]UnitSpec{
	UnitWarrior:   {Type: UnitWarrior, Cost: 2, HP: 10, Attack: 2, Defense: 2, Movement: 1, Range: 1, Vision: 2},
	UnitRider:     {Type: UnitRider, Cost: 3, HP: 10, Attack: 2, Defense: 1, Movement: 2, Range: 1, Vision: 2, Tech: TechRiding},
	UnitArcher:    {Type: UnitArcher, Cost: 3, HP: 10, Attack: 2, Defense: 1, Movement: 1, Range: 2, Vision: 2, Tech: TechArchery},
	UnitDefender:  {Type: UnitDefender, Cost: 3, HP: 15, Attack: 1, Defense: 3, Movement: 1, Range: 1, Vision: 2, Tech: TechShields, Abilities: []Ability{AbilityFormation}},
	UnitSwordsman: {Type: UnitSwordsman, Cost: 5, HP: 15, Attack: 3, Defense: 3, Movement: 1, Range: 1, Vision: 2, Tech: TechSmithery, Abilities: []Ability{AbilityRally}},
	UnitCatapult:  {Type: UnitCatapult, Cost: 8, HP: 10, Attack: 4, Defense: 0, Movement: 1, Range: 3, Vision: 2, Tech: TechMathematics, Abilities: []Ability{AbilitySiege, AbilityBreakCamp}},
	UnitKnight:    {Type: UnitKnight, Cost: 8, HP: 15, Attack: 3.5, Defense: 1, Movement: 3, Range: 1, Vision: 2, Tech: TechChivalry, Abilities: []Ability{AbilityRally}},
	UnitScout:     {Type: UnitScout, Cost: 3, HP: 8, Attack: 1, Defense: 1, Movement: 3, Range: 1, Vision: 3, Tech: TechHunting, Abilities: []Ability{AbilityStealth}},
	UnitBoat:      {Type: UnitBoat, Cost: 5, HP: 10, Attack: 1, Defense: 1, Movement: 3, Range: 2, Vision: 2, Tech: TechFishing, Naval: true},
}

// LookupUnit returns the catalogue entry for a unit type.
func LookupUnit(t UnitType) (UnitSpec, bool) {
	s, ok := unitCatalog[t]
	return s, ok
}

// Has reports whether units of this type have the ability. Heal is open to
// every unit.
func (s UnitSpec) Has(a Ability) bool {
	return a == AbilityHeal || slices.Contains(s.Abilities, a)
}

// UnitStatus is a unit's current stance. The values are mutually exclusive.
type UnitStatus uint8

const (
	StatusActive UnitStatus = iota
	StatusExhausted
	StatusStealthed
	StatusSiegeMode
	StatusFormation
	StatusRallied
)

var statusNames = [...]string{"active", "exhausted", "stealthed", "siege_mode", "formation", "rallied"}

func (s UnitStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

func (s UnitStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *UnitStatus) UnmarshalText(b []byte) error {
	i := slices.Index(statusNames[:], string(b))
	if i < 0 {
		return fmt.Errorf("unknown unit status %q", b)
	}
	*s = UnitStatus(i)
	return nil
}

// Unit is a unit on the map.
type Unit struct {
	ID                UnitID         `json:"id"`
	Type              UnitType       `json:"type"`
	Owner             PlayerID       `json:"owner"`
	Coord             world.HexCoord `json:"coord"`
	HP                int            `json:"hp"`
	MaxHP             int            `json:"max_hp"`
	Attack            float64        `json:"attack"`
	Defense           float64        `json:"defense"`
	Movement          int            `json:"movement"`
	RemainingMovement int            `json:"remaining_movement"`
	VisionRadius      int            `json:"vision_radius"`
	AttackRange       int            `json:"attack_range"`
	Status            UnitStatus     `json:"status"`
	HasAttacked       bool           `json:"has_attacked"`
	HomeCity          CityID         `json:"home_city,omitempty"`
}

// newUnit builds a unit from its catalogue entry. Fresh units cannot act
// until their owner's next turn.
func newUnit(id UnitID, spec UnitSpec, owner PlayerID, at world.HexCoord, home CityID) Unit {
	return Unit{
		ID:           id,
		Type:         spec.Type,
		Owner:        owner,
		Coord:        at,
		HP:           spec.HP,
		MaxHP:        spec.HP,
		Attack:       spec.Attack,
		Defense:      spec.Defense,
		Movement:     spec.Movement,
		VisionRadius: spec.Vision,
		AttackRange:  spec.Range,
		Status:       StatusActive,
		HasAttacked:  true,
		HomeCity:     home,
	}
}

// Spec returns the unit's catalogue entry.
func (u *Unit) Spec() UnitSpec {
	return unitCatalog[u.Type]
}

// Fighter is the combat view of the unit.
func (u *Unit) Fighter() combat.Fighter {
	return combat.Fighter{
		Attack:    u.Attack,
		Defense:   u.Defense,
		HP:        u.HP,
		MaxHP:     u.MaxHP,
		Range:     u.AttackRange,
		Formation: u.Status == StatusFormation,
		SiegeMode: u.Status == StatusSiegeMode,
		Rallied:   u.Status == StatusRallied,
	}
}

// exhaust marks the unit as done for the turn. Stances that outlast an
// action (siege, formation) are kept.
func (u *Unit) exhaust() {
	u.RemainingMovement = 0
	u.HasAttacked = true
	switch u.Status {
	case StatusActive, StatusRallied, StatusStealthed:
		u.Status = StatusExhausted
	}
}

// refresh restores the unit at the start of its owner's turn.
func (u *Unit) refresh() {
	u.HasAttacked = false
	u.RemainingMovement = u.Movement
	switch u.Status {
	case StatusExhausted, StatusRallied:
		u.Status = StatusActive
	}
}
