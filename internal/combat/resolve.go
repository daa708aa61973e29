// Package combat resolves attacks between units, and between units and
// structures. Resolution is a pure function of the fighters' stats and the
// modifiers in play; there is no randomness.
package combat

import (
	"math"

	"github.com/talgya/hexsim/internal/world"
)

const (
	damageScale = 4.5

	defenseTerrainBonus = 1.5
	cityBonus           = 1.5
	formationBonus      = 1.5
	siegeBonus          = 1.5
	rallyBonus          = 1.25
)

// Fighter is the combat view of a unit.
type Fighter struct {
	Attack  float64
	Defense float64
	HP      int
	MaxHP   int
	Range   int

	Formation bool // defensive stance
	SiegeMode bool // set up for siege
	Rallied   bool
}

// Modifiers describes the situation of the fight.
type Modifiers struct {
	DefenderTerrain world.Terrain
	DefenderInCity  bool
	Distance        int

	// Seed identifies the action in the command sequence. The formula does
	// not draw on it; it is carried so outcomes stay reproducible if a
	// random element is ever introduced.
	Seed int64
}

// Outcome is the result of one attack.
type Outcome struct {
	DefenderDamage int  `json:"defender_damage"`
	AttackerDamage int  `json:"attacker_damage"`
	DefenderHP     int  `json:"defender_hp"`
	AttackerHP     int  `json:"attacker_hp"`
	DefenderKilled bool `json:"defender_killed"`
	AttackerKilled bool `json:"attacker_killed"`
	Retaliated     bool `json:"retaliated"`
}

// InRange reports whether a unit with the given attack range can hit a target
// distance hexes away.
func InRange(attackRange, distance int) bool {
	return distance >= 1 && attackRange >= distance
}

// AttackBonus is the multiplier on a fighter's attack.
func AttackBonus(f Fighter) float64 {
	b := 1.0
	if f.SiegeMode {
		b *= siegeBonus
	}
	if f.Rallied {
		b *= rallyBonus
	}
	return b
}

// DefenseBonus is the multiplier on a defender's defense.
func DefenseBonus(f Fighter, mods Modifiers) float64 {
	b := 1.0
	switch mods.DefenderTerrain {
	case world.TerrainForest, world.TerrainHill, world.TerrainMountain:
		b *= defenseTerrainBonus
	}
	if mods.DefenderInCity {
		b *= cityBonus
	}
	if f.Formation {
		b *= formationBonus
	}
	return b
}

func healthRatio(hp, maxHP int) float64 {
	if maxHP <= 0 || hp <= 0 {
		return 0
	}
	return float64(hp) / float64(maxHP)
}

// ResolveAttack computes one attack and, if the defender survives and can
// reach back, its retaliation. The caller checks range before calling.
func ResolveAttack(attacker, defender Fighter, mods Modifiers) Outcome {
	a := attacker.Attack * AttackBonus(attacker) * healthRatio(attacker.HP, attacker.MaxHP)
	d := defender.Defense * DefenseBonus(defender, mods) * healthRatio(defender.HP, defender.MaxHP)

	out := Outcome{DefenderHP: defender.HP, AttackerHP: attacker.HP}
	total := a + d
	if total <= 0 {
		return out
	}

	out.DefenderDamage = int(math.Round(a / total * attacker.Attack * damageScale))
	out.DefenderHP = max(defender.HP-out.DefenderDamage, 0)
	out.DefenderKilled = out.DefenderHP == 0

	if !out.DefenderKilled && InRange(defender.Range, mods.Distance) {
		out.Retaliated = true
		out.AttackerDamage = int(math.Round(d / total * defender.Defense * damageScale))
		out.AttackerHP = max(attacker.HP-out.AttackerDamage, 0)
		out.AttackerKilled = out.AttackerHP == 0
	}
	return out
}

// Target is the combat view of a structure.
type Target struct {
	Defense float64
	HP      int
	MaxHP   int
}

// ResolveStructureAttack computes an attack on a structure. Structures never
// strike back.
func ResolveStructureAttack(attacker Fighter, target Target) Outcome {
	a := attacker.Attack * AttackBonus(attacker) * healthRatio(attacker.HP, attacker.MaxHP)
	d := target.Defense * healthRatio(target.HP, target.MaxHP)

	out := Outcome{DefenderHP: target.HP, AttackerHP: attacker.HP}
	total := a + d
	if total <= 0 {
		return out
	}
	out.DefenderDamage = int(math.Round(a / total * attacker.Attack * damageScale))
	out.DefenderHP = max(target.HP-out.DefenderDamage, 0)
	out.DefenderKilled = out.DefenderHP == 0
	return out
}
