package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexsim/internal/world"
)

var (
	water    = world.HexCoord{Q: -1, R: 0}
	forest   = world.HexCoord{Q: 0, R: -1}
	mountain = world.HexCoord{Q: -1, R: 1}
)

func movementBoard() *State {
	return createTestState(map[world.HexCoord]world.Terrain{
		water:    world.TerrainWater,
		forest:   world.TerrainForest,
		mountain: world.TerrainMountain,
	})
}

func TestMoveUnit(t *testing.T) {
	s := movementBoard()
	w := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	ready(s)

	next := apply(t, s, MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{Q: 1, R: 0}})
	u := unit(t, next, w)
	assert.Equal(t, world.HexCoord{Q: 1, R: 0}, u.Coord)
	assert.Equal(t, 0, u.RemainingMovement)
	assert.Equal(t, world.HexCoord{}, unit(t, s, w).Coord)

	rejected(t, next, MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{Q: 2, R: 0}}, ErrAlreadyActed)
}

func TestMoveUnitRejections(t *testing.T) {
	s := movementBoard()
	w := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 0, R: 1})
	enemy := addUnit(s, UnitWarrior, "p2", world.HexCoord{Q: 2, R: 0})
	ready(s)

	tests := []struct {
		name string
		cmd  Command
		want error
	}{
		{"water", MoveUnit{Player: "p1", Unit: w, To: water}, ErrIllegalTerrain},
		{"mountain without climbing", MoveUnit{Player: "p1", Unit: w, To: mountain}, ErrIllegalTerrain},
		{"too far", MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{Q: 0, R: 2}}, ErrOutOfRange},
		{"occupied", MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{Q: 0, R: 1}}, ErrInvalidAction},
		{"same tile", MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{}}, ErrInvalidAction},
		{"off map", MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{Q: 9, R: 0}}, ErrInvalidAction},
		{"enemy unit", MoveUnit{Player: "p1", Unit: enemy, To: world.HexCoord{Q: 3, R: -1}}, ErrInvalidAction},
		{"unknown unit", MoveUnit{Player: "p1", Unit: "u99", To: world.HexCoord{Q: 1, R: 0}}, ErrInvalidAction},
		{
			"outside supplied reach",
			MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{Q: 1, R: 0}, Reachable: []world.HexCoord{{}}},
			ErrOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejected(t, s, tt.cmd, tt.want)
		})
	}
}

func TestMoveUnitTerrainCost(t *testing.T) {
	s := movementBoard()
	r := addUnit(s, UnitRider, "p1", world.HexCoord{})
	ready(s)

	// The only two-step route runs through the forest, which costs 2.
	rejected(t, s, MoveUnit{Player: "p1", Unit: r, To: world.HexCoord{Q: 0, R: -2}}, ErrOutOfRange)

	next := apply(t, s, MoveUnit{Player: "p1", Unit: r, To: forest})
	assert.Equal(t, 0, unit(t, next, r).RemainingMovement)

	next = apply(t, s, MoveUnit{Player: "p1", Unit: r, To: world.HexCoord{Q: 2, R: -1}})
	assert.Equal(t, 0, unit(t, next, r).RemainingMovement)
}

func TestMoveUnitBlockedByEnemy(t *testing.T) {
	s := movementBoard()
	r := addUnit(s, UnitRider, "p1", world.HexCoord{})
	addUnit(s, UnitWarrior, "p2", world.HexCoord{Q: 1, R: 0})
	ready(s)

	rejected(t, s, MoveUnit{Player: "p1", Unit: r, To: world.HexCoord{Q: 2, R: 0}}, ErrOutOfRange)
}

func TestMoveUnitThroughFriendly(t *testing.T) {
	s := movementBoard()
	r := addUnit(s, UnitRider, "p1", world.HexCoord{})
	addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 1, R: 0})
	ready(s)

	next := apply(t, s, MoveUnit{Player: "p1", Unit: r, To: world.HexCoord{Q: 2, R: 0}})
	assert.Equal(t, world.HexCoord{Q: 2, R: 0}, unit(t, next, r).Coord)
}

func TestMoveUnitWithSuppliedReach(t *testing.T) {
	s := movementBoard()
	w := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	ready(s)

	reach, err := s.ReachableFor(w)
	require.NoError(t, err)
	to := world.HexCoord{Q: 1, R: 0}
	require.True(t, reach.Contains(to))

	next := apply(t, s, MoveUnit{Player: "p1", Unit: w, To: to, Reachable: reach.Coords()})
	assert.Equal(t, to, unit(t, next, w).Coord)
}

func TestMovingRevealsTiles(t *testing.T) {
	s := createTestState(nil)
	w := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	ready(s)

	far := world.HexCoord{Q: 3, R: -3}
	require.False(t, s.Map.Get(far).IsExploredBy("p1"))

	next := apply(t, s, MoveUnit{Player: "p1", Unit: w, To: world.HexCoord{Q: 1, R: -1}})
	assert.True(t, next.Map.Get(far).IsExploredBy("p1"))
	p1 := player(t, next, "p1")
	assert.True(t, p1.Sees(far))
	assert.False(t, s.Map.Get(far).IsExploredBy("p1"), "input map must not change")
}

func TestAttackUnit(t *testing.T) {
	s := createTestState(nil)
	att := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	def := addUnit(s, UnitWarrior, "p2", world.HexCoord{Q: 1, R: 0})
	ready(s)

	preview, err := s.PreviewAttack(att, def)
	require.NoError(t, err)

	next := apply(t, s, AttackUnit{Player: "p1", Attacker: att, Defender: def})
	a, d := unit(t, next, att), unit(t, next, def)
	assert.Equal(t, preview.DefenderHP, d.HP)
	assert.Equal(t, preview.AttackerHP, a.HP)
	assert.Less(t, d.HP, 10)
	assert.Less(t, a.HP, 10, "adjacent defender retaliates")
	assert.True(t, a.HasAttacked)
	assert.Equal(t, 0, a.RemainingMovement)
	assert.Equal(t, 10, unit(t, s, def).HP)

	rejected(t, next, AttackUnit{Player: "p1", Attacker: att, Defender: def}, ErrAlreadyActed)
}

func TestAttackUnitRejections(t *testing.T) {
	s := createTestState(nil)
	att := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	own := addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 0, R: 1})
	far := addUnit(s, UnitWarrior, "p2", world.HexCoord{Q: 2, R: 0})
	ready(s)

	rejected(t, s, AttackUnit{Player: "p1", Attacker: att, Defender: far}, ErrOutOfRange)
	rejected(t, s, AttackUnit{Player: "p1", Attacker: att, Defender: own}, ErrInvalidAction)
	rejected(t, s, AttackUnit{Player: "p1", Attacker: att, Defender: "u99"}, ErrInvalidAction)
	rejected(t, s, AttackUnit{Player: "p1", Attacker: far, Defender: att}, ErrInvalidAction)
}

func TestAttackKillsDefender(t *testing.T) {
	s := createTestState(nil)
	att := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
	def := addUnit(s, UnitWarrior, "p2", world.HexCoord{Q: 1, R: 0})
	s.Units[len(s.Units)-1].HP = 1
	ready(s)

	next := apply(t, s, AttackUnit{Player: "p1", Attacker: att, Defender: def})
	_, ok := next.Unit(def)
	assert.False(t, ok)
	assert.Equal(t, 10, unit(t, next, att).HP, "dead units do not retaliate")
	assert.Equal(t, 1, player(t, next, "p1").Stats.Pride)
	assert.False(t, player(t, next, "p2").IsEliminated, "p2 still has a city")
}

func TestRangedAttackHasNoRetaliation(t *testing.T) {
	s := createTestState(nil)
	archer := addUnit(s, UnitArcher, "p1", world.HexCoord{})
	def := addUnit(s, UnitWarrior, "p2", world.HexCoord{Q: 2, R: 0})
	ready(s)

	next := apply(t, s, AttackUnit{Player: "p1", Attacker: archer, Defender: def})
	assert.Equal(t, 10, unit(t, next, archer).HP)
	assert.Less(t, unit(t, next, def).HP, 10)
}

func TestStealthedUnitNeedsAdjacentSpotter(t *testing.T) {
	s := createTestState(nil)
	archer := addUnit(s, UnitArcher, "p1", world.HexCoord{})
	scout := addUnit(s, UnitScout, "p2", world.HexCoord{Q: 2, R: 0})
	s.Units[len(s.Units)-1].Status = StatusStealthed
	ready(s)

	rejected(t, s, AttackUnit{Player: "p1", Attacker: archer, Defender: scout}, ErrOutOfRange)
	assert.Len(t, s.VisibleUnits("p1"), 1)

	addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 1, R: 0})
	ready(s)
	assert.Len(t, s.VisibleUnits("p1"), 3)
	apply(t, s, AttackUnit{Player: "p1", Attacker: archer, Defender: scout})
}

func TestAttackStructure(t *testing.T) {
	s := createTestState(nil)
	att := addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 1, R: 0})
	s.Structures = append(s.Structures, Structure{
		ID: "s50", Type: StructureTower, Coord: world.HexCoord{Q: 2, R: 0}, Owner: "p2", City: "c2", HP: 25,
	})
	ready(s)

	next := apply(t, s, AttackStructure{Player: "p1", Attacker: att, Structure: "s50"})
	st, ok := next.Structure("s50")
	require.True(t, ok)
	assert.Less(t, st.HP, 25)
	assert.True(t, unit(t, next, att).HasAttacked)

	s.Structures[0].HP = 1
	next = apply(t, s, AttackStructure{Player: "p1", Attacker: att, Structure: "s50"})
	_, ok = next.Structure("s50")
	assert.False(t, ok)
	assert.Equal(t, 1, player(t, next, "p1").Stats.Pride)
}

func TestResearchTech(t *testing.T) {
	s := createTestState(nil)

	// Tier 2 with one city costs 4 + 2.
	rejected(t, s, ResearchTech{Player: "p1", Tech: TechShields}, ErrInsufficientResources)
	rejected(t, s, ResearchTech{Player: "p1", Tech: TechArchery}, ErrInvalidAction)
	rejected(t, s, ResearchTech{Player: "p1", Tech: TechOrganization}, ErrInvalidAction)
	rejected(t, s, ResearchTech{Player: "p1", Tech: "alchemy"}, ErrInvalidAction)

	next := apply(t, s, ResearchTech{Player: "p1", Tech: TechClimbing})
	p1 := player(t, next, "p1")
	assert.Equal(t, 0, p1.Stars)
	assert.True(t, p1.HasTech(TechClimbing))
	before := player(t, s, "p1")
	assert.False(t, before.HasTech(TechClimbing))

	s.Players[0].ResearchProgress = 1
	next = apply(t, s, ResearchTech{Player: "p1", Tech: TechShields})
	p1 = player(t, next, "p1")
	assert.Equal(t, 0, p1.Stars)
	assert.Equal(t, 0, p1.ResearchProgress)
	assert.Equal(t, []TechID{TechOrganization, TechShields}, p1.ResearchedTechs)
}

func TestAvailableTechs(t *testing.T) {
	p := Player{ResearchedTechs: []TechID{TechHunting}}
	avail := p.AvailableTechs()
	assert.Contains(t, avail, TechArchery)
	assert.Contains(t, avail, TechForestry)
	assert.NotContains(t, avail, TechHunting)
	assert.NotContains(t, avail, TechSpiritualism)
}

func TestRecruitUnit(t *testing.T) {
	s := createTestState(nil)

	next := apply(t, s, RecruitUnit{Player: "p1", City: "c1", UnitType: UnitWarrior})
	assert.Equal(t, startingStars-2, player(t, next, "p1").Stars)
	u, ok := next.UnitAt(p1Capital)
	require.True(t, ok)
	assert.Equal(t, UnitWarrior, u.Type)
	assert.Equal(t, CityID("c1"), u.HomeCity)
	assert.True(t, u.HasAttacked)
	assert.Equal(t, 0, u.RemainingMovement)

	rejected(t, next, RecruitUnit{Player: "p1", City: "c1", UnitType: UnitWarrior}, ErrInvalidAction)
	rejected(t, s, RecruitUnit{Player: "p1", City: "c1", UnitType: UnitRider}, ErrInvalidAction)
	rejected(t, s, RecruitUnit{Player: "p1", City: "c2", UnitType: UnitWarrior}, ErrInvalidAction)
	rejected(t, s, RecruitUnit{Player: "p1", City: "c1", UnitType: UnitBoat}, ErrInvalidAction)

	s.Players[0].Stars = 1
	rejected(t, s, RecruitUnit{Player: "p1", City: "c1", UnitType: UnitWarrior}, ErrInsufficientResources)
}

func TestRecruitUnitCapacity(t *testing.T) {
	s := createTestState(nil)
	for _, at := range []world.HexCoord{{Q: 0, R: 0}, {Q: 1, R: 0}} {
		addUnit(s, UnitWarrior, "p1", at)
		s.Units[len(s.Units)-1].HomeCity = "c1"
	}
	ready(s)
	rejected(t, s, RecruitUnit{Player: "p1", City: "c1", UnitType: UnitWarrior}, ErrInvalidAction)
}

func TestConstructionCompletes(t *testing.T) {
	s := createTestState(nil)
	giveTech(s, "p1", TechForestry)
	s.Players[0].Stars = 10
	site := world.HexCoord{Q: -2, R: 0}

	s = apply(t, s, StartConstruction{Player: "p1", Structure: StructureSawmill, At: site})
	assert.Equal(t, 5, player(t, s, "p1").Stars)
	require.Len(t, s.Structures, 1)
	assert.False(t, s.Structures[0].Complete())

	s = apply(t, s, EndTurn{Player: "p1"})
	s = apply(t, s, EndTurn{Player: "p2"})

	assert.True(t, s.Structures[0].Complete())
	capital, ok := s.City("c1")
	require.True(t, ok)
	assert.Equal(t, 2, capital.Level)
	assert.Equal(t, 0, capital.Population)
	assert.Equal(t, 5+3, player(t, s, "p1").Stars, "completion happens before income")
}

func TestStartConstructionRejections(t *testing.T) {
	s := createTestState(nil)
	site := world.HexCoord{Q: -2, R: 0}

	rejected(t, s, StartConstruction{Player: "p1", Structure: StructureTower, At: site}, ErrInvalidAction)
	rejected(t, s, StartConstruction{Player: "p1", Structure: "castle", At: site}, ErrInvalidAction)

	giveTech(s, "p1", TechClimbing)
	rejected(t, s, StartConstruction{Player: "p1", Structure: StructureTower, At: site}, ErrIllegalTerrain)
	rejected(t, s, StartConstruction{Player: "p1", Structure: StructureTower, At: world.HexCoord{}}, ErrOutOfRange)

	giveTech(s, "p1", TechForestry)
	rejected(t, s, StartConstruction{Player: "p1", Structure: StructureSawmill, At: p1Capital}, ErrIllegalTerrain)

	s.Players[0].Stars = 2
	rejected(t, s, StartConstruction{Player: "p1", Structure: StructureSawmill, At: site}, ErrInsufficientResources)

	s.Players[0].Stars = 20
	s = apply(t, s, StartConstruction{Player: "p1", Structure: StructureSawmill, At: site})
	rejected(t, s, StartConstruction{Player: "p1", Structure: StructureSawmill, At: site}, ErrInvalidAction)
}

func TestCitiesSeeWithoutUnits(t *testing.T) {
	s := createTestState(nil)
	s.Units = nil
	ready(s)

	p1 := player(t, s, "p1")
	assert.Len(t, p1.Visible, len(world.Spiral(p1Capital, cityVision)))
	assert.True(t, p1.Sees(world.HexCoord{Q: -2, R: 0}))
	assert.False(t, p1.Sees(world.HexCoord{}))
	assert.True(t, s.Map.Get(world.HexCoord{Q: -1, R: 0}).IsExploredBy("p1"))
}

func TestTowerExtendsVision(t *testing.T) {
	hill := world.HexCoord{Q: -2, R: 0}
	s := createTestState(map[world.HexCoord]world.Terrain{hill: world.TerrainHill})
	giveTech(s, "p1", TechClimbing)
	s.Players[0].Stars = 10

	s = apply(t, s, StartConstruction{Player: "p1", Structure: StructureTower, At: hill})
	far := world.HexCoord{Q: 1, R: -1}
	before := player(t, s, "p1")
	require.False(t, before.Sees(far))

	s = apply(t, s, EndTurn{Player: "p1"})
	s = apply(t, s, EndTurn{Player: "p2"})
	after := player(t, s, "p1")
	assert.True(t, after.Sees(far))
}

func TestHarvestResource(t *testing.T) {
	s := createTestState(nil)
	fruit := world.HexCoord{Q: -2, R: 0}
	crop := world.HexCoord{Q: -3, R: 1}
	s.Map.Update(fruit, func(t *world.Tile) { t.Resources = []world.ResourceType{world.ResourceFruit} })
	s.Map.Update(crop, func(t *world.Tile) { t.Resources = []world.ResourceType{world.ResourceCrop} })
	s.Map.Update(world.HexCoord{}, func(t *world.Tile) { t.Resources = []world.ResourceType{world.ResourceFruit} })
	ready(s)

	quick := apply(t, s, HarvestResource{Player: "p1", At: fruit, Resource: world.ResourceFruit, Option: HarvestQuick})
	assert.Equal(t, startingStars+2, player(t, quick, "p1").Stars)
	assert.False(t, quick.Map.Get(fruit).HasResource(world.ResourceFruit))
	assert.True(t, s.Map.Get(fruit).HasResource(world.ResourceFruit))

	quick = apply(t, s, HarvestResource{Player: "p1", At: crop, Resource: world.ResourceCrop, Option: HarvestQuick})
	assert.Equal(t, 1, player(t, quick, "p1").Stats.InternalDissent)

	farm := apply(t, s, HarvestResource{Player: "p1", At: crop, Resource: world.ResourceCrop, Option: HarvestSustainable})
	assert.Equal(t, 0, player(t, farm, "p1").Stars)
	require.Len(t, farm.Improvements, 1)
	assert.Equal(t, ImprovementType("farm"), farm.Improvements[0].Type)
	capital, _ := farm.City("c1")
	assert.Equal(t, 2, capital.Level)

	rejected(t, s, HarvestResource{Player: "p1", At: world.HexCoord{}, Resource: world.ResourceFruit, Option: HarvestQuick}, ErrOutOfRange)
	rejected(t, s, HarvestResource{Player: "p1", At: fruit, Resource: world.ResourceOre, Option: HarvestQuick}, ErrInvalidAction)
	rejected(t, s, HarvestResource{Player: "p1", At: fruit, Resource: world.ResourceFruit, Option: "slow"}, ErrInvalidAction)

	s.Players[0].Stars = 1
	rejected(t, s, HarvestResource{Player: "p1", At: crop, Resource: world.ResourceCrop, Option: HarvestSustainable}, ErrInsufficientResources)
}

func TestAbilities(t *testing.T) {
	t.Run("formation", func(t *testing.T) {
		s := createTestState(nil)
		d := addUnit(s, UnitDefender, "p1", world.HexCoord{})
		w := addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 1, R: 0})
		ready(s)

		next := apply(t, s, UseAbility{Player: "p1", Unit: d, Ability: AbilityFormation})
		assert.Equal(t, StatusFormation, unit(t, next, d).Status)
		assert.Equal(t, 0, unit(t, next, d).RemainingMovement)
		rejected(t, next, UseAbility{Player: "p1", Unit: d, Ability: AbilityFormation}, ErrInvalidAction)
		rejected(t, s, UseAbility{Player: "p1", Unit: w, Ability: AbilityFormation}, ErrInvalidAction)
	})

	t.Run("siege", func(t *testing.T) {
		s := createTestState(nil)
		c := addUnit(s, UnitCatapult, "p1", world.HexCoord{})
		ready(s)

		rejected(t, s, UseAbility{Player: "p1", Unit: c, Ability: AbilityBreakCamp}, ErrInvalidAction)
		sieged := apply(t, s, UseAbility{Player: "p1", Unit: c, Ability: AbilitySiege})
		assert.Equal(t, StatusSiegeMode, unit(t, sieged, c).Status)
		rejected(t, sieged, MoveUnit{Player: "p1", Unit: c, To: world.HexCoord{Q: 1, R: 0}}, ErrInvalidAction)

		reach, err := sieged.ReachableFor(c)
		require.NoError(t, err)
		assert.Len(t, reach, 1)

		camp := apply(t, sieged, UseAbility{Player: "p1", Unit: c, Ability: AbilityBreakCamp})
		assert.Equal(t, StatusActive, unit(t, camp, c).Status)
	})

	t.Run("stealth", func(t *testing.T) {
		s := createTestState(nil)
		sc := addUnit(s, UnitScout, "p1", world.HexCoord{})
		ready(s)

		rejected(t, s, UseAbility{Player: "p1", Unit: sc, Ability: AbilityStealth}, ErrInvalidAction)
		giveTech(s, "p1", TechCloaking)
		next := apply(t, s, UseAbility{Player: "p1", Unit: sc, Ability: AbilityStealth})
		assert.Equal(t, StatusStealthed, unit(t, next, sc).Status)
	})

	t.Run("rally", func(t *testing.T) {
		s := createTestState(nil)
		sw := addUnit(s, UnitSwordsman, "p1", world.HexCoord{})
		w := addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 1, R: 0})
		far := addUnit(s, UnitWarrior, "p1", world.HexCoord{Q: 3, R: -2})
		ready(s)

		rejected(t, s, UseAbility{Player: "p1", Unit: sw, Ability: AbilityRally}, ErrInsufficientResources)
		s.Players[0].Stats.Pride = 2
		next := apply(t, s, UseAbility{Player: "p1", Unit: sw, Ability: AbilityRally})
		assert.Equal(t, StatusRallied, unit(t, next, sw).Status)
		assert.Equal(t, StatusRallied, unit(t, next, w).Status)
		assert.Equal(t, StatusActive, unit(t, next, far).Status)
		assert.Equal(t, 0, player(t, next, "p1").Stats.Pride)

		next.Players[0].Stats.Pride = 4
		rejected(t, next, UseAbility{Player: "p1", Unit: sw, Ability: AbilityRally}, ErrAlreadyActed)
		rejected(t, next, UseAbility{Player: "p1", Unit: w, Ability: AbilityRally}, ErrInvalidAction)
	})

	t.Run("heal", func(t *testing.T) {
		s := createTestState(nil)
		w := addUnit(s, UnitWarrior, "p1", world.HexCoord{})
		ready(s)

		rejected(t, s, UseAbility{Player: "p1", Unit: w, Ability: AbilityHeal}, ErrInvalidAction)
		s.Units[0].HP = 5
		rejected(t, s, UseAbility{Player: "p1", Unit: w, Ability: AbilityHeal}, ErrInsufficientResources)

		s.Players[0].Stats.Faith = 2
		next := apply(t, s, UseAbility{Player: "p1", Unit: w, Ability: AbilityHeal})
		assert.Equal(t, 9, unit(t, next, w).HP)
		assert.Equal(t, 0, player(t, next, "p1").Stats.Faith)
		assert.True(t, unit(t, next, w).HasAttacked)
	})
}
