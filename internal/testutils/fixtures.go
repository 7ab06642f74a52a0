package testutils

import (
	"github.com/KirkDiggler/dungeon-combat/internal/effects"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
)

// CreateTestJab creates a contested single-wound strike
func CreateTestJab() *entities.Trait {
	return &entities.Trait{
		Name:           "Jab",
		Description:    "A quick strike",
		Skill:          entities.SkillAthletics,
		DefenseOptions: []entities.Skill{entities.SkillAcrobatics},
		Effects:        []entities.Effect{effects.Wound(1)},
	}
}

// CreateTestHaymaker creates a priority strike that goes before initiative
func CreateTestHaymaker(damage int) *entities.Trait {
	return &entities.Trait{
		Name:     "Haymaker",
		Skill:    entities.SkillNone,
		Priority: true,
		Effects:  []entities.Effect{effects.Wound(damage)},
	}
}

// CreateTestClinch creates a grapple that binds one arm
func CreateTestClinch() *entities.Trait {
	return &entities.Trait{
		Name:           "Clinch",
		Skill:          entities.SkillAthletics,
		DefenseOptions: []entities.Skill{entities.SkillAcrobatics, entities.SkillEscape},
		Effects: []entities.Effect{
			effects.Grapple(entities.GrappleHold, entities.LimbArm),
		},
	}
}

// CreateTestRally creates an untargeted self buff on a cooldown
func CreateTestRally() *entities.Trait {
	return &entities.Trait{
		Name:     "Rally",
		Skill:    entities.SkillNone,
		Cooldown: 2,
		Effects: []entities.Effect{
			effects.Heal(2),
			effects.NewBuilder(entities.EffectStatus).OnSelf().WithStatus(entities.StatusBolstered, 1).WithDuration(2).Build(),
		},
	}
}

// CreateTestCharacter creates a fully formed combatant
func CreateTestCharacter(id, name string, traits ...*entities.Trait) *entities.Character {
	if len(traits) == 0 {
		traits = []*entities.Trait{CreateTestJab()}
	}

	return &entities.Character{
		ID:   id,
		Name: name,
		Scores: map[entities.Attribute]int{
			entities.AttributeMight: 8,
			entities.AttributeGrace: 8,
			entities.AttributeWit:   7,
			entities.AttributeWill:  7,
		},
		Vitality:   entities.Resource{Current: 10, Max: 10},
		Conviction: entities.Resource{Current: 5, Max: 5},
		Clothing:   entities.Resource{Current: 3, Max: 3},
		Skills: map[entities.Skill]int{
			entities.SkillAthletics:  2,
			entities.SkillAcrobatics: 1,
			entities.SkillStruggle:   1,
		},
		Traits: traits,
		Limbs: map[entities.LimbType]int{
			entities.LimbArm:   2,
			entities.LimbLeg:   2,
			entities.LimbMouth: 1,
		},
	}
}

// CreateTestEncounter creates a fresh round-0 state for two test characters
func CreateTestEncounter(id string) *entities.CombatState {
	return entities.NewCombatState(id,
		CreateTestCharacter("hero", "Hero"),
		CreateTestCharacter("brute", "Brute", CreateTestJab(), CreateTestClinch()),
	)
}
