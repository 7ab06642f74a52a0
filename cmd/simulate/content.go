package main

import (
	"github.com/KirkDiggler/dungeon-combat/internal/effects"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/script"
)

const constrictScript = `
if status_stacks("other", "grappled") < 1 then
	return false, "nothing to squeeze"
end
local squeeze = random(3)
queue_effect("WOUND", "other", squeeze)
queue_effect("STATUS", "other", 1, "heat")
return true, string.format("squeezes for %d", squeeze)
`

func registerScripts(registry *script.Registry) error {
	return registry.RegisterLua("constrict", constrictScript)
}

func wren() *entities.Character {
	return &entities.Character{
		ID:       "wren",
		Name:     "Wren",
		IsPlayer: true,
		Scores: map[entities.Attribute]int{
			entities.AttributeMight: 6,
			entities.AttributeGrace: 9,
			entities.AttributeWit:   8,
			entities.AttributeWill:  7,
		},
		Vitality:   entities.Resource{Current: 12, Max: 12},
		Conviction: entities.Resource{Current: 6, Max: 6},
		Clothing:   entities.Resource{Current: 3, Max: 3},
		Skills: map[entities.Skill]int{
			entities.SkillAcrobatics: 2,
			entities.SkillEscape:     2,
			entities.SkillSeduction:  1,
		},
		Limbs: map[entities.LimbType]int{entities.LimbArm: 2, entities.LimbLeg: 2, entities.LimbMouth: 1},
		Traits: []*entities.Trait{
			{
				Name:           "Quick Cut",
				Skill:          entities.SkillAcrobatics,
				DefenseOptions: []entities.Skill{entities.SkillAthletics, entities.SkillPerception},
				Effects:        []entities.Effect{effects.Wound(2)},
			},
			{
				Name:           "Taunt",
				Skill:          entities.SkillSeduction,
				DefenseOptions: []entities.Skill{entities.SkillComposure, entities.SkillInsight},
				Cooldown:       2,
				Effects: []entities.Effect{
					effects.NewBuilder(entities.EffectStatus).WithStatus(entities.StatusDazed, 1).WithDuration(2).Build(),
				},
			},
			{
				Name:     "Second Wind",
				Skill:    entities.SkillNone,
				Priority: true,
				Cooldown: 3,
				Effects:  []entities.Effect{effects.Heal(3)},
			},
		},
	}
}

func grask() *entities.Character {
	return &entities.Character{
		ID:   "grask",
		Name: "Grask",
		Scores: map[entities.Attribute]int{
			entities.AttributeMight: 10,
			entities.AttributeGrace: 6,
			entities.AttributeWit:   5,
			entities.AttributeWill:  6,
		},
		Vitality:   entities.Resource{Current: 16, Max: 16},
		Conviction: entities.Resource{Current: 4, Max: 4},
		Clothing:   entities.Resource{Current: 1, Max: 1},
		Skills: map[entities.Skill]int{
			entities.SkillAthletics: 2,
			entities.SkillStruggle:  2,
		},
		Limbs: map[entities.LimbType]int{entities.LimbArm: 2, entities.LimbTail: 1},
		Traits: []*entities.Trait{
			{
				Name:           "Slam",
				Skill:          entities.SkillAthletics,
				DefenseOptions: []entities.Skill{entities.SkillAcrobatics},
				Effects:        []entities.Effect{effects.Wound(3)},
			},
			{
				Name:           "Tail Wrap",
				Skill:          entities.SkillAthletics,
				DefenseOptions: []entities.Skill{entities.SkillAcrobatics, entities.SkillEscape},
				Requirements: &entities.Requirements{
					FreeLimbs: map[entities.LimbType]int{entities.LimbTail: 1},
				},
				Effects: []entities.Effect{
					effects.Grapple(entities.GrappleHold, entities.LimbArm),
					effects.NewBuilder(entities.EffectStatus).OnSelf().WithStatus(entities.StatusBoundOther, 1).WithLimb(entities.LimbTail).WithDuration(3).Build(),
				},
			},
			{
				Name:  "Constrict",
				Skill: entities.SkillNone,
				Requirements: &entities.Requirements{
					OpponentStatuses: []entities.StatusRequirement{{Kind: entities.StatusGrappled, MinStacks: 1}},
				},
				Effects: []entities.Effect{effects.Script("constrict")},
			},
			{
				Name:    "Battle Fury",
				Skill:   entities.SkillNone,
				Passive: &entities.PassiveTrigger{EventType: events.TypePhaseChange, Subtype: events.SubtypeRoundStart},
				Effects: []entities.Effect{
					effects.NewBuilder(entities.EffectStatus).OnSelf().WithStatus(entities.StatusBolstered, 1).WithDuration(1).Build(),
				},
			},
		},
	}
}
