package actions

import (
	"github.com/KirkDiggler/dungeon-combat/internal/effects"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
)

// System action names
const (
	StruggleFreeName = "Struggle Free"
	SlipFreeName     = "Slip Free"
	PassName         = "Pass"
	ExitName         = "Exit"
)

// StruggleFree forces a way out of a grapple with raw strength
func StruggleFree() *entities.Trait {
	return &entities.Trait{
		Name:           StruggleFreeName,
		Description:    "Wrench yourself out of a hold.",
		Skill:          entities.SkillStruggle,
		DefenseOptions: []entities.Skill{entities.SkillAthletics},
		Effects:        []entities.Effect{effects.BreakFree()},
		System:         true,
	}
}

// SlipFree wriggles out of a grapple
func SlipFree() *entities.Trait {
	return &entities.Trait{
		Name:           SlipFreeName,
		Description:    "Slip out of a hold.",
		Skill:          entities.SkillEscape,
		DefenseOptions: []entities.Skill{entities.SkillPerception},
		Effects:        []entities.Effect{effects.BreakFree()},
		System:         true,
	}
}

// Pass does nothing and is always legal
func Pass() *entities.Trait {
	return &entities.Trait{
		Name:        PassName,
		Description: "Do nothing this turn.",
		Skill:       entities.SkillNone,
		System:      true,
	}
}

// Exit leaves a finished encounter
func Exit() *entities.Trait {
	return &entities.Trait{
		Name:        ExitName,
		Description: "Leave the encounter.",
		Skill:       entities.SkillNone,
		System:      true,
	}
}

func breakFreeActions() []*entities.Trait {
	return []*entities.Trait{StruggleFree(), SlipFree()}
}
