// Package check resolves 2d10 roll-under skill checks and opposed contests.
package check

import (
	"log"

	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/status"
)

const (
	diceCount = 2
	diceSides = 10

	// CriticalSuccessMax is the highest roll that always succeeds
	CriticalSuccessMax = 3

	// CriticalFailureMin is the lowest roll that always fails
	CriticalFailureMin = 19
)

// Resolver performs checks against the injected roller
type Resolver struct {
	roller dice.Roller
}

// NewResolver creates a resolver
func NewResolver(roller dice.Roller) *Resolver {
	if roller == nil {
		panic("roller is required")
	}
	return &Resolver{roller: roller}
}

// Target is the effective number to roll under: base attribute plus skill
// bonus plus every active status modifier plus the flat modifier.
func Target(c *entities.Character, skill entities.Skill, modifier int) int {
	mods := status.Collect(c)

	target := c.SkillBonus(skill) + mods.Skill(skill) + modifier
	if attr, ok := skill.Attribute(); ok {
		target += c.Attribute(attr) + mods.Attribute(attr)
	}
	return target
}

// DefenseSkill picks the defender's best option before any roll. Ties keep
// the earlier option; no options means the attacker's skill.
func DefenseSkill(defender *entities.Character, skill entities.Skill, options []entities.Skill) entities.Skill {
	if len(options) == 0 {
		return skill
	}

	best := options[0]
	bestTarget := Target(defender, best, 0)
	for _, option := range options[1:] {
		if target := Target(defender, option, 0); target > bestTarget {
			best = option
			bestTarget = target
		}
	}
	return best
}

// Evaluate classifies a roll against a target
func Evaluate(skill entities.Skill, rolls []int, roll, target int) *entities.RollResult {
	critSuccess := roll <= CriticalSuccessMax
	critFailure := roll >= CriticalFailureMin

	return &entities.RollResult{
		Skill:           skill,
		Dice:            rolls,
		Roll:            roll,
		Target:          target,
		Margin:          target - roll,
		Success:         critSuccess || (roll <= target && !critFailure),
		CriticalSuccess: critSuccess,
		CriticalFailure: critFailure,
	}
}

// Check rolls a single check
func (r *Resolver) Check(c *entities.Character, skill entities.Skill, modifier int) (*entities.RollResult, error) {
	result, err := r.roller.Roll(diceCount, diceSides, 0)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to roll %s for %s", skill, c.ID)
	}

	return Evaluate(skill, result.Rolls, result.Total, Target(c, skill, modifier)), nil
}

// OpposedCheck contests the attacker's skill against the defender's best
// defense option. Exactly one success wins outright; otherwise the larger
// margin wins and an exact tie goes to the defender.
func (r *Resolver) OpposedCheck(attacker *entities.Character, skill entities.Skill, defender *entities.Character,
	defenseOptions []entities.Skill, modifier int) (*entities.OpposedCheckResult, error) {
	defenseSkill := DefenseSkill(defender, skill, defenseOptions)

	attack, err := r.Check(attacker, skill, modifier)
	if err != nil {
		return nil, err
	}
	defense, err := r.Check(defender, defenseSkill, 0)
	if err != nil {
		return nil, err
	}

	result := &entities.OpposedCheckResult{
		Attacker:     attack,
		Defender:     defense,
		DefenseSkill: defenseSkill,
		AttackerWins: AttackerWins(attack, defense),
	}

	log.Printf("[DICE] %s %s %d/%d vs %s %s %d/%d, attacker wins: %v",
		attacker.ID, skill, attack.Roll, attack.Target,
		defender.ID, defenseSkill, defense.Roll, defense.Target, result.AttackerWins)

	return result, nil
}

// AttackerWins applies the contest rules to two evaluated checks
func AttackerWins(attack, defense *entities.RollResult) bool {
	if attack.Success != defense.Success {
		return attack.Success
	}
	return attack.Margin > defense.Margin
}

// SingleEvent builds the skill-check event of a single check
func SingleEvent(actor *entities.Character, result *entities.RollResult) events.Event {
	return events.Event{
		Type:       events.TypeSkillCheck,
		Subtype:    events.SubtypeSingle,
		ActorID:    actor.ID,
		SkillCheck: payload(result),
	}
}

// OpposedEvent builds the skill-check event of a contest
func OpposedEvent(attacker, defender *entities.Character, result *entities.OpposedCheckResult) events.Event {
	p := payload(result.Attacker)
	p.Opposed = true
	p.DefenseSkill = string(result.DefenseSkill)
	p.DefenderRoll = result.Defender.Roll
	p.DefenderTarget = result.Defender.Target
	p.DefenderMargin = result.Defender.Margin
	p.DefenderSuccess = result.Defender.Success
	p.AttackerWins = result.AttackerWins

	return events.Event{
		Type:       events.TypeSkillCheck,
		Subtype:    events.SubtypeOpposed,
		ActorID:    attacker.ID,
		TargetID:   defender.ID,
		SkillCheck: p,
	}
}

func payload(result *entities.RollResult) *events.SkillCheckPayload {
	return &events.SkillCheckPayload{
		Skill:           string(result.Skill),
		Roll:            result.Roll,
		Target:          result.Target,
		Margin:          result.Margin,
		Success:         result.Success,
		CriticalSuccess: result.CriticalSuccess,
		CriticalFailure: result.CriticalFailure,
	}
}
