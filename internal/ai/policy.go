// Package ai chooses actions for characters no player controls.
package ai

import (
	"log"

	"github.com/KirkDiggler/dungeon-combat/internal/actions"
	"github.com/KirkDiggler/dungeon-combat/internal/check"
	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
	"github.com/KirkDiggler/dungeon-combat/internal/traits"
)

// Choice is the trait an actor commits to, with its target
type Choice struct {
	Trait  *entities.Trait
	Target *entities.Character
}

// Policy picks one enabled action
type Policy interface {
	Choose(actor *entities.Character, state *entities.CombatState, available actions.Availability) (*Choice, error)
}

// WeightFunc scores an enabled trait, values below 1 count as 1
type WeightFunc func(trait *entities.Trait, actor *entities.Character, state *entities.CombatState) int

// DefaultPolicy escapes grapples first and otherwise picks a weighted random
// enabled trait from the injected roller.
type DefaultPolicy struct {
	roller dice.Roller
	weight WeightFunc
}

// NewDefaultPolicy creates the default policy. A nil weight gives every trait
// the same chance.
func NewDefaultPolicy(roller dice.Roller, weight WeightFunc) *DefaultPolicy {
	if roller == nil {
		panic("roller is required")
	}
	if weight == nil {
		weight = func(*entities.Trait, *entities.Character, *entities.CombatState) int { return 1 }
	}
	return &DefaultPolicy{roller: roller, weight: weight}
}

// Choose implements Policy
func (p *DefaultPolicy) Choose(actor *entities.Character, state *entities.CombatState, available actions.Availability) (*Choice, error) {
	enabled := available.Enabled()
	if len(enabled) == 0 {
		return nil, dnderr.IllegalActionf("%s has no usable action", actor.ID)
	}

	if actor.HasStatus(entities.StatusGrappled) {
		if escape := bestEscape(actor, enabled); escape != nil {
			log.Printf("[AI] %s tries to escape with %s", actor.ID, escape.Name)
			return &Choice{Trait: escape, Target: traits.DefaultTarget(escape, actor, state)}, nil
		}
	}

	weights := make([]int, len(enabled))
	total := 0
	for i, trait := range enabled {
		weights[i] = max(p.weight(trait, actor, state), 1)
		total += weights[i]
	}

	pick := p.roller.Intn(total)
	for i, trait := range enabled {
		if pick < weights[i] {
			return &Choice{Trait: trait, Target: traits.DefaultTarget(trait, actor, state)}, nil
		}
		pick -= weights[i]
	}

	last := enabled[len(enabled)-1]
	return &Choice{Trait: last, Target: traits.DefaultTarget(last, actor, state)}, nil
}

// bestEscape returns the enabled self break-free trait with the highest target
func bestEscape(actor *entities.Character, enabled []*entities.Trait) *entities.Trait {
	var best *entities.Trait
	bestTarget := 0
	for _, trait := range enabled {
		if !breaksFree(trait) {
			continue
		}
		target := check.Target(actor, trait.Skill, trait.Modifier)
		if best == nil || target > bestTarget {
			best = trait
			bestTarget = target
		}
	}
	return best
}

func breaksFree(trait *entities.Trait) bool {
	for _, effect := range trait.Effects {
		if effect.Kind == entities.EffectBreakFree && effect.Target == entities.TargetSelf {
			return true
		}
	}
	return false
}
