// Package actions lists every trait an actor could take and why each
// unusable one is disabled. Entries are never dropped.
package actions

import (
	"fmt"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	"github.com/KirkDiggler/dungeon-combat/internal/grapple"
)

// Disable reasons
const (
	ReasonCombatOver  = "combat is over"
	ReasonNotGrappled = "not grappled"
	ReasonPassive     = "triggers automatically"
)

// Availability is the annotated action list of one actor
type Availability struct {
	Traits   []*entities.Trait
	Disabled map[string]string
}

// Enabled returns the usable traits in list order
func (a Availability) Enabled() []*entities.Trait {
	var enabled []*entities.Trait
	for _, trait := range a.Traits {
		if _, disabled := a.Disabled[trait.Name]; !disabled {
			enabled = append(enabled, trait)
		}
	}
	return enabled
}

// IsEnabled reports whether the named trait is listed and usable
func (a Availability) IsEnabled(name string) bool {
	if a.Find(name) == nil {
		return false
	}
	_, disabled := a.Disabled[name]
	return !disabled
}

// Reason returns why the named trait is disabled, empty when usable
func (a Availability) Reason(name string) string {
	return a.Disabled[name]
}

// Find returns the listed trait with the name
func (a Availability) Find(name string) *entities.Trait {
	for _, trait := range a.Traits {
		if trait.Name == name {
			return trait
		}
	}
	return nil
}

// Resolver computes availability
type Resolver struct{}

// NewResolver creates a resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Available lists the actor's traits plus the system actions. After the
// encounter completes only Exit is enabled. Pass is appended when nothing
// else is usable.
func (r *Resolver) Available(actor *entities.Character, state *entities.CombatState) Availability {
	availability := Availability{Disabled: make(map[string]string)}

	for _, trait := range actor.Traits {
		availability.Traits = append(availability.Traits, trait)
		if trait.IsPassive() {
			availability.Disabled[trait.Name] = ReasonPassive
		}
		if reason := r.Check(trait, actor, state); reason != "" {
			availability.Disabled[trait.Name] = reason
		}
	}

	for _, system := range breakFreeActions() {
		if actor.FindTrait(system.Name) != nil {
			continue
		}
		availability.Traits = append(availability.Traits, system)
		if reason := r.Check(system, actor, state); reason != "" {
			availability.Disabled[system.Name] = reason
		}
	}

	if state.Complete {
		availability.Traits = append(availability.Traits, Exit())
		return availability
	}

	if len(availability.Enabled()) == 0 {
		availability.Traits = append(availability.Traits, Pass())
	}

	return availability
}

// Check returns the reason the trait cannot be used now, empty when it can.
// When several disqualifiers apply the last one evaluated wins.
func (r *Resolver) Check(trait *entities.Trait, actor *entities.Character, state *entities.CombatState) string {
	if state.Complete {
		if trait.System && trait.Name == ExitName {
			return ""
		}
		return ReasonCombatOver
	}

	var reason string

	if trait.System && trait.HasEffect(entities.EffectBreakFree) && !actor.HasStatus(entities.StatusGrappled) {
		reason = ReasonNotGrappled
	}

	if cooldown := actor.FindStatus(entities.StatusCooldown, "", trait.Name); cooldown != nil && cooldown.Stacks > 0 {
		reason = fmt.Sprintf("on cooldown (%d rounds)", remaining(cooldown))
	}

	req := trait.Requirements
	if req == nil {
		return reason
	}

	for _, limb := range sortedLimbs(req.FreeLimbs) {
		need := req.FreeLimbs[limb]
		if grapple.FreeLimbs(actor, limb) < need {
			reason = fmt.Sprintf("needs %d free %s", need, limb)
		}
	}

	for _, statusReq := range req.SelfStatuses {
		if stacksOf(actor, statusReq) < statusReq.MinStacks {
			reason = fmt.Sprintf("requires %s %d", describe(statusReq), statusReq.MinStacks)
		}
	}

	opponent := state.Opponent(actor)
	if opponent == nil {
		return reason
	}

	for _, statusReq := range req.OpponentStatuses {
		if stacksOf(opponent, statusReq) < statusReq.MinStacks {
			reason = fmt.Sprintf("target requires %s %d", describe(statusReq), statusReq.MinStacks)
		}
	}

	if req.OpponentMaxClothing != nil && opponent.Clothing.Current > *req.OpponentMaxClothing {
		reason = fmt.Sprintf("target clothing above %d", *req.OpponentMaxClothing)
	}

	return reason
}

func stacksOf(c *entities.Character, req entities.StatusRequirement) int {
	if req.Limb != "" {
		return c.LimbStacks(req.Kind, req.Limb)
	}
	return c.Stacks(req.Kind)
}

func describe(req entities.StatusRequirement) string {
	if req.Limb != "" {
		return fmt.Sprintf("%s (%s)", req.Kind, req.Limb)
	}
	return string(req.Kind)
}

func remaining(st *entities.Status) int {
	if st.Remaining == nil {
		return 0
	}
	return *st.Remaining
}

// sortedLimbs keeps reason selection deterministic across map iteration
func sortedLimbs(limbs map[entities.LimbType]int) []entities.LimbType {
	var ordered []entities.LimbType
	for _, limb := range []entities.LimbType{entities.LimbArm, entities.LimbLeg, entities.LimbMouth, entities.LimbTail} {
		if _, ok := limbs[limb]; ok {
			ordered = append(ordered, limb)
		}
	}
	return ordered
}
