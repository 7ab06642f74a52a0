// Package traits runs one full use of a trait: requirement check, optional
// skill check, then effects in declaration order.
package traits

import (
	"log"

	"github.com/KirkDiggler/dungeon-combat/internal/actions"
	"github.com/KirkDiggler/dungeon-combat/internal/check"
	"github.com/KirkDiggler/dungeon-combat/internal/effects"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/status"
)

// Outcome is the result of one execution
type Outcome struct {
	Trait *entities.Trait

	// Attempted is false when requirements failed and nothing happened
	Attempted bool
	Reason    string

	// Passed reports whether the check succeeded, true for traits without a skill
	Passed  bool
	Check   *entities.RollResult
	Opposed *entities.OpposedCheckResult

	Effects []effects.Result
}

// ExecutorConfig holds the collaborators of an executor
type ExecutorConfig struct {
	Emitter    events.Emitter
	Checks     *check.Resolver
	Dispatcher *effects.Dispatcher
	Actions    *actions.Resolver
	Statuses   *status.Manager
}

// Executor executes traits
type Executor struct {
	emitter    events.Emitter
	checks     *check.Resolver
	dispatcher *effects.Dispatcher
	actions    *actions.Resolver
	statuses   *status.Manager
}

// NewExecutor creates an executor
func NewExecutor(cfg *ExecutorConfig) *Executor {
	if cfg == nil {
		panic("config is required")
	}
	if cfg.Emitter == nil {
		panic("emitter is required")
	}
	if cfg.Checks == nil {
		panic("check resolver is required")
	}
	if cfg.Dispatcher == nil {
		panic("dispatcher is required")
	}
	if cfg.Statuses == nil {
		panic("status manager is required")
	}

	exec := &Executor{
		emitter:    cfg.Emitter,
		checks:     cfg.Checks,
		dispatcher: cfg.Dispatcher,
		actions:    cfg.Actions,
		statuses:   cfg.Statuses,
	}
	if exec.actions == nil {
		exec.actions = actions.NewResolver()
	}
	return exec
}

// DefaultTarget is the opponent when the trait aims an effect at it or is
// contested, nil otherwise
func DefaultTarget(trait *entities.Trait, actor *entities.Character, state *entities.CombatState) *entities.Character {
	if trait.TargetsOther() || len(trait.DefenseOptions) > 0 {
		return state.Opponent(actor)
	}
	return nil
}

// Execute uses a chosen trait. target may be nil for untargeted use.
func (e *Executor) Execute(trait *entities.Trait, actor, target *entities.Character, state *entities.CombatState) (*Outcome, error) {
	return e.execute(trait, actor, target, state, false)
}

// ExecutePassive uses a passive trait in response to an event
func (e *Executor) ExecutePassive(trait *entities.Trait, actor, target *entities.Character, state *entities.CombatState) (*Outcome, error) {
	return e.execute(trait, actor, target, state, true)
}

func (e *Executor) execute(trait *entities.Trait, actor, target *entities.Character, state *entities.CombatState, passive bool) (*Outcome, error) {
	if trait == nil || actor == nil || state == nil {
		return nil, dnderr.InvalidArgument("trait, actor and state are required")
	}
	if state.IndexOf(actor) < 0 {
		return nil, dnderr.InvalidArgumentf("%s is not part of encounter %s", actor.ID, state.ID)
	}

	outcome := &Outcome{Trait: trait}
	outcome.Reason = e.actions.Check(trait, actor, state)
	outcome.Attempted = outcome.Reason == ""

	attempt := events.Event{
		Type:    events.TypeAbility,
		Subtype: events.SubtypeAttempted,
		ActorID: actor.ID,
		Ability: &events.AbilityPayload{
			Trait:   trait.Name,
			Success: outcome.Attempted,
			Reason:  outcome.Reason,
			Passive: passive,
		},
	}
	if target != nil {
		attempt.TargetID = target.ID
	}
	if err := e.emitter.Emit(attempt); err != nil {
		return outcome, err
	}

	if !outcome.Attempted {
		log.Printf("[TRAITS] %s cannot use %s: %s", actor.ID, trait.Name, outcome.Reason)
		return outcome, nil
	}

	if err := e.roll(outcome, trait, actor, target); err != nil {
		return outcome, err
	}

	ctx := effects.Context{Source: actor, State: state, Trait: trait.Name}
	for _, effect := range trait.Effects {
		if !applies(effect, trait, outcome, target) {
			continue
		}
		result, err := e.dispatcher.Apply(ctx, effect)
		if err != nil {
			return outcome, err
		}
		outcome.Effects = append(outcome.Effects, result)
	}

	// The end-of-round pass of the current round consumes one tick, so a
	// cooldown of N blocks the next N rounds.
	if trait.Cooldown > 0 {
		if _, _, err := e.statuses.Apply(actor, entities.StatusCooldown, status.ApplyOptions{
			Tag:      trait.Name,
			Source:   trait.Name,
			Duration: entities.IntPtr(trait.Cooldown + 1),
		}); err != nil {
			return outcome, err
		}
	}

	log.Printf("[TRAITS] %s used %s (passed: %v, effects: %d)", actor.ID, trait.Name, outcome.Passed, len(outcome.Effects))
	return outcome, nil
}

func (e *Executor) roll(outcome *Outcome, trait *entities.Trait, actor, target *entities.Character) error {
	if !trait.UsesSkill() {
		outcome.Passed = true
		return nil
	}

	if target != nil && len(trait.DefenseOptions) > 0 {
		opposed, err := e.checks.OpposedCheck(actor, trait.Skill, target, trait.DefenseOptions, trait.Modifier)
		if err != nil {
			return err
		}
		outcome.Opposed = opposed
		outcome.Check = opposed.Attacker
		outcome.Passed = opposed.Attacker.Success && opposed.AttackerWins
		return e.emitter.Emit(check.OpposedEvent(actor, target, opposed))
	}

	result, err := e.checks.Check(actor, trait.Skill, trait.Modifier)
	if err != nil {
		return err
	}
	outcome.Check = result
	outcome.Passed = result.Success

	event := check.SingleEvent(actor, result)
	if target != nil {
		event.TargetID = target.ID
	}
	return e.emitter.Emit(event)
}

// applies decides whether one effect fires given the check outcome
func applies(effect entities.Effect, trait *entities.Trait, outcome *Outcome, target *entities.Character) bool {
	if effect.ApplyOnFailure || !trait.UsesSkill() {
		return true
	}
	if !outcome.Check.Success {
		return false
	}
	if target == nil || len(trait.DefenseOptions) == 0 || outcome.Opposed == nil {
		return true
	}
	return outcome.Opposed.AttackerWins
}
