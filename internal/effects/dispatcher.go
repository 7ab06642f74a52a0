// Package effects applies the typed consequences of traits. Every dispatch
// emits one effect event, whatever its kind and outcome.
package effects

import (
	"fmt"
	"log"

	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/grapple"
	"github.com/KirkDiggler/dungeon-combat/internal/script"
	"github.com/KirkDiggler/dungeon-combat/internal/status"
)

// Result is the game outcome of one effect. Failure is a game condition,
// not an error.
type Result struct {
	Success bool
	Message string
}

// Context identifies who applies an effect, in which encounter, from which trait
type Context struct {
	Source *entities.Character
	State  *entities.CombatState
	Trait  string
}

// DispatcherConfig holds the collaborators of a dispatcher
type DispatcherConfig struct {
	Emitter  events.Emitter
	Statuses *status.Manager
	Grapples *grapple.Tracker
	Roller   dice.Roller

	// Scripts is optional; SCRIPT effects fail loudly without it
	Scripts *script.Registry
}

// Dispatcher routes each effect kind to its handler
type Dispatcher struct {
	emitter  events.Emitter
	statuses *status.Manager
	grapples *grapple.Tracker
	roller   dice.Roller
	scripts  *script.Registry
}

// NewDispatcher creates a dispatcher
func NewDispatcher(cfg *DispatcherConfig) *Dispatcher {
	if cfg == nil {
		panic("config is required")
	}
	if cfg.Emitter == nil {
		panic("emitter is required")
	}
	if cfg.Statuses == nil {
		panic("status manager is required")
	}
	if cfg.Grapples == nil {
		panic("grapple tracker is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}

	return &Dispatcher{
		emitter:  cfg.Emitter,
		statuses: cfg.Statuses,
		grapples: cfg.Grapples,
		roller:   cfg.Roller,
		scripts:  cfg.Scripts,
	}
}

// Recipient resolves an effect's selector relative to its source
func Recipient(selector entities.TargetSelector, source *entities.Character, state *entities.CombatState) *entities.Character {
	if selector == entities.TargetOther {
		return state.Opponent(source)
	}
	return source
}

// Apply dispatches one effect. Unknown kinds and missing collaborators are
// returned as configuration errors with no event emitted.
func (d *Dispatcher) Apply(ctx Context, effect entities.Effect) (Result, error) {
	if ctx.Source == nil || ctx.State == nil {
		return Result{}, dnderr.InvalidArgument("effect source and state are required")
	}

	target := Recipient(effect.Target, ctx.Source, ctx.State)
	if target == nil {
		return Result{}, dnderr.InvalidArgumentf("%s has no %s in encounter %s", ctx.Source.ID, effect.Target, ctx.State.ID)
	}

	var (
		result    Result
		followups []entities.Effect
		err       error
	)

	switch effect.Kind {
	case entities.EffectWound:
		result = d.wound(target, effect.Params)
	case entities.EffectHeal:
		result = d.heal(target, effect.Params)
	case entities.EffectGrapple:
		result, err = d.grapple(ctx, target, effect.Params)
	case entities.EffectStatus:
		result, err = d.applyStatus(ctx, target, effect.Params)
	case entities.EffectRemoveStatus:
		result, err = d.removeStatus(target, effect.Params)
	case entities.EffectBreakFree:
		result, err = d.breakFree(target)
	case entities.EffectModifyClothing:
		result = d.modifyClothing(target, effect.Params)
	case entities.EffectPenetrate:
		result, err = d.penetrate(ctx, target, effect.Params)
	case entities.EffectEndCombat:
		result, err = d.endCombat(ctx, effect.Params)
	case entities.EffectAdvanceTurn:
		result = d.advanceTurn(ctx.State)
	case entities.EffectScript:
		result, followups, err = d.runScript(ctx, target, effect.Params)
	default:
		return Result{}, dnderr.Configurationf("no handler for effect kind %q", effect.Kind).
			WithMeta("effect_kind", string(effect.Kind)).
			WithMeta("trait", ctx.Trait)
	}
	if err != nil {
		return Result{}, dnderr.Wrapf(err, "failed to apply %s from %s", effect.Kind, ctx.Trait)
	}

	if err := d.emitter.Emit(events.Event{
		Type:     events.TypeEffect,
		Subtype:  events.SubtypeApplied,
		ActorID:  ctx.Source.ID,
		TargetID: target.ID,
		Effect: &events.EffectPayload{
			Kind:    string(effect.Kind),
			Trait:   ctx.Trait,
			Success: result.Success,
			Message: result.Message,
		},
	}); err != nil {
		return result, err
	}

	for _, followup := range followups {
		if _, err := d.Apply(ctx, followup); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (d *Dispatcher) wound(target *entities.Character, params entities.EffectParams) Result {
	taken := target.Vitality.Damage(max(params.Value, 0))
	return Result{
		Success: true,
		Message: fmt.Sprintf("%s takes %d wound (vitality %d/%d)", target.Name, taken, target.Vitality.Current, target.Vitality.Max),
	}
}

func (d *Dispatcher) heal(target *entities.Character, params entities.EffectParams) Result {
	healed := target.Vitality.Heal(max(params.Value, 0))
	return Result{
		Success: true,
		Message: fmt.Sprintf("%s recovers %d (vitality %d/%d)", target.Name, healed, target.Vitality.Current, target.Vitality.Max),
	}
}

// grapple attaches, optionally penetrates, then binds. A bind with no free
// capacity fails before anything is attached.
func (d *Dispatcher) grapple(ctx Context, target *entities.Character, params entities.EffectParams) (Result, error) {
	if params.Limb != "" && !d.grapples.CanBind(target, params.Limb) {
		return Result{Success: false, Message: fmt.Sprintf("%s has no free %s to bind", target.Name, params.Limb)}, nil
	}

	attached, err := d.grapples.Attach(target, ctx.Source.Name)
	if err != nil {
		return Result{}, err
	}

	message := fmt.Sprintf("%s is held by %s", target.Name, ctx.Source.Name)
	if attached {
		message = fmt.Sprintf("%s grapples %s", ctx.Source.Name, target.Name)
	}

	if params.GrappleType == entities.GrapplePenetrate {
		if _, err := d.grapples.Penetrate(target, ctx.Source.Name); err != nil {
			return Result{}, err
		}
	}

	if params.Limb != "" {
		bound, err := d.grapples.Bind(target, params.Limb, ctx.Source.Name)
		if err != nil {
			return Result{}, err
		}
		if !bound {
			return Result{Success: false, Message: fmt.Sprintf("%s has no free %s to bind", target.Name, params.Limb)}, nil
		}
		message = fmt.Sprintf("%s binds %s's %s", ctx.Source.Name, target.Name, params.Limb)
	}

	return Result{Success: true, Message: message}, nil
}

func (d *Dispatcher) applyStatus(ctx Context, target *entities.Character, params entities.EffectParams) (Result, error) {
	st, ok, err := d.statuses.Apply(target, params.Status, status.ApplyOptions{
		Limb:     params.Limb,
		Tag:      params.Tag,
		Source:   ctx.Source.Name,
		Stacks:   params.Stacks,
		Duration: params.Duration,
	})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Success: false, Message: fmt.Sprintf("%s already has maximum %s", target.Name, st.Name)}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("%s gains %s (%d)", target.Name, st.Name, st.Stacks)}, nil
}

func (d *Dispatcher) removeStatus(target *entities.Character, params entities.EffectParams) (Result, error) {
	removed, err := d.statuses.Reduce(target, params.Status, params.Limb, params.Tag, params.Stacks)
	if err != nil {
		return Result{}, err
	}
	if !removed {
		return Result{Success: false, Message: fmt.Sprintf("%s has no %s", target.Name, params.Status)}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("%s loses %s", target.Name, params.Status)}, nil
}

func (d *Dispatcher) breakFree(target *entities.Character) (Result, error) {
	release, err := d.grapples.BreakFree(target)
	if err != nil {
		return Result{}, err
	}
	if release == nil {
		return Result{Success: false, Message: fmt.Sprintf("%s is not grappled", target.Name)}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("%s breaks free", target.Name)}, nil
}

func (d *Dispatcher) modifyClothing(target *entities.Character, params entities.EffectParams) Result {
	changed := target.Clothing.Adjust(params.Value)
	return Result{
		Success: true,
		Message: fmt.Sprintf("%s clothing %+d (%d/%d)", target.Name, changed, target.Clothing.Current, target.Clothing.Max),
	}
}

func (d *Dispatcher) penetrate(ctx Context, target *entities.Character, params entities.EffectParams) (Result, error) {
	st, ok, err := d.statuses.Apply(target, entities.StatusPenetrated, status.ApplyOptions{
		Source: ctx.Source.Name,
		Stacks: params.Stacks,
	})
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Success: false, Message: fmt.Sprintf("%s is already at maximum %s", target.Name, st.Name)}, nil
	}

	message := fmt.Sprintf("%s penetrates %s (%d)", ctx.Source.Name, target.Name, st.Stacks)
	if params.InseminateAt > 0 && st.Stacks >= params.InseminateAt && !target.HasStatus(entities.StatusInseminated) {
		if _, _, err := d.statuses.Apply(target, entities.StatusInseminated, status.ApplyOptions{Source: ctx.Source.Name}); err != nil {
			return Result{}, err
		}
		message = fmt.Sprintf("%s inseminates %s", ctx.Source.Name, target.Name)
	}

	return Result{Success: true, Message: message}, nil
}

func (d *Dispatcher) endCombat(ctx Context, params entities.EffectParams) (Result, error) {
	if ctx.State.Complete {
		return Result{Success: false, Message: "combat is already over"}, nil
	}

	winner := ctx.Source
	if params.Winner == entities.TargetOther {
		winner = ctx.State.Opponent(ctx.Source)
	}
	reason := params.Reason
	if reason == "" {
		reason = "ended"
	}

	if err := FinishCombat(d.emitter, ctx.State, ctx.State.IndexOf(winner), reason); err != nil {
		return Result{}, err
	}
	return Result{Success: true, Message: fmt.Sprintf("%s wins (%s)", winner.Name, reason)}, nil
}

func (d *Dispatcher) advanceTurn(state *entities.CombatState) Result {
	state.ActiveIndex = (state.ActiveIndex + 1) % len(state.TurnOrder)
	return Result{Success: true, Message: fmt.Sprintf("turn passes to slot %d", state.ActiveIndex)}
}

func (d *Dispatcher) runScript(ctx Context, target *entities.Character, params entities.EffectParams) (Result, []entities.Effect, error) {
	if d.scripts == nil {
		return Result{}, nil, dnderr.Configurationf("script %s requested but no registry is configured", params.ScriptID)
	}

	env := script.NewEnv(ctx.Source, target, d.roller)
	outcome, err := d.scripts.Run(params.ScriptID, env)
	if err != nil {
		return Result{}, nil, err
	}
	if !outcome.Success {
		log.Printf("[EFFECTS] Script %s failed for %s: %s", params.ScriptID, ctx.Source.ID, outcome.Message)
		return Result{Success: false, Message: outcome.Message}, nil, nil
	}

	followups := env.Queued()
	if err := d.checkFollowups(followups); err != nil {
		log.Printf("[EFFECTS] Script %s queued an unusable effect for %s: %v", params.ScriptID, ctx.Source.ID, err)
		return Result{Success: false, Message: fmt.Sprintf("script %s failed: %v", params.ScriptID, err)}, nil, nil
	}

	return Result{Success: true, Message: outcome.Message}, followups, nil
}

// checkFollowups rejects queued effects that would raise a configuration
// error once dispatched.
func (d *Dispatcher) checkFollowups(followups []entities.Effect) error {
	for _, followup := range followups {
		if err := entities.Validator().Struct(followup); err != nil {
			return err
		}
		if followup.Kind == entities.EffectScript && !d.scripts.Has(followup.Params.ScriptID) {
			return dnderr.Configurationf("script %s is not registered", followup.Params.ScriptID)
		}
	}
	return nil
}

// FinishCombat completes the encounter and emits the combat_end phase change
func FinishCombat(emitter events.Emitter, state *entities.CombatState, winnerIndex int, reason string) error {
	from := state.Phase()
	state.Finish(winnerIndex, reason)

	payload := &events.PhasePayload{
		From:   string(from),
		To:     string(entities.PhaseCombatComplete),
		Reason: reason,
	}
	if winner := state.Winner(); winner != nil {
		payload.WinnerID = winner.ID
	}

	log.Printf("[EFFECTS] Encounter %s complete, winner %q, reason %s", state.ID, payload.WinnerID, reason)
	return emitter.Emit(events.Event{
		Type:    events.TypePhaseChange,
		Subtype: events.SubtypeCombatEnd,
		Phase:   payload,
	})
}
