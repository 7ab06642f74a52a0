package encounter

import (
	"log"

	"github.com/KirkDiggler/dungeon-combat/internal/actions"
	"github.com/KirkDiggler/dungeon-combat/internal/check"
	"github.com/KirkDiggler/dungeon-combat/internal/effects"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/grapple"
	"github.com/KirkDiggler/dungeon-combat/internal/status"
	"github.com/KirkDiggler/dungeon-combat/internal/traits"
)

// engine is the component graph bound to one encounter for one call. The
// state owns everything persistent, so rebuilding it per call is safe.
type engine struct {
	state      *entities.CombatState
	bus        *events.Bus
	checks     *check.Resolver
	statuses   *status.Manager
	dispatcher *effects.Dispatcher
	executor   *traits.Executor
	actions    *actions.Resolver
}

func (s *service) engine(state *entities.CombatState) *engine {
	if state.Log == nil {
		state.Log = events.NewLog()
	}
	if state.PassivesFired == nil {
		state.PassivesFired = make(map[string]bool)
	}

	bus := events.NewBus(state.Log)
	statuses := status.NewManager(bus, s.uuidGenerator)
	checks := check.NewResolver(s.roller)
	resolver := actions.NewResolver()

	dispatcher := effects.NewDispatcher(&effects.DispatcherConfig{
		Emitter:  bus,
		Statuses: statuses,
		Grapples: grapple.NewTracker(statuses, s.roller, s.uuidGenerator),
		Roller:   s.roller,
		Scripts:  s.scripts,
	})

	executor := traits.NewExecutor(&traits.ExecutorConfig{
		Emitter:    bus,
		Checks:     checks,
		Dispatcher: dispatcher,
		Actions:    resolver,
		Statuses:   statuses,
	})

	bus.SubscribeAll(traits.NewPassives(executor, state))
	if s.metrics != nil {
		bus.SubscribeAll(s.metrics)
	}
	for _, listener := range s.listeners {
		bus.SubscribeAll(listener)
	}

	return &engine{
		state:      state,
		bus:        bus,
		checks:     checks,
		statuses:   statuses,
		dispatcher: dispatcher,
		executor:   executor,
		actions:    resolver,
	}
}

// rollInitiative rolls an opposed initiative check. The lower raw roll acts
// first; on equal rolls the defender, character 1, goes first.
func (e *engine) rollInitiative() error {
	first, second := e.state.Characters[0], e.state.Characters[1]

	result, err := e.checks.OpposedCheck(first, entities.SkillInitiative, second, nil, 0)
	if err != nil {
		return err
	}

	first.Initiative = result.Attacker.Roll
	second.Initiative = result.Defender.Roll

	order := [2]int{1, 0}
	if first.Initiative < second.Initiative {
		order = [2]int{0, 1}
	}
	e.state.TurnOrder = order

	log.Printf("[ENCOUNTER] Initiative in %s round %d: %s %d, %s %d, %s acts first",
		e.state.ID, e.state.Round, first.ID, first.Initiative, second.ID, second.Initiative,
		e.state.Characters[order[0]].ID)

	return e.bus.Emit(events.Event{
		Type:    events.TypeInitiative,
		Subtype: events.SubtypeRolled,
		Initiative: &events.InitiativePayload{
			Rolls: map[string]int{
				first.ID:  first.Initiative,
				second.ID: second.Initiative,
			},
			Order: []string{
				e.state.Characters[order[0]].ID,
				e.state.Characters[order[1]].ID,
			},
		},
	})
}

// orderTurns lets a lone priority action jump the initiative order for this
// round. Two priority actions keep initiative order.
func (e *engine) orderTurns() {
	first, second := e.state.Queued[0], e.state.Queued[1]
	priority := func(index int, queued *entities.QueuedAction) bool {
		if queued == nil {
			return false
		}
		trait := e.state.Characters[index].FindTrait(queued.TraitName)
		return trait != nil && trait.Priority
	}

	switch p0, p1 := priority(0, first), priority(1, second); {
	case p0 && !p1:
		e.state.TurnOrder = [2]int{0, 1}
	case p1 && !p0:
		e.state.TurnOrder = [2]int{1, 0}
	default:
		return
	}
	log.Printf("[ENCOUNTER] Priority action moves %s first in round %d",
		e.state.Characters[e.state.TurnOrder[0]].ID, e.state.Round)
}

// emitPhase records a state machine transition
func (e *engine) emitPhase(subtype string, from, to entities.Phase) error {
	return e.bus.Emit(events.Event{
		Type:    events.TypePhaseChange,
		Subtype: subtype,
		Phase: &events.PhasePayload{
			From: string(from),
			To:   string(to),
		},
	})
}

// stateBasedChecks ends combat when a character is defeated or bred. Only
// the first qualifying character in slot order is honored.
func (e *engine) stateBasedChecks() error {
	if e.state.Complete {
		return nil
	}

	for i, c := range e.state.Characters {
		switch {
		case c.IsDefeated():
			return effects.FinishCombat(e.bus, e.state, 1-i, entities.EndReasonDeath)
		case c.HasStatus(entities.StatusInseminated):
			return effects.FinishCombat(e.bus, e.state, 1-i, entities.EndReasonBreeding)
		}
	}
	return nil
}

// endRound decays statuses and, unless combat is over, opens the next round
// with fresh initiative. Reaching maxRounds ends combat without a winner.
func (e *engine) endRound(maxRounds int) error {
	for _, c := range e.state.Characters {
		if err := e.statuses.TickDurations(c); err != nil {
			return err
		}
		if err := e.statuses.PurgeEmpty(c); err != nil {
			return err
		}
		if err := e.statuses.TickCooldowns(c); err != nil {
			return err
		}
	}
	e.state.Queued = [2]*entities.QueuedAction{}

	if e.state.Complete {
		return nil
	}

	if err := e.emitPhase(events.SubtypeRoundEnd, entities.PhaseMidRound, entities.PhaseRoundComplete); err != nil {
		return err
	}

	if e.state.Round >= maxRounds {
		log.Printf("[ENCOUNTER] %s reached the round limit %d", e.state.ID, maxRounds)
		return effects.FinishCombat(e.bus, e.state, entities.NoWinner, entities.EndReasonExhausted)
	}

	e.state.Round++
	e.state.ActiveIndex = 0
	e.state.ActionsThisRound = 0
	e.state.PassivesFired = make(map[string]bool)
	e.state.Log.BeginRound(e.state.Round)

	if err := e.emitPhase(events.SubtypeRoundStart, entities.PhaseRoundComplete, entities.PhaseAwaitingFirstAction); err != nil {
		return err
	}
	return e.rollInitiative()
}

// lookupTrait finds the queued trait among the actor's current actions.
// Pass may drop out of the list once something else becomes usable.
func (e *engine) lookupTrait(actor *entities.Character, name string) *entities.Trait {
	if trait := e.actions.Available(actor, e.state).Find(name); trait != nil {
		return trait
	}
	if name == actions.PassName {
		return actions.Pass()
	}
	return nil
}
