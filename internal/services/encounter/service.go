// Package encounter runs the round and turn state machine of a two-character
// fight: initiative, queued actions, state-based checks and round upkeep.
package encounter

import (
	"context"
	"fmt"
	"log"

	"github.com/KirkDiggler/dungeon-combat/internal/actions"
	"github.com/KirkDiggler/dungeon-combat/internal/ai"
	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	"github.com/KirkDiggler/dungeon-combat/internal/effects"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/metrics"
	"github.com/KirkDiggler/dungeon-combat/internal/repositories/encounters"
	"github.com/KirkDiggler/dungeon-combat/internal/script"
	"github.com/KirkDiggler/dungeon-combat/internal/traits"
	"github.com/KirkDiggler/dungeon-combat/internal/uuid"
)

// DefaultMaxRounds bounds Run when the config leaves MaxRounds unset
const DefaultMaxRounds = 50

// Service defines the encounter service interface
type Service interface {
	// Start validates both characters and opens round 1 with initiative
	Start(ctx context.Context, input *StartInput) (*entities.CombatState, error)

	// Available lists the actions of the character in the slot
	Available(state *entities.CombatState, index int) (actions.Availability, error)

	// Queue commits the character in the slot to an enabled action
	Queue(state *entities.CombatState, index int, traitName string) error

	// ResolveAction executes the active character's queued action, then
	// advances the turn and runs state-based checks
	ResolveAction(ctx context.Context, state *entities.CombatState) (*traits.Outcome, error)

	// ResolveRound executes the remaining queued actions of the round
	ResolveRound(ctx context.Context, state *entities.CombatState) error

	// PlayRound queues policy choices for unqueued slots, then resolves the round
	PlayRound(ctx context.Context, state *entities.CombatState, policy ai.Policy) error

	// Run plays rounds until combat completes
	Run(ctx context.Context, state *entities.CombatState, policy ai.Policy) error
}

// StartInput contains the two combatants of a new encounter
type StartInput struct {
	ID     string // Optional: generated when empty
	First  *entities.Character
	Second *entities.Character
}

type service struct {
	roller        dice.Roller
	uuidGenerator uuid.Generator
	scripts       *script.Registry
	repository    encounters.Repository
	metrics       *metrics.CombatMetrics
	listeners     []events.Listener
	maxRounds     int
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Roller        dice.Roller
	UUIDGenerator uuid.Generator
	Scripts       *script.Registry       // Optional: SCRIPT effects fail without it
	Repository    encounters.Repository  // Optional: snapshots after every action
	Metrics       *metrics.CombatMetrics // Optional
	Listeners     []events.Listener      // Optional: e.g. narration
	MaxRounds     int                    // Optional: 0 uses DefaultMaxRounds
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("config is required")
	}
	if cfg.Roller == nil {
		panic("roller is required")
	}

	svc := &service{
		roller:     cfg.Roller,
		scripts:    cfg.Scripts,
		repository: cfg.Repository,
		metrics:    cfg.Metrics,
		listeners:  cfg.Listeners,
		maxRounds:  cfg.MaxRounds,
	}

	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.maxRounds <= 0 {
		svc.maxRounds = DefaultMaxRounds
	}

	return svc
}

// Start validates both characters and opens round 1 with initiative
func (s *service) Start(ctx context.Context, input *StartInput) (*entities.CombatState, error) {
	if input == nil {
		return nil, dnderr.InvalidArgument("input cannot be nil")
	}
	if input.First == nil || input.Second == nil {
		return nil, dnderr.InvalidArgument("two characters are required")
	}

	for _, c := range []*entities.Character{input.First, input.Second} {
		if err := entities.ValidateCharacter(c); err != nil {
			return nil, dnderr.WrapWithCode(err, dnderr.CodeValidation,
				fmt.Sprintf("invalid character %q", c.ID)).WithMeta("character_id", c.ID)
		}
	}
	if input.First.ID == input.Second.ID {
		return nil, dnderr.Validation("characters must have distinct IDs").
			WithMeta("character_id", input.First.ID)
	}

	id := input.ID
	if id == "" {
		id = s.uuidGenerator.New()
	}

	state := entities.NewCombatState(id, input.First, input.Second)
	state.Round = 1
	state.Log.BeginRound(1)

	eng := s.engine(state)
	if err := eng.emitPhase(events.SubtypeCombatStart, "", entities.PhaseAwaitingFirstAction); err != nil {
		return nil, dnderr.Wrap(err, "failed to start encounter")
	}
	if err := eng.rollInitiative(); err != nil {
		return nil, dnderr.Wrap(err, "failed to roll initiative")
	}

	log.Printf("[ENCOUNTER] Started %s: %s vs %s", state.ID, input.First.ID, input.Second.ID)

	if s.repository != nil {
		if err := s.repository.Create(ctx, state); err != nil {
			return nil, dnderr.Wrap(err, "failed to store encounter")
		}
	}

	return state, nil
}

// Available lists the actions of the character in the slot
func (s *service) Available(state *entities.CombatState, index int) (actions.Availability, error) {
	actor, err := character(state, index)
	if err != nil {
		return actions.Availability{}, err
	}
	return actions.NewResolver().Available(actor, state), nil
}

// Queue commits the character in the slot to an enabled action
func (s *service) Queue(state *entities.CombatState, index int, traitName string) error {
	return s.queue(state, index, traitName, false)
}

func (s *service) queue(state *entities.CombatState, index int, traitName string, untargeted bool) error {
	available, err := s.Available(state, index)
	if err != nil {
		return err
	}
	if state.Complete {
		return dnderr.IllegalActionf("encounter %s is over", state.ID).WithMeta("encounter_id", state.ID)
	}
	if available.Find(traitName) == nil {
		return dnderr.IllegalActionf("%s has no action %q", state.Characters[index].ID, traitName).
			WithMeta("trait", traitName)
	}
	if !available.IsEnabled(traitName) {
		return dnderr.IllegalActionf("%s cannot use %s: %s",
			state.Characters[index].ID, traitName, available.Reason(traitName)).
			WithMeta("trait", traitName)
	}

	state.Queued[index] = &entities.QueuedAction{TraitName: traitName, Untargeted: untargeted}
	return nil
}

// ResolveAction executes the active character's queued action
func (s *service) ResolveAction(ctx context.Context, state *entities.CombatState) (*traits.Outcome, error) {
	if err := ready(state); err != nil {
		return nil, err
	}

	eng := s.engine(state)
	if state.ActionsThisRound == 0 {
		eng.orderTurns()
	}

	index := state.TurnOrder[state.ActiveIndex]
	actor := state.Characters[index]
	queued := state.Queued[index]

	trait := eng.lookupTrait(actor, queued.TraitName)
	if trait == nil {
		return nil, dnderr.IllegalActionf("%s no longer has action %q", actor.ID, queued.TraitName).
			WithMeta("trait", queued.TraitName)
	}

	var target *entities.Character
	if !queued.Untargeted {
		target = traits.DefaultTarget(trait, actor, state)
	}

	outcome, err := eng.executor.Execute(trait, actor, target, state)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to execute %s for %s", trait.Name, actor.ID)
	}
	state.ActionsThisRound++

	if _, err := eng.dispatcher.Apply(effects.Context{Source: actor, State: state}, effects.AdvanceTurn()); err != nil {
		return nil, dnderr.Wrap(err, "failed to advance turn")
	}
	if err := eng.stateBasedChecks(); err != nil {
		return nil, dnderr.Wrap(err, "failed to run state-based checks")
	}

	if state.Complete || state.ActionsThisRound >= 2 {
		if err := eng.endRound(s.maxRounds); err != nil {
			return nil, dnderr.Wrap(err, "failed to end round")
		}
	}

	if s.repository != nil {
		if err := s.repository.Update(ctx, state); err != nil {
			return nil, dnderr.Wrap(err, "failed to store encounter")
		}
	}

	return outcome, nil
}

// ResolveRound executes the remaining queued actions of the round
func (s *service) ResolveRound(ctx context.Context, state *entities.CombatState) error {
	if err := ready(state); err != nil {
		return err
	}

	round := state.Round
	for !state.Complete && state.Round == round {
		if _, err := s.ResolveAction(ctx, state); err != nil {
			return err
		}
	}
	return nil
}

// PlayRound queues policy choices for unqueued slots, then resolves the round.
// Slots a caller already queued, such as a player's, are kept.
func (s *service) PlayRound(ctx context.Context, state *entities.CombatState, policy ai.Policy) error {
	if policy == nil {
		return dnderr.InvalidArgument("policy is required")
	}
	if state == nil {
		return dnderr.InvalidArgument("state cannot be nil")
	}
	if state.Complete {
		return dnderr.IllegalActionf("encounter %s is over", state.ID)
	}

	for index, actor := range state.Characters {
		if state.Queued[index] != nil {
			continue
		}

		available := actions.NewResolver().Available(actor, state)
		choice, err := policy.Choose(actor, state, available)
		if err != nil {
			return dnderr.Wrapf(err, "policy failed for %s", actor.ID)
		}
		if choice == nil || choice.Trait == nil {
			return dnderr.IllegalActionf("policy chose nothing for %s", actor.ID)
		}

		untargeted := choice.Target == nil && traits.DefaultTarget(choice.Trait, actor, state) != nil
		if err := s.queue(state, index, choice.Trait.Name, untargeted); err != nil {
			return err
		}
	}

	return s.ResolveRound(ctx, state)
}

// Run plays rounds until combat completes. Cancellation is honored between
// rounds; a started round always runs to completion.
func (s *service) Run(ctx context.Context, state *entities.CombatState, policy ai.Policy) error {
	if state == nil {
		return dnderr.InvalidArgument("state cannot be nil")
	}

	for !state.Complete {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("encounter %s interrupted in round %d: %w", state.ID, state.Round, err)
		}
		if err := s.PlayRound(ctx, state, policy); err != nil {
			return err
		}
	}

	log.Printf("[ENCOUNTER] %s finished in round %d, reason %s", state.ID, state.Round, state.EndReason)
	return nil
}

func character(state *entities.CombatState, index int) (*entities.Character, error) {
	if state == nil {
		return nil, dnderr.InvalidArgument("state cannot be nil")
	}
	if index < 0 || index > 1 {
		return nil, dnderr.InvalidArgumentf("character index %d out of range", index)
	}
	return state.Characters[index], nil
}

// ready checks that the active character can act
func ready(state *entities.CombatState) error {
	if state == nil {
		return dnderr.InvalidArgument("state cannot be nil")
	}
	if state.Complete {
		return dnderr.IllegalActionf("encounter %s is over", state.ID).WithMeta("encounter_id", state.ID)
	}

	if state.ActionsThisRound == 0 {
		for index, queued := range state.Queued {
			if queued == nil {
				return dnderr.IllegalActionf("%s has no queued action", state.Characters[index].ID)
			}
		}
		return nil
	}

	index := state.TurnOrder[state.ActiveIndex]
	if state.Queued[index] == nil {
		return dnderr.IllegalActionf("%s has no queued action", state.Characters[index].ID)
	}
	return nil
}
