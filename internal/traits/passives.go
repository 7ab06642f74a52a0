package traits

import (
	"fmt"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
)

// Passives fires passive traits of both characters in response to events,
// at most once per trait per round.
type Passives struct {
	executor *Executor
	state    *entities.CombatState
}

// NewPassives creates the listener for one encounter
func NewPassives(executor *Executor, state *entities.CombatState) *Passives {
	if executor == nil {
		panic("executor is required")
	}
	if state == nil {
		panic("state is required")
	}
	return &Passives{executor: executor, state: state}
}

// ID implements events.Listener
func (p *Passives) ID() string {
	return "passives:" + p.state.ID
}

// Priority implements events.Listener
func (p *Passives) Priority() int {
	return events.PriorityPassives
}

// HandleEvent implements events.Listener. Passives whose requirements are
// not met stay armed for a later event in the same round.
func (p *Passives) HandleEvent(event events.Event) error {
	if p.state.Complete {
		return nil
	}
	if p.state.PassivesFired == nil {
		p.state.PassivesFired = make(map[string]bool)
	}

	for _, c := range p.state.Characters {
		for _, trait := range c.Traits {
			if !trait.IsPassive() || !trait.Passive.Matches(event) {
				continue
			}

			key := FiredKey(c, trait)
			if p.state.PassivesFired[key] {
				continue
			}
			if p.executor.actions.Check(trait, c, p.state) != "" {
				continue
			}
			p.state.PassivesFired[key] = true

			var target *entities.Character
			if trait.TargetsOther() {
				target = p.state.Opponent(c)
			}
			if _, err := p.executor.ExecutePassive(trait, c, target, p.state); err != nil {
				return fmt.Errorf("passive %s of %s: %w", trait.Name, c.ID, err)
			}
			if p.state.Complete {
				return nil
			}
		}
	}
	return nil
}

// FiredKey identifies a passive in the once-per-round guard
func FiredKey(c *entities.Character, trait *entities.Trait) string {
	return c.ID + ":" + trait.Name
}
