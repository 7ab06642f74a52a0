package script

import (
	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
)

// Env is everything a procedure may see. It exposes status lookups, flag
// lookups and the seeded random source, and collects follow-up effects.
type Env struct {
	source *entities.Character
	target *entities.Character
	roller dice.Roller
	queued []entities.Effect
}

// NewEnv creates an environment for one SCRIPT dispatch
func NewEnv(source, target *entities.Character, roller dice.Roller) *Env {
	return &Env{source: source, target: target, roller: roller}
}

func (e *Env) who(selector entities.TargetSelector) *entities.Character {
	if selector == entities.TargetOther {
		return e.target
	}
	return e.source
}

// StatusStacks sums the stacks of a kind on self or other
func (e *Env) StatusStacks(who entities.TargetSelector, kind entities.StatusKind) int {
	c := e.who(who)
	if c == nil {
		return 0
	}
	return c.Stacks(kind)
}

// Flag reads a flag from self or other
func (e *Env) Flag(who entities.TargetSelector, name string) (string, bool) {
	c := e.who(who)
	if c == nil {
		return "", false
	}
	return c.Flag(name)
}

// Random returns a value in [1, n], 0 when n < 1
func (e *Env) Random(n int) int {
	if n < 1 || e.roller == nil {
		return 0
	}
	return e.roller.Intn(n) + 1
}

// QueueEffect schedules an effect to dispatch after the procedure returns
func (e *Env) QueueEffect(effect entities.Effect) {
	e.queued = append(e.queued, effect)
}

// Queued returns the effects scheduled by the procedure
func (e *Env) Queued() []entities.Effect {
	return e.queued
}
