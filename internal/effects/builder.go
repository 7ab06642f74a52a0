package effects

import "github.com/KirkDiggler/dungeon-combat/internal/entities"

// Builder helps create effects for trait definitions
type Builder struct {
	effect entities.Effect
}

// NewBuilder creates a builder aimed at the opponent
func NewBuilder(kind entities.EffectKind) *Builder {
	return &Builder{
		effect: entities.Effect{
			Kind:   kind,
			Target: entities.TargetOther,
		},
	}
}

// OnSelf aims the effect at its source
func (b *Builder) OnSelf() *Builder {
	b.effect.Target = entities.TargetSelf
	return b
}

// OnOther aims the effect at the opponent
func (b *Builder) OnOther() *Builder {
	b.effect.Target = entities.TargetOther
	return b
}

// EvenOnFailure applies the effect when the check fails
func (b *Builder) EvenOnFailure() *Builder {
	b.effect.ApplyOnFailure = true
	return b
}

// WithValue sets the amount for wound, heal and clothing effects
func (b *Builder) WithValue(value int) *Builder {
	b.effect.Params.Value = value
	return b
}

// WithStatus sets the status kind and stack count
func (b *Builder) WithStatus(kind entities.StatusKind, stacks int) *Builder {
	b.effect.Params.Status = kind
	b.effect.Params.Stacks = stacks
	return b
}

// WithDuration limits an applied status to a number of rounds
func (b *Builder) WithDuration(rounds int) *Builder {
	b.effect.Params.Duration = entities.IntPtr(rounds)
	return b
}

// WithLimb sets the limb for grapple binds and limb-scoped statuses
func (b *Builder) WithLimb(limb entities.LimbType) *Builder {
	b.effect.Params.Limb = limb
	return b
}

// WithTag sets the tag of a tagged status
func (b *Builder) WithTag(tag string) *Builder {
	b.effect.Params.Tag = tag
	return b
}

// Build returns the effect
func (b *Builder) Build() entities.Effect {
	return b.effect
}

// Wound removes vitality from the opponent
func Wound(value int) entities.Effect {
	return NewBuilder(entities.EffectWound).WithValue(value).Build()
}

// Heal restores vitality to the source
func Heal(value int) entities.Effect {
	return NewBuilder(entities.EffectHeal).OnSelf().WithValue(value).Build()
}

// Grapple holds the opponent, binding a limb when one is given
func Grapple(grappleType entities.GrappleType, limb entities.LimbType) entities.Effect {
	effect := NewBuilder(entities.EffectGrapple).WithLimb(limb).Build()
	effect.Params.GrappleType = grappleType
	return effect
}

// ApplyStatus adds stacks of a status to the opponent
func ApplyStatus(kind entities.StatusKind, stacks int) entities.Effect {
	return NewBuilder(entities.EffectStatus).WithStatus(kind, stacks).Build()
}

// RemoveStatus clears a status from the source, all stacks when stacks is 0
func RemoveStatus(kind entities.StatusKind, stacks int) entities.Effect {
	return NewBuilder(entities.EffectRemoveStatus).OnSelf().WithStatus(kind, stacks).Build()
}

// BreakFree escapes the source's current grapple
func BreakFree() entities.Effect {
	return NewBuilder(entities.EffectBreakFree).OnSelf().Build()
}

// ModifyClothing adjusts the opponent's clothing
func ModifyClothing(amount int) entities.Effect {
	return NewBuilder(entities.EffectModifyClothing).WithValue(amount).Build()
}

// Penetrate stacks penetrated on the opponent, inseminating at the threshold
func Penetrate(inseminateAt int) entities.Effect {
	effect := NewBuilder(entities.EffectPenetrate).Build()
	effect.Params.InseminateAt = inseminateAt
	return effect
}

// EndCombat finishes the encounter with a winner relative to the source
func EndCombat(winner entities.TargetSelector, reason string) entities.Effect {
	effect := NewBuilder(entities.EffectEndCombat).OnSelf().Build()
	effect.Params.Winner = winner
	effect.Params.Reason = reason
	return effect
}

// AdvanceTurn passes the turn to the next slot
func AdvanceTurn() entities.Effect {
	return NewBuilder(entities.EffectAdvanceTurn).OnSelf().Build()
}

// Script runs a registered procedure against the opponent
func Script(id string) entities.Effect {
	effect := NewBuilder(entities.EffectScript).Build()
	effect.Params.ScriptID = id
	return effect
}
