package effects

import (
	"testing"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("creates status effect", func(t *testing.T) {
		effect := NewBuilder(entities.EffectStatus).
			OnSelf().
			WithStatus(entities.StatusBolstered, 2).
			WithDuration(3).
			EvenOnFailure().
			Build()

		assert.Equal(t, entities.EffectStatus, effect.Kind)
		assert.Equal(t, entities.TargetSelf, effect.Target)
		assert.True(t, effect.ApplyOnFailure)
		assert.Equal(t, entities.StatusBolstered, effect.Params.Status)
		assert.Equal(t, 2, effect.Params.Stacks)
		require.NotNil(t, effect.Params.Duration)
		assert.Equal(t, 3, *effect.Params.Duration)
	})

	t.Run("defaults to the opponent", func(t *testing.T) {
		effect := NewBuilder(entities.EffectWound).Build()
		assert.Equal(t, entities.TargetOther, effect.Target)
		assert.False(t, effect.ApplyOnFailure)
	})
}

func TestShortcutsValidate(t *testing.T) {
	trait := &entities.Trait{
		Name:  "Everything",
		Skill: entities.SkillNone,
		Effects: []entities.Effect{
			Wound(1),
			Heal(1),
			Grapple(entities.GrappleHold, entities.LimbArm),
			Grapple(entities.GrapplePenetrate, ""),
			ApplyStatus(entities.StatusHeat, 1),
			RemoveStatus(entities.StatusHeat, 0),
			BreakFree(),
			ModifyClothing(-1),
			Penetrate(3),
			EndCombat(entities.TargetSelf, "surrender"),
			AdvanceTurn(),
			Script("tease"),
		},
	}

	assert.NoError(t, entities.ValidateTrait(trait))
}
