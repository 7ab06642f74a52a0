package effects_test

import (
	"testing"

	mockdice "github.com/KirkDiggler/dungeon-combat/internal/dice/mock"
	"github.com/KirkDiggler/dungeon-combat/internal/effects"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/grapple"
	"github.com/KirkDiggler/dungeon-combat/internal/script"
	"github.com/KirkDiggler/dungeon-combat/internal/status"
	"github.com/KirkDiggler/dungeon-combat/internal/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DispatcherTestSuite struct {
	suite.Suite
	roller     *mockdice.ManualMockRoller
	scripts    *script.Registry
	dispatcher *effects.Dispatcher
	state      *entities.CombatState
	attacker   *entities.Character
	defender   *entities.Character
}

func newCharacter(id string) *entities.Character {
	return &entities.Character{
		ID:       id,
		Name:     id,
		Vitality: entities.Resource{Current: 3, Max: 3},
		Clothing: entities.Resource{Current: 2, Max: 2},
		Limbs:    map[entities.LimbType]int{entities.LimbArm: 2, entities.LimbLeg: 2},
	}
}

func (s *DispatcherTestSuite) SetupTest() {
	s.attacker = newCharacter("attacker")
	s.defender = newCharacter("defender")
	s.state = entities.NewCombatState("enc-1", s.attacker, s.defender)

	bus := events.NewBus(s.state.Log)
	statuses := status.NewManager(bus, uuid.NewSequenceGenerator("status"))
	s.roller = mockdice.NewManualMockRoller()
	s.scripts = script.NewRegistry()
	s.dispatcher = effects.NewDispatcher(&effects.DispatcherConfig{
		Emitter:  bus,
		Statuses: statuses,
		Grapples: grapple.NewTracker(statuses, s.roller, uuid.NewSequenceGenerator("binding")),
		Roller:   s.roller,
		Scripts:  s.scripts,
	})
}

func (s *DispatcherTestSuite) apply(effect entities.Effect) effects.Result {
	result, err := s.dispatcher.Apply(effects.Context{Source: s.attacker, State: s.state, Trait: "Test"}, effect)
	s.Require().NoError(err)
	return result
}

func (s *DispatcherTestSuite) effectEvents() []events.Event {
	return s.state.Log.Filter(events.TypeEffect, events.SubtypeApplied)
}

func (s *DispatcherTestSuite) TestWoundSequence() {
	for _, want := range []int{2, 1, 0} {
		wound := 1
		if want == 0 {
			wound = 5
		}
		result := s.apply(effects.Wound(wound))
		s.True(result.Success)
		s.Equal(want, s.defender.Vitality.Current)
	}
	s.Len(s.effectEvents(), 3)
}

func (s *DispatcherTestSuite) TestEveryDispatchEmitsOneEffectEvent() {
	s.apply(effects.Wound(1))
	s.apply(effects.BreakFree())

	got := s.effectEvents()
	s.Require().Len(got, 2)
	s.Equal("WOUND", got[0].Effect.Kind)
	s.True(got[0].Effect.Success)
	s.Equal("attacker", got[0].ActorID)
	s.Equal("defender", got[0].TargetID)
	s.Equal("Test", got[0].Effect.Trait)

	s.Equal("BREAK_FREE", got[1].Effect.Kind)
	s.False(got[1].Effect.Success, "attacker is not grappled")
	s.Equal("attacker", got[1].TargetID)
}

func (s *DispatcherTestSuite) TestHealClamps() {
	s.attacker.Vitality.Current = 1
	s.apply(effects.Heal(10))
	s.Equal(3, s.attacker.Vitality.Current)
}

// Two arm binds then a third attempt with two arms
func (s *DispatcherTestSuite) TestGrappleBindCapacity() {
	bindArm := effects.Grapple(entities.GrappleHold, entities.LimbArm)

	s.True(s.apply(bindArm).Success)
	s.True(s.apply(bindArm).Success)
	third := s.apply(bindArm)
	s.False(third.Success)
	s.Contains(third.Message, "no free arm")

	s.Equal(2, s.defender.LimbStacks(entities.StatusBound, entities.LimbArm))
	grappled := s.defender.FindStatus(entities.StatusGrappled, "", "")
	s.Require().NotNil(grappled)
	s.Len(grappled.Ledger.Bindings[entities.LimbArm], 2)
}

func (s *DispatcherTestSuite) TestGrappleWithoutCapacityLeavesTargetFree() {
	result := s.apply(effects.Grapple(entities.GrappleHold, entities.LimbTail))

	s.False(result.Success)
	s.False(s.defender.HasStatus(entities.StatusGrappled))
	s.Len(s.effectEvents(), 1)
}

func (s *DispatcherTestSuite) TestGrapplePenetrateType() {
	s.True(s.apply(effects.Grapple(entities.GrapplePenetrate, "")).Success)
	s.True(s.apply(effects.Grapple(entities.GrapplePenetrate, "")).Success)
	s.True(s.defender.HasStatus(entities.StatusGrappled))
	s.Equal(1, s.defender.Stacks(entities.StatusPenetrated), "no-op when already penetrated")
}

func (s *DispatcherTestSuite) TestBreakFreeClearsBindings() {
	s.apply(effects.Grapple(entities.GrappleHold, entities.LimbArm))
	s.apply(effects.Grapple(entities.GrappleHold, entities.LimbLeg))

	result, err := s.dispatcher.Apply(effects.Context{Source: s.defender, State: s.state}, effects.BreakFree())
	s.Require().NoError(err)
	s.True(result.Success)

	for _, st := range s.defender.Statuses {
		s.NotEqual(entities.StatusBound, st.Kind)
		s.NotEqual(entities.StatusBoundOther, st.Kind)
	}
	s.False(s.defender.HasStatus(entities.StatusGrappled))
	s.Equal(1, s.defender.Stacks(entities.StatusExhaustion))
}

func (s *DispatcherTestSuite) TestStatusStacksUntilMax() {
	dazed := effects.ApplyStatus(entities.StatusDazed, 1)
	for i := 0; i < 3; i++ {
		s.True(s.apply(dazed).Success)
	}
	fourth := s.apply(dazed)
	s.False(fourth.Success)
	s.Equal(3, s.defender.Stacks(entities.StatusDazed))
}

func (s *DispatcherTestSuite) TestRemoveStatus() {
	s.apply(effects.NewBuilder(entities.EffectStatus).OnSelf().WithStatus(entities.StatusHeat, 3).Build())

	s.True(s.apply(effects.RemoveStatus(entities.StatusHeat, 1)).Success)
	s.Equal(2, s.attacker.Stacks(entities.StatusHeat))
	s.True(s.apply(effects.RemoveStatus(entities.StatusHeat, 0)).Success)
	s.False(s.attacker.HasStatus(entities.StatusHeat))
	s.False(s.apply(effects.RemoveStatus(entities.StatusHeat, 0)).Success)
}

func (s *DispatcherTestSuite) TestModifyClothingClamps() {
	s.apply(effects.ModifyClothing(-5))
	s.Equal(0, s.defender.Clothing.Current)
	s.apply(effects.ModifyClothing(9))
	s.Equal(2, s.defender.Clothing.Current)
}

func (s *DispatcherTestSuite) TestPenetrateInseminatesAtThreshold() {
	s.apply(effects.Penetrate(2))
	s.False(s.defender.HasStatus(entities.StatusInseminated))

	result := s.apply(effects.Penetrate(2))
	s.True(result.Success)
	s.Equal(2, s.defender.Stacks(entities.StatusPenetrated))
	s.True(s.defender.HasStatus(entities.StatusInseminated))
}

func (s *DispatcherTestSuite) TestPenetrateWithoutThreshold() {
	s.apply(effects.Penetrate(0))
	s.apply(effects.Penetrate(0))
	s.Equal(2, s.defender.Stacks(entities.StatusPenetrated))
	s.False(s.defender.HasStatus(entities.StatusInseminated))
}

func (s *DispatcherTestSuite) TestEndCombat() {
	result := s.apply(effects.EndCombat(entities.TargetOther, "surrender"))
	s.True(result.Success)
	s.True(s.state.Complete)
	s.Equal(1, s.state.WinnerIndex)
	s.Equal("surrender", s.state.EndReason)

	phases := s.state.Log.Filter(events.TypePhaseChange, events.SubtypeCombatEnd)
	s.Require().Len(phases, 1)
	s.Equal("defender", phases[0].Phase.WinnerID)

	again := s.apply(effects.EndCombat(entities.TargetSelf, "surrender"))
	s.False(again.Success)
	s.Equal(1, s.state.WinnerIndex)
}

func (s *DispatcherTestSuite) TestAdvanceTurnAlternates() {
	s.apply(effects.AdvanceTurn())
	s.Equal(1, s.state.ActiveIndex)
	s.apply(effects.AdvanceTurn())
	s.Equal(0, s.state.ActiveIndex)
}

func (s *DispatcherTestSuite) TestScriptFollowups() {
	s.Require().NoError(s.scripts.Register("double-tap", func(env *script.Env) (bool, string) {
		env.QueueEffect(effects.Wound(1))
		env.QueueEffect(effects.Wound(1))
		return true, "tap tap"
	}))

	result := s.apply(effects.Script("double-tap"))
	s.True(result.Success)
	s.Equal(1, s.defender.Vitality.Current)

	got := s.effectEvents()
	s.Require().Len(got, 3)
	s.Equal("SCRIPT", got[0].Effect.Kind)
	s.Equal("WOUND", got[1].Effect.Kind)
}

func (s *DispatcherTestSuite) TestScriptFailureIsAFailedResult() {
	s.Require().NoError(s.scripts.RegisterLua("broken", `local t = nil return t.x`))

	result := s.apply(effects.Script("broken"))
	s.False(result.Success)
	s.Len(s.effectEvents(), 1)
}

func (s *DispatcherTestSuite) TestScriptQueuingInvalidEffectFails() {
	s.Require().NoError(s.scripts.RegisterLua("statusless", `queue_effect("STATUS", "other", 1) return true`))

	result, err := s.dispatcher.Apply(effects.Context{Source: s.attacker, State: s.state, Trait: "Test"}, effects.Script("statusless"))
	s.Require().NoError(err)
	s.False(result.Success)
	s.Empty(s.defender.Statuses)

	got := s.effectEvents()
	s.Require().Len(got, 1)
	s.Equal("SCRIPT", got[0].Effect.Kind)
	s.False(got[0].Effect.Success)
}

func (s *DispatcherTestSuite) TestScriptGoFollowupsAreChecked() {
	s.Require().NoError(s.scripts.Register("chain", func(env *script.Env) (bool, string) {
		env.QueueEffect(effects.Wound(1))
		env.QueueEffect(effects.Script("nowhere"))
		return true, "chained"
	}))

	result, err := s.dispatcher.Apply(effects.Context{Source: s.attacker, State: s.state, Trait: "Test"}, effects.Script("chain"))
	s.Require().NoError(err)
	s.False(result.Success)
	s.Equal(3, s.defender.Vitality.Current, "no follow-up runs when one is unusable")
	s.Len(s.effectEvents(), 1)
}

func (s *DispatcherTestSuite) TestScriptReadsOpponentStatus() {
	s.Require().NoError(s.scripts.RegisterLua("finisher",
		`if status_stacks("other", "dazed") > 0 then queue_effect("WOUND", "other", 3) return true, "finished" end return false, "not dazed"`))

	s.False(s.apply(effects.Script("finisher")).Success)
	s.apply(effects.ApplyStatus(entities.StatusDazed, 1))
	s.True(s.apply(effects.Script("finisher")).Success)
	s.Equal(0, s.defender.Vitality.Current)
}

func (s *DispatcherTestSuite) TestConfigurationErrors() {
	_, err := s.dispatcher.Apply(effects.Context{Source: s.attacker, State: s.state},
		entities.Effect{Kind: "EXPLODE", Target: entities.TargetOther})
	s.True(dnderr.IsConfiguration(err))

	_, err = s.dispatcher.Apply(effects.Context{Source: s.attacker, State: s.state}, effects.Script("missing"))
	s.True(dnderr.IsConfiguration(err))

	_, err = s.dispatcher.Apply(effects.Context{Source: s.attacker, State: s.state},
		effects.ApplyStatus("sparkly", 1))
	s.True(dnderr.IsConfiguration(err))

	s.Empty(s.effectEvents(), "configuration errors emit nothing")
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func TestWound_FloorsAtZero(t *testing.T) {
	for vitality := 0; vitality <= 6; vitality++ {
		for wound := 0; wound <= 8; wound++ {
			attacker := newCharacter("a")
			defender := newCharacter("d")
			defender.Vitality = entities.Resource{Current: vitality, Max: 6}
			state := entities.NewCombatState("enc", attacker, defender)
			bus := events.NewBus(state.Log)
			statuses := status.NewManager(bus, nil)
			roller := mockdice.NewManualMockRoller()
			dispatcher := effects.NewDispatcher(&effects.DispatcherConfig{
				Emitter:  bus,
				Statuses: statuses,
				Grapples: grapple.NewTracker(statuses, roller, nil),
				Roller:   roller,
			})

			_, err := dispatcher.Apply(effects.Context{Source: attacker, State: state}, effects.Wound(wound))
			require.NoError(t, err)
			assert.Equal(t, max(0, vitality-wound), defender.Vitality.Current)
		}
	}
}
