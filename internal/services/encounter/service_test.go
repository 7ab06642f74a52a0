package encounter_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dungeon-combat/internal/actions"
	mockdice "github.com/KirkDiggler/dungeon-combat/internal/dice/mock"
	"github.com/KirkDiggler/dungeon-combat/internal/effects"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/metrics"
	"github.com/KirkDiggler/dungeon-combat/internal/repositories/encounters"
	"github.com/KirkDiggler/dungeon-combat/internal/services/encounter"
	"github.com/KirkDiggler/dungeon-combat/internal/testutils"
	"github.com/KirkDiggler/dungeon-combat/internal/uuid"
)

// Initiative faces: the first character rolls 2 against 8 and succeeds,
// the second rolls 10 and fails
var firstActsFirst = []int{1, 1, 5, 5}

// Reversed faces let the second character win initiative
var secondActsFirst = []int{5, 5, 1, 1}

func initiative(rounds int, faces []int) []int {
	var rolls []int
	for i := 0; i < rounds; i++ {
		rolls = append(rolls, faces...)
	}
	return rolls
}

func brace() *entities.Trait {
	return &entities.Trait{Name: "Brace", Skill: entities.SkillNone}
}

func strike(name string, damage int) *entities.Trait {
	return &entities.Trait{
		Name:    name,
		Skill:   entities.SkillNone,
		Effects: []entities.Effect{effects.Wound(damage)},
	}
}

func fighter(id string, vitality int, traits ...*entities.Trait) *entities.Character {
	c := testutils.CreateTestCharacter(id, id, traits...)
	c.Vitality = entities.Resource{Current: vitality, Max: vitality}
	return c
}

type ServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	roller  *mockdice.ManualMockRoller
	repo    encounters.Repository
	metrics *metrics.CombatMetrics
	service encounter.Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.roller = mockdice.NewManualMockRoller()
	s.repo = encounters.NewInMemoryRepository()
	s.metrics = metrics.NewCombatMetrics("test", prometheus.NewRegistry())
	s.service = encounter.NewService(&encounter.ServiceConfig{
		Roller:        s.roller,
		UUIDGenerator: uuid.NewSequenceGenerator("id"),
		Repository:    s.repo,
		Metrics:       s.metrics,
	})
}

func (s *ServiceTestSuite) start(first, second *entities.Character) *entities.CombatState {
	state, err := s.service.Start(s.ctx, &encounter.StartInput{ID: "enc-1", First: first, Second: second})
	s.Require().NoError(err)
	return state
}

func (s *ServiceTestSuite) round(state *entities.CombatState, first, second string) {
	s.Require().NoError(s.service.Queue(state, 0, first))
	s.Require().NoError(s.service.Queue(state, 1, second))
	s.Require().NoError(s.service.ResolveRound(s.ctx, state))
}

func (s *ServiceTestSuite) TestStart() {
	s.roller.SetRolls(initiative(1, secondActsFirst))

	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, brace()))

	s.Equal(1, state.Round)
	s.Equal([2]int{1, 0}, state.TurnOrder)
	s.Equal(10, state.Characters[0].Initiative)
	s.Equal(2, state.Characters[1].Initiative)
	s.Equal(entities.PhaseAwaitingFirstAction, state.Phase())

	rolled := state.Log.Filter(events.TypeInitiative, events.SubtypeRolled)
	s.Require().Len(rolled, 1)
	s.Equal(map[string]int{"hero": 10, "brute": 2}, rolled[0].Initiative.Rolls)
	s.Equal([]string{"brute", "hero"}, rolled[0].Initiative.Order)
	s.Len(state.Log.Filter(events.TypePhaseChange, events.SubtypeCombatStart), 1)

	stored, err := s.repo.Get(s.ctx, "enc-1")
	s.Require().NoError(err)
	s.Equal(1, stored.Round)
}

func (s *ServiceTestSuite) TestInitiativeOrdersByRawRoll() {
	quick := fighter("brute", 5, brace())
	quick.Scores[entities.AttributeGrace] = 15

	// hero rolls 5 against 8, brute rolls 7 against 15 and has the wider margin
	s.roller.SetRolls([]int{2, 3, 3, 4})
	state := s.start(fighter("hero", 5, brace()), quick)

	s.Equal([2]int{0, 1}, state.TurnOrder)
	s.Equal(5, state.Characters[0].Initiative)
	s.Equal(7, state.Characters[1].Initiative)
}

func (s *ServiceTestSuite) TestInitiativeTieGoesToSecondCharacter() {
	s.roller.SetRolls([]int{3, 3, 4, 2})
	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, brace()))

	s.Equal(6, state.Characters[0].Initiative)
	s.Equal(6, state.Characters[1].Initiative)
	s.Equal([2]int{1, 0}, state.TurnOrder)
}

func (s *ServiceTestSuite) TestStart_Validation() {
	_, err := s.service.Start(s.ctx, nil)
	s.True(dnderr.Is(err, dnderr.CodeInvalidArgument))

	nameless := fighter("hero", 5, brace())
	nameless.Name = ""
	_, err = s.service.Start(s.ctx, &encounter.StartInput{First: nameless, Second: fighter("brute", 5, brace())})
	s.True(dnderr.IsValidation(err))

	badSkill := fighter("hero", 5, &entities.Trait{Name: "Odd", Skill: "juggling"})
	_, err = s.service.Start(s.ctx, &encounter.StartInput{First: badSkill, Second: fighter("brute", 5, brace())})
	s.True(dnderr.IsValidation(err))

	_, err = s.service.Start(s.ctx, &encounter.StartInput{First: fighter("twin", 5, brace()), Second: fighter("twin", 5, brace())})
	s.True(dnderr.IsValidation(err))

	s.Equal(0, s.roller.Remaining(), "no dice are rolled for rejected input")
}

// Vitality 3 wounded by 1, 1 and 5 reads 2, 1, 0 and the opponent wins by death
func (s *ServiceTestSuite) TestDeathEndsCombat() {
	s.roller.SetRolls(initiative(3, firstActsFirst))
	state := s.start(fighter("hero", 3, brace()), fighter("brute", 10, strike("Poke", 1), strike("Smash", 5)))

	var vitality []int
	for _, attack := range []string{"Poke", "Poke", "Smash"} {
		s.round(state, "Brace", attack)
		vitality = append(vitality, state.Characters[0].Vitality.Current)
	}

	s.Equal([]int{2, 1, 0}, vitality)
	s.True(state.Complete)
	s.Equal(1, state.WinnerIndex)
	s.Equal(entities.EndReasonDeath, state.EndReason)
	s.Equal(3, state.Round)
	s.Equal(0, s.roller.Remaining(), "no initiative after the final round")

	ended := state.Log.Filter(events.TypePhaseChange, events.SubtypeCombatEnd)
	s.Require().Len(ended, 1)
	s.Equal("brute", ended[0].Phase.WinnerID)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.EncountersTotal.WithLabelValues(entities.EndReasonDeath)))

	s.True(dnderr.IsIllegalAction(s.service.ResolveRound(s.ctx, state)))
	s.True(dnderr.IsIllegalAction(s.service.Queue(state, 0, "Brace")))

	available, err := s.service.Available(state, 0)
	s.Require().NoError(err)
	s.Equal([]string{actions.ExitName}, names(available.Enabled()))
}

func (s *ServiceTestSuite) TestBreedingEndsCombat() {
	mount := &entities.Trait{
		Name:    "Mount",
		Skill:   entities.SkillNone,
		Effects: []entities.Effect{effects.Penetrate(1)},
	}
	s.roller.SetRolls(initiative(1, firstActsFirst))
	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, mount))

	s.round(state, "Brace", "Mount")

	s.True(state.Complete)
	s.Equal(1, state.WinnerIndex)
	s.Equal(entities.EndReasonBreeding, state.EndReason)
}

func (s *ServiceTestSuite) TestOnlyFirstQualifyingCharacterIsHonored() {
	trade := &entities.Trait{
		Name:  "Trade Blows",
		Skill: entities.SkillNone,
		Effects: []entities.Effect{
			effects.Wound(5),
			effects.NewBuilder(entities.EffectWound).OnSelf().WithValue(5).Build(),
		},
	}
	s.roller.SetRolls(initiative(1, secondActsFirst))
	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, trade))

	s.Require().NoError(s.service.Queue(state, 0, "Brace"))
	s.Require().NoError(s.service.Queue(state, 1, "Trade Blows"))
	_, err := s.service.ResolveAction(s.ctx, state)
	s.Require().NoError(err)

	s.True(state.Characters[0].IsDefeated())
	s.True(state.Characters[1].IsDefeated())
	s.True(state.Complete)
	s.Equal(1, state.WinnerIndex, "character 0 is checked first, so character 1 wins")
	s.Len(state.Log.Filter(events.TypeAbility, ""), 1, "the second character never acts")
}

func (s *ServiceTestSuite) TestActiveIndexAlternatesAndWraps() {
	s.roller.SetRolls(initiative(3, firstActsFirst))
	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, brace()))

	var slots []int
	for round := 1; round <= 2; round++ {
		s.Require().NoError(s.service.Queue(state, 0, "Brace"))
		s.Require().NoError(s.service.Queue(state, 1, "Brace"))

		s.Equal(0, state.ActiveIndex)
		_, err := s.service.ResolveAction(s.ctx, state)
		s.Require().NoError(err)
		slots = append(slots, state.ActiveIndex)
		s.Equal(entities.PhaseMidRound, state.Phase())
		s.Equal(round, state.Round)

		_, err = s.service.ResolveAction(s.ctx, state)
		s.Require().NoError(err)
		slots = append(slots, state.ActiveIndex)
		s.Equal(round+1, state.Round)
		s.Equal(entities.PhaseAwaitingFirstAction, state.Phase())
	}

	s.Equal([]int{1, 0, 1, 0}, slots)
	s.Len(state.Log.Filter(events.TypeEffect, ""), 4, "one turn advance per action")
}

func (s *ServiceTestSuite) TestPriorityOverridesInitiative() {
	s.roller.SetRolls(initiative(2, firstActsFirst))
	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, testutils.CreateTestHaymaker(1)))

	s.round(state, "Brace", "Haymaker")

	attempts := state.Log.Round(1)
	var order []string
	for _, event := range attempts {
		if event.Type == events.TypeAbility {
			order = append(order, event.ActorID)
		}
	}
	s.Equal([]string{"brute", "hero"}, order)
	s.Equal([2]int{0, 1}, state.TurnOrder, "round 2 is back to initiative order")
}

func (s *ServiceTestSuite) TestMutualPriorityKeepsInitiative() {
	s.roller.SetRolls(initiative(2, firstActsFirst))
	state := s.start(
		fighter("hero", 5, testutils.CreateTestHaymaker(1)),
		fighter("brute", 5, testutils.CreateTestHaymaker(1)),
	)

	s.round(state, "Haymaker", "Haymaker")

	attempts := state.Log.Filter(events.TypeAbility, events.SubtypeAttempted)
	s.Require().Len(attempts, 2)
	s.Equal("hero", attempts[0].ActorID)
	s.Equal("brute", attempts[1].ActorID)
}

func (s *ServiceTestSuite) TestRoundUpkeep() {
	s.roller.SetRolls(initiative(2, firstActsFirst))
	state := s.start(fighter("hero", 5, testutils.CreateTestRally()), fighter("brute", 5, brace()))
	state.Characters[0].Vitality.Current = 2

	s.round(state, "Rally", "Brace")

	hero := state.Characters[0]
	s.Equal(4, hero.Vitality.Current)

	bolstered := hero.FindStatus(entities.StatusBolstered, "", "")
	s.Require().NotNil(bolstered)
	s.Equal(1, *bolstered.Remaining)

	cooldown := hero.FindStatus(entities.StatusCooldown, "", "Rally")
	s.Require().NotNil(cooldown)
	s.Equal(2, *cooldown.Remaining)

	available, err := s.service.Available(state, 0)
	s.Require().NoError(err)
	s.False(available.IsEnabled("Rally"))
	s.True(dnderr.IsIllegalAction(s.service.Queue(state, 0, "Rally")))

	s.Nil(state.Queued[0])
	s.Nil(state.Queued[1])
	s.Empty(state.PassivesFired)
	s.Len(state.Log.Filter(events.TypePhaseChange, events.SubtypeRoundEnd), 1)
	s.Len(state.Log.Round(2), 2, "round start and initiative open round 2")
}

func (s *ServiceTestSuite) TestCooldownBlocksOnlyTheFollowingRounds() {
	roar := &entities.Trait{Name: "Roar", Skill: entities.SkillNone, Cooldown: 1}
	s.roller.SetRolls(initiative(3, firstActsFirst))
	state := s.start(fighter("hero", 5, roar, brace()), fighter("brute", 5, brace()))

	s.round(state, "Roar", "Brace")

	s.True(dnderr.IsIllegalAction(s.service.Queue(state, 0, "Roar")), "round 2 is blocked")
	s.round(state, "Brace", "Brace")

	s.Nil(state.Characters[0].FindStatus(entities.StatusCooldown, "", "Roar"))
	s.NoError(s.service.Queue(state, 0, "Roar"), "round 3 is usable again")
}

func (s *ServiceTestSuite) TestRoundLimitEndsWithoutWinner() {
	s.service = encounter.NewService(&encounter.ServiceConfig{
		Roller:    s.roller,
		MaxRounds: 1,
	})
	s.roller.SetRolls(initiative(1, firstActsFirst))
	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, brace()))

	s.round(state, "Brace", "Brace")

	s.True(state.Complete)
	s.Equal(entities.NoWinner, state.WinnerIndex)
	s.Nil(state.Winner())
	s.Equal(entities.EndReasonExhausted, state.EndReason)
}

func (s *ServiceTestSuite) TestQueueErrors() {
	s.roller.SetRolls(initiative(1, firstActsFirst))
	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, brace()))

	s.True(dnderr.IsIllegalAction(s.service.Queue(state, 0, "Fireball")))
	s.True(dnderr.IsIllegalAction(s.service.Queue(state, 0, actions.StruggleFreeName)))
	s.True(dnderr.Is(s.service.Queue(state, 2, "Brace"), dnderr.CodeInvalidArgument))

	s.Require().NoError(s.service.Queue(state, 0, "Brace"))
	s.True(dnderr.IsIllegalAction(s.service.ResolveRound(s.ctx, state)), "both slots must be queued")
}

func (s *ServiceTestSuite) TestSnapshotsAfterEveryAction() {
	s.roller.SetRolls(initiative(1, firstActsFirst))
	state := s.start(fighter("hero", 5, brace()), fighter("brute", 5, strike("Poke", 1)))

	s.Require().NoError(s.service.Queue(state, 0, "Brace"))
	s.Require().NoError(s.service.Queue(state, 1, "Poke"))
	_, err := s.service.ResolveAction(s.ctx, state)
	s.Require().NoError(err)

	stored, err := s.repo.Get(s.ctx, "enc-1")
	s.Require().NoError(err)
	s.Equal(1, stored.ActionsThisRound)
	s.Equal(1, stored.ActiveIndex)
	s.Require().NotNil(stored.Queued[1])
	s.Equal("Poke", stored.Queued[1].TraitName)

	// A restored snapshot finishes the round where it left off
	s.roller.SetRolls(initiative(1, firstActsFirst))
	_, err = s.service.ResolveAction(s.ctx, stored)
	s.Require().NoError(err)
	s.Equal(4, stored.Characters[0].Vitality.Current)
	s.Equal(2, stored.Round)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func names(traits []*entities.Trait) []string {
	out := make([]string, 0, len(traits))
	for _, trait := range traits {
		out = append(out, trait.Name)
	}
	return out
}
