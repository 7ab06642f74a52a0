package encounter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/dungeon-combat/internal/actions"
	"github.com/KirkDiggler/dungeon-combat/internal/ai"
	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/narration"
	"github.com/KirkDiggler/dungeon-combat/internal/services/encounter"
	"github.com/KirkDiggler/dungeon-combat/internal/testutils"
	"github.com/KirkDiggler/dungeon-combat/internal/uuid"
)

func simulate(t *testing.T, seed int64, listeners ...events.Listener) *entities.CombatState {
	t.Helper()

	roller := dice.NewSeededRoller(seed)
	svc := encounter.NewService(&encounter.ServiceConfig{
		Roller:        roller,
		UUIDGenerator: uuid.NewSequenceGenerator("id"),
		Listeners:     listeners,
		MaxRounds:     30,
	})

	fixture := testutils.CreateTestEncounter("sim")
	state, err := svc.Start(context.Background(), &encounter.StartInput{
		ID:     "sim",
		First:  fixture.Characters[0],
		Second: fixture.Characters[1],
	})
	require.NoError(t, err)

	require.NoError(t, svc.Run(context.Background(), state, ai.NewDefaultPolicy(roller, nil)))
	return state
}

func TestRun_CompletesDeterministically(t *testing.T) {
	first := simulate(t, 7)
	second := simulate(t, 7)

	assert.True(t, first.Complete)
	assert.LessOrEqual(t, first.Round, 30)
	assert.Len(t, first.Log.Filter(events.TypePhaseChange, events.SubtypeCombatEnd), 1)
	assert.Equal(t, first.Log.All(), second.Log.All(), "same seed replays the same fight")
	assert.Equal(t, first.EndReason, second.EndReason)
	assert.Equal(t, first.WinnerIndex, second.WinnerIndex)
}

func TestRun_NarratesPhaseChanges(t *testing.T) {
	narrator := narration.NewService(context.Background(), &narration.ServiceConfig{
		Narrator: narration.NewTemplateNarrator(map[string]string{"hero": "Hero", "brute": "Brute"}),
	})

	state := simulate(t, 11, narrator)
	narrator.Wait()

	got := narrator.Narrations()
	require.Len(t, got, len(state.Log.Filter(events.TypePhaseChange, "")))
	assert.Equal(t, "Two figures circle each other. The fight begins.", got[0].Text)
	assert.Equal(t, events.SubtypeCombatEnd, got[len(got)-1].Event.Subtype)
	for _, n := range got {
		assert.False(t, n.Fallback)
	}
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	svc := encounter.NewService(&encounter.ServiceConfig{Roller: dice.NewSeededRoller(3)})
	fixture := testutils.CreateTestEncounter("cancelled")
	state, err := svc.Start(context.Background(), &encounter.StartInput{
		First:  fixture.Characters[0],
		Second: fixture.Characters[1],
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = svc.Run(ctx, state, ai.NewDefaultPolicy(dice.NewSeededRoller(3), nil))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, state.Round)
	assert.False(t, state.Complete)
}

// recordingPolicy always picks the first enabled action
type recordingPolicy struct {
	asked []string
}

func (p *recordingPolicy) Choose(actor *entities.Character, state *entities.CombatState, available actions.Availability) (*ai.Choice, error) {
	p.asked = append(p.asked, actor.ID)
	trait := available.Enabled()[0]
	return &ai.Choice{Trait: trait}, nil
}

func TestPlayRound_KeepsQueuedSlots(t *testing.T) {
	svc := encounter.NewService(&encounter.ServiceConfig{Roller: dice.NewSeededRoller(5)})
	state, err := svc.Start(context.Background(), &encounter.StartInput{
		First:  fighter("hero", 5, brace()),
		Second: fighter("brute", 5, brace()),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Queue(state, 0, "Brace"))

	policy := &recordingPolicy{}
	require.NoError(t, svc.PlayRound(context.Background(), state, policy))

	assert.Equal(t, []string{"brute"}, policy.asked)
	assert.Equal(t, 2, state.Round)
	assert.Error(t, svc.PlayRound(context.Background(), state, nil))
}
