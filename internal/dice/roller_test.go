package dice_test

import (
	"testing"

	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	mockdice "github.com/KirkDiggler/dungeon-combat/internal/dice/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualMockRoller_Roll(t *testing.T) {
	tests := []struct {
		name       string
		setupRolls []int
		count      int
		sides      int
		bonus      int
		wantTotal  int
		wantRolls  []int
		wantErr    bool
	}{
		{
			name:       "2d10 check roll",
			setupRolls: []int{3, 9},
			count:      2,
			sides:      10,
			wantTotal:  12,
			wantRolls:  []int{3, 9},
		},
		{
			name:       "bonus is added to total",
			setupRolls: []int{1, 1},
			count:      2,
			sides:      10,
			bonus:      4,
			wantTotal:  6,
			wantRolls:  []int{1, 1},
		},
		{
			name:       "not enough rolls",
			setupRolls: []int{10},
			count:      2,
			sides:      10,
			wantErr:    true,
		},
		{
			name:       "invalid roll for die size",
			setupRolls: []int{11, 2},
			count:      2,
			sides:      10,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roller := mockdice.NewManualMockRoller()
			roller.SetRolls(tt.setupRolls)

			result, err := roller.Roll(tt.count, tt.sides, tt.bonus)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Equal(t, tt.wantRolls, result.Rolls)
		})
	}
}

func TestManualMockRoller_Intn(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	assert.Equal(t, 0, roller.Intn(5), "empty queue picks zero")

	roller.SetPicks([]int{2, 9, -1})
	assert.Equal(t, 2, roller.Intn(5))
	assert.Equal(t, 4, roller.Intn(5), "clamped to n-1")
	assert.Equal(t, 0, roller.Intn(5), "negative clamps to zero")
}

func TestSeededRoller_Deterministic(t *testing.T) {
	first := dice.NewSeededRoller(42)
	second := dice.NewSeededRoller(42)

	for i := 0; i < 20; i++ {
		a, err := first.Roll(2, 10, 0)
		require.NoError(t, err)
		b, err := second.Roll(2, 10, 0)
		require.NoError(t, err)

		assert.Equal(t, a.Rolls, b.Rolls)
		assert.GreaterOrEqual(t, a.Total, 2)
		assert.LessOrEqual(t, a.Total, 20)
		assert.Equal(t, first.Intn(7), second.Intn(7))
	}
}

func TestSeededRoller_InvalidSpec(t *testing.T) {
	roller := dice.NewSeededRoller(1)

	_, err := roller.Roll(0, 10, 0)
	assert.ErrorIs(t, err, dice.ErrInvalidCount)

	_, err = roller.Roll(1, 0, 0)
	assert.ErrorIs(t, err, dice.ErrInvalidSides)

	assert.Equal(t, 0, roller.Intn(0))
}

func TestNewRandomRoller(t *testing.T) {
	roller, seed, err := dice.NewRandomRoller()
	require.NoError(t, err)

	replay := dice.NewSeededRoller(seed)
	a, err := roller.Roll(2, 10, 0)
	require.NoError(t, err)
	b, err := replay.Roll(2, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, a.Rolls, b.Rolls)
}
