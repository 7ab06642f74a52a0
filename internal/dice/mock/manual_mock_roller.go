package mockdice

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/dungeon-combat/internal/dice"
)

// ManualMockRoller implements dice.Roller with predetermined results.
// Die faces and Intn picks are queued separately.
type ManualMockRoller struct {
	mu        sync.Mutex
	rolls     []int
	rollIndex int
	picks     []int
	pickIndex int
}

// NewManualMockRoller creates a new mock dice roller
func NewManualMockRoller() *ManualMockRoller {
	return &ManualMockRoller{}
}

// SetNextRoll appends one die face
func (m *ManualMockRoller) SetNextRoll(roll int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = append(m.rolls, roll)
}

// SetRolls replaces the queued die faces
func (m *ManualMockRoller) SetRolls(rolls []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rolls = rolls
	m.rollIndex = 0
}

// SetPicks replaces the queued Intn results
func (m *ManualMockRoller) SetPicks(picks []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.picks = picks
	m.pickIndex = 0
}

// Remaining returns how many die faces are still queued
func (m *ManualMockRoller) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rolls) - m.rollIndex
}

func (m *ManualMockRoller) nextRoll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rollIndex >= len(m.rolls) {
		return 0, fmt.Errorf("no more predetermined rolls available (used %d of %d)", m.rollIndex, len(m.rolls))
	}

	roll := m.rolls[m.rollIndex]
	m.rollIndex++
	return roll, nil
}

// Roll implements dice.Roller.Roll
func (m *ManualMockRoller) Roll(count, sides, bonus int) (*dice.RollResult, error) {
	rolls := make([]int, count)
	rawTotal := 0

	for i := 0; i < count; i++ {
		roll, err := m.nextRoll()
		if err != nil {
			return nil, err
		}
		if roll < 1 || roll > sides {
			return nil, fmt.Errorf("invalid roll %d for d%d", roll, sides)
		}
		rolls[i] = roll
		rawTotal += roll
	}

	return &dice.RollResult{
		Total:    rawTotal + bonus,
		RawTotal: rawTotal,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
	}, nil
}

// Intn implements dice.Roller.Intn. With nothing queued it returns 0; queued
// values are clamped into [0, n).
func (m *ManualMockRoller) Intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || m.pickIndex >= len(m.picks) {
		return 0
	}
	pick := m.picks[m.pickIndex]
	m.pickIndex++
	if pick < 0 {
		return 0
	}
	if pick >= n {
		return n - 1
	}
	return pick
}
