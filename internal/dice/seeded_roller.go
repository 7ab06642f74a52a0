package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrInvalidCount is returned when fewer than one die is requested
	ErrInvalidCount = errors.New("invalid dice count")

	// ErrInvalidSides is returned when a die has fewer than one side
	ErrInvalidSides = errors.New("invalid dice size")
)

// seededRoller is deterministic for a given seed and call order
type seededRoller struct {
	seed int64
	rng  *rand.Rand
}

// NewSeededRoller creates a roller that replays identically for the same seed
func NewSeededRoller(seed int64) Roller {
	return &seededRoller{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// NewRandomRoller creates a seeded roller from a crypto/rand seed and returns
// the seed so a run can be replayed.
func NewRandomRoller() (Roller, int64, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, 0, err
	}
	return NewSeededRoller(seed), seed, nil
}

// NewSeed generates a random seed using crypto/rand
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Roll implements Roller.Roll
func (r *seededRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}
	if sides < 1 {
		return nil, ErrInvalidSides
	}

	rolls := make([]int, count)
	rawTotal := 0
	for i := 0; i < count; i++ {
		rolls[i] = r.rng.Intn(sides) + 1
		rawTotal += rolls[i]
	}

	return &RollResult{
		Total:    rawTotal + bonus,
		RawTotal: rawTotal,
		Rolls:    rolls,
		Bonus:    bonus,
		Count:    count,
		Sides:    sides,
	}, nil
}

// Intn implements Roller.Intn
func (r *seededRoller) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.rng.Intn(n)
}
