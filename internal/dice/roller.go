package dice

// Roller is the single random source threaded through checks, grapple release
// and AI choices. Swap in mockdice.ManualMockRoller for deterministic tests.
type Roller interface {
	// Roll rolls count dice with the given sides and adds a bonus
	Roll(count, sides, bonus int) (*RollResult, error)

	// Intn returns a value in [0, n) for non-dice picks
	Intn(n int) int
}

// RollResult holds the individual dice and totals of one roll
type RollResult struct {
	Total    int
	RawTotal int
	Rolls    []int
	Bonus    int
	Count    int
	Sides    int
}
