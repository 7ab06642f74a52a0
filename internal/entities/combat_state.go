package entities

import "github.com/KirkDiggler/dungeon-combat/internal/events"

// Phase is the position of an encounter in the round state machine
type Phase string

const (
	PhaseAwaitingFirstAction Phase = "awaiting_first_action"
	PhaseMidRound            Phase = "mid_round"
	PhaseRoundComplete       Phase = "round_complete"
	PhaseCombatComplete      Phase = "combat_complete"
)

// End reasons recorded on a finished encounter
const (
	EndReasonDeath     = "death"
	EndReasonBreeding  = "breeding"
	EndReasonExhausted = "exhausted"
)

// NoWinner marks a finished encounter without a winner
const NoWinner = -1

// QueuedAction is the trait a character committed to for the current round
type QueuedAction struct {
	TraitName  string `json:"trait_name"`
	Untargeted bool   `json:"untargeted,omitempty"`
}

// CombatState is the root aggregate of one encounter. It is owned by that
// encounter alone and is discarded once complete.
type CombatState struct {
	ID         string        `json:"id"`
	Characters [2]*Character `json:"characters"`
	Round      int           `json:"round"`

	// TurnOrder holds character indices for this round, first actor first
	TurnOrder [2]int `json:"turn_order"`

	// ActiveIndex is the turn slot in TurnOrder, 0 or 1
	ActiveIndex int `json:"active_index"`

	// ActionsThisRound counts resolved actions in the current round
	ActionsThisRound int `json:"actions_this_round"`

	Complete    bool   `json:"complete"`
	WinnerIndex int    `json:"winner_index"`
	EndReason   string `json:"end_reason,omitempty"`

	Queued [2]*QueuedAction `json:"queued"`

	// PassivesFired guards once-per-round passive triggers
	PassivesFired map[string]bool `json:"passives_fired"`

	Log *events.Log `json:"log"`
}

// NewCombatState creates a state for two characters at round 0
func NewCombatState(id string, first, second *Character) *CombatState {
	return &CombatState{
		ID:            id,
		Characters:    [2]*Character{first, second},
		TurnOrder:     [2]int{0, 1},
		WinnerIndex:   NoWinner,
		PassivesFired: make(map[string]bool),
		Log:           events.NewLog(),
	}
}

// IndexOf returns the slot of the character, -1 when it is not a combatant
func (s *CombatState) IndexOf(c *Character) int {
	for i, candidate := range s.Characters {
		if candidate == c {
			return i
		}
	}
	return -1
}

// Opponent returns the other combatant
func (s *CombatState) Opponent(c *Character) *Character {
	switch s.IndexOf(c) {
	case 0:
		return s.Characters[1]
	case 1:
		return s.Characters[0]
	}
	return nil
}

// ActiveCharacter returns the character whose turn slot is active
func (s *CombatState) ActiveCharacter() *Character {
	return s.Characters[s.TurnOrder[s.ActiveIndex]]
}

// Winner returns the winning character, nil if none
func (s *CombatState) Winner() *Character {
	if s.WinnerIndex < 0 || s.WinnerIndex > 1 {
		return nil
	}
	return s.Characters[s.WinnerIndex]
}

// Phase derives the state machine position
func (s *CombatState) Phase() Phase {
	switch {
	case s.Complete:
		return PhaseCombatComplete
	case s.ActionsThisRound == 0:
		return PhaseAwaitingFirstAction
	case s.ActionsThisRound == 1:
		return PhaseMidRound
	default:
		return PhaseRoundComplete
	}
}

// Finish marks the encounter complete
func (s *CombatState) Finish(winnerIndex int, reason string) {
	s.Complete = true
	s.WinnerIndex = winnerIndex
	s.EndReason = reason
}
