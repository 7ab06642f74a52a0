package events

// Event types
const (
	TypeSkillCheck  Type = "skill_check"
	TypeAbility     Type = "ability"
	TypeEffect      Type = "effect"
	TypeStatus      Type = "status"
	TypePhaseChange Type = "phase_change"
	TypeInitiative  Type = "initiative"
)

// AllTypes lists every event type in a stable order
var AllTypes = []Type{
	TypeSkillCheck,
	TypeAbility,
	TypeEffect,
	TypeStatus,
	TypePhaseChange,
	TypeInitiative,
}

// Skill check subtypes
const (
	SubtypeSingle  = "single"
	SubtypeOpposed = "opposed"
)

// Ability subtypes
const (
	SubtypeAttempted = "attempted"
)

// Status subtypes. Reaching zero stacks emits removed, never decreased.
const (
	SubtypeApplied   = "applied"
	SubtypeIncreased = "increased"
	SubtypeDecreased = "decreased"
	SubtypeRemoved   = "removed"
	SubtypeExpired   = "expired"
)

// Phase change subtypes
const (
	SubtypeCombatStart = "combat_start"
	SubtypeRoundStart  = "round_start"
	SubtypeRoundEnd    = "round_end"
	SubtypeCombatEnd   = "combat_end"
)

// Initiative subtypes
const (
	SubtypeRolled = "rolled"
)

// Listener priorities, lower runs first
const (
	PriorityPassives  = 100
	PriorityMetrics   = 200
	PriorityNarration = 300
)
