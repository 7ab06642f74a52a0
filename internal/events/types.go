package events

// Type identifies the family of an event
type Type string

// Event is one structured record of a state change. Exactly one payload is set,
// matching Type. The shape is stable: formatters and narrators consume it.
type Event struct {
	Type     Type   `json:"type"`
	Subtype  string `json:"subtype"`
	Round    int    `json:"round"`
	ActorID  string `json:"actor_id,omitempty"`
	TargetID string `json:"target_id,omitempty"`

	SkillCheck *SkillCheckPayload `json:"skill_check,omitempty"`
	Ability    *AbilityPayload    `json:"ability,omitempty"`
	Effect     *EffectPayload     `json:"effect,omitempty"`
	Status     *StatusPayload     `json:"status,omitempty"`
	Phase      *PhasePayload      `json:"phase,omitempty"`
	Initiative *InitiativePayload `json:"initiative,omitempty"`
}

// SkillCheckPayload describes a single or opposed check
type SkillCheckPayload struct {
	Skill           string `json:"skill"`
	Roll            int    `json:"roll"`
	Target          int    `json:"target"`
	Margin          int    `json:"margin"`
	Success         bool   `json:"success"`
	CriticalSuccess bool   `json:"critical_success"`
	CriticalFailure bool   `json:"critical_failure"`

	Opposed         bool   `json:"opposed"`
	DefenseSkill    string `json:"defense_skill,omitempty"`
	DefenderRoll    int    `json:"defender_roll,omitempty"`
	DefenderTarget  int    `json:"defender_target,omitempty"`
	DefenderMargin  int    `json:"defender_margin,omitempty"`
	DefenderSuccess bool   `json:"defender_success,omitempty"`
	AttackerWins    bool   `json:"attacker_wins,omitempty"`
}

// AbilityPayload describes an attempt to use a trait
type AbilityPayload struct {
	Trait   string `json:"trait"`
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Passive bool   `json:"passive,omitempty"`
}

// EffectPayload describes one effect dispatch
type EffectPayload struct {
	Kind    string `json:"kind"`
	Trait   string `json:"trait,omitempty"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// StatusPayload describes a status change on the actor
type StatusPayload struct {
	StatusID       string `json:"status_id"`
	Kind           string `json:"kind"`
	Name           string `json:"name"`
	Stacks         int    `json:"stacks"`
	PreviousStacks int    `json:"previous_stacks"`
	MaxStacks      int    `json:"max_stacks"`
	Limb           string `json:"limb,omitempty"`
	Tag            string `json:"tag,omitempty"`
	Source         string `json:"source,omitempty"`
}

// PhasePayload describes a state machine transition
type PhasePayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	WinnerID string `json:"winner_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// InitiativePayload records both raw initiative rolls and the resulting order
type InitiativePayload struct {
	Rolls map[string]int `json:"rolls"`
	Order []string       `json:"order"`
}

// Recorder stores emitted events and returns the stored copy
type Recorder interface {
	Record(event Event) Event
}

// Emitter publishes events
type Emitter interface {
	Emit(event Event) error
}
