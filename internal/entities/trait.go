package entities

import "github.com/KirkDiggler/dungeon-combat/internal/events"

// Trait is an immutable action definition: a check plus ordered effects
type Trait struct {
	Name           string   `json:"name" validate:"required"`
	Description    string   `json:"description,omitempty"`
	Skill          Skill    `json:"skill" validate:"skill"`
	DefenseOptions []Skill  `json:"defense_options,omitempty" validate:"dive,skill"`
	Modifier       int      `json:"modifier,omitempty"`
	Priority       bool     `json:"priority,omitempty"`
	Cooldown       int      `json:"cooldown,omitempty" validate:"gte=0"`
	Effects        []Effect `json:"effects" validate:"dive"`

	Requirements *Requirements   `json:"requirements,omitempty"`
	Passive      *PassiveTrigger `json:"passive,omitempty"`

	// System marks engine-provided actions such as Pass or Struggle Free
	System bool `json:"system,omitempty"`
}

// UsesSkill reports whether the trait makes a check
func (t *Trait) UsesSkill() bool {
	return t.Skill != "" && t.Skill != SkillNone
}

// IsPassive reports whether the trait fires from events instead of being chosen
func (t *Trait) IsPassive() bool {
	return t.Passive != nil
}

// TargetsOther reports whether any effect is aimed at the opponent
func (t *Trait) TargetsOther() bool {
	for _, effect := range t.Effects {
		if effect.Target == TargetOther {
			return true
		}
	}
	return false
}

// HasEffect reports whether any effect has the kind
func (t *Trait) HasEffect(kind EffectKind) bool {
	for _, effect := range t.Effects {
		if effect.Kind == kind {
			return true
		}
	}
	return false
}

// Requirements gate a trait on limbs, statuses and the opponent's clothing
type Requirements struct {
	FreeLimbs           map[LimbType]int    `json:"free_limbs,omitempty" validate:"dive,keys,limb,endkeys,gte=0"`
	SelfStatuses        []StatusRequirement `json:"self_statuses,omitempty" validate:"dive"`
	OpponentStatuses    []StatusRequirement `json:"opponent_statuses,omitempty" validate:"dive"`
	OpponentMaxClothing *int                `json:"opponent_max_clothing,omitempty"`
}

// StatusRequirement demands at least MinStacks of a status
type StatusRequirement struct {
	Kind      StatusKind `json:"kind" validate:"statuskind"`
	MinStacks int        `json:"min_stacks" validate:"gte=0"`
	Limb      LimbType   `json:"limb,omitempty" validate:"omitempty,limb"`
}

// PassiveTrigger filters the events a passive trait reacts to. An empty
// subtype matches every subtype of the event type.
type PassiveTrigger struct {
	EventType events.Type `json:"event_type" validate:"required"`
	Subtype   string      `json:"subtype,omitempty"`
}

// Matches reports whether the event passes the filter
func (p *PassiveTrigger) Matches(event events.Event) bool {
	if p.EventType != event.Type {
		return false
	}
	return p.Subtype == "" || p.Subtype == event.Subtype
}
