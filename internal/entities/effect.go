package entities

// EffectKind identifies an effect handler
type EffectKind string

const (
	EffectWound          EffectKind = "WOUND"
	EffectGrapple        EffectKind = "GRAPPLE"
	EffectStatus         EffectKind = "STATUS"
	EffectBreakFree      EffectKind = "BREAK_FREE"
	EffectModifyClothing EffectKind = "MODIFY_CLOTHING"
	EffectPenetrate      EffectKind = "PENETRATE"
	EffectEndCombat      EffectKind = "END_COMBAT"
	EffectAdvanceTurn    EffectKind = "ADVANCE_TURN"
	EffectScript         EffectKind = "SCRIPT"
	EffectHeal           EffectKind = "HEAL"
	EffectRemoveStatus   EffectKind = "REMOVE_STATUS"
)

// AllEffectKinds lists every registered effect kind
func AllEffectKinds() []EffectKind {
	return []EffectKind{
		EffectWound, EffectGrapple, EffectStatus, EffectBreakFree, EffectModifyClothing,
		EffectPenetrate, EffectEndCombat, EffectAdvanceTurn, EffectScript, EffectHeal,
		EffectRemoveStatus,
	}
}

// Valid reports whether the kind has a handler
func (k EffectKind) Valid() bool {
	for _, kind := range AllEffectKinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// GrappleType selects the GRAPPLE variant
type GrappleType string

const (
	GrappleHold      GrappleType = "hold"
	GrapplePenetrate GrappleType = "penetrate"
)

// Effect is one typed instruction of a trait
type Effect struct {
	Kind           EffectKind     `json:"kind" validate:"effectkind"`
	Target         TargetSelector `json:"target" validate:"oneof=self other"`
	ApplyOnFailure bool           `json:"apply_on_failure,omitempty"`
	Params         EffectParams   `json:"params"`
}

// EffectParams carries the parameters of every kind. Each handler reads only
// the fields of its kind.
type EffectParams struct {
	// Value is the amount for WOUND, HEAL and MODIFY_CLOTHING
	Value int `json:"value,omitempty"`

	// Status, Limb, Tag, Duration and Stacks drive STATUS and REMOVE_STATUS
	Status   StatusKind `json:"status,omitempty"`
	Limb     LimbType   `json:"limb,omitempty"`
	Tag      string     `json:"tag,omitempty"`
	Duration *int       `json:"duration,omitempty"`
	Stacks   int        `json:"stacks,omitempty"`

	// GrappleType and Limb drive GRAPPLE
	GrappleType GrappleType `json:"grapple_type,omitempty"`

	// InseminateAt is the penetrated stack threshold for PENETRATE, 0 disables it
	InseminateAt int `json:"inseminate_at,omitempty"`

	// Winner and Reason drive END_COMBAT, relative to the effect source
	Winner TargetSelector `json:"winner,omitempty"`
	Reason string         `json:"reason,omitempty"`

	// ScriptID names a registered SCRIPT procedure
	ScriptID string `json:"script_id,omitempty"`
}
