package entities

// StatusKind identifies an entry of the closed status catalog
type StatusKind string

const (
	StatusGrappled    StatusKind = "grappled"
	StatusPenetrated  StatusKind = "penetrated"
	StatusExhaustion  StatusKind = "exhaustion"
	StatusHeat        StatusKind = "heat"
	StatusInseminated StatusKind = "inseminated"
	StatusBound       StatusKind = "bound"
	StatusBoundOther  StatusKind = "bound_other"
	StatusCooldown    StatusKind = "cooldown"
	StatusDazed       StatusKind = "dazed"
	StatusBolstered   StatusKind = "bolstered"
)

// AllStatusKinds lists the catalog in a stable order
func AllStatusKinds() []StatusKind {
	return []StatusKind{
		StatusGrappled, StatusPenetrated, StatusExhaustion, StatusHeat, StatusInseminated,
		StatusBound, StatusBoundOther, StatusCooldown, StatusDazed, StatusBolstered,
	}
}

// Valid reports whether the kind is part of the catalog
func (k StatusKind) Valid() bool {
	for _, kind := range AllStatusKinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// IsLimbScoped reports whether instances of the kind are keyed by limb type
func (k StatusKind) IsLimbScoped() bool {
	return k == StatusBound || k == StatusBoundOther
}

// Status is an active, stackable condition on a character.
// A status with zero stacks never stays on a character.
type Status struct {
	ID        string     `json:"id"`
	Kind      StatusKind `json:"kind"`
	Name      string     `json:"name"`
	Source    string     `json:"source,omitempty"`
	Stacks    int        `json:"stacks"`
	MaxStacks int        `json:"max_stacks"`

	// Remaining is the number of rounds left, nil for no time limit
	Remaining *int `json:"remaining,omitempty"`

	// Limb is set for limb-scoped kinds
	Limb LimbType `json:"limb,omitempty"`

	// Tag names the trait a cooldown belongs to
	Tag string `json:"tag,omitempty"`

	// Ledger is only set on the grappled status and is owned by the grapple tracker
	Ledger *BindingLedger `json:"ledger,omitempty"`
}

// Matches reports whether the status is the instance identified by kind, limb and tag
func (s *Status) Matches(kind StatusKind, limb LimbType, tag string) bool {
	return s.Kind == kind && s.Limb == limb && s.Tag == tag
}

// AtMax reports whether no further stack can be added
func (s *Status) AtMax() bool {
	return s.Stacks >= s.MaxStacks
}

// BindingLedger records the binding ids created during the current grapple,
// per limb type, so break-free can release them together.
type BindingLedger struct {
	Bindings map[LimbType][]string `json:"bindings"`
}

// NewBindingLedger creates an empty ledger
func NewBindingLedger() *BindingLedger {
	return &BindingLedger{Bindings: make(map[LimbType][]string)}
}

// IntPtr is a helper for optional durations
func IntPtr(v int) *int {
	return &v
}
