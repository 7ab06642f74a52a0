package entities

// Resource is a bounded pool such as vitality, conviction or clothing
type Resource struct {
	Current int `json:"current" validate:"gte=0,ltefield=Max"`
	Max     int `json:"max" validate:"gte=0"`
}

// Damage reduces the pool, floored at 0, and returns the amount removed
func (r *Resource) Damage(amount int) int {
	if amount <= 0 {
		return 0
	}

	before := r.Current
	r.Current -= amount
	if r.Current < 0 {
		r.Current = 0
	}
	return before - r.Current
}

// Heal restores the pool up to max and returns the amount restored
func (r *Resource) Heal(amount int) int {
	if amount <= 0 || r.Current >= r.Max {
		return 0
	}

	before := r.Current
	r.Current += amount
	if r.Current > r.Max {
		r.Current = r.Max
	}
	return r.Current - before
}

// Adjust adds a signed delta and clamps into [0, Max]
func (r *Resource) Adjust(delta int) int {
	before := r.Current
	r.Current += delta
	if r.Current < 0 {
		r.Current = 0
	}
	if r.Current > r.Max {
		r.Current = r.Max
	}
	return r.Current - before
}

// IsEmpty reports whether the pool is at 0
func (r *Resource) IsEmpty() bool {
	return r.Current <= 0
}
