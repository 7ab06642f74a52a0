package status

import (
	"log"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	"github.com/KirkDiggler/dungeon-combat/internal/events"
	"github.com/KirkDiggler/dungeon-combat/internal/uuid"
)

// ApplyOptions identify the instance to stack and describe the new stacks
type ApplyOptions struct {
	Limb   entities.LimbType
	Tag    string
	Source string

	// Stacks defaults to 1
	Stacks int

	// Duration in rounds, nil never expires
	Duration *int
}

// Manager applies, stacks, decays and removes statuses on characters and
// emits one status event per change.
type Manager struct {
	emitter       events.Emitter
	uuidGenerator uuid.Generator
}

// NewManager creates a status manager. A nil generator falls back to random UUIDs.
func NewManager(emitter events.Emitter, uuidGenerator uuid.Generator) *Manager {
	if emitter == nil {
		panic("emitter is required")
	}
	if uuidGenerator == nil {
		uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	return &Manager{
		emitter:       emitter,
		uuidGenerator: uuidGenerator,
	}
}

// Apply creates the status or adds stacks to the existing instance. It
// reports false with no change when the instance is already at max stacks.
// Stacks above the remaining headroom are clamped.
func (m *Manager) Apply(c *entities.Character, kind entities.StatusKind, opts ApplyOptions) (*entities.Status, bool, error) {
	def, err := Lookup(kind)
	if err != nil {
		return nil, false, err
	}

	stacks := opts.Stacks
	if stacks <= 0 {
		stacks = 1
	}
	if !kind.IsLimbScoped() {
		opts.Limb = ""
	}

	if existing := c.FindStatus(kind, opts.Limb, opts.Tag); existing != nil {
		if existing.AtMax() {
			return existing, false, nil
		}

		previous := existing.Stacks
		existing.Stacks = min(existing.Stacks+stacks, existing.MaxStacks)
		if opts.Duration != nil && (existing.Remaining == nil || *opts.Duration > *existing.Remaining) {
			existing.Remaining = entities.IntPtr(*opts.Duration)
		}

		log.Printf("[STATUS] %s on %s increased %d -> %d", existing.Name, c.ID, previous, existing.Stacks)
		return existing, true, m.emit(c, events.SubtypeIncreased, existing, previous)
	}

	status := &entities.Status{
		ID:        m.uuidGenerator.New(),
		Kind:      kind,
		Name:      DisplayName(def, opts.Limb, opts.Tag),
		Source:    opts.Source,
		Stacks:    min(stacks, def.MaxStacks),
		MaxStacks: def.MaxStacks,
		Limb:      opts.Limb,
		Tag:       opts.Tag,
	}
	if opts.Duration != nil {
		status.Remaining = entities.IntPtr(*opts.Duration)
	}
	if kind == entities.StatusGrappled {
		status.Ledger = entities.NewBindingLedger()
	}

	c.Statuses = append(c.Statuses, status)

	log.Printf("[STATUS] Applied %s to %s (stacks %d/%d)", status.Name, c.ID, status.Stacks, status.MaxStacks)
	return status, true, m.emit(c, events.SubtypeApplied, status, 0)
}

// Reduce removes stacks from the instance. Zero or negative stacks removes
// it entirely. It reports false when the instance does not exist. Reaching
// zero removes the status with a single removed event.
func (m *Manager) Reduce(c *entities.Character, kind entities.StatusKind, limb entities.LimbType, tag string, stacks int) (bool, error) {
	if _, err := Lookup(kind); err != nil {
		return false, err
	}

	status := c.FindStatus(kind, limb, tag)
	if status == nil {
		return false, nil
	}

	if stacks <= 0 || stacks >= status.Stacks {
		return true, m.Remove(c, status)
	}

	previous := status.Stacks
	status.Stacks -= stacks
	return true, m.emit(c, events.SubtypeDecreased, status, previous)
}

// Remove deletes the instance and emits removed
func (m *Manager) Remove(c *entities.Character, status *entities.Status) error {
	if !detach(c, status) {
		return nil
	}

	previous := status.Stacks
	status.Stacks = 0

	log.Printf("[STATUS] Removed %s from %s", status.Name, c.ID)
	return m.emit(c, events.SubtypeRemoved, status, previous)
}

// RemoveKind deletes every instance of the kind
func (m *Manager) RemoveKind(c *entities.Character, kind entities.StatusKind) error {
	for _, status := range c.StatusesOf(kind) {
		if err := m.Remove(c, status); err != nil {
			return err
		}
	}
	return nil
}

// TickDurations decrements every timed status other than cooldowns and
// removes those reaching zero with an expired event.
func (m *Manager) TickDurations(c *entities.Character) error {
	return m.tick(c, func(status *entities.Status) bool {
		return status.Kind != entities.StatusCooldown
	})
}

// TickCooldowns decrements trait cooldowns
func (m *Manager) TickCooldowns(c *entities.Character) error {
	return m.tick(c, func(status *entities.Status) bool {
		return status.Kind == entities.StatusCooldown
	})
}

// PurgeEmpty removes statuses left with zero stacks
func (m *Manager) PurgeEmpty(c *entities.Character) error {
	for _, status := range snapshot(c) {
		if status.Stacks > 0 {
			continue
		}
		if err := m.Remove(c, status); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) tick(c *entities.Character, include func(*entities.Status) bool) error {
	for _, status := range snapshot(c) {
		if status.Remaining == nil || !include(status) {
			continue
		}

		remaining := *status.Remaining - 1
		status.Remaining = &remaining
		if remaining > 0 {
			continue
		}

		if !detach(c, status) {
			continue
		}
		previous := status.Stacks
		status.Stacks = 0

		log.Printf("[STATUS] %s expired on %s", status.Name, c.ID)
		if err := m.emit(c, events.SubtypeExpired, status, previous); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) emit(c *entities.Character, subtype string, status *entities.Status, previous int) error {
	return m.emitter.Emit(events.Event{
		Type:    events.TypeStatus,
		Subtype: subtype,
		ActorID: c.ID,
		Status: &events.StatusPayload{
			StatusID:       status.ID,
			Kind:           string(status.Kind),
			Name:           status.Name,
			Stacks:         status.Stacks,
			PreviousStacks: previous,
			MaxStacks:      status.MaxStacks,
			Limb:           string(status.Limb),
			Tag:            status.Tag,
			Source:         status.Source,
		},
	})
}

// snapshot copies the status slice so listeners may mutate it mid-iteration
func snapshot(c *entities.Character) []*entities.Status {
	copied := make([]*entities.Status, len(c.Statuses))
	copy(copied, c.Statuses)
	return copied
}

func detach(c *entities.Character, status *entities.Status) bool {
	for i, candidate := range c.Statuses {
		if candidate == status {
			c.Statuses = append(c.Statuses[:i:i], c.Statuses[i+1:]...)
			return true
		}
	}
	return false
}
