// Package grapple owns the binding ledger carried by the grappled status.
// Nothing else reads or writes ledger entries.
package grapple

import (
	"log"

	"github.com/KirkDiggler/dungeon-combat/internal/dice"
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	"github.com/KirkDiggler/dungeon-combat/internal/status"
	"github.com/KirkDiggler/dungeon-combat/internal/uuid"
)

// MaxExhaustion caps the exhaustion gained from escaping
const MaxExhaustion = 4

// bindOrder fixes ledger iteration so random release is reproducible
var bindOrder = []entities.LimbType{entities.LimbArm, entities.LimbLeg, entities.LimbMouth, entities.LimbTail}

// Release describes a successful break-free
type Release struct {
	// RandomlyReleased is the binding removed because the character was penetrated
	RandomlyReleased string
	Released         map[entities.LimbType]int
	Exhaustion       int
}

// Tracker binds limbs during a grapple and releases them on break-free
type Tracker struct {
	statuses      *status.Manager
	roller        dice.Roller
	uuidGenerator uuid.Generator
}

// NewTracker creates a tracker
func NewTracker(statuses *status.Manager, roller dice.Roller, uuidGenerator uuid.Generator) *Tracker {
	if statuses == nil {
		panic("status manager is required")
	}
	if roller == nil {
		panic("roller is required")
	}
	if uuidGenerator == nil {
		uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	return &Tracker{
		statuses:      statuses,
		roller:        roller,
		uuidGenerator: uuidGenerator,
	}
}

// Grappled returns the grappled status, nil when free
func (t *Tracker) Grappled(c *entities.Character) *entities.Status {
	return c.FindStatus(entities.StatusGrappled, "", "")
}

// Attach puts the character in a grapple with an empty ledger. It reports
// false when the character is already grappled, leaving the ledger alone.
func (t *Tracker) Attach(c *entities.Character, source string) (bool, error) {
	if t.Grappled(c) != nil {
		return false, nil
	}

	_, ok, err := t.statuses.Apply(c, entities.StatusGrappled, status.ApplyOptions{Source: source})
	return ok, err
}

// Penetrate attaches penetrated unless it is already present
func (t *Tracker) Penetrate(c *entities.Character, source string) (bool, error) {
	if c.HasStatus(entities.StatusPenetrated) {
		return false, nil
	}

	_, ok, err := t.statuses.Apply(c, entities.StatusPenetrated, status.ApplyOptions{Source: source})
	return ok, err
}

// CanBind reports whether a limb of the type is still unbound
func (t *Tracker) CanBind(c *entities.Character, limb entities.LimbType) bool {
	return c.LimbStacks(entities.StatusBound, limb) < c.LimbCount(limb)
}

// FreeLimbs counts limbs of the type neither bound nor busy binding someone else
func FreeLimbs(c *entities.Character, limb entities.LimbType) int {
	free := c.LimbCount(limb) - c.LimbStacks(entities.StatusBound, limb) - c.LimbStacks(entities.StatusBoundOther, limb)
	return max(free, 0)
}

// Bind records one binding on the current grapple. It reports false when
// the character is not grappled or has no free capacity of the type.
func (t *Tracker) Bind(c *entities.Character, limb entities.LimbType, source string) (bool, error) {
	grappled := t.Grappled(c)
	if grappled == nil || !t.CanBind(c, limb) {
		return false, nil
	}

	_, ok, err := t.statuses.Apply(c, entities.StatusBound, status.ApplyOptions{Limb: limb, Source: source})
	if err != nil || !ok {
		return false, err
	}

	if grappled.Ledger == nil {
		grappled.Ledger = entities.NewBindingLedger()
	}
	id := t.uuidGenerator.New()
	grappled.Ledger.Bindings[limb] = append(grappled.Ledger.Bindings[limb], id)

	log.Printf("[GRAPPLE] Bound %s of %s (%d/%d)", limb, c.ID, c.LimbStacks(entities.StatusBound, limb), c.LimbCount(limb))
	return true, nil
}

// Bindings returns the ledger entries of the limb type in the current grapple
func (t *Tracker) Bindings(c *entities.Character, limb entities.LimbType) []string {
	grappled := t.Grappled(c)
	if grappled == nil || grappled.Ledger == nil {
		return nil
	}
	return grappled.Ledger.Bindings[limb]
}

// BreakFree ends the grapple. When penetrated, one random binding is released
// first and penetrated is cleared. Then every remaining binding is released,
// grappled is removed, every bound status is purged and exhaustion grows
// by one up to MaxExhaustion. Returns nil when the character is not grappled.
func (t *Tracker) BreakFree(c *entities.Character) (*Release, error) {
	grappled := t.Grappled(c)
	if grappled == nil {
		return nil, nil
	}

	ledger := grappled.Ledger
	if ledger == nil {
		ledger = entities.NewBindingLedger()
	}
	release := &Release{Released: make(map[entities.LimbType]int)}

	if c.HasStatus(entities.StatusPenetrated) {
		if limb, id, ok := t.pickBinding(ledger); ok {
			if err := t.unbind(c, limb, 1); err != nil {
				return nil, err
			}
			ledger.Bindings[limb] = removeID(ledger.Bindings[limb], id)
			release.RandomlyReleased = id
			release.Released[limb]++
		}
		if err := t.statuses.RemoveKind(c, entities.StatusPenetrated); err != nil {
			return nil, err
		}
	}

	for _, limb := range bindOrder {
		count := len(ledger.Bindings[limb])
		if count == 0 {
			continue
		}
		if err := t.release(c, limb); err != nil {
			return nil, err
		}
		release.Released[limb] += count
	}
	ledger.Bindings = make(map[entities.LimbType][]string)

	if err := t.statuses.Remove(c, grappled); err != nil {
		return nil, err
	}
	if err := t.purgeBound(c); err != nil {
		return nil, err
	}

	if c.Stacks(entities.StatusExhaustion) < MaxExhaustion {
		if _, _, err := t.statuses.Apply(c, entities.StatusExhaustion, status.ApplyOptions{Source: "break free"}); err != nil {
			return nil, err
		}
	}
	release.Exhaustion = c.Stacks(entities.StatusExhaustion)

	log.Printf("[GRAPPLE] %s broke free, released %v, exhaustion %d", c.ID, release.Released, release.Exhaustion)
	return release, nil
}

func (t *Tracker) pickBinding(ledger *entities.BindingLedger) (entities.LimbType, string, bool) {
	type entry struct {
		limb entities.LimbType
		id   string
	}

	var all []entry
	for _, limb := range bindOrder {
		for _, id := range ledger.Bindings[limb] {
			all = append(all, entry{limb: limb, id: id})
		}
	}
	if len(all) == 0 {
		return "", "", false
	}

	picked := all[t.roller.Intn(len(all))]
	return picked.limb, picked.id, true
}

func (t *Tracker) unbind(c *entities.Character, limb entities.LimbType, count int) error {
	bound := c.FindStatus(entities.StatusBound, limb, "")
	if bound == nil {
		return nil
	}
	if count >= bound.Stacks {
		return t.statuses.Remove(c, bound)
	}
	_, err := t.statuses.Reduce(c, entities.StatusBound, limb, "", count)
	return err
}

// release drops the bound status of a limb whatever its stacks
func (t *Tracker) release(c *entities.Character, limb entities.LimbType) error {
	bound := c.FindStatus(entities.StatusBound, limb, "")
	if bound == nil {
		return nil
	}
	return t.statuses.Remove(c, bound)
}

// purgeBound removes every bound status, including stacks applied outside the
// ledger, and any bound_other left at zero stacks.
func (t *Tracker) purgeBound(c *entities.Character) error {
	for _, st := range c.StatusesOf(entities.StatusBound) {
		if err := t.statuses.Remove(c, st); err != nil {
			return err
		}
	}
	for _, st := range c.StatusesOf(entities.StatusBoundOther) {
		if st.Stacks > 0 {
			continue
		}
		if err := t.statuses.Remove(c, st); err != nil {
			return err
		}
	}
	return nil
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
