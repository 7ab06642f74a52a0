package status

import "github.com/KirkDiggler/dungeon-combat/internal/entities"

// Modifiers is the sum of every active status contribution on one character
type Modifiers struct {
	Skills     map[entities.Skill]int
	Attributes map[entities.Attribute]int
}

// Skill returns the total delta for a skill
func (m Modifiers) Skill(skill entities.Skill) int {
	return m.Skills[skill]
}

// Attribute returns the total delta for an attribute
func (m Modifiers) Attribute(attr entities.Attribute) int {
	return m.Attributes[attr]
}

func (m *Modifiers) addSkill(skill entities.Skill, delta int) {
	m.Skills[skill] += delta
}

func (m *Modifiers) addAttribute(attr entities.Attribute, delta int) {
	m.Attributes[attr] += delta
}

// Collect sums the modifiers of every active status on the character.
// Statuses of a kind missing from the catalog contribute nothing here; the
// manager refuses to create them in the first place.
func Collect(c *entities.Character) Modifiers {
	mods := Modifiers{
		Skills:     make(map[entities.Skill]int),
		Attributes: make(map[entities.Attribute]int),
	}

	for _, status := range c.Statuses {
		if status.Stacks <= 0 {
			continue
		}
		def, err := Lookup(status.Kind)
		if err != nil || def.modify == nil {
			continue
		}
		def.modify(status, &mods)
	}

	return mods
}
