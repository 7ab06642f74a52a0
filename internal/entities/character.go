package entities

// Character is one combatant. It is built once per encounter from external
// records, mutated in place, and handed back to the caller when combat ends.
type Character struct {
	ID       string            `json:"id" validate:"required"`
	Name     string            `json:"name" validate:"required"`
	IsPlayer bool              `json:"is_player"`
	Scores   map[Attribute]int `json:"scores" validate:"required"`

	Vitality   Resource `json:"vitality"`
	Conviction Resource `json:"conviction"`
	Clothing   Resource `json:"clothing"`

	Skills   map[Skill]int     `json:"skills" validate:"dive,keys,skill,endkeys,min=-99,max=99"`
	Traits   []*Trait          `json:"traits" validate:"dive,required"`
	Statuses []*Status         `json:"statuses"`
	Limbs    map[LimbType]int  `json:"limbs" validate:"dive,keys,limb,endkeys,gte=0"`
	Flags    map[string]string `json:"flags,omitempty"`

	// Initiative is the raw roll from the most recent initiative check
	Initiative int `json:"initiative"`
}

// Attribute returns the base ability score, 0 when unset
func (c *Character) Attribute(attr Attribute) int {
	return c.Scores[attr]
}

// SkillBonus returns the raw trained bonus for the skill
func (c *Character) SkillBonus(skill Skill) int {
	return c.Skills[skill]
}

// LimbCount returns how many limbs of the type the character has
func (c *Character) LimbCount(limb LimbType) int {
	return c.Limbs[limb]
}

// Flag returns a flag value and whether it is set
func (c *Character) Flag(name string) (string, bool) {
	value, ok := c.Flags[name]
	return value, ok
}

// FindStatus returns the instance identified by kind, limb and tag
func (c *Character) FindStatus(kind StatusKind, limb LimbType, tag string) *Status {
	for _, status := range c.Statuses {
		if status.Matches(kind, limb, tag) {
			return status
		}
	}
	return nil
}

// StatusesOf returns every instance of the kind
func (c *Character) StatusesOf(kind StatusKind) []*Status {
	var matched []*Status
	for _, status := range c.Statuses {
		if status.Kind == kind {
			matched = append(matched, status)
		}
	}
	return matched
}

// HasStatus reports whether any instance of the kind is active
func (c *Character) HasStatus(kind StatusKind) bool {
	return c.Stacks(kind) > 0
}

// Stacks sums stacks across every instance of the kind
func (c *Character) Stacks(kind StatusKind) int {
	total := 0
	for _, status := range c.Statuses {
		if status.Kind == kind {
			total += status.Stacks
		}
	}
	return total
}

// LimbStacks returns the stacks of one limb-scoped status
func (c *Character) LimbStacks(kind StatusKind, limb LimbType) int {
	if status := c.FindStatus(kind, limb, ""); status != nil {
		return status.Stacks
	}
	return 0
}

// FindTrait returns the owned trait with the name
func (c *Character) FindTrait(name string) *Trait {
	for _, trait := range c.Traits {
		if trait.Name == name {
			return trait
		}
	}
	return nil
}

// IsDefeated reports whether vitality has reached 0
func (c *Character) IsDefeated() bool {
	return c.Vitality.IsEmpty()
}
