package entities

// Attribute is one of the four ability scores
type Attribute string

const (
	AttributeMight Attribute = "might"
	AttributeGrace Attribute = "grace"
	AttributeWit   Attribute = "wit"
	AttributeWill  Attribute = "will"
)

// Skill names a check. SkillNone marks a trait that always succeeds.
type Skill string

const (
	SkillNone       Skill = "none"
	SkillAthletics  Skill = "athletics"
	SkillStruggle   Skill = "struggle"
	SkillAcrobatics Skill = "acrobatics"
	SkillEscape     Skill = "escape"
	SkillInitiative Skill = "initiative"
	SkillStealth    Skill = "stealth"
	SkillPerception Skill = "perception"
	SkillInsight    Skill = "insight"
	SkillSeduction  Skill = "seduction"
	SkillComposure  Skill = "composure"
)

var skillAttributes = map[Skill]Attribute{
	SkillAthletics:  AttributeMight,
	SkillStruggle:   AttributeMight,
	SkillAcrobatics: AttributeGrace,
	SkillEscape:     AttributeGrace,
	SkillInitiative: AttributeGrace,
	SkillStealth:    AttributeGrace,
	SkillPerception: AttributeWit,
	SkillInsight:    AttributeWit,
	SkillSeduction:  AttributeWill,
	SkillComposure:  AttributeWill,
}

// BreakFreeSkills are the two skills used to escape a grapple
var BreakFreeSkills = []Skill{SkillStruggle, SkillEscape}

// Attribute returns the ability score governing the skill
func (s Skill) Attribute() (Attribute, bool) {
	attr, ok := skillAttributes[s]
	return attr, ok
}

// IsBreakFree reports whether the skill is one of the break-free skills
func (s Skill) IsBreakFree() bool {
	return s == SkillStruggle || s == SkillEscape
}

// Valid reports whether the skill is known, including SkillNone
func (s Skill) Valid() bool {
	if s == SkillNone {
		return true
	}
	_, ok := skillAttributes[s]
	return ok
}

// AllSkills returns every checkable skill in a stable order
func AllSkills() []Skill {
	return []Skill{
		SkillAthletics, SkillStruggle, SkillAcrobatics, SkillEscape, SkillInitiative,
		SkillStealth, SkillPerception, SkillInsight, SkillSeduction, SkillComposure,
	}
}

// LimbType is a bindable body part
type LimbType string

const (
	LimbArm   LimbType = "arm"
	LimbLeg   LimbType = "leg"
	LimbMouth LimbType = "mouth"
	LimbTail  LimbType = "tail"
)

// Valid reports whether the limb type is known
func (l LimbType) Valid() bool {
	switch l {
	case LimbArm, LimbLeg, LimbMouth, LimbTail:
		return true
	}
	return false
}

// TargetSelector picks the recipient of an effect relative to its source
type TargetSelector string

const (
	TargetSelf  TargetSelector = "self"
	TargetOther TargetSelector = "other"
)
