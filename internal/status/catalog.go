package status

import (
	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
)

// Definition is the catalog entry of one status kind
type Definition struct {
	Kind      entities.StatusKind
	Name      string
	MaxStacks int

	// modify adds the contribution of one instance to the running totals
	modify func(status *entities.Status, mods *Modifiers)
}

// Lookup returns the definition of a kind. Unknown kinds are content defects.
func Lookup(kind entities.StatusKind) (Definition, error) {
	switch kind {
	case entities.StatusGrappled:
		return Definition{Kind: kind, Name: "Grappled", MaxStacks: 1, modify: grappledModifier}, nil
	case entities.StatusPenetrated:
		return Definition{Kind: kind, Name: "Penetrated", MaxStacks: 10, modify: penetratedModifier}, nil
	case entities.StatusExhaustion:
		return Definition{Kind: kind, Name: "Exhaustion", MaxStacks: 4, modify: exhaustionModifier}, nil
	case entities.StatusHeat:
		return Definition{Kind: kind, Name: "Heat", MaxStacks: 10, modify: heatModifier}, nil
	case entities.StatusInseminated:
		return Definition{Kind: kind, Name: "Inseminated", MaxStacks: 1}, nil
	case entities.StatusBound:
		return Definition{Kind: kind, Name: "Bound", MaxStacks: 99}, nil
	case entities.StatusBoundOther:
		return Definition{Kind: kind, Name: "Binding", MaxStacks: 99}, nil
	case entities.StatusCooldown:
		return Definition{Kind: kind, Name: "Cooldown", MaxStacks: 1}, nil
	case entities.StatusDazed:
		return Definition{Kind: kind, Name: "Dazed", MaxStacks: 3, modify: dazedModifier}, nil
	case entities.StatusBolstered:
		return Definition{Kind: kind, Name: "Bolstered", MaxStacks: 3, modify: bolsteredModifier}, nil
	}
	return Definition{}, dnderr.Configurationf("unknown status kind %q", kind).
		WithMeta("status_kind", string(kind))
}

// DisplayName names an instance, including its limb or trait tag
func DisplayName(def Definition, limb entities.LimbType, tag string) string {
	switch {
	case limb != "":
		return def.Name + " (" + string(limb) + ")"
	case tag != "":
		return def.Name + ": " + tag
	}
	return def.Name
}

func grappledModifier(_ *entities.Status, mods *Modifiers) {
	for _, skill := range entities.AllSkills() {
		if skill.IsBreakFree() {
			continue
		}
		mods.addSkill(skill, -2)
	}
}

// penetrated is a flat penalty, stacks only matter for insemination
func penetratedModifier(_ *entities.Status, mods *Modifiers) {
	for _, skill := range entities.BreakFreeSkills {
		mods.addSkill(skill, -2)
	}
}

func exhaustionModifier(status *entities.Status, mods *Modifiers) {
	for _, skill := range entities.BreakFreeSkills {
		mods.addSkill(skill, -status.Stacks)
	}
}

func heatModifier(status *entities.Status, mods *Modifiers) {
	for _, skill := range entities.BreakFreeSkills {
		mods.addSkill(skill, -status.Stacks)
	}
	mods.addAttribute(entities.AttributeWill, -status.Stacks)
}

func dazedModifier(status *entities.Status, mods *Modifiers) {
	for _, skill := range entities.AllSkills() {
		mods.addSkill(skill, -status.Stacks)
	}
}

func bolsteredModifier(status *entities.Status, mods *Modifiers) {
	mods.addAttribute(entities.AttributeWill, status.Stacks)
}
