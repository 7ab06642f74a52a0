package entities

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the content rules registered
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		_ = validate.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
			return Skill(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("limb", func(fl validator.FieldLevel) bool {
			return LimbType(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("statuskind", func(fl validator.FieldLevel) bool {
			return StatusKind(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("effectkind", func(fl validator.FieldLevel) bool {
			return EffectKind(fl.Field().String()).Valid()
		})

		validate.RegisterStructValidation(effectParamsRules, Effect{})
	})
	return validate
}

// ValidateCharacter checks a character record and its traits
func ValidateCharacter(c *Character) error {
	return Validator().Struct(c)
}

// ValidateTrait checks a single trait definition
func ValidateTrait(t *Trait) error {
	return Validator().Struct(t)
}

func effectParamsRules(sl validator.StructLevel) {
	effect := sl.Current().Interface().(Effect)
	params := effect.Params

	switch effect.Kind {
	case EffectStatus, EffectRemoveStatus:
		if !params.Status.Valid() {
			sl.ReportError(params.Status, "Status", "Status", "statuskind", "")
		}
		if params.Status.IsLimbScoped() && !params.Limb.Valid() {
			sl.ReportError(params.Limb, "Limb", "Limb", "limb", "")
		}
	case EffectGrapple:
		if params.Limb != "" && !params.Limb.Valid() {
			sl.ReportError(params.Limb, "Limb", "Limb", "limb", "")
		}
		switch params.GrappleType {
		case "", GrappleHold, GrapplePenetrate:
		default:
			sl.ReportError(params.GrappleType, "GrappleType", "GrappleType", "grappletype", "")
		}
	case EffectWound, EffectHeal:
		if params.Value < 0 {
			sl.ReportError(params.Value, "Value", "Value", "gte", "0")
		}
	case EffectEndCombat:
		if params.Winner != TargetSelf && params.Winner != TargetOther {
			sl.ReportError(params.Winner, "Winner", "Winner", "oneof", "self other")
		}
	case EffectScript:
		if params.ScriptID == "" {
			sl.ReportError(params.ScriptID, "ScriptID", "ScriptID", "required", "")
		}
	}
}
