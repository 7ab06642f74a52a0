package script

import (
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
)

// RegisterLua compiles source once to reject syntax errors and registers it
// under id. Each run gets a fresh interpreter with only the string and table
// libraries and these globals:
//
//	status_stacks(who, kind) -> integer
//	has_flag(who, name)      -> boolean
//	flag(who, name)          -> string or nil
//	random(n)                -> integer in [1, n]
//	queue_effect(kind, target, value[, status])
//
// who and target are "self" or "other". queue_effect raises an error for an
// effect that fails content validation. The chunk returns ok[, message].
func (r *Registry) RegisterLua(id, source string) error {
	l := newSandbox()
	if err := lua.LoadString(l, source); err != nil {
		return dnderr.WrapWithCode(err, dnderr.CodeConfiguration, fmt.Sprintf("script %s does not compile", id))
	}

	return r.Register(id, luaProcedure(id, source))
}

func luaProcedure(id, source string) Procedure {
	return func(env *Env) (bool, string) {
		l := newSandbox()
		installHelpers(l, env)

		if err := lua.LoadString(l, source); err != nil {
			return false, fmt.Sprintf("script %s failed to load: %v", id, err)
		}
		if err := l.ProtectedCall(0, 2, 0); err != nil {
			return false, fmt.Sprintf("script %s failed: %v", id, err)
		}

		ok := l.ToBoolean(-2)
		message, _ := l.ToString(-1)
		return ok, message
	}
}

func newSandbox() *lua.State {
	l := lua.NewState()
	lua.Require(l, "string", lua.StringOpen, true)
	l.Pop(1)
	lua.Require(l, "table", lua.TableOpen, true)
	l.Pop(1)
	return l
}

func installHelpers(l *lua.State, env *Env) {
	l.Register("status_stacks", func(l *lua.State) int {
		who := checkSelector(l, 1)
		kind := entities.StatusKind(lua.CheckString(l, 2))
		l.PushInteger(env.StatusStacks(who, kind))
		return 1
	})

	l.Register("has_flag", func(l *lua.State) int {
		_, ok := env.Flag(checkSelector(l, 1), lua.CheckString(l, 2))
		l.PushBoolean(ok)
		return 1
	})

	l.Register("flag", func(l *lua.State) int {
		value, ok := env.Flag(checkSelector(l, 1), lua.CheckString(l, 2))
		if !ok {
			l.PushNil()
			return 1
		}
		l.PushString(value)
		return 1
	})

	l.Register("random", func(l *lua.State) int {
		l.PushInteger(env.Random(lua.CheckInteger(l, 1)))
		return 1
	})

	l.Register("queue_effect", func(l *lua.State) int {
		kind := entities.EffectKind(lua.CheckString(l, 1))
		if !kind.Valid() {
			lua.Errorf(l, "unknown effect kind %s", string(kind))
		}
		effect := entities.Effect{
			Kind:   kind,
			Target: checkSelector(l, 2),
			Params: entities.EffectParams{Value: lua.OptInteger(l, 3, 0)},
		}
		if statusKind := lua.OptString(l, 4, ""); statusKind != "" {
			effect.Params.Status = entities.StatusKind(statusKind)
			effect.Params.Stacks = effect.Params.Value
		}
		if err := entities.Validator().Struct(effect); err != nil {
			lua.Errorf(l, "invalid %s effect: %s", string(kind), err.Error())
		}
		env.QueueEffect(effect)
		return 0
	})
}

func checkSelector(l *lua.State, index int) entities.TargetSelector {
	switch selector := entities.TargetSelector(lua.CheckString(l, index)); selector {
	case entities.TargetSelf, entities.TargetOther:
		return selector
	default:
		lua.Errorf(l, "expected self or other, got %s", string(selector))
	}
	return ""
}
