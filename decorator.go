package wpfs

import (
	"fmt"
	"strings"
	"sync"
)

// DecoratorFunc wraps svc, returning the decorated service.
type DecoratorFunc func(env *Environment, svc Service) (Service, error)

var (
	decoratorsMu sync.RWMutex
	decorators   = make(map[string]DecoratorFunc)
)

// RegisterDecorator makes a decorator available by name. Registering an
// existing name replaces it.
func RegisterDecorator(name string, fn DecoratorFunc) {
	decoratorsMu.Lock()
	defer decoratorsMu.Unlock()
	decorators[name] = fn
}

// UnregisterDecorator removes a decorator; kinds relying on it are then
// built without that layer.
func UnregisterDecorator(name string) {
	decoratorsMu.Lock()
	defer decoratorsMu.Unlock()
	delete(decorators, name)
}

func lookupDecorator(name string) (DecoratorFunc, bool) {
	decoratorsMu.RLock()
	defer decoratorsMu.RUnlock()
	fn, ok := decorators[name]
	return fn, ok
}

// HookableName is the registry name of the hookable decorator for kind.
func HookableName(kind Kind) string {
	return "Hookable" + strings.Replace(string(kind), "FSBase", "FS", 1)
}

// GuardedName is the registry name of the guarded decorator for kind.
func GuardedName(kind Kind) string {
	return "Guarded" + string(kind)
}

// NewBase creates the undecorated adapter for kind.
func NewBase(env *Environment, kind Kind) (Service, error) {
	switch kind {
	case KindReader:
		return NewReader(env), nil
	case KindAction:
		return NewAction(env), nil
	case KindAuditor:
		return NewAuditor(env), nil
	case KindManager:
		return NewManager(env), nil
	case KindAdvanced:
		return NewAdvanced(env), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
	}
}

// Decorate builds base -> [hookable] -> [guarded] for kind. A decorator
// missing from the registry is skipped.
func Decorate(env *Environment, kind Kind, guarded, hookable bool) (Service, error) {
	svc, err := NewBase(env, kind)
	if err != nil {
		return nil, err
	}

	var layers []string
	if hookable {
		layers = append(layers, HookableName(kind))
	}
	if guarded {
		layers = append(layers, GuardedName(kind))
	}

	for _, name := range layers {
		fn, ok := lookupDecorator(name)
		if !ok {
			env.Logger.Debug().Str("decorator", name).Msg("decorator not registered, skipping")
			continue
		}
		if svc, err = fn(env, svc); err != nil {
			return nil, fmt.Errorf("decorate %s with %s: %w", kind, name, err)
		}
	}
	return svc, nil
}

// wrap adapts a typed constructor to a DecoratorFunc.
func wrap[T Service](ctor func(*Environment, T) Service) DecoratorFunc {
	return func(env *Environment, svc Service) (Service, error) {
		next, ok := svc.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupportedKind, svc)
		}
		return ctor(env, next), nil
	}
}

func init() {
	RegisterDecorator(HookableName(KindReader), wrap(func(env *Environment, s Reader) Service { return NewHookableReader(env, s) }))
	RegisterDecorator(HookableName(KindAction), wrap(func(env *Environment, s Action) Service { return NewHookableAction(env, s) }))
	RegisterDecorator(HookableName(KindAuditor), wrap(func(env *Environment, s Auditor) Service { return NewHookableAuditor(env, s) }))
	RegisterDecorator(HookableName(KindManager), wrap(func(env *Environment, s Manager) Service { return NewHookableManager(env, s) }))
	RegisterDecorator(HookableName(KindAdvanced), wrap(func(env *Environment, s Advanced) Service { return NewHookableAdvanced(env, s) }))

	RegisterDecorator(GuardedName(KindReader), wrap(func(env *Environment, s Reader) Service { return NewGuardedReader(env, s) }))
	RegisterDecorator(GuardedName(KindAction), wrap(func(env *Environment, s Action) Service { return NewGuardedAction(env, s) }))
	RegisterDecorator(GuardedName(KindAuditor), wrap(func(env *Environment, s Auditor) Service { return NewGuardedAuditor(env, s) }))
	RegisterDecorator(GuardedName(KindManager), wrap(func(env *Environment, s Manager) Service { return NewGuardedManager(env, s) }))
	RegisterDecorator(GuardedName(KindAdvanced), wrap(func(env *Environment, s Advanced) Service { return NewGuardedAdvanced(env, s) }))
}
