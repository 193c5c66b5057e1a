package wpfs

import (
	"fmt"
	"sync"
)

// DriverFactory creates the host filesystem object and the host utility
// functions from a config
type DriverFactory func(cfg *Config) (Host, Runtime, error)

var (
	driverFactories = make(map[string]DriverFactory)
	factoryMutex    sync.RWMutex
)

// RegisterDriver registers a driver factory under an FS_METHOD name
func RegisterDriver(method string, factory DriverFactory) {
	factoryMutex.Lock()
	defer factoryMutex.Unlock()
	driverFactories[method] = factory
}

// Drivers lists the registered FS_METHOD names.
func Drivers() []string {
	factoryMutex.RLock()
	defer factoryMutex.RUnlock()
	names := make([]string, 0, len(driverFactories))
	for name := range driverFactories {
		names = append(names, name)
	}
	return names
}

// CreateHost creates a host from config
func CreateHost(cfg *Config) (Host, Runtime, error) {
	factoryMutex.RLock()
	factory, exists := driverFactories[cfg.Method]
	factoryMutex.RUnlock()

	if !exists {
		return nil, nil, fmt.Errorf("%w: filesystem method %q not registered", ErrNotSupported, cfg.Method)
	}

	return factory(cfg)
}

// ============================================================================
// Factory
// ============================================================================

// Factory hands out one service per (guarded, hookable, kind) combination
// and keeps it for its own lifetime.
type Factory struct {
	env       *Environment
	mu        sync.Mutex
	instances map[string]Service
}

// NewFactory creates a factory over env.
func NewFactory(env *Environment) *Factory {
	return &Factory{env: env, instances: make(map[string]Service)}
}

// Environment returns the environment services are built over.
func (f *Factory) Environment() *Environment { return f.env }

func cacheKey(guarded, hookable bool, kind Kind) string {
	return fmt.Sprintf("%t.%t.%s", guarded, hookable, kind)
}

// Create returns the service for kind under the current settings.
func (f *Factory) Create(kind Kind) (Service, error) {
	settings := f.env.settings()
	guarded, hookable := settings.Guarded(), settings.Hookable()
	key := cacheKey(guarded, hookable, kind)

	f.mu.Lock()
	defer f.mu.Unlock()

	if svc, ok := f.instances[key]; ok {
		return svc, nil
	}

	switch kind {
	case KindReader, KindAction, KindAuditor, KindManager, KindAdvanced:
	default:
		return nil, fmt.Errorf("%w: the requested instance type %s is not supported", ErrUnsupportedKind, kind)
	}

	svc, err := Decorate(f.env, kind, guarded, hookable)
	if err != nil {
		return nil, err
	}

	f.env.Logger.Debug().
		Str("kind", string(kind)).
		Bool("guarded", guarded).
		Bool("hookable", hookable).
		Msg("created filesystem service")

	f.instances[key] = svc
	return svc, nil
}

// Len returns the number of cached services.
func (f *Factory) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.instances)
}

// Reset drops every cached service.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.instances)
}

func create[T Service](f *Factory, kind Kind) (T, error) {
	var zero T
	svc, err := f.Create(kind)
	if err != nil {
		return zero, err
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrUnsupportedKind, svc)
	}
	return typed, nil
}

func (f *Factory) Reader() (Reader, error)     { return create[Reader](f, KindReader) }
func (f *Factory) Action() (Action, error)     { return create[Action](f, KindAction) }
func (f *Factory) Auditor() (Auditor, error)   { return create[Auditor](f, KindAuditor) }
func (f *Factory) Manager() (Manager, error)   { return create[Manager](f, KindManager) }
func (f *Factory) Advanced() (Advanced, error) { return create[Advanced](f, KindAdvanced) }
