package wpfs

import (
	"context"
	"fmt"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Global instance
var (
	defaultFactory *Factory
	defaultOnce    sync.Once
	defaultErr     error
	defaultMu      sync.RWMutex

	// initMu serializes Init against SetDefault and Reset, which replace
	// defaultOnce. Lock order: initMu, then defaultMu.
	initMu sync.Mutex
)

// Builder provides a way to create factories with custom env prefixes
type Builder struct {
	prefix string
	opts   []Option
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string, opts ...Option) *Builder {
	return &Builder{prefix: prefix, opts: opts}
}

func (b *Builder) load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init initializes the global factory using the builder's prefix
func (b *Builder) Init() error {
	cfg, err := b.load()
	if err != nil {
		return err
	}
	return Init(cfg, b.opts...)
}

// New creates a new factory using the builder's prefix
func (b *Builder) New() (*Factory, error) {
	cfg, err := b.load()
	if err != nil {
		return nil, err
	}
	return New(cfg, b.opts...)
}

// Init initializes the global factory. Without a config it is loaded from
// the environment. The global factory shares the process-wide settings and
// hook registry; cfg's toggles are applied to them.
func Init(cfg *Config, opts ...Option) error {
	initMu.Lock()
	defer initMu.Unlock()

	defaultOnce.Do(func() {
		if cfg == nil {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		SetGuarded(cfg.Guarded)
		SetHookable(cfg.Hookable)
		opts = append([]Option{WithSettings(defaultSettings), WithHooks(defaultHooks)}, opts...)

		var f *Factory
		f, defaultErr = New(cfg, opts...)

		defaultMu.Lock()
		defaultFactory = f
		defaultMu.Unlock()
	})

	return defaultErr
}

// New creates a factory over the host described by cfg.
func New(cfg *Config, opts ...Option) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := buildOptions(opts)

	host, rt, err := Initialize(context.Background(), cfg, o.Logger)
	if err != nil {
		return nil, err
	}

	settings := o.Settings
	if settings == nil {
		settings = NewSettings(cfg.Guarded, cfg.Hookable)
	}

	return NewFactory(&Environment{
		Host:     host,
		Runtime:  rt,
		Hooks:    o.Hooks,
		Settings: settings,
		Logger:   o.Logger,
	}), nil
}

// Default returns the global factory, initializing it from the environment
// if needed
func Default() (*Factory, error) {
	defaultMu.RLock()
	f := defaultFactory
	defaultMu.RUnlock()
	if f != nil {
		return f, nil
	}

	if err := Init(nil); err != nil {
		return nil, err
	}

	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultFactory, nil
}

// SetDefault installs f as the global factory.
func SetDefault(f *Factory) {
	initMu.Lock()
	defer initMu.Unlock()
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultFactory = f
	defaultOnce = sync.Once{}
	defaultOnce.Do(func() {})
	defaultErr = nil
}

// Reset clears the global factory (for testing)
func Reset() {
	initMu.Lock()
	defer initMu.Unlock()
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultFactory != nil {
		if closer, ok := defaultFactory.env.Host.(CanClose); ok {
			_ = closer.Close()
		}
	}
	defaultFactory = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}
