package wpfs

import (
	"github.com/rs/zerolog"
)

// Option configures New.
type Option func(*Options)

// Options holds the collaborators of a factory that do not come from Config.
type Options struct {
	// Logger receives factory, initializer and decorator events.
	// Default: zerolog.Nop()
	Logger zerolog.Logger

	// Hooks is the event bus of hookable services.
	// Default: the process-wide registry
	Hooks Dispatcher

	// Settings holds the guarded and hookable toggles. When nil a new
	// Settings is created from Config.
	Settings *Settings
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithHooks sets the event bus.
func WithHooks(hooks Dispatcher) Option {
	return func(o *Options) {
		o.Hooks = hooks
	}
}

// WithSettings shares settings between factories.
func WithSettings(settings *Settings) Option {
	return func(o *Options) {
		o.Settings = settings
	}
}

func buildOptions(opts []Option) Options {
	o := Options{Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
