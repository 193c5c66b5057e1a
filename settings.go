package wpfs

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Settings holds the two toggles that shape a service. They may change at
// any time; guards read them again on every call.
type Settings struct {
	guarded  atomic.Bool
	hookable atomic.Bool
}

// NewSettings creates settings with the given toggles.
func NewSettings(guarded, hookable bool) *Settings {
	s := &Settings{}
	s.guarded.Store(guarded)
	s.hookable.Store(hookable)
	return s
}

func (s *Settings) Guarded() bool       { return s.guarded.Load() }
func (s *Settings) SetGuarded(on bool)  { s.guarded.Store(on) }
func (s *Settings) Hookable() bool      { return s.hookable.Load() }
func (s *Settings) SetHookable(on bool) { s.hookable.Store(on) }

var defaultSettings = NewSettings(false, false)

// DefaultSettings returns the process-wide toggles.
func DefaultSettings() *Settings { return defaultSettings }

// SetGuarded switches guarded mode for the process-wide settings.
func SetGuarded(on bool) { defaultSettings.SetGuarded(on) }

// SetHookable switches hookable mode for the process-wide settings.
func SetHookable(on bool) { defaultSettings.SetHookable(on) }

// Environment is everything an adapter needs: the host filesystem object,
// the host utility functions and the event bus.
type Environment struct {
	Host     Host
	Runtime  Runtime
	Hooks    Dispatcher
	Settings *Settings
	Logger   zerolog.Logger
}

func (e *Environment) settings() *Settings {
	if e.Settings == nil {
		return defaultSettings
	}
	return e.Settings
}

func (e *Environment) hooks() Dispatcher {
	if e.Hooks == nil {
		return defaultHooks
	}
	return e.Hooks
}
