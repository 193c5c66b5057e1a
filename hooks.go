package wpfs

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// DefaultPriority is the priority used by callers that don't care.
const DefaultPriority = 10

// ActionFunc receives the arguments of a dispatched action.
type ActionFunc func(args ...any)

// FilterFunc receives the current value and the extra arguments and returns
// the value handed to the next filter.
type FilterFunc func(value any, args ...any) any

// Dispatcher is the event bus the hookable decorators broadcast through.
type Dispatcher interface {
	DoAction(name string, args ...any)
	ApplyFilters(name string, value any, args ...any) any
}

// ============================================================================
// HookRegistry
// ============================================================================

type hookEntry struct {
	id       uint64
	priority int
	action   ActionFunc
	filter   FilterFunc
}

// HookRegistry is an in-process Dispatcher. Callbacks run in ascending
// priority and, within one priority, in registration order.
type HookRegistry struct {
	mu      sync.RWMutex
	nextID  atomic.Uint64
	actions map[string][]hookEntry
	filters map[string][]hookEntry
	fired   map[string]int
	logger  zerolog.Logger
}

// NewHookRegistry creates an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{
		actions: make(map[string][]hookEntry),
		filters: make(map[string][]hookEntry),
		fired:   make(map[string]int),
		logger:  zerolog.Nop(),
	}
}

// SetLogger sets the logger used to trace dispatching.
func (r *HookRegistry) SetLogger(l zerolog.Logger) {
	r.mu.Lock()
	r.logger = l
	r.mu.Unlock()
}

// AddAction registers fn for name. The returned func removes it again.
func (r *HookRegistry) AddAction(name string, fn ActionFunc, priority int) (unregister func()) {
	return r.add(r.actions, name, hookEntry{priority: priority, action: fn})
}

// AddFilter registers fn for name. The returned func removes it again.
func (r *HookRegistry) AddFilter(name string, fn FilterFunc, priority int) (unregister func()) {
	return r.add(r.filters, name, hookEntry{priority: priority, filter: fn})
}

func (r *HookRegistry) add(table map[string][]hookEntry, name string, e hookEntry) func() {
	e.id = r.nextID.Add(1)

	r.mu.Lock()
	list := append(table[name], e)
	sort.SliceStable(list, func(i, j int) bool { return list[i].priority < list[j].priority })
	table[name] = list
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			list := table[name]
			for i := range list {
				if list[i].id == e.id {
					table[name] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
			if len(table[name]) == 0 {
				delete(table, name)
			}
		})
	}
}

func (r *HookRegistry) snapshot(table map[string][]hookEntry, name string) []hookEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := table[name]
	out := make([]hookEntry, len(list))
	copy(out, list)
	return out
}

// DoAction implements Dispatcher
func (r *HookRegistry) DoAction(name string, args ...any) {
	r.mu.Lock()
	r.fired[name]++
	logger := r.logger
	r.mu.Unlock()

	entries := r.snapshot(r.actions, name)
	logger.Trace().Str("hook", name).Int("callbacks", len(entries)).Msg("do action")
	for _, e := range entries {
		e.action(args...)
	}
}

// ApplyFilters implements Dispatcher
func (r *HookRegistry) ApplyFilters(name string, value any, args ...any) any {
	entries := r.snapshot(r.filters, name)
	r.mu.RLock()
	logger := r.logger
	r.mu.RUnlock()
	logger.Trace().Str("hook", name).Int("callbacks", len(entries)).Msg("apply filters")

	for _, e := range entries {
		value = e.filter(value, args...)
	}
	return value
}

// HasAction reports whether any callback is registered for name.
func (r *HookRegistry) HasAction(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions[name]) > 0
}

// HasFilter reports whether any filter is registered for name.
func (r *HookRegistry) HasFilter(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.filters[name]) > 0
}

// DidAction returns how many times name has been dispatched.
func (r *HookRegistry) DidAction(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fired[name]
}

// RemoveAll drops every callback and resets the counters.
func (r *HookRegistry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.actions)
	clear(r.filters)
	clear(r.fired)
}

// ============================================================================
// Process-wide registry
// ============================================================================

var defaultHooks = NewHookRegistry()

// Hooks returns the process-wide registry.
func Hooks() *HookRegistry { return defaultHooks }

// AddAction registers fn on the process-wide registry.
func AddAction(name string, fn ActionFunc, priority int) func() {
	return defaultHooks.AddAction(name, fn, priority)
}

// AddFilter registers fn on the process-wide registry.
func AddFilter(name string, fn FilterFunc, priority int) func() {
	return defaultHooks.AddFilter(name, fn, priority)
}
