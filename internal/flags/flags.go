// Package flags provides feature flag support for controlled feature rollout.
// Flags are read-only after initialization and default to off when unknown.
package flags

import (
	"maps"

	"github.com/mergington/enroll/internal/log"
)

// Flag name constants for type-safe flag access.
const (
	// FlagStrictCapacity disables the signup action for activities with no
	// spots left instead of letting the server reject the request.
	FlagStrictCapacity = "strict-capacity"

	// FlagMouseSupport enables the mouse layer (click-to-select, click
	// remove controls). Keyboard bindings always work.
	FlagMouseSupport = "mouse-support"
)

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map.
// A nil map yields an empty registry (all flags disabled).
func New(flags map[string]bool) *Registry {
	if flags == nil {
		flags = make(map[string]bool)
	}
	r := &Registry{flags: flags}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(flags), "flags", r.All())
	return r
}

// Enabled returns true if the named flag is enabled.
// Unknown flags and nil registries report false.
func (r *Registry) Enabled(name string) bool {
	if r == nil || r.flags == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		return false
	}
	return value
}

// All returns a copy of all flags.
func (r *Registry) All() map[string]bool {
	if r == nil || r.flags == nil {
		return make(map[string]bool)
	}
	result := make(map[string]bool, len(r.flags))
	maps.Copy(result, r.flags)
	return result
}
