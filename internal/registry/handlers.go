package registry

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
)

// RegisterAttachHandler registers a Go function for a behavior's attach event.
func (r *Registry) RegisterAttachHandler(name string, fn behavior.AttachFunc) {
	if _, exists := r.attachHandlers[name]; exists {
		panic(fmt.Sprintf("attach handler with name '%s' already registered", name))
	}
	slog.Debug("Registering attach handler.", "name", name)
	r.attachHandlers[name] = fn
}

// RegisterDetachHandler registers a Go function for a behavior's detach event.
func (r *Registry) RegisterDetachHandler(name string, fn behavior.DetachFunc) {
	if _, exists := r.detachHandlers[name]; exists {
		panic(fmt.Sprintf("detach handler with name '%s' already registered", name))
	}
	slog.Debug("Registering detach handler.", "name", name)
	r.detachHandlers[name] = fn
}

// AttachHandler returns the attach handler registered under name.
func (r *Registry) AttachHandler(name string) (behavior.AttachFunc, bool) {
	fn, ok := r.attachHandlers[name]
	return fn, ok
}

// DetachHandler returns the detach handler registered under name.
func (r *Registry) DetachHandler(name string) (behavior.DetachFunc, bool) {
	fn, ok := r.detachHandlers[name]
	return fn, ok
}
