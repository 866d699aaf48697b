package registry

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/model"
)

// ErrDuplicateBehavior is returned when two behaviors share a name.
var ErrDuplicateBehavior = errors.New("behavior already registered")

// Module is the interface that all Go modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the handlers, manifest definitions and behaviors of a
// single application instance.
type Registry struct {
	attachHandlers map[string]behavior.AttachFunc
	detachHandlers map[string]behavior.DetachFunc

	definitions []*model.Behavior

	behaviors []*behavior.Behavior
	index     map[string]int
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		attachHandlers: make(map[string]behavior.AttachFunc),
		detachHandlers: make(map[string]behavior.DetachFunc),
		index:          make(map[string]int),
	}
}

// Register adds a behavior. Names must be unique.
func (r *Registry) Register(b *behavior.Behavior) error {
	if b == nil || b.Name == "" {
		return errors.New("behavior must have a name")
	}
	if _, exists := r.index[b.Name]; exists {
		return fmt.Errorf("%w: '%s'", ErrDuplicateBehavior, b.Name)
	}
	r.index[b.Name] = len(r.behaviors)
	r.behaviors = append(r.behaviors, b)
	return nil
}

// MustRegister is like Register but panics on error. Modules use it, as a
// duplicate name there is a programming error.
func (r *Registry) MustRegister(b *behavior.Behavior) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Lookup returns the behavior registered under name.
func (r *Registry) Lookup(name string) (*behavior.Behavior, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.behaviors[i], true
}

// Behaviors returns all behaviors in registration order.
func (r *Registry) Behaviors() []*behavior.Behavior {
	out := make([]*behavior.Behavior, len(r.behaviors))
	copy(out, r.behaviors)
	return out
}

// Len returns the number of registered behaviors.
func (r *Registry) Len() int {
	return len(r.behaviors)
}

// AddDefinitions queues manifest definitions for validation and binding.
func (r *Registry) AddDefinitions(defs ...*model.Behavior) {
	r.definitions = append(r.definitions, defs...)
}

// Definitions returns the queued manifest definitions.
func (r *Registry) Definitions() []*model.Behavior {
	return r.definitions
}
