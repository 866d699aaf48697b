package testutil

import (
	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers handlers by name and behaviors declared in Go.
type SimpleModule struct {
	Attach    map[string]behavior.AttachFunc
	Detach    map[string]behavior.DetachFunc
	Behaviors []*behavior.Behavior
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	for name, fn := range m.Attach {
		r.RegisterAttachHandler(name, fn)
	}
	for name, fn := range m.Detach {
		r.RegisterDetachHandler(name, fn)
	}
	for _, b := range m.Behaviors {
		r.MustRegister(b)
	}
}
