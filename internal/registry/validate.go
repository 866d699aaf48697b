package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between manifests and Go
// code: every handler a manifest names must be registered, and manifest
// behavior names must not clash with each other or with behaviors
// registered directly from Go.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	seen := make(map[string]string, len(r.definitions))
	for _, def := range r.definitions {
		if prev, dup := seen[def.Name]; dup {
			errs = append(errs, fmt.Sprintf("behavior '%s' is defined in both %s and %s", def.Name, prev, def.Source()))
			continue
		}
		seen[def.Name] = def.Source()

		if _, exists := r.index[def.Name]; exists {
			errs = append(errs, fmt.Sprintf("behavior '%s' from %s is already registered by a Go module", def.Name, def.Source()))
		}

		if name := def.Lifecycle.OnAttach; name != "" {
			if _, ok := r.attachHandlers[name]; !ok {
				errs = append(errs, fmt.Sprintf("behavior '%s': manifest references attach handler '%s' which is not registered", def.Name, name))
			}
		} else {
			logger.Warn("Manifest declares no attach handler, the behavior will never run.", "behavior", def.Name, "file", def.Source())
		}

		if name := def.Lifecycle.OnDetach; name != "" {
			if _, ok := r.detachHandlers[name]; !ok {
				errs = append(errs, fmt.Sprintf("behavior '%s': manifest references detach handler '%s' which is not registered", def.Name, name))
			}
		}

		if def.Preprocess && def.SettingsPath == "" && len(def.Elements) == 0 {
			logger.Warn("Behavior opts into preprocessing but declares no settings path and no elements.", "behavior", def.Name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// PopulateBehaviorsFromDefinitions binds every queued manifest definition to
// its handlers and registers the resulting behaviors. Call it after
// ValidateRegistry.
func (r *Registry) PopulateBehaviorsFromDefinitions(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, def := range r.definitions {
		pre, err := def.Preprocessing()
		if err != nil {
			return err
		}

		b := &behavior.Behavior{
			Name:        def.Name,
			Description: def.Description,
			Source:      def.Source(),
			Preprocess:  pre,
		}
		if name := def.Lifecycle.OnAttach; name != "" {
			b.Attach = r.attachHandlers[name]
		}
		if name := def.Lifecycle.OnDetach; name != "" {
			b.Detach = r.detachHandlers[name]
		}

		if err := r.Register(b); err != nil {
			return fmt.Errorf("%s: %w", def.Source(), err)
		}
		logger.Debug("Behavior bound from manifest.", "behavior", def.Name, "preprocess", b.Preprocessed())
	}

	r.definitions = nil
	return nil
}
