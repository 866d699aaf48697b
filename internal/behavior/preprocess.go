package behavior

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/settings"
)

// Preprocess validates b against the attach context and settings tree. On
// success the returned Prepared carries the resolved settings and an element
// accessor for this cycle. Fatal problems are returned as *PreprocessError.
func Preprocess(ctx context.Context, b *Behavior, scope *dom.Selection, tree settings.Tree) (*Prepared, error) {
	if b == nil {
		return nil, errors.New("preprocess: nil behavior")
	}
	if scope == nil {
		return nil, fmt.Errorf("preprocess behavior %q: nil attach context", b.Name)
	}

	logger := ctxlog.FromContext(ctx).With("behavior", b.Name)
	logger.Debug("Preprocessing behavior.")

	cfg := b.Preprocess
	if cfg == nil {
		cfg = &Preprocessing{}
	}

	resolved := settings.Defaults()
	resolved.Merge(cfg.Settings)

	if cfg.SettingsPath != "" {
		vals, found, err := tree.Resolve(cfg.SettingsPath)
		switch {
		case err != nil:
			return nil, &PreprocessError{
				Behavior: b.Name,
				Kind:     ErrSettingsNotObject,
				Path:     cfg.SettingsPath,
				Debug:    resolved.Debug(),
				Err:      err,
			}
		case !found:
			logger.Debug("Settings path not found, continuing with declared settings.", "path", cfg.SettingsPath)
		default:
			resolved.Merge(vals)
			logger.Debug("Settings path resolved.", "path", cfg.SettingsPath, "keys", vals.Keys())
		}
	}

	matches := make(map[string]*dom.Selection, cfg.Elements.Len())
	for _, name := range cfg.Elements.Names() {
		el, _ := cfg.Elements.Lookup(name)

		found, err := query(b.Name, &cfg.Elements, scope, name, matches)
		if err != nil {
			var perr *PreprocessError
			if errors.As(err, &perr) {
				perr.Debug = resolved.Debug()
			}
			return nil, err
		}

		if el.Required && found.Len() == 0 {
			return nil, &PreprocessError{
				Behavior: b.Name,
				Kind:     ErrMissingElement,
				Element:  name,
				Detail:   fmt.Sprintf("selector %q matched nothing", el.Selector),
				Debug:    resolved.Debug(),
			}
		}

		logger.Debug("Element checked.", "element", name, "selector", el.Selector, "matches", found.Len())
		matches[name] = found
	}

	return &Prepared{
		Behavior: b,
		Settings: resolved,
		Elements: newAccessor(b.Name, &cfg.Elements, scope),
	}, nil
}
