package app

import (
	"fmt"
	"os"

	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/settings"
)

// page is one loaded document together with the context and settings an
// attach cycle runs against.
type page struct {
	doc   *dom.Document
	scope *dom.Selection
	tree  settings.Tree
}

// loadPage parses the configured page, reads its embedded settings, overlays
// the settings file and narrows the context to the context selector.
func (a *App) loadPage() (*page, error) {
	doc, err := dom.ParseFile(a.config.Page)
	if err != nil {
		return nil, err
	}

	tree := settings.EmptyTree()
	if raw, ok := doc.EmbeddedSettings(); ok {
		tree, err = settings.ParseJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("page %s: embedded settings: %w", a.config.Page, err)
		}
	}

	if a.config.Settings != "" {
		data, err := os.ReadFile(a.config.Settings)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		override, err := settings.ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("settings file %s: %w", a.config.Settings, err)
		}
		tree = tree.Overlay(override)
	}

	scope := doc.Root()
	if a.config.Context != "" {
		scope, err = scope.Query(a.config.Context)
		if err != nil {
			return nil, fmt.Errorf("context selector: %w", err)
		}
		if scope.Len() == 0 {
			return nil, fmt.Errorf("context selector %q matched nothing in %s", a.config.Context, a.config.Page)
		}
	}

	return &page{doc: doc, scope: scope, tree: tree}, nil
}
