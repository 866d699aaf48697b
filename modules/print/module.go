package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/registry"
	"github.com/specialistvlad/behaviorkit/internal/settings"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed lines. Defaults to os.Stdout.
	Out io.Writer
}

func (m *Module) out() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// OnAttachPrint prints the behavior's resolved settings and how many nodes
// each declared element currently matches.
func (m *Module) OnAttachPrint(ctx context.Context, at *behavior.Attachment) error {
	ctxlog.FromContext(ctx).Info("Printing attachment")
	w := m.out()

	fmt.Fprintf(w, "      context: %d node(s)\n", at.Context.Len())

	if at.Resolved == nil {
		fmt.Fprintln(w, "      (not preprocessed)")
		return nil
	}

	for _, k := range at.Resolved.Keys() {
		fmt.Fprintf(w, "      %s = %s\n", k, formatValue(at.Resolved, k))
	}

	if at.Elements == nil {
		return nil
	}
	for _, name := range at.Elements.Names() {
		sel, err := at.Elements.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "      element %s: %d match(es)\n", name, sel.Len())
	}

	return nil
}

// OnDetachPrint prints the detach trigger.
func (m *Module) OnDetachPrint(ctx context.Context, _ *dom.Selection, _ settings.Tree, trigger behavior.Trigger) error {
	fmt.Fprintf(m.out(), "      detached: %s\n", trigger)
	return nil
}

func formatValue(v settings.Values, key string) string {
	val := v[key]
	if val.IsNull() {
		return "null"
	}
	data, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "(unprintable)"
	}
	return string(data)
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAttachHandler("OnAttachPrint", m.OnAttachPrint)
	r.RegisterDetachHandler("OnDetachPrint", m.OnDetachPrint)
}
