// Package loginform reports on the user login form of a page. Its handlers
// are bound by the loginForm manifest, which requires the form element, so
// the attach handler can rely on it being present.
package loginform

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/registry"
	"github.com/specialistvlad/behaviorkit/internal/settings"
)

// Element names the handlers expect the manifest to declare.
const (
	ElementForm   = "form"
	ElementSubmit = "submit"
	ElementName   = "name"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the report lines. Defaults to os.Stdout.
	Out io.Writer
}

func (m *Module) out() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// OnAttachLoginForm prints the form's action, its input count and the submit
// label. A greeting is added when the resolved settings carry one.
func (m *Module) OnAttachLoginForm(ctx context.Context, at *behavior.Attachment) error {
	if at.Elements == nil {
		return fmt.Errorf("login form behavior must be preprocessed")
	}
	logger := ctxlog.FromContext(ctx)

	form, err := at.Elements.Get(ElementForm)
	if err != nil {
		return err
	}
	inputs, err := form.Query("input")
	if err != nil {
		return err
	}

	action, _ := form.Attr("action")
	fmt.Fprintf(m.out(), "      login form: action=%q inputs=%d\n", action, inputs.Len())

	if submit, err := at.Elements.Get(ElementSubmit); err == nil && submit.Len() > 0 {
		label, _ := submit.Attr("value")
		fmt.Fprintf(m.out(), "      submit: %q\n", label)
	}

	if name, err := at.Elements.Get(ElementName); err == nil && name.Len() == 0 {
		logger.Warn("Login form has no name field.")
	}

	if greeting, ok := at.Resolved.String("greeting"); ok && strings.TrimSpace(greeting) != "" {
		fmt.Fprintf(m.out(), "      greeting: %s\n", greeting)
	}

	logger.Debug("Login form attached.", "action", action, "inputs", inputs.Len())
	return nil
}

// OnDetachLoginForm reports the detach. Serialization leaves the form alone.
func (m *Module) OnDetachLoginForm(ctx context.Context, scope *dom.Selection, _ settings.Tree, trigger behavior.Trigger) error {
	if trigger == behavior.TriggerSerialize {
		return nil
	}
	forms, err := scope.Query("#user-login-form")
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out(), "      login form detached: %d form(s), trigger %s\n", forms.Len(), trigger)
	return nil
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAttachHandler("OnAttachLoginForm", m.OnAttachLoginForm)
	r.RegisterDetachHandler("OnDetachLoginForm", m.OnDetachLoginForm)
}
