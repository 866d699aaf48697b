package behavior

import (
	"context"
	"fmt"

	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/settings"
)

// Trigger names the reason a behavior is being detached.
type Trigger string

const (
	// TriggerUnload is used when the context is being removed from the page.
	TriggerUnload Trigger = "unload"
	// TriggerSerialize is used before a form is serialized.
	TriggerSerialize Trigger = "serialize"
	// TriggerMove is used when the context is moved within the page.
	TriggerMove Trigger = "move"
)

// ParseTrigger validates a trigger name. An empty name yields TriggerUnload.
func ParseTrigger(s string) (Trigger, error) {
	switch Trigger(s) {
	case "":
		return TriggerUnload, nil
	case TriggerUnload, TriggerSerialize, TriggerMove:
		return Trigger(s), nil
	default:
		return "", fmt.Errorf("unknown detach trigger %q: must be 'unload', 'serialize' or 'move'", s)
	}
}

// Attachment is what an attach routine receives for one attach cycle.
type Attachment struct {
	// Context is the subtree the behavior is attached to.
	Context *dom.Selection
	// Settings is the ambient settings tree, unchanged.
	Settings settings.Tree
	// Resolved holds the behavior's resolved settings. Nil unless the
	// behavior was preprocessed.
	Resolved settings.Values
	// Elements gives access to the declared elements. Nil unless the
	// behavior was preprocessed.
	Elements *Accessor
}

// AttachFunc is a behavior's main routine.
type AttachFunc func(ctx context.Context, at *Attachment) error

// DetachFunc is a behavior's teardown routine.
type DetachFunc func(ctx context.Context, scope *dom.Selection, tree settings.Tree, trigger Trigger) error

// Behavior is a named unit of page initialization logic.
type Behavior struct {
	Name        string
	Description string

	// Source is the manifest file the behavior was declared in, if any.
	Source string

	// Preprocess opts the behavior into preprocessing. A nil value means the
	// attach routine runs directly.
	Preprocess *Preprocessing

	Attach AttachFunc
	Detach DetachFunc
}

// Preprocessed reports whether the behavior opted into preprocessing.
func (b *Behavior) Preprocessed() bool {
	return b.Preprocess != nil
}

// Invokable reports whether the behavior has an attach routine.
func (b *Behavior) Invokable() bool {
	return b.Attach != nil
}

// Preprocessing declares what a behavior needs before it can run.
type Preprocessing struct {
	// SettingsPath is a dotted path into the settings tree. Empty means no
	// lookup.
	SettingsPath string

	// Settings are the behavior's own declared settings.
	Settings settings.Values

	// Elements are the behavior's element requirements, in declaration order.
	Elements Elements
}

// Prepared is the outcome of a successful preprocessing run.
type Prepared struct {
	Behavior *Behavior
	Settings settings.Values
	Elements *Accessor
}

// Attachment builds the value handed to the behavior's attach routine.
func (p *Prepared) Attachment(scope *dom.Selection, tree settings.Tree) *Attachment {
	return &Attachment{
		Context:  scope,
		Settings: tree,
		Resolved: p.Settings,
		Elements: p.Elements,
	}
}
