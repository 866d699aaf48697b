package walker

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/settings"
)

var (
	// ErrBehaviorNotFound is returned when no behavior has the requested name.
	ErrBehaviorNotFound = errors.New("behavior not found")
	// ErrNotInvokable is returned when a behavior has no attach routine.
	ErrNotInvokable = errors.New("behavior has no attach routine")
)

// Source is the set of behaviors a Walker visits.
type Source interface {
	Behaviors() []*behavior.Behavior
	Lookup(name string) (*behavior.Behavior, bool)
}

// BehaviorError ties an attach or detach failure to the behavior it came from.
type BehaviorError struct {
	Name string
	Err  error
}

func (e *BehaviorError) Error() string {
	return fmt.Sprintf("behavior '%s': %v", e.Name, e.Err)
}

func (e *BehaviorError) Unwrap() error {
	return e.Err
}

// Walker runs attach and detach cycles over a Source.
type Walker struct {
	source Source
	root   *dom.Selection
	tree   settings.Tree
}

// Option configures a Walker.
type Option func(*Walker)

// WithRoot sets the context used when a call passes a nil context.
func WithRoot(root *dom.Selection) Option {
	return func(w *Walker) {
		w.root = root
	}
}

// WithSettings sets the tree used when a call passes a zero settings tree.
func WithSettings(tree settings.Tree) Option {
	return func(w *Walker) {
		w.tree = tree
	}
}

// New creates a Walker over source.
func New(source Source, opts ...Option) *Walker {
	w := &Walker{source: source}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// defaults fills in the walker's root and tree for arguments the caller left
// empty.
func (w *Walker) defaults(scope *dom.Selection, tree settings.Tree) (*dom.Selection, settings.Tree, error) {
	if scope == nil {
		scope = w.root
	}
	if scope == nil {
		return nil, tree, errors.New("no attach context given and the walker has no default root")
	}
	if tree.IsZero() {
		tree = w.tree
	}
	return scope, tree, nil
}

// AttachAll attaches every invokable behavior once, in registration order.
// The returned report is complete even when err is not nil; err joins the
// failures of all behaviors whose attach routine returned an error.
func (w *Walker) AttachAll(ctx context.Context, scope *dom.Selection, tree settings.Tree) (*Report, error) {
	scope, tree, err := w.defaults(scope, tree)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	behaviors := w.source.Behaviors()
	logger.Debug("Attaching behaviors.", "count", len(behaviors))

	report := &Report{}
	var errs []error
	for _, b := range behaviors {
		outcome := w.attach(ctx, b, scope, tree)
		report.add(outcome)
		if outcome.Err != nil {
			errs = append(errs, outcome.Err)
		}
	}

	logger.Debug("Attach cycle finished.", "ran", report.Count(StatusRan), "skipped", report.Count(StatusSkipped), "failed", report.Count(StatusFailed))
	return report, errors.Join(errs...)
}

// AttachOne attaches the named behavior only.
func (w *Walker) AttachOne(ctx context.Context, name string, scope *dom.Selection, tree settings.Tree) (*Outcome, error) {
	b, ok := w.source.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrBehaviorNotFound, name)
	}
	if !b.Invokable() {
		return nil, fmt.Errorf("%w: '%s'", ErrNotInvokable, name)
	}

	scope, tree, err := w.defaults(scope, tree)
	if err != nil {
		return nil, err
	}

	outcome := w.attach(ctx, b, scope, tree)
	return outcome, outcome.Err
}

// attach runs a single behavior and records what happened. Only errors from
// the preprocessing step are treated as a skip.
func (w *Walker) attach(ctx context.Context, b *behavior.Behavior, scope *dom.Selection, tree settings.Tree) *Outcome {
	logger := ctxlog.FromContext(ctx).With("behavior", b.Name)
	outcome := &Outcome{Behavior: b.Name}

	if !b.Invokable() {
		logger.Debug("Behavior has no attach routine.")
		outcome.Status = StatusNotInvokable
		return outcome
	}

	at := &behavior.Attachment{Context: scope, Settings: tree}
	if b.Preprocessed() {
		prepared, err := behavior.Preprocess(ctx, b, scope, tree)
		if err != nil {
			var perr *behavior.PreprocessError
			if errors.As(err, &perr) {
				if perr.Debug {
					logger.Warn("Behavior skipped.", "reason", perr.Reason())
				}
				outcome.Status = StatusSkipped
				outcome.Reason = perr.Reason()
				return outcome
			}
			outcome.Status = StatusFailed
			outcome.Err = &BehaviorError{Name: b.Name, Err: err}
			return outcome
		}
		at = prepared.Attachment(scope, tree)
	}

	if err := b.Attach(ctxlog.WithLogger(ctx, logger), at); err != nil {
		logger.Debug("Attach routine failed.", "error", err)
		outcome.Status = StatusFailed
		outcome.Err = &BehaviorError{Name: b.Name, Err: err}
		return outcome
	}

	logger.Debug("Behavior attached.")
	outcome.Status = StatusRan
	return outcome
}

// DetachOne runs the named behavior's detach routine. A behavior without one
// is left alone.
func (w *Walker) DetachOne(ctx context.Context, name string, scope *dom.Selection, tree settings.Tree, trigger behavior.Trigger) error {
	b, ok := w.source.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrBehaviorNotFound, name)
	}

	scope, tree, err := w.defaults(scope, tree)
	if err != nil {
		return err
	}
	return w.detach(ctx, b, scope, tree, trigger)
}

// DetachAll runs the detach routine of every behavior that has one, in
// registration order. Failures are joined.
func (w *Walker) DetachAll(ctx context.Context, scope *dom.Selection, tree settings.Tree, trigger behavior.Trigger) error {
	scope, tree, err := w.defaults(scope, tree)
	if err != nil {
		return err
	}

	var errs []error
	for _, b := range w.source.Behaviors() {
		if err := w.detach(ctx, b, scope, tree, trigger); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *Walker) detach(ctx context.Context, b *behavior.Behavior, scope *dom.Selection, tree settings.Tree, trigger behavior.Trigger) error {
	logger := ctxlog.FromContext(ctx).With("behavior", b.Name)
	if b.Detach == nil {
		logger.Debug("Behavior has no detach routine.")
		return nil
	}
	if trigger == "" {
		trigger = behavior.TriggerUnload
	}

	logger.Debug("Detaching behavior.", "trigger", trigger)
	if err := b.Detach(ctxlog.WithLogger(ctx, logger), scope, tree, trigger); err != nil {
		return &BehaviorError{Name: b.Name, Err: err}
	}
	return nil
}
