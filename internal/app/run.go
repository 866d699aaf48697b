package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/walker"
)

// Attach runs one attach cycle against the configured page and writes the
// report. With a behavior configured only that behavior is attached.
func (a *App) Attach(ctx context.Context) (*walker.Report, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Attach started.", "page", a.config.Page)

	p, err := a.loadPage()
	if err != nil {
		return nil, err
	}
	w := walker.New(a.registry, walker.WithRoot(p.scope), walker.WithSettings(p.tree))

	var report *walker.Report
	var runErr error
	if a.config.Behavior != "" {
		outcome, err := w.AttachOne(ctx, a.config.Behavior, nil, p.tree)
		if outcome == nil {
			return nil, err
		}
		report = &walker.Report{Outcomes: []*walker.Outcome{outcome}}
		runErr = err
	} else {
		report, runErr = w.AttachAll(ctx, nil, p.tree)
	}

	if _, err := report.WriteTo(a.outW); err != nil {
		return report, fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Attach cycle finished.", "ran", report.Count(walker.StatusRan), "skipped", report.Count(walker.StatusSkipped), "failed", report.Count(walker.StatusFailed))
	return report, runErr
}

// Detach runs the configured trigger's detach routines.
func (a *App) Detach(ctx context.Context) error {
	ctx = a.Context(ctx)
	trigger := a.config.DetachTrigger()
	ctxlog.FromContext(ctx).Debug("App.Detach started.", "page", a.config.Page, "trigger", trigger)

	p, err := a.loadPage()
	if err != nil {
		return err
	}
	w := walker.New(a.registry, walker.WithRoot(p.scope), walker.WithSettings(p.tree))

	if a.config.Behavior != "" {
		err = w.DetachOne(ctx, a.config.Behavior, nil, p.tree, trigger)
	} else {
		err = w.DetachAll(ctx, nil, p.tree, trigger)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "detached (trigger: %s)\n", trigger)
	return nil
}

// Validate lists the registered behaviors. Manifests are already loaded and
// validated by NewApp, so reaching this point means they are consistent.
func (a *App) Validate(ctx context.Context) error {
	ctxlog.FromContext(a.Context(ctx)).Debug("App.Validate started.")

	tw := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BEHAVIOR\tPREPROCESS\tATTACH\tDETACH\tSOURCE")
	for _, b := range a.registry.Behaviors() {
		source := b.Source
		if source == "" {
			source = "(go)"
		}
		fmt.Fprintf(tw, "%s\t%t\t%t\t%t\t%s\n", b.Name, b.Preprocessed(), b.Invokable(), b.Detach != nil, source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.outW, "%d behaviors OK\n", a.registry.Len())
	return nil
}
