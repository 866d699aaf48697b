package walker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/registry"
	"github.com/specialistvlad/behaviorkit/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const anonymousPage = `<html><body>
<nav><a href="/user/login">Log in</a></nav>
<div id="content"><p class="intro">Welcome</p></div>
</body></html>`

const loginPage = `<html><body>
<form id="user-login-form"><input type="submit" value="Log in"></form>
</body></html>`

func mustRoot(t *testing.T, src string) *dom.Selection {
	t.Helper()
	doc, err := dom.ParseString(src)
	require.NoError(t, err)
	return doc.Root()
}

// logContext returns a context whose logger writes text records to the
// returned buffer.
func logContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	return ctxlog.WithLogger(context.Background(), logger), &buf
}

func newRegistry(t *testing.T, behaviors ...*behavior.Behavior) *registry.Registry {
	t.Helper()
	r := registry.New()
	for _, b := range behaviors {
		require.NoError(t, r.Register(b))
	}
	return r
}

func loginFormBehavior(debug bool, calls *int) *behavior.Behavior {
	pre := &behavior.Preprocessing{
		Settings: settings.Values{"debug": cty.BoolVal(debug)},
	}
	pre.Elements.MustDeclare("form", behavior.Element{Selector: "#user-login-form", Required: true})
	return &behavior.Behavior{
		Name:       "loginForm",
		Preprocess: pre,
		Attach: func(context.Context, *behavior.Attachment) error {
			*calls++
			return nil
		},
	}
}

func TestAttachAll_DirectInvocation(t *testing.T) {
	t.Parallel()
	root := mustRoot(t, anonymousPage)
	tree := settings.MustFromMap(map[string]any{"path": map[string]any{"baseUrl": "/"}})

	var got *behavior.Attachment
	w := New(newRegistry(t, &behavior.Behavior{
		Name: "plain",
		Attach: func(_ context.Context, at *behavior.Attachment) error {
			got = at
			return nil
		},
	}))

	report, err := w.AttachAll(context.Background(), root, tree)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Same(t, root, got.Context)
	assert.True(t, got.Settings.Value().Equals(tree.Value()).True())
	assert.Nil(t, got.Resolved, "direct behaviors get no resolved settings")
	assert.Nil(t, got.Elements)

	o, ok := report.Outcome("plain")
	require.True(t, ok)
	assert.Equal(t, StatusRan, o.Status)
}

func TestAttachAll_MissingRequiredElement(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		page     string
		debug    bool
		wantRuns int
		wantWarn bool
	}{
		{name: "missing without debug", page: anonymousPage, debug: false, wantRuns: 0, wantWarn: false},
		{name: "missing with debug", page: anonymousPage, debug: true, wantRuns: 0, wantWarn: true},
		{name: "present", page: loginPage, debug: true, wantRuns: 1, wantWarn: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, logs := logContext(t)
			calls := 0
			w := New(newRegistry(t, loginFormBehavior(tc.debug, &calls)))

			report, err := w.AttachAll(ctx, mustRoot(t, tc.page), settings.EmptyTree())
			require.NoError(t, err, "a skipped behavior is not an error")
			assert.Equal(t, tc.wantRuns, calls)

			if tc.wantWarn {
				assert.Contains(t, logs.String(), "level=WARN")
				assert.Contains(t, logs.String(), "behavior=loginForm")
				assert.Contains(t, logs.String(), "#user-login-form")
			} else {
				assert.Empty(t, logs.String())
			}

			o, _ := report.Outcome("loginForm")
			if tc.wantRuns == 0 {
				assert.Equal(t, StatusSkipped, o.Status)
				assert.Contains(t, o.Reason, "required element not found")
			} else {
				assert.Equal(t, StatusRan, o.Status)
			}
		})
	}
}

func TestAttachAll_SettingsPathResolution(t *testing.T) {
	t.Parallel()
	tree := settings.MustFromMap(map[string]any{
		"myModule": map[string]any{
			"myBehaviorSettings": map[string]any{"staticValue": "Chris"},
			"notAnObject":        5,
		},
	})

	cases := []struct {
		name       string
		path       string
		wantStatus Status
		wantStatic string
	}{
		{name: "resolves", path: "myModule.myBehaviorSettings", wantStatus: StatusRan, wantStatic: "Chris"},
		{name: "missing leaf still attaches", path: "myModule.other", wantStatus: StatusRan},
		{name: "missing root still attaches", path: "otherModule.settings", wantStatus: StatusRan},
		{name: "non-object is skipped", path: "myModule.notAnObject", wantStatus: StatusSkipped},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var resolved settings.Values
			w := New(newRegistry(t, &behavior.Behavior{
				Name:       "myBehavior",
				Preprocess: &behavior.Preprocessing{SettingsPath: tc.path},
				Attach: func(_ context.Context, at *behavior.Attachment) error {
					resolved = at.Resolved
					return nil
				},
			}))

			report, err := w.AttachAll(context.Background(), mustRoot(t, anonymousPage), tree)
			require.NoError(t, err)
			o, _ := report.Outcome("myBehavior")
			assert.Equal(t, tc.wantStatus, o.Status)

			if tc.wantStatus != StatusRan {
				assert.Nil(t, resolved)
				return
			}
			require.NotNil(t, resolved)
			assert.False(t, resolved.Debug())
			static, ok := resolved.String("staticValue")
			assert.Equal(t, tc.wantStatic != "", ok)
			assert.Equal(t, tc.wantStatic, static)
		})
	}
}

func TestAttachAll_ErrorsPropagate(t *testing.T) {
	t.Parallel()
	errBoom := errors.New("boom")
	var order []string

	record := func(name string, err error) behavior.AttachFunc {
		return func(context.Context, *behavior.Attachment) error {
			order = append(order, name)
			return err
		}
	}

	undeclared := &behavior.Behavior{
		Name:       "undeclared",
		Preprocess: &behavior.Preprocessing{},
		Attach: func(_ context.Context, at *behavior.Attachment) error {
			order = append(order, "undeclared")
			_, err := at.Elements.Get("nope")
			return err
		},
	}

	w := New(newRegistry(t,
		&behavior.Behavior{Name: "first", Attach: record("first", errBoom)},
		undeclared,
		&behavior.Behavior{Name: "noop"},
		&behavior.Behavior{Name: "last", Attach: record("last", nil)},
	))

	report, err := w.AttachAll(context.Background(), mustRoot(t, anonymousPage), settings.EmptyTree())
	require.Error(t, err)
	assert.Equal(t, []string{"first", "undeclared", "last"}, order, "remaining behaviors still run")

	assert.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, err, behavior.ErrUndeclaredElement, "errors from inside an attach routine are not skips")

	var berr *BehaviorError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, "first", berr.Name)

	assert.Equal(t, 2, report.Count(StatusFailed))
	assert.Equal(t, 1, report.Count(StatusRan))
	assert.Equal(t, 1, report.Count(StatusNotInvokable))
}

func TestAttachAll_PerCycleState(t *testing.T) {
	t.Parallel()
	pre := &behavior.Preprocessing{SettingsPath: "mod"}
	pre.Elements.MustDeclare("intro", behavior.Element{Selector: "p.intro"})

	var seen []string
	var counts []int
	b := &behavior.Behavior{
		Name:       "cycle",
		Preprocess: pre,
		Attach: func(_ context.Context, at *behavior.Attachment) error {
			v, _ := at.Resolved.String("value")
			seen = append(seen, v)
			intro, err := at.Elements.Get("intro")
			if err != nil {
				return err
			}
			counts = append(counts, intro.Len())
			return nil
		},
	}
	w := New(newRegistry(t, b))
	ctx := context.Background()

	_, err := w.AttachAll(ctx, mustRoot(t, anonymousPage), settings.MustFromMap(map[string]any{"mod": map[string]any{"value": "one"}}))
	require.NoError(t, err)
	_, err = w.AttachAll(ctx, mustRoot(t, loginPage), settings.MustFromMap(map[string]any{"mod": map[string]any{"value": "two"}}))
	require.NoError(t, err)

	assert.Equal(t, []string{"one", "two"}, seen)
	assert.Equal(t, []int{1, 0}, counts)
	assert.Empty(t, pre.Settings, "declared settings are never written to")
}

func TestAttachAll_Defaults(t *testing.T) {
	t.Parallel()
	root := mustRoot(t, anonymousPage)
	tree := settings.MustFromMap(map[string]any{"k": "v"})

	var got *behavior.Attachment
	reg := newRegistry(t, &behavior.Behavior{
		Name: "plain",
		Attach: func(_ context.Context, at *behavior.Attachment) error {
			got = at
			return nil
		},
	})

	_, err := New(reg).AttachAll(context.Background(), nil, settings.Tree{})
	assert.Error(t, err, "no context and no default root")

	_, err = New(reg, WithRoot(root), WithSettings(tree)).AttachAll(context.Background(), nil, settings.Tree{})
	require.NoError(t, err)
	assert.Same(t, root, got.Context)
	v, ok := got.Settings.Lookup("k")
	require.True(t, ok)
	assert.Equal(t, "v", v.AsString())
}

func TestAttachOne(t *testing.T) {
	t.Parallel()
	calls := 0
	w := New(newRegistry(t,
		loginFormBehavior(false, &calls),
		&behavior.Behavior{Name: "noop"},
	), WithRoot(mustRoot(t, loginPage)))
	ctx := context.Background()

	_, err := w.AttachOne(ctx, "missing", nil, settings.Tree{})
	assert.ErrorIs(t, err, ErrBehaviorNotFound)

	_, err = w.AttachOne(ctx, "noop", nil, settings.Tree{})
	assert.ErrorIs(t, err, ErrNotInvokable)

	o, err := w.AttachOne(ctx, "loginForm", nil, settings.Tree{})
	require.NoError(t, err)
	assert.Equal(t, StatusRan, o.Status)
	assert.Equal(t, 1, calls)

	o, err = w.AttachOne(ctx, "loginForm", mustRoot(t, anonymousPage), settings.Tree{})
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, o.Status)
	assert.Equal(t, 1, calls)
}

func TestDetach(t *testing.T) {
	t.Parallel()
	var triggers []string
	detacher := func(name string) behavior.DetachFunc {
		return func(_ context.Context, _ *dom.Selection, _ settings.Tree, trigger behavior.Trigger) error {
			triggers = append(triggers, name+":"+string(trigger))
			return nil
		}
	}
	errDetach := errors.New("detach failed")

	w := New(newRegistry(t,
		&behavior.Behavior{Name: "a", Detach: detacher("a")},
		&behavior.Behavior{Name: "none"},
		&behavior.Behavior{Name: "b", Detach: detacher("b")},
		&behavior.Behavior{Name: "broken", Detach: func(context.Context, *dom.Selection, settings.Tree, behavior.Trigger) error {
			return errDetach
		}},
	), WithRoot(mustRoot(t, anonymousPage)))
	ctx := context.Background()

	assert.NoError(t, w.DetachOne(ctx, "none", nil, settings.Tree{}, ""), "no detach routine is a no-op")
	assert.ErrorIs(t, w.DetachOne(ctx, "missing", nil, settings.Tree{}, ""), ErrBehaviorNotFound)

	require.NoError(t, w.DetachOne(ctx, "a", nil, settings.Tree{}, ""))
	assert.Equal(t, []string{"a:unload"}, triggers)

	triggers = nil
	err := w.DetachAll(ctx, nil, settings.Tree{}, behavior.TriggerSerialize)
	assert.ErrorIs(t, err, errDetach)
	assert.Equal(t, []string{"a:serialize", "b:serialize"}, triggers)
}

func TestReportWriteTo(t *testing.T) {
	t.Parallel()
	r := &Report{}
	r.add(&Outcome{Behavior: "a", Status: StatusRan})
	r.add(&Outcome{Behavior: "b", Status: StatusSkipped, Reason: "required element not found"})
	r.add(&Outcome{Behavior: "c", Status: StatusFailed, Err: errors.New("boom")})
	r.add(&Outcome{Behavior: "d", Status: StatusNotInvokable})

	var sb strings.Builder
	_, err := r.WriteTo(&sb)
	require.NoError(t, err)

	want := "a: ran\n" +
		"b: skipped (required element not found)\n" +
		"c: failed (boom)\n" +
		"d: not invokable\n" +
		"4 behaviors: 1 ran, 1 skipped, 1 failed, 1 not invokable\n"
	assert.Equal(t, want, sb.String())
}
