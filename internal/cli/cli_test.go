package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/settings"
	"github.com/specialistvlad/behaviorkit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body><form id="user-login-form"></form></body></html>`

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %v", err)
	return exitErr.Code
}

func TestExecute_Attach(t *testing.T) {
	t.Parallel()
	dir := testutil.WriteFiles(t, map[string]string{
		testutil.PageFile:    page,
		"behaviors/form.hcl": `
		behavior "form" {
			preprocess = true
			element "form" {
				selector = "#user-login-form"
				required = true
			}
			lifecycle { on_attach = "OnAttachForm" }
		}`,
	})

	calls := 0
	module := &testutil.SimpleModule{
		Attach: map[string]behavior.AttachFunc{
			"OnAttachForm": func(context.Context, *behavior.Attachment) error {
				calls++
				return nil
			},
		},
	}

	cfg := testutil.Config(dir)
	out := &bytes.Buffer{}
	err := Execute(context.Background(), []string{"attach", "-p", cfg.Page, "-m", cfg.Manifests, "--log-level", "warn"}, out, &bytes.Buffer{}, module)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, out.String(), "form: ran")
}

func TestExecute_Errors(t *testing.T) {
	t.Parallel()
	dir := testutil.WriteFiles(t, map[string]string{testutil.PageFile: page})
	cfg := testutil.Config(dir)

	cases := []struct {
		name     string
		args     []string
		module   *testutil.SimpleModule
		wantCode int
		contains string
	}{
		{
			name:     "missing page",
			args:     []string{"attach", "-m", dir},
			wantCode: ExitUsage,
			contains: "a page is required",
		},
		{
			name:     "bad log level",
			args:     []string{"attach", "-p", cfg.Page, "--log-level", "loud"},
			wantCode: ExitUsage,
			contains: "invalid log level",
		},
		{
			name:     "bad trigger",
			args:     []string{"detach", "-p", cfg.Page, "--trigger", "reload"},
			wantCode: ExitUsage,
			contains: "unknown detach trigger",
		},
		{
			name:     "unknown command",
			args:     []string{"explode"},
			wantCode: ExitUsage,
			contains: "unknown command",
		},
		{
			name: "attach routine fails",
			args: []string{"attach", "-p", cfg.Page, "-m", dir},
			module: &testutil.SimpleModule{Behaviors: []*behavior.Behavior{{
				Name:   "broken",
				Attach: func(context.Context, *behavior.Attachment) error { return errors.New("boom") },
			}}},
			wantCode: ExitFailure,
			contains: "boom",
		},
		{
			name:     "missing manifests directory",
			args:     []string{"validate", "-m", dir + "/absent"},
			wantCode: ExitFailure,
			contains: "startup failed",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			module := tc.module
			if module == nil {
				module = &testutil.SimpleModule{}
			}
			err := Execute(context.Background(), tc.args, &bytes.Buffer{}, &bytes.Buffer{}, module)
			require.Error(t, err)
			assert.Equal(t, tc.wantCode, exitCode(t, err))
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestExecute_DetachOne(t *testing.T) {
	t.Parallel()
	dir := testutil.WriteFiles(t, map[string]string{testutil.PageFile: page})
	cfg := testutil.Config(dir)

	var got behavior.Trigger
	module := &testutil.SimpleModule{Behaviors: []*behavior.Behavior{{
		Name: "x",
		Detach: func(_ context.Context, _ *dom.Selection, _ settings.Tree, trigger behavior.Trigger) error {
			got = trigger
			return nil
		},
	}}}

	out := &bytes.Buffer{}
	err := Execute(context.Background(), []string{"detach", "-p", cfg.Page, "-m", dir, "-b", "x", "--trigger", "serialize"}, out, &bytes.Buffer{}, module)
	require.NoError(t, err)
	assert.Equal(t, behavior.TriggerSerialize, got)
	assert.Equal(t, "detached (trigger: serialize)\n", out.String())
}

func TestOverrides(t *testing.T) {
	t.Parallel()
	root := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, root.PersistentFlags().Parse([]string{"--log-level", "debug", "--config", "x.yaml", "-p", "page.html"}))

	assert.Equal(t, map[string]any{"log_level": "debug", "page": "page.html"}, overrides(root.PersistentFlags()))
}
