package integration_tests

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/settings"
	"github.com/specialistvlad/behaviorkit/internal/testutil"
	"github.com/specialistvlad/behaviorkit/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModuleContract_PureGoBehaviors validates that behaviors declared
// entirely in Go, without manifests, run in registration order alongside
// manifest behaviors and keep their own semantics.
func TestModuleContract_PureGoBehaviors(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var order []string
	var direct *behavior.Attachment

	pre := &behavior.Preprocessing{}
	pre.Elements.MustDeclare("nav", behavior.Element{Selector: "nav", Required: true})

	module := &testutil.SimpleModule{
		Attach: map[string]behavior.AttachFunc{
			"OnAttachManifest": func(context.Context, *behavior.Attachment) error {
				order = append(order, "manifest")
				return nil
			},
		},
		Behaviors: []*behavior.Behavior{
			{
				Name: "direct",
				Attach: func(_ context.Context, at *behavior.Attachment) error {
					order = append(order, "direct")
					direct = at
					return nil
				},
			},
			{
				Name:       "needsNav",
				Preprocess: pre,
				Attach: func(context.Context, *behavior.Attachment) error {
					order = append(order, "needsNav")
					return nil
				},
			},
			{
				Name:       "undeclared",
				Preprocess: &behavior.Preprocessing{},
				Attach: func(_ context.Context, at *behavior.Attachment) error {
					_, err := at.Elements.Get("sidebar")
					return err
				},
			},
		},
	}
	files := map[string]string{
		testutil.PageFile:        `<html><body><p>no navigation</p></body></html>`,
		"behaviors/manifest.hcl": `
			behavior "manifest" {
				lifecycle {
					on_attach = "OnAttachManifest"
				}
			}`,
	}

	// --- Act ---
	result := testutil.RunAttach(t, files, module)

	// --- Assert ---
	assert.Equal(t, []string{"direct", "manifest"}, order)
	require.NotNil(t, direct)
	assert.Nil(t, direct.Resolved)
	assert.Nil(t, direct.Elements)

	testutil.AssertOutcome(t, result, "needsNav", walker.StatusSkipped)
	testutil.AssertOutcome(t, result, "undeclared", walker.StatusFailed)

	require.Error(t, result.Err, "errors raised inside an attach routine are never skips")
	assert.True(t, errors.Is(result.Err, behavior.ErrUndeclaredElement))
	var berr *walker.BehaviorError
	require.ErrorAs(t, result.Err, &berr)
	assert.Equal(t, "undeclared", berr.Name)
}

// TestModuleContract_DetachWithoutRoutine validates that detaching a
// behavior without a detach routine does nothing.
func TestModuleContract_DetachWithoutRoutine(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	var detached []string
	module := &testutil.SimpleModule{
		Behaviors: []*behavior.Behavior{
			{Name: "noDetach", Attach: func(context.Context, *behavior.Attachment) error { return nil }},
			{Name: "withDetach", Detach: func(_ context.Context, _ *dom.Selection, _ settings.Tree, trigger behavior.Trigger) error {
				detached = append(detached, string(trigger))
				return nil
			}},
		},
	}

	result, _, _ := testutil.NewApp(t, map[string]string{testutil.PageFile: `<p></p>`}, module)
	require.NoError(t, result.Err)

	// --- Act ---
	err := result.App.Detach(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"unload"}, detached)
}
