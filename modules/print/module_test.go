package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/dom"
	"github.com/specialistvlad/behaviorkit/internal/registry"
	"github.com/specialistvlad/behaviorkit/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestOnAttachPrint(t *testing.T) {
	t.Parallel()
	doc, err := dom.ParseString(`<ul><li>a</li><li>b</li></ul>`)
	require.NoError(t, err)

	pre := &behavior.Preprocessing{
		Settings: settings.Values{
			"name":  cty.StringVal("Chris"),
			"count": cty.NumberIntVal(3),
		},
	}
	pre.Elements.MustDeclare("items", behavior.Element{Selector: "li"})
	b := &behavior.Behavior{Name: "p", Preprocess: pre}

	prepared, err := behavior.Preprocess(context.Background(), b, doc.Root(), settings.EmptyTree())
	require.NoError(t, err)

	var out bytes.Buffer
	m := &Module{Out: &out}
	require.NoError(t, m.OnAttachPrint(context.Background(), prepared.Attachment(doc.Root(), settings.EmptyTree())))

	want := "      context: 1 node(s)\n" +
		"      count = 3\n" +
		"      debug = false\n" +
		"      name = \"Chris\"\n" +
		"      element items: 2 match(es)\n"
	assert.Equal(t, want, out.String())
}

func TestOnAttachPrint_Direct(t *testing.T) {
	t.Parallel()
	doc, err := dom.ParseString(`<p></p>`)
	require.NoError(t, err)

	var out bytes.Buffer
	m := &Module{Out: &out}
	require.NoError(t, m.OnAttachPrint(context.Background(), &behavior.Attachment{Context: doc.Root()}))
	assert.Equal(t, "      context: 1 node(s)\n      (not preprocessed)\n", out.String())
}

func TestRegister(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	r := registry.New()
	(&Module{Out: &out}).Register(r)

	_, ok := r.AttachHandler("OnAttachPrint")
	assert.True(t, ok)
	detach, ok := r.DetachHandler("OnDetachPrint")
	require.True(t, ok)

	require.NoError(t, detach(context.Background(), nil, settings.Tree{}, behavior.TriggerMove))
	assert.Equal(t, "      detached: move\n", out.String())
}
