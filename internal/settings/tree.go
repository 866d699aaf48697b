package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ErrNotObject is returned when a settings path resolves to a value that is
// not an object.
var ErrNotObject = errors.New("settings path resolves to a non-object")

// PathSeparator separates the segments of a settings path.
const PathSeparator = "."

// Tree is an immutable, nested settings structure. The zero Tree is valid and
// behaves like an empty object.
type Tree struct {
	root cty.Value
	set  bool
}

// NewTree wraps a cty value as a settings tree. The value should be an object
// or a map; anything else yields a tree in which every lookup misses.
func NewTree(v cty.Value) Tree {
	return Tree{root: v, set: true}
}

// EmptyTree returns a tree with no keys.
func EmptyTree() Tree {
	return NewTree(cty.EmptyObjectVal)
}

// ParseJSON decodes a JSON document into a tree. The document must be an
// object.
func ParseJSON(data []byte) (Tree, error) {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return Tree{}, fmt.Errorf("failed to infer settings type: %w", err)
	}
	if !ty.IsObjectType() {
		return Tree{}, fmt.Errorf("settings document must be a JSON object, got %s", ty.FriendlyName())
	}
	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return Tree{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return NewTree(val), nil
}

// FromMap converts a plain Go map (as produced by encoding/json) into a tree.
func FromMap(m map[string]any) (Tree, error) {
	if m == nil {
		return EmptyTree(), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return Tree{}, fmt.Errorf("failed to encode settings map: %w", err)
	}
	return ParseJSON(data)
}

// MustFromMap is like FromMap but panics on error. Intended for tests and
// static declarations.
func MustFromMap(m map[string]any) Tree {
	t, err := FromMap(m)
	if err != nil {
		panic(err)
	}
	return t
}

// IsZero reports whether the tree was never initialised.
func (t Tree) IsZero() bool {
	return !t.set
}

// Value returns the underlying cty value. A zero tree returns an empty object.
func (t Tree) Value() cty.Value {
	if !t.set {
		return cty.EmptyObjectVal
	}
	return t.root
}

// Lookup walks the dot-separated path through nested objects and maps. The
// boolean result is false when any segment is absent. A null value counts as
// absent.
func (t Tree) Lookup(path string) (cty.Value, bool) {
	cur := t.Value()
	for _, segment := range strings.Split(path, PathSeparator) {
		next, ok := child(cur, segment)
		if !ok {
			return cty.NilVal, false
		}
		cur = next
	}
	return cur, true
}

// Resolve looks up path and returns its attributes as Values. An empty path
// means no resolution was requested and reports not found. A path that
// resolves to anything other than an object or map returns ErrNotObject.
func (t Tree) Resolve(path string) (Values, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	val, ok := t.Lookup(path)
	if !ok {
		return nil, false, nil
	}
	if !IsMapping(val) {
		return nil, true, fmt.Errorf("%w: %q is %s", ErrNotObject, path, val.Type().FriendlyName())
	}
	return valuesOf(val), true, nil
}

// Overlay returns a new tree where the top-level keys of other replace the
// keys of t.
func (t Tree) Overlay(other Tree) Tree {
	merged := make(map[string]cty.Value)
	for k, v := range valuesOf(t.Value()) {
		merged[k] = v
	}
	for k, v := range valuesOf(other.Value()) {
		merged[k] = v
	}
	return NewTree(cty.ObjectVal(merged))
}

// JSON renders the tree as a JSON document.
func (t Tree) JSON() ([]byte, error) {
	v := t.Value()
	return ctyjson.Marshal(v, v.Type())
}

// IsMapping reports whether v is a known, non-null object or map.
func IsMapping(v cty.Value) bool {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return false
	}
	ty := v.Type()
	return ty.IsObjectType() || ty.IsMapType()
}

func child(v cty.Value, key string) (cty.Value, bool) {
	if !IsMapping(v) {
		return cty.NilVal, false
	}

	var c cty.Value
	ty := v.Type()
	if ty.IsObjectType() {
		if !ty.HasAttribute(key) {
			return cty.NilVal, false
		}
		c = v.GetAttr(key)
	} else {
		k := cty.StringVal(key)
		if !v.HasIndex(k).True() {
			return cty.NilVal, false
		}
		c = v.Index(k)
	}

	if c.IsNull() {
		return cty.NilVal, false
	}
	return c, true
}

func valuesOf(v cty.Value) Values {
	out := make(Values)
	if !IsMapping(v) || v.LengthInt() == 0 {
		return out
	}
	for k, item := range v.AsValueMap() {
		out[k] = item
	}
	return out
}
