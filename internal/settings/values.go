package settings

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// DebugKey is the resolved-settings key that enables diagnostics for a
// behavior.
const DebugKey = "debug"

// Values is a flat set of resolved settings for one behavior in one attach
// cycle.
type Values map[string]cty.Value

// Defaults returns the built-in settings every preprocessed behavior starts
// from.
func Defaults() Values {
	return Values{DebugKey: cty.False}
}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Merge copies every key of other onto v. Keys present in both take the
// value from other.
func (v Values) Merge(other Values) {
	for k, val := range other {
		v[k] = val
	}
}

// Get returns the value stored under key.
func (v Values) Get(key string) (cty.Value, bool) {
	val, ok := v[key]
	if !ok || val.IsNull() {
		return cty.NilVal, false
	}
	return val, true
}

// String returns the value under key converted to a string.
func (v Values) String(key string) (string, bool) {
	val, ok := v.Get(key)
	if !ok || !val.IsKnown() {
		return "", false
	}
	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", false
	}
	return s.AsString(), true
}

// Bool returns the value under key converted to a bool. Strings such as
// "true" convert; anything unconvertible reports false.
func (v Values) Bool(key string) (bool, bool) {
	val, ok := v.Get(key)
	if !ok || !val.IsKnown() {
		return false, false
	}
	b, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, false
	}
	return b.True(), true
}

// Debug reports whether diagnostics are enabled.
func (v Values) Debug() bool {
	b, _ := v.Bool(DebugKey)
	return b
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Object returns v as a cty object value.
func (v Values) Object() cty.Value {
	if len(v) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(map[string]cty.Value(v))
}

// JSON renders v as a JSON object.
func (v Values) JSON() ([]byte, error) {
	obj := v.Object()
	return ctyjson.Marshal(obj, obj.Type())
}
