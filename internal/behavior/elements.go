package behavior

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/behaviorkit/internal/dom"
)

// ErrDuplicateElement is returned when an element name is declared twice.
var ErrDuplicateElement = errors.New("duplicate element declaration")

// Element describes one DOM dependency of a behavior.
type Element struct {
	Selector string
	Required bool
	// Context names an element declared earlier in the same behavior. When
	// set, the selector runs against that element's matches instead of the
	// attach context.
	Context string
}

// Elements is an ordered set of element declarations keyed by name. The zero
// value is empty and ready to use.
type Elements struct {
	names []string
	specs map[string]Element
}

// Declare appends a named element.
func (e *Elements) Declare(name string, el Element) error {
	if name == "" {
		return errors.New("element name must not be empty")
	}
	if e.specs == nil {
		e.specs = make(map[string]Element)
	}
	if _, exists := e.specs[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateElement, name)
	}
	e.names = append(e.names, name)
	e.specs[name] = el
	return nil
}

// MustDeclare is like Declare but panics on error.
func (e *Elements) MustDeclare(name string, el Element) *Elements {
	if err := e.Declare(name, el); err != nil {
		panic(err)
	}
	return e
}

// Names returns the element names in declaration order.
func (e *Elements) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Lookup returns the declaration for name.
func (e *Elements) Lookup(name string) (Element, bool) {
	el, ok := e.specs[name]
	return el, ok
}

// Len returns the number of declared elements.
func (e *Elements) Len() int {
	return len(e.names)
}

func (e *Elements) position(name string) int {
	for i, n := range e.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Accessor looks up a behavior's declared elements on demand. Every call
// re-runs the query, so changes made to the document after preprocessing are
// visible.
type Accessor struct {
	behavior string
	decl     *Elements
	scope    *dom.Selection
}

func newAccessor(behavior string, decl *Elements, scope *dom.Selection) *Accessor {
	return &Accessor{behavior: behavior, decl: decl, scope: scope}
}

// Get returns the current matches for a declared element. Asking for a name
// that was never declared always fails with ErrUndeclaredElement.
func (a *Accessor) Get(name string) (*dom.Selection, error) {
	if _, ok := a.decl.Lookup(name); !ok {
		return nil, &PreprocessError{
			Behavior: a.behavior,
			Kind:     ErrUndeclaredElement,
			Element:  name,
		}
	}
	return query(a.behavior, a.decl, a.scope, name, nil)
}

// Names returns the declared element names in declaration order.
func (a *Accessor) Names() []string {
	return a.decl.Names()
}

// query runs the selector for name. resolved caches matches of earlier
// elements within a single pass and may be nil.
func query(behavior string, decl *Elements, scope *dom.Selection, name string, resolved map[string]*dom.Selection) (*dom.Selection, error) {
	el, _ := decl.Lookup(name)

	search := scope
	if el.Context != "" {
		if decl.position(el.Context) < 0 || decl.position(el.Context) >= decl.position(name) {
			return nil, &PreprocessError{
				Behavior: behavior,
				Kind:     ErrForwardReference,
				Element:  name,
				Detail:   fmt.Sprintf("context %q is not declared before it", el.Context),
			}
		}

		if parent, ok := resolved[el.Context]; ok {
			search = parent
		} else {
			parent, err := query(behavior, decl, scope, el.Context, resolved)
			if err != nil {
				return nil, err
			}
			search = parent
		}
	}

	found, err := search.Query(el.Selector)
	if err != nil {
		return nil, &PreprocessError{
			Behavior: behavior,
			Kind:     ErrInvalidSelector,
			Element:  name,
			Err:      err,
		}
	}
	return found, nil
}
