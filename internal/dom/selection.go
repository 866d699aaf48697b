package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// XPathPrefix marks a selector as an XPath expression.
const XPathPrefix = "xpath:"

// ErrInvalidSelector is returned when a selector cannot be compiled.
var ErrInvalidSelector = errors.New("invalid selector")

// Selection is an ordered set of nodes.
type Selection struct {
	sel *goquery.Selection
}

func wrap(sel *goquery.Selection) *Selection {
	return &Selection{sel: sel}
}

// Len returns the number of nodes in the selection.
func (s *Selection) Len() int {
	if s == nil || s.sel == nil {
		return 0
	}
	return s.sel.Length()
}

// Nodes returns the underlying nodes.
func (s *Selection) Nodes() []*html.Node {
	if s == nil || s.sel == nil {
		return nil
	}
	return s.sel.Nodes
}

// Query finds the descendants of the selection matching selector.
func (s *Selection) Query(selector string) (*Selection, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}

	if expr, ok := strings.CutPrefix(selector, XPathPrefix); ok {
		return s.queryXPath(strings.TrimSpace(expr))
	}

	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, selector, err)
	}
	return wrap(s.sel.FindMatcher(m)), nil
}

func (s *Selection) queryXPath(expr string) (*Selection, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, XPathPrefix+expr, err)
	}

	var found []*html.Node
	seen := make(map[*html.Node]struct{})
	for _, n := range s.sel.Nodes {
		for _, match := range htmlquery.QuerySelectorAll(n, compiled) {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			found = append(found, match)
		}
	}

	// FindNodes keeps only descendants, so absolute expressions cannot escape
	// the context.
	return wrap(s.sel.FindNodes(found...)), nil
}

// Each calls fn for every node, wrapped as a single-node selection.
func (s *Selection) Each(fn func(i int, el *Selection)) {
	if s.Len() == 0 {
		return
	}
	s.sel.Each(func(i int, el *goquery.Selection) {
		fn(i, wrap(el))
	})
}

// Attr returns the named attribute of the first node.
func (s *Selection) Attr(name string) (string, bool) {
	if s.Len() == 0 {
		return "", false
	}
	return s.sel.Attr(name)
}

// Text returns the combined text content of the selection.
func (s *Selection) Text() string {
	if s.Len() == 0 {
		return ""
	}
	return s.sel.Text()
}

// HTML renders the first node, including itself.
func (s *Selection) HTML() (string, error) {
	if s.Len() == 0 {
		return "", nil
	}
	return goquery.OuterHtml(s.sel.First())
}
