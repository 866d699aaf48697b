// Package dom is the read-only document model behaviors are attached to.
//
// A Document is a parsed HTML page. A Selection is an ordered set of nodes
// from that page; it serves both as an attach context (the subtree lookups
// are scoped to) and as the result of a lookup. Selectors are CSS by default.
// A selector prefixed with "xpath:" is evaluated as an XPath expression
// relative to each node of the selection, and only descendants are kept.
package dom
