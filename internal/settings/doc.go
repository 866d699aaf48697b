// Package settings models the ambient settings tree that a page ships to its
// behaviors (the drupalSettings object) and the per-behavior resolved
// settings built from it.
//
// A Tree is read-only. Behaviors never see or mutate the global tree through
// their resolved settings: Values are always fresh maps assembled per attach
// cycle.
package settings
