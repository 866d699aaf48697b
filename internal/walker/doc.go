// Package walker attaches and detaches registered behaviors.
//
// A Walker visits behaviors in registration order. Behaviors that opt into
// preprocessing are first checked by behavior.Preprocess; when that check
// fails with a *behavior.PreprocessError the behavior is skipped for this
// cycle and the walk continues. Any other error, including every error
// returned by an attach routine, is reported to the caller.
package walker
