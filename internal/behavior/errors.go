package behavior

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds of preprocessing failure. A *PreprocessError matches its kind with
// errors.Is.
var (
	ErrMissingElement    = errors.New("required element not found")
	ErrSettingsNotObject = errors.New("settings path resolves to a non-object")
	ErrUndeclaredElement = errors.New("element was never declared")
	ErrForwardReference  = errors.New("element context refers to an element not declared before it")
	ErrInvalidSelector   = errors.New("invalid element selector")
)

// PreprocessError reports why a behavior cannot run in this attach cycle.
type PreprocessError struct {
	Behavior string
	Kind     error

	// Element or Path identify the offending declaration.
	Element string
	Path    string
	Detail  string

	// Debug is the behavior's resolved debug flag at the point of failure.
	Debug bool

	Err error
}

// Reason returns the failure description without the behavior name.
func (e *PreprocessError) Reason() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Element != "" {
		fmt.Fprintf(&b, ": element %q", e.Element)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, ": path %q", e.Path)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *PreprocessError) Error() string {
	return fmt.Sprintf("preprocess behavior %q: %s", e.Behavior, e.Reason())
}

// Is matches the error's kind.
func (e *PreprocessError) Is(target error) bool {
	return target == e.Kind
}

func (e *PreprocessError) Unwrap() error {
	return e.Err
}

// IsPreprocessError reports whether err is, or wraps, a *PreprocessError.
func IsPreprocessError(err error) bool {
	var perr *PreprocessError
	return errors.As(err, &perr)
}
