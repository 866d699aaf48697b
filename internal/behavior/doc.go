// Package behavior defines page behaviors and the preprocessing step that
// runs before an opted-in behavior's attach routine.
//
// A Behavior opts into preprocessing by carrying a Preprocessing value. The
// preprocessor then, in order:
//
//  1. builds the resolved settings from the built-in defaults and the
//     behavior's declared settings,
//  2. overlays the object found at the behavior's settings path, if any,
//  3. checks every declared element against the attach context, scoping a
//     lookup to an earlier element when the declaration names one, and
//  4. returns a lazy element Accessor bound to the attach context.
//
// Every fatal problem is reported as a *PreprocessError so callers can tell
// "skip this behavior" apart from errors raised by the behavior itself.
//
// Nothing computed here is stored on the Behavior. Resolved settings and the
// accessor live in the returned Prepared value and are rebuilt on every
// attach cycle.
package behavior
