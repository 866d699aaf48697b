// Package registry provides the central "glue" for the behavior system.
//
// The Registry stores the mapping between the handler names used in
// manifests (e.g., "OnAttachLoginForm") and the compiled Go functions that
// implement them, and it holds the behaviors themselves, in registration
// order. Behaviors come either straight from Go code or from HCL manifests
// that are bound to registered handlers.
//
// During application startup the registry is populated and then validated to
// ensure that the Go code and the manifests are in sync, so a behavior never
// fails at attach time because its handler is missing. After startup the
// registry is read-only.
package registry
