// Package config loads the application configuration.
//
// Values are layered, later sources winning: built-in defaults, an optional
// YAML file, BEHAVIORKIT_* environment variables and finally explicit
// overrides (the command line flags a user actually set).
package config
