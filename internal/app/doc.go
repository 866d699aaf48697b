// Package app contains the core application logic. It wires the logger,
// the registry and the walker together and implements the attach, detach,
// validate and watch workflows, decoupled from any specific entrypoint like
// a CLI.
package app
