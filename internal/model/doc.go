// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of behavior manifests.
// Its core purpose is to turn HCL `behavior` blocks into a strongly-typed,
// in-memory description that the registry can bind to Go handlers.
//
// # Core Concepts
//
//   - Behavior: the declaration of one page behavior. It names the Go
//     handlers for its lifecycle, and, when `preprocess = true`, the settings
//     and elements it depends on.
//
//   - ElementDefinition: one DOM dependency, given by a selector, an optional
//     `required` flag and an optional `context` naming an earlier element.
//
//   - FSInfo: the manifest file a definition came from, used in error
//     messages.
//
// Why a separate model package?
//
// Manifests are checked for shape before any page is loaded: duplicate
// elements, malformed settings paths and declarations that would be ignored
// are reported as HCL diagnostics with file positions. Only well-formed
// definitions reach the registry, which then only has to check that the
// named handlers exist.
package model
