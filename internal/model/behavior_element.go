// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the structure for a behavior's element requirements and
// the logic for parsing them from HCL.
//
// Element blocks are kept in the order they appear in the file. That order
// matters: an element may scope its lookup to another element through
// `context`, and only elements declared earlier can be referenced.
package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
)

// ElementDefinition defines a single DOM dependency of a behavior.
type ElementDefinition struct {
	// Name is taken from the block label, e.g. `element "loginForm" {}`.
	Name     string
	Selector string
	Required bool
	Context  string
}

// hclElement is the decoding target for the body of an `element` block.
type hclElement struct {
	Selector string `hcl:"selector"`
	Required bool   `hcl:"required,optional"`
	Context  string `hcl:"context,optional"`
}

// parseBehaviorElements finds and decodes all 'element' blocks from a behavior's HCL body.
func parseBehaviorElements(blocks hcl.Blocks) ([]ElementDefinition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var elements []ElementDefinition
	seen := make(map[string]struct{})

	for _, block := range blocks.OfType("element") {
		// The schema guarantees us one label.
		name := block.Labels[0]

		if _, exists := seen[name]; exists {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate element definition",
				Detail:   fmt.Sprintf("An element named '%s' has already been defined.", name),
				Subject:  &block.DefRange,
			})
			continue
		}
		seen[name] = struct{}{}

		var el hclElement
		decodeDiags := gohcl.DecodeBody(block.Body, nil, &el)
		diags = append(diags, decodeDiags...)
		if decodeDiags.HasErrors() {
			continue
		}

		if el.Selector == "" {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Empty selector",
				Detail:   fmt.Sprintf("The element '%s' must have a non-empty 'selector'.", name),
				Subject:  &block.DefRange,
			})
			continue
		}

		elements = append(elements, ElementDefinition{
			Name:     name,
			Selector: el.Selector,
			Required: el.Required,
			Context:  el.Context,
		})
	}

	return elements, diags
}
