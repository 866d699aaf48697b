// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file parses a behavior's declared `settings` block. Declared settings
// sit between the built-in defaults and the values found at the behavior's
// settings path, so they act as per-behavior defaults that the page can
// override.
package model

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/behaviorkit/internal/hclutil"
	"github.com/zclconf/go-cty/cty"
)

// parseBehaviorSettings decodes the unique 'settings' block. Every attribute
// must be a literal value.
func parseBehaviorSettings(blocks hcl.Blocks) (map[string]cty.Value, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	block, blockDiags := hclutil.FindUniqueBlock(blocks, "settings")
	diags = append(diags, blockDiags...)
	if diags.HasErrors() || block == nil {
		return nil, diags
	}

	attrs, attrDiags := block.Body.JustAttributes()
	diags = append(diags, attrDiags...)
	if attrDiags.HasErrors() {
		return nil, diags
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		// A nil eval context is used because settings must be literal values.
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		values[name] = val
	}

	return values, diags
}
