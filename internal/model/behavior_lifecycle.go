// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the model for a behavior's lifecycle hooks.
//
// The lifecycle block is the bridge between the declarative manifest and the
// Go code: it maps the attach and detach events to the names under which Go
// handlers were registered.
package model

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/behaviorkit/internal/hclutil"
)

// BehaviorLifecycle maps a behavior's events to Go handler names.
type BehaviorLifecycle struct {
	OnAttach string `hcl:"on_attach,optional"`
	OnDetach string `hcl:"on_detach,optional"`
}

// parseBehaviorLifecycle finds and decodes the unique 'lifecycle' block from HCL.
func parseBehaviorLifecycle(blocks hcl.Blocks) (BehaviorLifecycle, hcl.Diagnostics) {
	var lifecycle BehaviorLifecycle
	var diags hcl.Diagnostics

	lifecycleBlock, blockDiags := hclutil.FindUniqueBlock(blocks, "lifecycle")
	diags = append(diags, blockDiags...)
	if diags.HasErrors() {
		return lifecycle, diags
	}

	// A behavior without a lifecycle block is valid but cannot be attached.
	if lifecycleBlock == nil {
		return lifecycle, diags
	}

	decodeDiags := gohcl.DecodeBody(lifecycleBlock.Body, nil, &lifecycle)
	diags = append(diags, decodeDiags...)

	return lifecycle, diags
}
