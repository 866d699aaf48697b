// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Behavior manifest and the logic for parsing it from
// HCL.
//
// Why declare behaviors in manifests?
//
// The interesting part of a behavior for preprocessing is its requirements:
// which settings subtree it reads and which elements must be on the page.
// Keeping those in a manifest, next to the names of the Go handlers that do
// the work, lets the requirements be reviewed, validated and changed without
// touching the handler code. The handler can then assume its requirements
// hold whenever it runs.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/behaviorkit/internal/behavior"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/settings"
	"github.com/zclconf/go-cty/cty"
)

// Behavior is the format-agnostic representation of a behavior manifest.
type Behavior struct {
	Name          string
	Description   string
	FSInformation *FSInfo
	Preprocess    bool
	SettingsPath  string
	Settings      map[string]cty.Value
	Elements      []ElementDefinition
	Lifecycle     BehaviorLifecycle
}

// NewBehaviors is a factory function for creating Behavior definitions.
func NewBehaviors(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Behavior, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating new behavior definitions", "file_path", filePath)

	behaviors, diags := ParseBehaviorFile(ctx, hclFile, filePath)
	if diags.HasErrors() {
		return nil, diags
	}

	return behaviors, nil
}

// behaviorRootSchema defines the top-level structure of the file, expecting one or more 'behavior' blocks.
type behaviorRootSchema struct {
	Behaviors []*hclBehavior `hcl:"behavior,block"`
}

// hclBehavior represents a single 'behavior' block in the HCL file for decoding purposes.
type hclBehavior struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// behaviorBodySchema is the schema for the *body* of a 'behavior' block.
var behaviorBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "description"},
		{Name: "preprocess"},
		{Name: "settings_path"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "lifecycle"},
		{Type: "settings"},
		{Type: "element", LabelNames: []string{"name"}},
	},
}

// ParseBehaviorFile decodes an HCL file that contains one or more 'behavior' blocks.
func ParseBehaviorFile(ctx context.Context, hclFile *hcl.File, filePath string) ([]*Behavior, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing behavior definitions from file", "file_path", filePath)

	var allDiags hcl.Diagnostics
	if hclFile == nil {
		allDiags = append(allDiags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "HCL file is nil",
		})
		return nil, allDiags
	}

	schema := &behaviorRootSchema{}
	diags := gohcl.DecodeBody(hclFile.Body, nil, schema)
	allDiags = append(allDiags, diags...)
	if diags.HasErrors() {
		return nil, allDiags
	}

	behaviors := make([]*Behavior, 0, len(schema.Behaviors))
	seen := make(map[string]struct{}, len(schema.Behaviors))

	for _, parsed := range schema.Behaviors {
		if _, dup := seen[parsed.Name]; dup {
			allDiags = append(allDiags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate behavior definition",
				Detail:   fmt.Sprintf("A behavior named '%s' has already been defined in this file.", parsed.Name),
				Subject:  parsed.Body.MissingItemRange().Ptr(),
			})
			continue
		}
		seen[parsed.Name] = struct{}{}

		definition, bodyDiags := parseBehaviorBody(parsed)
		allDiags = append(allDiags, bodyDiags...)
		if definition == nil {
			continue
		}
		definition.FSInformation = NewFSInfo(filePath)
		behaviors = append(behaviors, definition)
	}

	if allDiags.HasErrors() {
		return nil, allDiags
	}

	logger.Debug("Successfully parsed behavior definitions", "count", len(behaviors))
	return behaviors, nil
}

func parseBehaviorBody(parsed *hclBehavior) (*Behavior, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	bodyContent, contentDiags := parsed.Body.Content(behaviorBodySchema)
	diags = append(diags, contentDiags...)
	if contentDiags.HasErrors() {
		return nil, diags
	}

	definition := &Behavior{Name: parsed.Name}

	if attr, exists := bodyContent.Attributes["description"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &definition.Description)...)
	}
	if attr, exists := bodyContent.Attributes["preprocess"]; exists {
		diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, &definition.Preprocess)...)
	}
	if attr, exists := bodyContent.Attributes["settings_path"]; exists {
		decodeDiags := gohcl.DecodeExpression(attr.Expr, nil, &definition.SettingsPath)
		diags = append(diags, decodeDiags...)
		if !decodeDiags.HasErrors() {
			diags = append(diags, validateSettingsPath(definition.SettingsPath, attr.Expr.Range())...)
		}
	}

	var lifecycleDiags hcl.Diagnostics
	definition.Lifecycle, lifecycleDiags = parseBehaviorLifecycle(bodyContent.Blocks)
	diags = append(diags, lifecycleDiags...)

	var settingsDiags hcl.Diagnostics
	definition.Settings, settingsDiags = parseBehaviorSettings(bodyContent.Blocks)
	diags = append(diags, settingsDiags...)

	var elementDiags hcl.Diagnostics
	definition.Elements, elementDiags = parseBehaviorElements(bodyContent.Blocks)
	diags = append(diags, elementDiags...)

	if !definition.Preprocess && definition.declaresRequirements() {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Requirements declared without preprocessing",
			Detail:   fmt.Sprintf("Behavior '%s' declares settings or elements but does not set 'preprocess = true', so they would never be checked.", parsed.Name),
			Subject:  parsed.Body.MissingItemRange().Ptr(),
		})
	}

	return definition, diags
}

func (b *Behavior) declaresRequirements() bool {
	return b.SettingsPath != "" || len(b.Settings) > 0 || len(b.Elements) > 0
}

func validateSettingsPath(path string, rng hcl.Range) hcl.Diagnostics {
	if path == "" {
		return nil
	}
	for _, segment := range strings.Split(path, settings.PathSeparator) {
		if segment == "" {
			return hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid settings path",
				Detail:   fmt.Sprintf("The settings path %q contains an empty segment.", path),
				Subject:  rng.Ptr(),
			}}
		}
	}
	return nil
}

// Preprocessing converts the manifest's requirements into their runtime form.
// It returns nil when the behavior does not opt into preprocessing.
func (b *Behavior) Preprocessing() (*behavior.Preprocessing, error) {
	if !b.Preprocess {
		return nil, nil
	}

	p := &behavior.Preprocessing{
		SettingsPath: b.SettingsPath,
		Settings:     make(settings.Values, len(b.Settings)),
	}
	for k, v := range b.Settings {
		p.Settings[k] = v
	}
	for _, el := range b.Elements {
		if err := p.Elements.Declare(el.Name, behavior.Element{
			Selector: el.Selector,
			Required: el.Required,
			Context:  el.Context,
		}); err != nil {
			return nil, fmt.Errorf("behavior '%s': %w", b.Name, err)
		}
	}
	return p, nil
}

// Source returns the manifest path, or an empty string.
func (b *Behavior) Source() string {
	if b.FSInformation == nil {
		return ""
	}
	return b.FSInformation.FilePath
}
