package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/behaviorkit/internal/ctxlog"
	"github.com/specialistvlad/behaviorkit/internal/fsutil"
	"github.com/specialistvlad/behaviorkit/internal/hclutil"
	"github.com/specialistvlad/behaviorkit/internal/model"
)

// LoadManifestsRecursively parses every .hcl file under manifestsPath and
// queues the behavior definitions it finds.
func (r *Registry) LoadManifestsRecursively(ctx context.Context, manifestsPath string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading behavior manifests...", "path", manifestsPath)

	filePaths, err := fsutil.FindFilesByExtension(manifestsPath, ".hcl")
	if err != nil {
		logger.Error("Failed to walk manifests directory", "path", manifestsPath, "error", err)
		return err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path", "path", manifestsPath)
		return nil
	}

	logger.Debug("Found HCL files to load", "files", filePaths)

	parser := hclparse.NewParser()

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", filePath, hclutil.DiagnosticsError(diags))
		}

		defs, err := model.NewBehaviors(ctx, hclFile, filePath)
		if err != nil {
			return fmt.Errorf("failed to process behavior definitions in %s: %w", filePath, err)
		}
		r.AddDefinitions(defs...)
		logger.Debug("Successfully loaded definitions from HCL file", "file", filePath, "count", len(defs))
	}

	logger.Info("Manifests loaded successfully.", "behavior_definitions_loaded", len(r.definitions))
	return nil
}
