package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/behaviorkit/internal/app"
	"github.com/specialistvlad/behaviorkit/internal/config"
	"github.com/specialistvlad/behaviorkit/internal/registry"
	"github.com/specialistvlad/behaviorkit/internal/walker"
	"github.com/stretchr/testify/require"
)

// Well-known file names inside a harness directory.
const (
	PageFile     = "page.html"
	SettingsFile = "settings.json"
	ManifestsDir = "behaviors"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Dir       string
	Output    string
	LogOutput string
	Report    *walker.Report
	Err       error
	App       *app.App
}

// WriteFiles writes files, keyed by slash-separated relative path, into a new
// temporary directory and returns it.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

// Config returns a debug-level configuration pointing at the well-known files
// in dir. The settings file is only set when it exists.
func Config(dir string) *config.Config {
	cfg := &config.Config{
		Page:      filepath.Join(dir, PageFile),
		Manifests: filepath.Join(dir, ManifestsDir),
		LogLevel:  "debug",
		LogFormat: "console",
		Trigger:   "unload",
	}
	if _, err := os.Stat(filepath.Join(dir, SettingsFile)); err == nil {
		cfg.Settings = filepath.Join(dir, SettingsFile)
	}
	if _, err := os.Stat(cfg.Manifests); err != nil {
		cfg.Manifests = ""
	}
	return cfg
}

// NewApp writes files and builds an App over them. Startup errors are
// returned in the result rather than failing the test.
func NewApp(t *testing.T, files map[string]string, modules ...registry.Module) (*HarnessResult, *SafeBuffer, *SafeBuffer) {
	t.Helper()
	return NewAppWithConfig(t, files, nil, modules...)
}

// NewAppWithConfig is like NewApp but lets the caller adjust the
// configuration before the App is built.
func NewAppWithConfig(t *testing.T, files map[string]string, adjust func(*config.Config), modules ...registry.Module) (*HarnessResult, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	dir := WriteFiles(t, files)
	cfg := Config(dir)
	if adjust != nil {
		adjust(cfg)
	}

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	a, err := app.NewApp(out, logs, cfg, modules...)

	t.Cleanup(func() {
		if os.Getenv("BEHAVIORKIT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return &HarnessResult{Dir: dir, Err: err, App: a, LogOutput: logs.String()}, out, logs
}

// RunAttach builds an App over files and runs one attach cycle.
func RunAttach(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunAttachWithConfig(t, files, nil, modules...)
}

// RunAttachWithConfig is like RunAttach but lets the caller adjust the
// configuration.
func RunAttachWithConfig(t *testing.T, files map[string]string, adjust func(*config.Config), modules ...registry.Module) *HarnessResult {
	t.Helper()

	result, out, logs := NewAppWithConfig(t, files, adjust, modules...)
	if result.Err != nil {
		return result
	}

	result.Report, result.Err = result.App.Attach(context.Background())
	result.Output = out.String()
	result.LogOutput = logs.String()
	return result
}
