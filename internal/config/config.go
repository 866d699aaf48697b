package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/behaviorkit/internal/behavior"
)

// Defaults.
const (
	DefaultManifests = "behaviors"
	DefaultLogFormat = "console"
	DefaultLogLevel  = "info"
)

var (
	logFormats = []string{"console", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// Config holds everything an App needs for one run.
type Config struct {
	// Page is the HTML document behaviors are attached to.
	Page string `koanf:"page"`
	// Manifests is a directory searched recursively for .hcl manifests.
	Manifests string `koanf:"manifests"`
	// Settings is an optional JSON file overlaid onto the page's settings.
	Settings string `koanf:"settings"`
	// Context restricts the attach context to the elements it selects.
	Context string `koanf:"context"`
	// Behavior limits attach and detach to a single behavior.
	Behavior string `koanf:"behavior"`
	// Trigger is the detach trigger.
	Trigger string `koanf:"trigger"`

	LogFormat string `koanf:"log_format"`
	LogLevel  string `koanf:"log_level"`
}

func applyDefaults(cfg *Config) {
	if cfg.Manifests == "" {
		cfg.Manifests = DefaultManifests
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.Trigger == "" {
		cfg.Trigger = string(behavior.TriggerUnload)
	}
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	if !slices.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q (must be one of %v)", c.LogFormat, logFormats)
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q (must be one of %v)", c.LogLevel, logLevels)
	}
	if _, err := behavior.ParseTrigger(c.Trigger); err != nil {
		return err
	}
	return nil
}

// RequirePage fails when no page was configured. Commands that attach or
// detach call it; validate does not.
func (c *Config) RequirePage() error {
	if c.Page == "" {
		return errors.New("a page is required: pass --page or set BEHAVIORKIT_PAGE")
	}
	return nil
}

// DetachTrigger returns the parsed trigger.
func (c *Config) DetachTrigger() behavior.Trigger {
	t, err := behavior.ParseTrigger(c.Trigger)
	if err != nil {
		return behavior.TriggerUnload
	}
	return t
}
