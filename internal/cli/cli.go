package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/behaviorkit/internal/app"
	"github.com/specialistvlad/behaviorkit/internal/config"
	"github.com/specialistvlad/behaviorkit/internal/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// options carries what every command needs to build an App.
type options struct {
	outW, logW io.Writer
	modules    []registry.Module
	configPath string
}

// NewRootCommand builds the behaviorkit command tree. Reports go to outW and
// logs to logW. modules replace the core modules when given.
func NewRootCommand(outW, logW io.Writer, modules ...registry.Module) *cobra.Command {
	opts := &options{outW: outW, logW: logW, modules: modules}

	root := &cobra.Command{
		Use:   "behaviorkit",
		Short: "Attach page behaviors with declared requirements",
		Long: `behaviorkit attaches behaviors to an HTML page.

A behavior may declare the settings it reads and the elements it needs.
Behaviors whose requirements are not met by the page are skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(logW)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	pf.StringP("page", "p", "", "HTML page to attach behaviors to")
	pf.StringP("manifests", "m", config.DefaultManifests, "Directory containing behavior manifests")
	pf.String("settings", "", "JSON file overlaid onto the page's embedded settings")
	pf.String("context", "", "CSS selector restricting the attach context")
	pf.String("log-format", config.DefaultLogFormat, "Log output format. Options: 'console' or 'json'")
	pf.String("log-level", config.DefaultLogLevel, "Logging level. Options: 'debug', 'info', 'warn', 'error'")

	root.AddCommand(
		newAttachCommand(opts),
		newDetachCommand(opts),
		newValidateCommand(opts),
		newWatchCommand(opts),
	)
	return root
}

func newAttachCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Run one attach cycle and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.app(cmd, true)
			if err != nil {
				return err
			}
			if _, err := a.Attach(cmd.Context()); err != nil {
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}
			return nil
		},
	}
	cmd.Flags().StringP("behavior", "b", "", "Attach only this behavior")
	return cmd
}

func newDetachCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detach",
		Short: "Run the detach routines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.app(cmd, true)
			if err != nil {
				return err
			}
			if err := a.Detach(cmd.Context()); err != nil {
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}
			return nil
		},
	}
	cmd.Flags().StringP("behavior", "b", "", "Detach only this behavior")
	cmd.Flags().String("trigger", "unload", "Detach trigger. Options: 'unload', 'serialize', 'move'")
	return cmd
}

func newValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the manifests against the registered handlers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.app(cmd, false)
			if err != nil {
				return err
			}
			if err := a.Validate(cmd.Context()); err != nil {
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}
			return nil
		},
	}
}

func newWatchCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Attach again whenever the page or settings file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.app(cmd, true)
			if err != nil {
				return err
			}
			if err := a.Watch(cmd.Context()); err != nil {
				return &ExitError{Code: ExitFailure, Message: err.Error()}
			}
			return nil
		},
	}
	cmd.Flags().StringP("behavior", "b", "", "Attach only this behavior")
	return cmd
}

// app loads the configuration for cmd and builds the App.
func (o *options) app(cmd *cobra.Command, needPage bool) (*app.App, error) {
	cfg, err := config.Load(o.configPath, overrides(cmd.Flags()))
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	if needPage {
		if err := cfg.RequirePage(); err != nil {
			return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
		}
	}

	a, err := app.NewApp(o.outW, o.logW, cfg, o.modules...)
	if err != nil {
		return nil, &ExitError{Code: ExitFailure, Message: fmt.Sprintf("startup failed: %v", err)}
	}
	return a, nil
}

// overrides returns the flags the user set, keyed by configuration key.
func overrides(flags *pflag.FlagSet) map[string]any {
	out := make(map[string]any)
	flags.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		out[strings.ReplaceAll(f.Name, "-", "_")] = f.Value.String()
	})
	return out
}

// Execute runs the command line args against a fresh command tree.
func Execute(ctx context.Context, args []string, outW, logW io.Writer, modules ...registry.Module) error {
	root := NewRootCommand(outW, logW, modules...)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if _, ok := err.(*ExitError); ok {
			return err
		}
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return nil
}
