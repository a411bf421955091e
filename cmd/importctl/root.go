package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/app"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/config"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/core"
	"github.com/sanjaydhakar1990-design/schooltino-sub005/internal/logging"
)

type rootOptions struct {
	envFile string
	verbose bool

	// open builds the App; replaced in tests.
	open func(ctx context.Context, cfg *config.Config, requireDB bool) (*app.App, error)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{open: app.Open})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "importctl",
		Short:         "Bulk import students and employees from CSV or Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "environment file to load if present")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(
		newTemplateCmd(opts),
		newPreviewCmd(opts),
		newExecuteCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}

// loadConfig reads the env file (without overriding the environment) and the
// configuration, then sets up stderr logging.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if o.verbose {
		level = "debug"
	}
	logging.SetupWriter(os.Stderr, level, cfg.Logging.Format)
	return cfg, nil
}

func (o *rootOptions) openApp(ctx context.Context, requireDB bool) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return o.open(ctx, cfg, requireDB)
}

// userError prefixes err with its coded user message.
func userError(err error) error {
	msg := core.MapError(err)
	return fmt.Errorf("%s [%s]: %w", msg.Message, msg.Code, err)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
