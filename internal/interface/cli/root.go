package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/app/config"
	infraConfig "github.com/YoshitsuguKoike/notesvc/internal/infra/config"
	"github.com/YoshitsuguKoike/notesvc/internal/interface/cli/version"
)

// rootOptions carries the loaded configuration to subcommands
type rootOptions struct {
	configPath string
	logLevel   string

	cfg    *config.AppConfig
	logger *app.LeveledLogger
}

// load reads settings and builds the logger.
// Priority: flags > ENV > settings file > defaults.
func (o *rootOptions) load(stderr io.Writer) error {
	cfg, err := infraConfig.LoadSettings(o.configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	level := cfg.StderrLevel()
	if o.logLevel != "" {
		level = o.logLevel
	}

	o.cfg = cfg
	o.logger = app.NewLogger(app.ParseLogLevel(level), stderr)
	o.logger.Debug("configuration loaded source=%s path=%s", cfg.ConfigSource(), cfg.SettingPath())
	return nil
}

// NewRoot builds the notesvc command tree
func NewRoot() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "notesvc",
		Short:         "Notes API and chat proxy services",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd.ErrOrStderr())
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("NOTESVC_CONFIG"), "YAML settings file (env NOTESVC_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	cmd.AddCommand(newNotesCmd(opts))
	cmd.AddCommand(newChatCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(version.NewCommand())
	return cmd
}
