package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/notesvc/internal/app/config"
	"github.com/YoshitsuguKoike/notesvc/internal/buildinfo"
	infraConfig "github.com/YoshitsuguKoike/notesvc/internal/infra/config"
	"github.com/YoshitsuguKoike/notesvc/internal/util"
)

// EffectiveConfig represents the final applied configuration for serialization
type EffectiveConfig struct {
	Meta  EffectiveConfigMeta  `yaml:"meta"`
	Notes EffectiveConfigNotes `yaml:"notes"`
	Chat  EffectiveConfigChat  `yaml:"chat"`
	Log   EffectiveConfigLog   `yaml:"logging"`
}

// EffectiveConfigMeta contains metadata about the configuration
type EffectiveConfigMeta struct {
	Source         string   `yaml:"source"`
	SettingPath    string   `yaml:"setting_path,omitempty"`
	SourcePriority []string `yaml:"source_priority"`
	Version        string   `yaml:"version"`
	TsUTC          string   `yaml:"ts_utc"`
}

// EffectiveConfigNotes represents the notes service settings
type EffectiveConfigNotes struct {
	DBPath    string `yaml:"db_path"`
	ListOrder string `yaml:"list_order"`
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir,omitempty"`
}

// EffectiveConfigChat represents the chat service settings
type EffectiveConfigChat struct {
	Addr          string `yaml:"addr"`
	OllamaBaseURL string `yaml:"ollama_base_url"`
	OllamaModel   string `yaml:"ollama_model"`
	Timeout       string `yaml:"timeout"`
}

// EffectiveConfigLog represents logging settings
type EffectiveConfigLog struct {
	StderrLevel string `yaml:"stderr_level"`
}

// BuildEffectiveConfig snapshots cfg at now
func BuildEffectiveConfig(cfg config.Config, logLevel string, now time.Time) EffectiveConfig {
	return EffectiveConfig{
		Meta: EffectiveConfigMeta{
			Source:         cfg.ConfigSource(),
			SettingPath:    cfg.SettingPath(),
			SourcePriority: []string{"flags", "env", "yaml", "defaults"},
			Version:        buildinfo.GetVersion(),
			TsUTC:          now.UTC().Format(time.RFC3339),
		},
		Notes: EffectiveConfigNotes{
			DBPath:    cfg.DBPath(),
			ListOrder: cfg.ListOrder(),
			Addr:      cfg.NotesAddr(),
			StaticDir: cfg.StaticDir(),
		},
		Chat: EffectiveConfigChat{
			Addr:          cfg.ChatAddr(),
			OllamaBaseURL: cfg.OllamaBaseURL(),
			OllamaModel:   cfg.OllamaModel(),
			Timeout:       cfg.ChatTimeout().String(),
		},
		Log: EffectiveConfigLog{StderrLevel: logLevel},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eff := BuildEffectiveConfig(opts.cfg, opts.logger.Level().String(), time.Now())
			return writeYAML(cmd.OutOrStdout(), eff)
		},
	})

	cmd.AddCommand(newConfigInitCmd(afero.NewOsFs()))
	return cmd
}

func newConfigInitCmd(fs afero.Fs) *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file populated with the defaults",
		Long:  "Print the default settings as YAML, or write them to --output. An existing file is kept unless --force is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := infraConfig.CreateDefaultSettings()
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}

			exists, err := afero.Exists(fs, output)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", output)
			}
			if err := util.WriteFileAtomic(fs, output, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
