package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YoshitsuguKoike/notesvc/internal/app/config"
)

// Default values used when neither the settings file nor the environment
// provides a value.
const (
	DefaultDBPath        = "/data/notes.db"
	DefaultListOrder     = "asc"
	DefaultNotesAddr     = ":8000"
	DefaultChatAddr      = ":8001"
	DefaultOllamaBaseURL = "http://ollama:11434"
	DefaultOllamaModel   = "llama3.2"
	DefaultChatTimeout   = "180s"
	DefaultStderrLevel   = "warn"
)

// RawSettings represents the structure of the YAML settings file.
// Pointer fields distinguish "absent" from "explicitly empty".
type RawSettings struct {
	// Notes service
	DBPath    *string `yaml:"db_path"`
	ListOrder *string `yaml:"list_order"`
	NotesAddr *string `yaml:"notes_addr"`
	StaticDir *string `yaml:"static_dir"`

	// Chat service
	ChatAddr      *string `yaml:"chat_addr"`
	OllamaBaseURL *string `yaml:"ollama_base_url"`
	OllamaModel   *string `yaml:"ollama_model"`
	ChatTimeout   *string `yaml:"chat_timeout"`

	// Logging
	StderrLevel *string `yaml:"stderr_level"`
}

// LoadSettings loads configuration.
// Priority: environment > settings file > defaults.
// An empty settingPath skips the file; a missing file is an error only when
// the path was given explicitly.
func LoadSettings(settingPath string) (*config.AppConfig, error) {
	settings := &RawSettings{}
	configSource := "default"
	loadedPath := ""

	if settingPath != "" {
		data, err := os.ReadFile(settingPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", settingPath, err)
		}
		if err := yaml.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", settingPath, err)
		}
		configSource = "yaml"
		loadedPath = settingPath
	}

	if applyEnv(settings, os.LookupEnv) {
		configSource = "env"
	}

	applyDefaults(settings)

	if err := validate(settings); err != nil {
		return nil, err
	}

	return buildAppConfig(settings, configSource, loadedPath)
}

// applyDefaults fills in default values for any nil fields
func applyDefaults(settings *RawSettings) {
	setDefault(&settings.DBPath, DefaultDBPath)
	setDefault(&settings.ListOrder, DefaultListOrder)
	setDefault(&settings.NotesAddr, DefaultNotesAddr)
	setDefault(&settings.StaticDir, "")

	setDefault(&settings.ChatAddr, DefaultChatAddr)
	setDefault(&settings.OllamaBaseURL, DefaultOllamaBaseURL)
	setDefault(&settings.OllamaModel, DefaultOllamaModel)
	setDefault(&settings.ChatTimeout, DefaultChatTimeout)

	setDefault(&settings.StderrLevel, DefaultStderrLevel)
}

func setDefault(field **string, def string) {
	if *field == nil {
		v := def
		*field = &v
	}
}

func validate(settings *RawSettings) error {
	order := strings.ToLower(strings.TrimSpace(*settings.ListOrder))
	if order != "asc" && order != "desc" {
		return fmt.Errorf("invalid list_order %q: must be asc or desc", *settings.ListOrder)
	}
	*settings.ListOrder = order

	if strings.TrimSpace(*settings.DBPath) == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	return nil
}

// buildAppConfig converts RawSettings to AppConfig
func buildAppConfig(settings *RawSettings, configSource, settingPath string) (*config.AppConfig, error) {
	timeout, err := toDuration(*settings.ChatTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid chat_timeout %q: %w", *settings.ChatTimeout, err)
	}

	return config.NewAppConfig(
		*settings.DBPath,
		*settings.ListOrder,
		*settings.NotesAddr,
		*settings.StaticDir,
		*settings.ChatAddr,
		strings.TrimRight(*settings.OllamaBaseURL, "/"),
		*settings.OllamaModel,
		timeout,
		*settings.StderrLevel,
		configSource,
		settingPath,
	), nil
}

// CreateDefaultSettings renders the default settings file content
func CreateDefaultSettings() []byte {
	settings := &RawSettings{}
	applyDefaults(settings)

	data, _ := yaml.Marshal(settings)
	return data
}
