package config

import "time"

// Config provides read-only access to application configuration.
// This interface abstracts the configuration source (YAML, ENV, defaults)
// and ensures the app layer doesn't depend on infrastructure details.
type Config interface {
	// Notes service
	DBPath() string    // SQLite database file (DB_PATH)
	ListOrder() string // "asc" or "desc" (NOTES_LIST_ORDER)
	NotesAddr() string // Listen address of the notes service (NOTES_ADDR)
	StaticDir() string // Optional on-disk override for the notes UI (STATIC_DIR)

	// Chat service
	ChatAddr() string           // Listen address of the chat service (CHAT_ADDR)
	OllamaBaseURL() string      // Inference server base URL (OLLAMA_BASE_URL)
	OllamaModel() string        // Model name forwarded with every prompt (OLLAMA_MODEL)
	ChatTimeout() time.Duration // Upstream request timeout (CHAT_TIMEOUT)

	// Logging
	StderrLevel() string // Stderr log level (LOG_LEVEL)

	// Metadata
	ConfigSource() string // Source of configuration: "yaml", "env", or "default"
	SettingPath() string  // Path to the settings file if one was loaded
}

// AppConfig is the concrete implementation of Config interface.
// It holds all configuration values loaded from various sources.
type AppConfig struct {
	dbPath    string
	listOrder string
	notesAddr string
	staticDir string

	chatAddr      string
	ollamaBaseURL string
	ollamaModel   string
	chatTimeout   time.Duration

	stderrLevel string

	configSource string
	settingPath  string
}

func (c *AppConfig) DBPath() string    { return c.dbPath }
func (c *AppConfig) ListOrder() string { return c.listOrder }
func (c *AppConfig) NotesAddr() string { return c.notesAddr }
func (c *AppConfig) StaticDir() string { return c.staticDir }

func (c *AppConfig) ChatAddr() string           { return c.chatAddr }
func (c *AppConfig) OllamaBaseURL() string      { return c.ollamaBaseURL }
func (c *AppConfig) OllamaModel() string        { return c.ollamaModel }
func (c *AppConfig) ChatTimeout() time.Duration { return c.chatTimeout }

func (c *AppConfig) StderrLevel() string { return c.stderrLevel }

func (c *AppConfig) ConfigSource() string { return c.configSource }
func (c *AppConfig) SettingPath() string  { return c.settingPath }

// NewAppConfig creates a new AppConfig with the given values.
// This is typically called by the infrastructure layer after loading configuration.
func NewAppConfig(
	dbPath, listOrder, notesAddr, staticDir string,
	chatAddr, ollamaBaseURL, ollamaModel string, chatTimeout time.Duration,
	stderrLevel string,
	configSource, settingPath string,
) *AppConfig {
	return &AppConfig{
		dbPath:        dbPath,
		listOrder:     listOrder,
		notesAddr:     notesAddr,
		staticDir:     staticDir,
		chatAddr:      chatAddr,
		ollamaBaseURL: ollamaBaseURL,
		ollamaModel:   ollamaModel,
		chatTimeout:   chatTimeout,
		stderrLevel:   stderrLevel,
		configSource:  configSource,
		settingPath:   settingPath,
	}
}

// WithDBPath returns a copy with the database path replaced.
// Used for command-line flag overrides.
func (c *AppConfig) WithDBPath(path string) *AppConfig {
	cp := *c
	cp.dbPath = path
	return &cp
}

// WithNotesAddr returns a copy with the notes listen address replaced
func (c *AppConfig) WithNotesAddr(addr string) *AppConfig {
	cp := *c
	cp.notesAddr = addr
	return &cp
}

// WithChatAddr returns a copy with the chat listen address replaced
func (c *AppConfig) WithChatAddr(addr string) *AppConfig {
	cp := *c
	cp.chatAddr = addr
	return &cp
}
