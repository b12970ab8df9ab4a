package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/afero"

	"github.com/YoshitsuguKoike/notesvc/internal/adapter/controller/httpapi"
	"github.com/YoshitsuguKoike/notesvc/internal/adapter/gateway/llm"
	"github.com/YoshitsuguKoike/notesvc/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/notesvc/internal/app"
	appconfig "github.com/YoshitsuguKoike/notesvc/internal/app/config"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/input"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
	chatusecase "github.com/YoshitsuguKoike/notesvc/internal/application/usecase/chat"
	noteusecase "github.com/YoshitsuguKoike/notesvc/internal/application/usecase/note"
	"github.com/YoshitsuguKoike/notesvc/internal/domain/repository"
	"github.com/YoshitsuguKoike/notesvc/internal/embed"
	sqliterepo "github.com/YoshitsuguKoike/notesvc/internal/infrastructure/persistence/sqlite"
)

// HTTP server timeouts. The chat write timeout is derived from the
// configured upstream timeout.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	notesWriteTimeout = 30 * time.Second
	idleTimeout       = 120 * time.Second
	chatWriteSlack    = 10 * time.Second
)

// Container is the DI container that holds all dependencies
// This implements manual dependency injection for Clean Architecture
type Container struct {
	// Infrastructure Layer - Database
	store *sqliterepo.Store

	// Infrastructure Layer - Repositories (SQLite implementations)
	noteRepo repository.NoteRepository

	// Infrastructure Layer - Gateways
	inferenceGateway output.InferenceGateway

	// Application Layer - Use Cases
	noteUseCase input.NoteUseCase
	chatUseCase input.ChatUseCase

	// Adapter Layer - Presenters
	notesPresenter output.Presenter
	chatPresenter  output.Presenter

	// Adapter Layer - HTTP
	notesMetrics *httpapi.Metrics
	chatMetrics  *httpapi.Metrics
	notesHandler http.Handler
	chatHandler  http.Handler

	// Configuration
	config Config
}

// Config holds configuration for the container
type Config struct {
	App    appconfig.Config
	Logger app.Logger
	Fs     afero.Fs // Filesystem for the database directory (default: OS)
}

// NewContainer creates and initializes the DI container.
// Nothing touches the database file until InitializeStore or the first request.
func NewContainer(config Config) (*Container, error) {
	if config.App == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if config.Logger == nil {
		config.Logger = app.NopLogger()
	}
	if config.Fs == nil {
		config.Fs = afero.NewOsFs()
	}

	c := &Container{config: config}

	// Initialize dependencies in dependency order
	if err := c.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	c.initializeApplication()

	if err := c.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("failed to initialize adapters: %w", err)
	}

	return c, nil
}

// initializeInfrastructure initializes infrastructure layer components
func (c *Container) initializeInfrastructure() error {
	cfg := c.config.App

	order, err := repository.ParseListOrder(cfg.ListOrder())
	if err != nil {
		return err
	}

	c.store = sqliterepo.NewStore(sqliterepo.StoreConfig{
		Path:   cfg.DBPath(),
		Fs:     c.config.Fs,
		Logger: c.config.Logger,
	})
	c.noteRepo = sqliterepo.NewNoteRepository(c.store, order)

	c.inferenceGateway = llm.NewOllamaGateway(
		cfg.OllamaBaseURL(),
		cfg.OllamaModel(),
		cfg.ChatTimeout(),
		c.config.Logger,
	)
	return nil
}

// initializeApplication initializes application layer use cases
func (c *Container) initializeApplication() {
	c.noteUseCase = noteusecase.NewNoteUseCaseImpl(c.noteRepo, c.store, c.config.Logger)
	c.chatUseCase = chatusecase.NewChatUseCaseImpl(c.inferenceGateway, c.config.Logger)
}

// initializeAdapters initializes presenters, handlers and routers
func (c *Container) initializeAdapters() error {
	logger := c.config.Logger

	c.notesPresenter = presenter.NewJSONPresenter("detail", logger)
	c.chatPresenter = presenter.NewJSONPresenter("error", logger)
	c.notesMetrics = httpapi.NewMetrics("notes")
	c.chatMetrics = httpapi.NewMetrics("chat")

	notesAssets, err := embed.NotesAssets(c.config.App.StaticDir())
	if err != nil {
		return err
	}
	chatAssets, err := embed.ChatAssets()
	if err != nil {
		return err
	}

	c.notesHandler = httpapi.NewNotesRouter(httpapi.NotesRouterConfig{
		Notes:     httpapi.NewNotesHandler(c.noteUseCase, c.notesPresenter, c.notesMetrics, logger),
		Probes:    httpapi.NewProbes(c.noteUseCase.CheckReady, "database not ready", c.notesPresenter, logger),
		Static:    httpapi.NewStaticHandler(notesAssets, logger),
		Metrics:   c.notesMetrics,
		Presenter: c.notesPresenter,
		Logger:    logger,
	})

	c.chatHandler = httpapi.NewChatRouter(httpapi.ChatRouterConfig{
		Chat:      httpapi.NewChatHandler(c.chatUseCase, c.chatPresenter, c.chatMetrics, logger),
		Probes:    httpapi.NewProbes(c.inferenceGateway.HealthCheck, "inference backend not ready", c.chatPresenter, logger),
		Static:    httpapi.NewStaticHandler(chatAssets, logger),
		Metrics:   c.chatMetrics,
		Presenter: c.chatPresenter,
		Logger:    logger,
	})
	return nil
}

// InitializeStore creates the database directory and schema
func (c *Container) InitializeStore(ctx context.Context) error {
	return c.store.Initialize(ctx)
}

// GetStore returns the notes store
func (c *Container) GetStore() *sqliterepo.Store {
	return c.store
}

// GetNoteUseCase returns the note use case
func (c *Container) GetNoteUseCase() input.NoteUseCase {
	return c.noteUseCase
}

// GetChatUseCase returns the chat use case
func (c *Container) GetChatUseCase() input.ChatUseCase {
	return c.chatUseCase
}

// NotesHandler returns the notes service HTTP handler
func (c *Container) NotesHandler() http.Handler {
	return c.notesHandler
}

// ChatHandler returns the chat service HTTP handler
func (c *Container) ChatHandler() http.Handler {
	return c.chatHandler
}

// NotesServer returns an HTTP server for the notes service
func (c *Container) NotesServer() *http.Server {
	return &http.Server{
		Addr:              c.config.App.NotesAddr(),
		Handler:           c.notesHandler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      notesWriteTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// ChatServer returns an HTTP server for the chat service
func (c *Container) ChatServer() *http.Server {
	return &http.Server{
		Addr:              c.config.App.ChatAddr(),
		Handler:           c.chatHandler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      c.config.App.ChatTimeout() + chatWriteSlack,
		IdleTimeout:       idleTimeout,
	}
}

// Close releases all resources
func (c *Container) Close() error {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
