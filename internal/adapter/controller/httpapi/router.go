package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
)

// NotesRouterConfig groups the collaborators of the notes service
type NotesRouterConfig struct {
	Notes     *NotesHandler
	Probes    *Probes
	Static    *StaticHandler
	Metrics   *Metrics
	Presenter output.Presenter
	Logger    app.Logger
}

// ChatRouterConfig groups the collaborators of the chat service
type ChatRouterConfig struct {
	Chat      *ChatHandler
	Probes    *Probes
	Static    *StaticHandler
	Metrics   *Metrics
	Presenter output.Presenter
	Logger    app.Logger
}

// NewNotesRouter builds the notes service handler
func NewNotesRouter(cfg NotesRouterConfig) http.Handler {
	r := newRouter(cfg.Presenter)

	r.HandleFunc("/", cfg.Static.Index).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix("/static/").Handler(cfg.Static.Assets("/static/")).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", cfg.Probes.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", cfg.Probes.Readyz).Methods(http.MethodGet)
	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/notes", cfg.Notes.List).Methods(http.MethodGet)
	api.HandleFunc("/notes", cfg.Notes.Create).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}", cfg.Notes.Delete).Methods(http.MethodDelete)

	return wrap(r, cfg.Metrics, cfg.Presenter, loggerOrNop(cfg.Logger))
}

// NewChatRouter builds the chat service handler
func NewChatRouter(cfg ChatRouterConfig) http.Handler {
	r := newRouter(cfg.Presenter)

	r.HandleFunc("/", cfg.Static.Index).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", cfg.Probes.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", cfg.Probes.Readyz).Methods(http.MethodGet)
	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/api/chat", cfg.Chat.Chat).Methods(http.MethodPost)

	return wrap(r, cfg.Metrics, cfg.Presenter, loggerOrNop(cfg.Logger))
}

func newRouter(presenter output.Presenter) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		presenter.PresentError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		presenter.PresentError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func loggerOrNop(logger app.Logger) app.Logger {
	if logger == nil {
		return app.NopLogger()
	}
	return logger
}
