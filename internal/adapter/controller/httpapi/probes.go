package httpapi

import (
	"context"
	"net/http"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
)

// ReadyFunc reports whether a service can take traffic
type ReadyFunc func(ctx context.Context) error

// Probes serves the liveness and readiness endpoints
type Probes struct {
	ready     ReadyFunc
	notReady  string
	presenter output.Presenter
	logger    app.Logger
}

// NewProbes creates probes. notReady is the message returned with a 503.
// A nil ready func makes /readyz unconditional.
func NewProbes(ready ReadyFunc, notReady string, presenter output.Presenter, logger app.Logger) *Probes {
	if logger == nil {
		logger = app.NopLogger()
	}
	return &Probes{ready: ready, notReady: notReady, presenter: presenter, logger: logger}
}

// Healthz reports that the process is alive
func (p *Probes) Healthz(w http.ResponseWriter, r *http.Request) {
	p.presenter.PresentSuccess(w, http.StatusOK, dto.StatusResponse{Status: "ok"})
}

// Readyz reports whether the service's backend is usable
func (p *Probes) Readyz(w http.ResponseWriter, r *http.Request) {
	if p.ready != nil {
		if err := p.ready(r.Context()); err != nil {
			p.logger.Warn("readiness check failed id=%s: %v", RequestIDFromContext(r.Context()), err)
			p.presenter.PresentError(w, http.StatusServiceUnavailable, p.notReady)
			return
		}
	}
	p.presenter.PresentSuccess(w, http.StatusOK, dto.StatusResponse{Status: "ready"})
}
