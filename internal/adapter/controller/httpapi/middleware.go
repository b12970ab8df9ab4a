package httpapi

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

const unmatchedRoute = "unmatched"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by the request id middleware
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// withRequestID reuses an incoming X-Request-ID or mints a ULID
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = ulid.Make().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// withRecover turns a handler panic into a 500 response
func withRecover(presenter output.Presenter, logger app.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic serving %s %s id=%s: %v\n%s",
					r.Method, r.URL.Path, RequestIDFromContext(r.Context()), rec, debug.Stack())
				presenter.PresentError(w, http.StatusInternalServerError, internalErrorMessage)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusWriter records the status code written by a handler
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) code() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// withInstrumentation writes one access log line and records metrics per
// request. Routes are labelled by their path template to keep cardinality
// bounded.
func withInstrumentation(router *mux.Router, metrics *Metrics, logger app.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := unmatchedRoute
		var match mux.RouteMatch
		if router.Match(r, &match) && match.Route != nil {
			if tpl, err := match.Route.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		elapsed := time.Since(start)

		metrics.observe(route, r.Method, sw.code(), elapsed)
		logger.Info("%s %s status=%d duration=%s id=%s",
			r.Method, r.URL.Path, sw.code(), elapsed, RequestIDFromContext(r.Context()))
	})
}

// wrap applies the middleware chain shared by both services
func wrap(router *mux.Router, metrics *Metrics, presenter output.Presenter, logger app.Logger) http.Handler {
	return withRequestID(withInstrumentation(router, metrics, logger, withRecover(presenter, logger, router)))
}
