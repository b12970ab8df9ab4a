package presenter

import (
	"encoding/json"
	"net/http"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
)

// JSONPresenter implements output.Presenter for JSON HTTP responses
type JSONPresenter struct {
	errorKey string
	logger   app.Logger
}

// NewJSONPresenter creates a new JSON presenter.
// errorKey names the field error messages are written under
// ("detail" for the notes API, "error" for the chat API).
func NewJSONPresenter(errorKey string, logger app.Logger) output.Presenter {
	if logger == nil {
		logger = app.NopLogger()
	}
	return &JSONPresenter{errorKey: errorKey, logger: logger}
}

// PresentSuccess writes data as JSON
func (p *JSONPresenter) PresentSuccess(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		p.logger.Error("encode response failed: %v", err)
		p.PresentError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	p.PresentRaw(w, status, body)
}

// PresentRaw writes raw JSON bytes unchanged
func (p *JSONPresenter) PresentRaw(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		p.logger.Debug("write response failed: %v", err)
	}
}

// PresentError writes {"<errorKey>": message}
func (p *JSONPresenter) PresentError(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(map[string]string{p.errorKey: message})
	p.PresentRaw(w, status, body)
}
