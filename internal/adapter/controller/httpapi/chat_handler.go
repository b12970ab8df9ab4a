package httpapi

import (
	"errors"
	"net/http"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/input"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
	"github.com/YoshitsuguKoike/notesvc/internal/application/usecase/chat"
)

const backendUnavailableMessage = "inference backend unavailable"

// ChatHandler serves the chat proxy endpoint
type ChatHandler struct {
	useCase   input.ChatUseCase
	presenter output.Presenter
	metrics   *Metrics
	logger    app.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(useCase input.ChatUseCase, presenter output.Presenter, metrics *Metrics, logger app.Logger) *ChatHandler {
	if logger == nil {
		logger = app.NopLogger()
	}
	return &ChatHandler{useCase: useCase, presenter: presenter, metrics: metrics, logger: logger}
}

// Chat handles POST /api/chat and relays the upstream JSON unchanged
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := decodeBody(r, &req); err != nil {
		h.metrics.chatFailed("bad_request")
		h.presenter.PresentError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.useCase.Chat(r.Context(), req)
	switch {
	case err == nil:
		h.presenter.PresentRaw(w, http.StatusOK, resp.Raw)
	case errors.Is(err, chat.ErrPromptRequired):
		// Answered in-band with 200, the way the chat UI expects it.
		h.metrics.chatFailed("prompt")
		h.presenter.PresentError(w, http.StatusOK, err.Error())
	case errors.Is(err, output.ErrBackendUnavailable):
		h.metrics.chatFailed("backend")
		h.logger.Warn("chat backend failed id=%s: %v", RequestIDFromContext(r.Context()), err)
		h.presenter.PresentError(w, http.StatusBadGateway, backendUnavailableMessage)
	default:
		h.metrics.chatFailed("internal")
		h.logger.Error("chat failed id=%s: %v", RequestIDFromContext(r.Context()), err)
		h.presenter.PresentError(w, http.StatusInternalServerError, internalErrorMessage)
	}
}
