package chat

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
)

// ErrPromptRequired is returned for an empty or whitespace-only prompt
var ErrPromptRequired = errors.New("prompt is required")

// ChatUseCaseImpl implements the ChatUseCase interface
type ChatUseCaseImpl struct {
	gateway output.InferenceGateway
	logger  app.Logger
}

// NewChatUseCaseImpl creates a new chat use case implementation
func NewChatUseCaseImpl(gateway output.InferenceGateway, logger app.Logger) *ChatUseCaseImpl {
	if logger == nil {
		logger = app.NopLogger()
	}
	return &ChatUseCaseImpl{gateway: gateway, logger: logger}
}

// Chat trims and NFC-normalizes the prompt, then forwards it.
// Gateway errors are returned unchanged.
func (uc *ChatUseCaseImpl) Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	prompt := norm.NFC.String(strings.TrimSpace(req.Prompt))
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	resp, err := uc.gateway.Generate(ctx, output.GenerateRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("chat completed model=%s duration=%s", resp.Model, resp.Duration)
	return &dto.ChatResponse{
		Raw:      resp.Raw,
		Model:    resp.Model,
		Response: resp.Response,
	}, nil
}
