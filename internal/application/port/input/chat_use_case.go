package input

import (
	"context"

	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
)

// ChatUseCase forwards prompts to the inference server
type ChatUseCase interface {
	Chat(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
}
