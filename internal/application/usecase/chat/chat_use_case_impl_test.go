package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/notesvc/internal/application/dto"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
)

// mockInferenceGateway records prompts and returns a canned reply
type mockInferenceGateway struct {
	prompts []string
	err     error
}

func (m *mockInferenceGateway) Generate(ctx context.Context, req output.GenerateRequest) (*output.GenerateResponse, error) {
	m.prompts = append(m.prompts, req.Prompt)
	if m.err != nil {
		return nil, m.err
	}
	return &output.GenerateResponse{
		Raw:      []byte(`{"model":"llama3.2","response":"Hello"}`),
		Model:    "llama3.2",
		Response: "Hello",
	}, nil
}

func (m *mockInferenceGateway) HealthCheck(ctx context.Context) error {
	return m.err
}

func TestChatUseCase_Forwards(t *testing.T) {
	gateway := &mockInferenceGateway{}
	uc := NewChatUseCaseImpl(gateway, nil)

	resp, err := uc.Chat(context.Background(), dto.ChatRequest{Prompt: "  Hello  "})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello"}, gateway.prompts)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.Equal(t, "Hello", resp.Response)
	assert.JSONEq(t, `{"model":"llama3.2","response":"Hello"}`, string(resp.Raw))
}

func TestChatUseCase_NormalizesToNFC(t *testing.T) {
	gateway := &mockInferenceGateway{}
	uc := NewChatUseCaseImpl(gateway, nil)

	// "e" followed by a combining acute accent
	_, err := uc.Chat(context.Background(), dto.ChatRequest{Prompt: "café"})
	require.NoError(t, err)
	assert.Equal(t, []string{"café"}, gateway.prompts)
}

func TestChatUseCase_PromptRequired(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t"} {
		gateway := &mockInferenceGateway{}
		uc := NewChatUseCaseImpl(gateway, nil)

		_, err := uc.Chat(context.Background(), dto.ChatRequest{Prompt: prompt})
		assert.ErrorIs(t, err, ErrPromptRequired)
		assert.Empty(t, gateway.prompts, "empty prompt must not reach the backend")
	}
}

func TestChatUseCase_BackendUnavailable(t *testing.T) {
	gateway := &mockInferenceGateway{err: fmt.Errorf("%w: status 500", output.ErrBackendUnavailable)}
	uc := NewChatUseCaseImpl(gateway, nil)

	_, err := uc.Chat(context.Background(), dto.ChatRequest{Prompt: "Hi"})
	assert.ErrorIs(t, err, output.ErrBackendUnavailable)
}
