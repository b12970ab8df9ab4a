package output

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrBackendUnavailable is returned on any transport failure, non-success
// status, or unreadable body from the inference server
var ErrBackendUnavailable = errors.New("inference backend unavailable")

// InferenceGateway is the interface for the language-model inference server.
// It is a stateless pass-through: one prompt in, one JSON document out.
type InferenceGateway interface {
	// Generate forwards the prompt with the gateway's fixed parameters
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// HealthCheck verifies if the inference server is reachable
	HealthCheck(ctx context.Context) error
}

// GenerateRequest represents a prompt to forward
type GenerateRequest struct {
	Prompt string
}

// GenerateResponse holds the upstream reply
type GenerateResponse struct {
	Raw      json.RawMessage // Upstream JSON body, relayed verbatim
	Model    string          // "model" field of the reply, if present
	Response string          // "response" field of the reply, if present
	Duration time.Duration   // Round-trip time
}
