package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/YoshitsuguKoike/notesvc/internal/app"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
)

// maxResponseBytes caps how much of an upstream reply is buffered
const maxResponseBytes = 16 << 20

// OllamaGateway implements InferenceGateway for the Ollama HTTP API
type OllamaGateway struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     app.Logger
}

// NewOllamaGateway creates a new Ollama gateway.
// baseURL must not have a trailing slash.
func NewOllamaGateway(baseURL, model string, timeout time.Duration, logger app.Logger) *OllamaGateway {
	if logger == nil {
		logger = app.NopLogger()
	}
	return &OllamaGateway{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Generate sends the prompt to /api/generate with streaming disabled
func (g *OllamaGateway) Generate(ctx context.Context, req output.GenerateRequest) (*output.GenerateResponse, error) {
	start := time.Now()

	body, err := json.Marshal(GenerateRequest{
		Model:  g.model,
		Prompt: req.Prompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	raw, err := g.post(ctx, g.baseURL+"/api/generate", body)
	if err != nil {
		g.logger.Error("ollama request failed: %v", err)
		return nil, err
	}

	if !json.Valid(raw) {
		g.logger.Error("ollama returned non-JSON body (%d bytes)", len(raw))
		return nil, fmt.Errorf("%w: response is not valid JSON", output.ErrBackendUnavailable)
	}

	// Model and Response are informational; a reply that is not an object is
	// still relayed as is.
	var parsed GenerateResponse
	_ = json.Unmarshal(raw, &parsed)

	duration := time.Since(start)
	g.logger.Debug("ollama generate model=%s duration=%s", parsed.Model, duration)

	return &output.GenerateResponse{
		Raw:      raw,
		Model:    parsed.Model,
		Response: parsed.Response,
		Duration: duration,
	}, nil
}

// HealthCheck verifies the Ollama server answers on /api/tags
func (g *OllamaGateway) HealthCheck(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", output.ErrBackendUnavailable, err)
	}
	defer httpResp.Body.Close()
	_, _ = io.Copy(io.Discard, httpResp.Body)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", output.ErrBackendUnavailable, httpResp.StatusCode)
	}
	return nil
}

// post makes a JSON POST and returns the body of a 2xx reply
func (g *OllamaGateway) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", output.ErrBackendUnavailable, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", output.ErrBackendUnavailable, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		var apiErr ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", output.ErrBackendUnavailable, httpResp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("%w: status %d", output.ErrBackendUnavailable, httpResp.StatusCode)
	}

	return raw, nil
}

// Ollama API request/response types
type GenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type GenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
