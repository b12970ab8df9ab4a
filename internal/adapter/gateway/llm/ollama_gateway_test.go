package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/notesvc/internal/adapter/gateway/llm"
	"github.com/YoshitsuguKoike/notesvc/internal/application/port/output"
)

func TestOllamaGateway_Generate(t *testing.T) {
	var got llm.GenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3.2","response":"Hello","done":true,"eval_count":3}`))
	}))
	defer server.Close()

	gateway := llm.NewOllamaGateway(server.URL, "llama3.2", 5*time.Second, nil)
	resp, err := gateway.Generate(context.Background(), output.GenerateRequest{Prompt: "Hi"})
	require.NoError(t, err)

	assert.Equal(t, llm.GenerateRequest{Model: "llama3.2", Prompt: "Hi", Stream: false}, got)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.Equal(t, "Hello", resp.Response)
	assert.JSONEq(t, `{"model":"llama3.2","response":"Hello","done":true,"eval_count":3}`, string(resp.Raw))
}

func TestOllamaGateway_GenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Server error with message",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
			},
		},
		{
			name: "Not found without body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "Non-JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>proxy error</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			gateway := llm.NewOllamaGateway(server.URL, "llama3.2", 5*time.Second, nil)
			_, err := gateway.Generate(context.Background(), output.GenerateRequest{Prompt: "Hi"})
			assert.ErrorIs(t, err, output.ErrBackendUnavailable)
		})
	}
}

func TestOllamaGateway_RelaysAnyJSONDocument(t *testing.T) {
	for _, reply := range []string{`["a","b"]`, `"just text"`, `42`, `{"response":1}`} {
		t.Run(reply, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(reply))
			}))
			defer server.Close()

			gateway := llm.NewOllamaGateway(server.URL, "llama3.2", 5*time.Second, nil)
			resp, err := gateway.Generate(context.Background(), output.GenerateRequest{Prompt: "Hi"})
			require.NoError(t, err)
			assert.JSONEq(t, reply, string(resp.Raw))
			assert.Empty(t, resp.Response)
		})
	}
}

func TestOllamaGateway_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	gateway := llm.NewOllamaGateway(url, "llama3.2", time.Second, nil)
	_, err := gateway.Generate(context.Background(), output.GenerateRequest{Prompt: "Hi"})
	assert.ErrorIs(t, err, output.ErrBackendUnavailable)

	assert.ErrorIs(t, gateway.HealthCheck(context.Background()), output.ErrBackendUnavailable)
}

func TestOllamaGateway_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	gateway := llm.NewOllamaGateway(server.URL, "llama3.2", time.Second, nil)
	assert.NoError(t, gateway.HealthCheck(context.Background()))
}
