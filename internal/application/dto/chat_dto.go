package dto

import "encoding/json"

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse carries the inference server's reply.
// Raw is relayed to the client unchanged.
type ChatResponse struct {
	Raw      json.RawMessage
	Model    string
	Response string
}
