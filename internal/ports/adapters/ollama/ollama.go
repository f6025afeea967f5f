// Package ollama talks to a local Ollama server's chat API.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sigkit/internal/ports/adapters/llmhttp"
	"sigkit/internal/types"
)

const (
	defaultBaseURL = "http://localhost:11434"
	requestTimeout = 5 * time.Minute
)

type Adapter struct {
	model   string
	baseURL string
	client  *http.Client
}

func New(model, baseURL string) *Adapter {
	if model == "" {
		model = "llama3.1:8b"
	}
	return &Adapter{
		model:   model,
		baseURL: llmhttp.NormalizeBaseURL(baseURL, defaultBaseURL),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (a *Adapter) Chat(ctx context.Context, msgs []types.Message) (string, error) {
	payload := map[string]any{
		"model":    a.model,
		"messages": msgs,
		"stream":   false,
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var raw struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := llmhttp.PostJSON(reqCtx, a.client, a.baseURL+"/api/chat", nil, payload, &raw); err != nil {
		return "", fmt.Errorf("ollama: %w", err)
	}
	if strings.TrimSpace(raw.Message.Content) == "" {
		return "", fmt.Errorf("ollama: empty response (model=%s)", a.model)
	}
	return raw.Message.Content, nil
}
