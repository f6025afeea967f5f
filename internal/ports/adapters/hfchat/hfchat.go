// Package hfchat talks to the HuggingFace inference router's
// OpenAI-compatible chat endpoint.
package hfchat

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sigkit/internal/ports/adapters/llmhttp"
	"sigkit/internal/types"
)

const (
	defaultBaseURL = "https://router.huggingface.co"
	requestTimeout = 90 * time.Second
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "meta-llama/Llama-3.1-8B-Instruct"
	}
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: llmhttp.NormalizeBaseURL(baseURL, defaultBaseURL),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

func (a *Adapter) Chat(ctx context.Context, msgs []types.Message) (string, error) {
	if a.key == "" {
		return "", fmt.Errorf("huggingface: api key is required (set HF_API_KEY)")
	}

	payload := map[string]any{
		"model":    a.model,
		"messages": msgs,
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	err := llmhttp.PostJSON(reqCtx, a.client, a.baseURL+"/v1/chat/completions",
		map[string]string{"Authorization": "Bearer " + a.key}, payload, &raw)
	if err != nil {
		return "", fmt.Errorf("huggingface: %w", err)
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("huggingface: no choices in response (model=%s)", a.model)
	}
	return raw.Choices[0].Message.Content, nil
}
