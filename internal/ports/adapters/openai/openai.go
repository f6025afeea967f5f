// Package openai talks to the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sigkit/internal/ports/adapters/llmhttp"
	"sigkit/internal/types"
)

const (
	defaultBaseURL = "https://api.openai.com"
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
		model = "gpt-4o"
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
		return "", fmt.Errorf("openai: api key is required (set OPENAI_API_KEY)")
	}

	payload := map[string]any{
		"model":       a.model,
		"messages":    msgs,
		"temperature": 0,
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
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices in response (model=%s)", a.model)
	}
	return raw.Choices[0].Message.Content, nil
}
