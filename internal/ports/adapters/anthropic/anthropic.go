// Package anthropic talks to the Anthropic messages API.
package anthropic

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
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
	requestTimeout = 90 * time.Second
	maxTokens      = 4096
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "claude-3-5-sonnet-latest"
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
		return "", fmt.Errorf("anthropic: api key is required (set ANTHROPIC_API_KEY)")
	}

	// The messages API takes system text as a top-level field, not a message.
	var system []string
	turns := make([]types.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": maxTokens,
		"messages":   turns,
	}
	if len(system) > 0 {
		payload["system"] = strings.Join(system, "\n\n")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var raw struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	err := llmhttp.PostJSON(reqCtx, a.client, a.baseURL+"/v1/messages",
		map[string]string{
			"x-api-key":         a.key,
			"anthropic-version": apiVersion,
		}, payload, &raw)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var b strings.Builder
	for _, c := range raw.Content {
		if c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("anthropic: empty response (model=%s)", a.model)
	}
	return b.String(), nil
}
