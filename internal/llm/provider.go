// Package llm wires prompt templates, chat-model providers and output
// parsers into runnable chains.
//
// Providers and parsers are closed enumerations dispatched with
// exhaustive switches, so an unsupported kind fails at construction
// instead of at first use.
package llm

import (
	"fmt"

	"sigkit/internal/ports"
	"sigkit/internal/ports/adapters/anthropic"
	"sigkit/internal/ports/adapters/hfchat"
	"sigkit/internal/ports/adapters/ollama"
	"sigkit/internal/ports/adapters/openai"
)

type Provider int

const (
	ProviderOllama Provider = iota
	ProviderOpenAI
	ProviderAnthropic
	ProviderHuggingFace
)

func (p Provider) String() string {
	switch p {
	case ProviderOllama:
		return "ollama"
	case ProviderOpenAI:
		return "openai"
	case ProviderAnthropic:
		return "anthropic"
	case ProviderHuggingFace:
		return "hf"
	default:
		return fmt.Sprintf("Provider(%d)", int(p))
	}
}

// ParseProvider maps a provider name to its variant.
func ParseProvider(s string) (Provider, error) {
	switch s {
	case "ollama":
		return ProviderOllama, nil
	case "openai":
		return ProviderOpenAI, nil
	case "anthropic":
		return ProviderAnthropic, nil
	case "hf", "huggingface":
		return ProviderHuggingFace, nil
	default:
		return 0, fmt.Errorf("provider should be ollama, hf, openai or anthropic, got %q", s)
	}
}

// Config selects and parameterizes a chat-model provider.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	BaseURL  string
}

// NewModel constructs the chat model for cfg. Ollama runs locally and
// needs no key; the hosted providers check for one at request time.
func NewModel(cfg Config) (ports.ChatModel, error) {
	switch cfg.Provider {
	case ProviderOllama:
		return ollama.New(cfg.Model, cfg.BaseURL), nil
	case ProviderOpenAI:
		return openai.New(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderAnthropic:
		return anthropic.New(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case ProviderHuggingFace:
		return hfchat.New(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider %v", cfg.Provider)
	}
}
