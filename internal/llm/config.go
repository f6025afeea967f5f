package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the model YAML file shape. API keys are deliberately
// not part of it so credentials never land in committed config files.
type fileConfig struct {
	Provider string         `yaml:"provider"`
	Model    string         `yaml:"model"`
	BaseURL  string         `yaml:"base_url"`
	Extra    map[string]any `yaml:",inline"`
}

// LoadConfig merges the provider/model flags, an optional model YAML
// file and the API key into a Config. Precedence rules:
//
//   - api_key must not appear in the YAML file; pass it as a flag or
//     environment variable.
//   - provider and model may come from the flag or the file, not both.
//   - missing provider defaults to ollama; a missing model falls back
//     to the provider's default.
func LoadConfig(flagProvider, flagModel, apiKey, configPath string) (Config, error) {
	var fc fileConfig
	if configPath != "" {
		b, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("read model config: %w", err)
		}
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return Config{}, fmt.Errorf("parse model config: %w", err)
		}
		if _, ok := fc.Extra["api_key"]; ok {
			return Config{}, fmt.Errorf("api_key must not be set in the model config file, pass --api-key or use the environment")
		}
		if fc.Provider != "" && flagProvider != "" {
			return Config{}, fmt.Errorf("provider is set both as a flag and in %s, pick one", configPath)
		}
		if fc.Model != "" && flagModel != "" {
			return Config{}, fmt.Errorf("model is set both as a flag and in %s, pick one", configPath)
		}
	}

	providerName := flagProvider
	if providerName == "" {
		providerName = fc.Provider
	}
	if providerName == "" {
		providerName = "ollama"
	}
	provider, err := ParseProvider(providerName)
	if err != nil {
		return Config{}, err
	}

	model := flagModel
	if model == "" {
		model = fc.Model
	}

	return Config{
		Provider: provider,
		Model:    model,
		APIKey:   apiKey,
		BaseURL:  fc.BaseURL,
	}, nil
}
