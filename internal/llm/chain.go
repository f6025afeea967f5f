package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"sigkit/internal/domain/prompt"
	"sigkit/internal/ports"
)

// Chain renders a prompt template, sends it to a chat model and parses
// the generation against the input record.
type Chain struct {
	Template prompt.Template
	Model    ports.ChatModel
	Parser   *Parser
}

// Run executes the chain for one input record.
func (c *Chain) Run(ctx context.Context, data map[string]string) ([]string, error) {
	msgs, err := c.Template.Render(data)
	if err != nil {
		return nil, err
	}
	generation, err := c.Model.Chat(ctx, msgs)
	if err != nil {
		return nil, err
	}
	return c.Parser.Parse(generation, data)
}

type chainSpec struct {
	Prompt string `yaml:"prompt"`
	Parser struct {
		Kind           string   `yaml:"kind"`
		StartFlag      string   `yaml:"start_flag"`
		Separator      string   `yaml:"separator"`
		LeftSeparator  string   `yaml:"left_separator"`
		RightSeparator string   `yaml:"right_separator"`
		SourceField    string   `yaml:"text_to_segment"`
		ToLower        bool     `yaml:"to_lower"`
		Expect         []string `yaml:"expect"`
		OnFailure      string   `yaml:"on_failure"`
	} `yaml:"parser"`
}

// ChainsFromYAML builds the named chains of an instruction file. Each
// top-level key holds a prompt (inline text or a .txt path) and an
// optional parser block.
func ChainsFromYAML(path string, model ports.ChatModel, log *zap.Logger) (map[string]*Chain, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instruction file: %w", err)
	}

	var specs map[string]chainSpec
	if err := yaml.Unmarshal(b, &specs); err != nil {
		return nil, fmt.Errorf("parse instruction file: %w", err)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("instruction file %s defines no chains", path)
	}

	out := make(map[string]*Chain, len(specs))
	for name, spec := range specs {
		chain, err := buildChain(spec, model, log)
		if err != nil {
			return nil, fmt.Errorf("chain %q: %w", name, err)
		}
		out[name] = chain
	}
	return out, nil
}

func buildChain(spec chainSpec, model ports.ChatModel, log *zap.Logger) (*Chain, error) {
	promptText := spec.Prompt
	// A prompt ending in .txt names a template file.
	if strings.HasSuffix(strings.TrimSpace(promptText), ".txt") {
		b, err := os.ReadFile(strings.TrimSpace(promptText))
		if err != nil {
			return nil, fmt.Errorf("read prompt file: %w", err)
		}
		promptText = string(b)
	}
	tpl, err := prompt.Parse(promptText)
	if err != nil {
		return nil, err
	}

	kind, err := ParseParserKind(spec.Parser.Kind)
	if err != nil {
		return nil, err
	}
	parser, err := NewParser(ParserSpec{
		Kind:           kind,
		StartFlag:      spec.Parser.StartFlag,
		Separator:      spec.Parser.Separator,
		LeftSeparator:  spec.Parser.LeftSeparator,
		RightSeparator: spec.Parser.RightSeparator,
		SourceField:    spec.Parser.SourceField,
		ToLower:        spec.Parser.ToLower,
		Expect:         spec.Parser.Expect,
		OnFailure:      spec.Parser.OnFailure,
	}, log)
	if err != nil {
		return nil, err
	}

	return &Chain{Template: tpl, Model: model, Parser: parser}, nil
}
