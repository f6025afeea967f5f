package llm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"sigkit/internal/types"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Provider{
		"ollama":      ProviderOllama,
		"openai":      ProviderOpenAI,
		"anthropic":   ProviderAnthropic,
		"hf":          ProviderHuggingFace,
		"huggingface": ProviderHuggingFace,
	} {
		got, err := ParseProvider(name)
		if err != nil {
			t.Fatalf("ParseProvider(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseProvider(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := ParseProvider("langchain"); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestNewModel_AllProviders(t *testing.T) {
	t.Parallel()

	for _, p := range []Provider{ProviderOllama, ProviderOpenAI, ProviderAnthropic, ProviderHuggingFace} {
		m, err := NewModel(Config{Provider: p, APIKey: "k"})
		if err != nil {
			t.Fatalf("NewModel(%v): %v", p, err)
		}
		if m == nil {
			t.Fatalf("NewModel(%v) returned nil model", p)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("", "", "", "")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Provider != ProviderOllama || cfg.Model != "" {
			t.Fatalf("unexpected defaults %+v", cfg)
		}
	})

	t.Run("from yaml", func(t *testing.T) {
		path := writeFile(t, "model.yaml", "provider: anthropic\nmodel: claude-3-5-haiku-latest\n")
		cfg, err := LoadConfig("", "", "key", path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Provider != ProviderAnthropic || cfg.Model != "claude-3-5-haiku-latest" || cfg.APIKey != "key" {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("api key in yaml rejected", func(t *testing.T) {
		path := writeFile(t, "model.yaml", "provider: openai\napi_key: oops\n")
		if _, err := LoadConfig("", "", "", path); err == nil {
			t.Fatalf("expected error for api_key in config file")
		}
	})

	t.Run("provider in flag and yaml rejected", func(t *testing.T) {
		path := writeFile(t, "model.yaml", "provider: openai\n")
		if _, err := LoadConfig("ollama", "", "", path); err == nil {
			t.Fatalf("expected error for duplicated provider")
		}
	})

	t.Run("model in flag and yaml rejected", func(t *testing.T) {
		path := writeFile(t, "model.yaml", "model: gpt-4o\n")
		if _, err := LoadConfig("", "gpt-4o-mini", "", path); err == nil {
			t.Fatalf("expected error for duplicated model")
		}
	})
}

func TestParser_Split(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	p, err := NewParser(ParserSpec{Kind: ParserSplit, Separator: "|||"}, zap.New(core))
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}

	data := map[string]string{"text_to_segment": "Hello there. How are you?"}
	got, err := p.Parse("Hello there.|||How are you?", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"Hello there.", "How are you?"}, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no warnings for a clean parse, got %d", logs.Len())
	}
}

func TestParser_SplitWarnsOnMismatch(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	p, err := NewParser(ParserSpec{Kind: ParserSplit, Separator: "|"}, zap.New(core))
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}

	got, err := p.Parse("Z|A|rest", map[string]string{"text_to_segment": "A B"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"A", "B"}, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	if logs.FilterMessage("problematic generation").Len() != 1 {
		t.Fatalf("expected one mismatch warning")
	}
}

func TestParser_SegmentMarkers(t *testing.T) {
	t.Parallel()

	p, err := NewParser(ParserSpec{Kind: ParserSegment, LeftSeparator: "<seg>", RightSeparator: "</seg>"}, nil)
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	got, err := p.Parse("<seg>Hello there.</seg><seg>How are you?</seg>",
		map[string]string{"text_to_segment": "Hello there. How are you?"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"Hello there.", "How are you?"}, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestParser_MissingSourceField(t *testing.T) {
	t.Parallel()

	p, err := NewParser(ParserSpec{Kind: ParserSplit, Separator: "|"}, nil)
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	if _, err := p.Parse("a|b", map[string]string{"other": "x"}); err == nil {
		t.Fatalf("expected error for missing source field")
	}
}

func TestParser_Default(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.WarnLevel)
	p, err := NewParser(ParserSpec{
		Kind:      ParserDefault,
		StartFlag: "ANSWER:",
		ToLower:   true,
		Expect:    []string{"yes", "no"},
		OnFailure: "unknown",
	}, zap.New(core))
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}

	got, err := p.Parse("thinking... ANSWER: Yes", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0] != "yes" {
		t.Fatalf("unexpected result %q", got)
	}

	got, err = p.Parse("ANSWER: maybe", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got[0] != "unknown" {
		t.Fatalf("expected on_failure value, got %q", got[0])
	}
	if logs.FilterMessage("problematic generation").Len() != 1 {
		t.Fatalf("expected one unexpected-label warning")
	}
}

func TestNewParser_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewParser(ParserSpec{Kind: ParserSplit}, nil); err == nil {
		t.Fatalf("expected error for split parser without separator")
	}
	if _, err := NewParser(ParserSpec{Kind: ParserSegment, LeftSeparator: "<"}, nil); err == nil {
		t.Fatalf("expected error for segment parser without right separator")
	}
}

type fakeModel struct {
	reply string
	msgs  []types.Message
}

func (f *fakeModel) Chat(_ context.Context, msgs []types.Message) (string, error) {
	f.msgs = msgs
	return f.reply, nil
}

func TestChainsFromYAML_RunEndToEnd(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "instruction.yaml", `
turns:
  prompt: "user: Split into dialogue turns: {text_to_segment}"
  parser:
    kind: split
    separator: "|||"
    start_flag: "ANSWER:"
`)

	model := &fakeModel{reply: "ANSWER: Hello there.|||How are you?"}
	chains, err := ChainsFromYAML(path, model, zap.NewNop())
	if err != nil {
		t.Fatalf("chains: %v", err)
	}
	chain, ok := chains["turns"]
	if !ok {
		t.Fatalf("missing chain %q, got %v", "turns", chains)
	}

	got, err := chain.Run(context.Background(), map[string]string{"text_to_segment": "Hello there. How are you?"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"Hello there.", "How are you?"}, got); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	if len(model.msgs) != 1 || model.msgs[0].Content != "Split into dialogue turns: Hello there. How are you?" {
		t.Fatalf("unexpected rendered prompt %+v", model.msgs)
	}
}

func TestChainsFromYAML_PromptFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	promptPath := filepath.Join(dir, "prompt.txt")
	if err := os.WriteFile(promptPath, []byte("user: say {word}"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "instruction.yaml")
	if err := os.WriteFile(cfgPath, []byte("echo:\n  prompt: "+promptPath+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	model := &fakeModel{reply: "hi"}
	chains, err := ChainsFromYAML(cfgPath, model, nil)
	if err != nil {
		t.Fatalf("chains: %v", err)
	}
	out, err := chains["echo"].Run(context.Background(), map[string]string{"word": "hi"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out) != 1 || out[0] != "hi" {
		t.Fatalf("unexpected output %q", out)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
