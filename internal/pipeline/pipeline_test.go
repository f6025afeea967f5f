package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{}).Validate(); err != nil {
		t.Fatalf("empty config should validate, got %v", err)
	}

	err := (Config{ModelConfigPath: filepath.Join(t.TempDir(), "missing.yaml")}).Validate()
	if err == nil {
		t.Fatalf("expected error for missing model config")
	}

	err = (Config{TranscriptVTT: filepath.Join(t.TempDir(), "missing.vtt")}).Validate()
	if err == nil {
		t.Fatalf("expected error for missing transcript")
	}
}

func TestBuild_DefaultStack(t *testing.T) {
	t.Parallel()

	if _, err := Build(Config{Log: zap.NewNop()}); err != nil {
		t.Fatalf("build: %v", err)
	}
}

func TestBuild_GapDiarizerFromTranscript(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tr.vtt")
	content := "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nhello\n\n00:00:05.000 --> 00:00:06.000\nworld\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Build(Config{TranscriptVTT: path}); err != nil {
		t.Fatalf("build with transcript diarizer: %v", err)
	}
}

func TestBuild_ModelConflictSurfaces(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(path, []byte("provider: openai\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Build(Config{Provider: "ollama", ModelConfigPath: path})
	if err == nil {
		t.Fatalf("expected provider conflict error")
	}
}
