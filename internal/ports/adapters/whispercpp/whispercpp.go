// Package whispercpp transcribes audio by running the whisper.cpp
// binary with JSON output.
package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"sigkit/internal/ports"
	"sigkit/internal/types"
)

type Adapter struct {
	bin   string
	model string
}

func New(binPath, modelPath string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath}
}

func (a *Adapter) Transcribe(ctx context.Context, wavPath, cacheDir string, opts ports.TranscribeOpts) (types.Transcript, error) {
	task := opts.Task
	if task == "" {
		task = "transcribe"
	}
	if task != "transcribe" && task != "translate" {
		return types.Transcript{}, fmt.Errorf("task should be transcribe or translate, got %q", task)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return types.Transcript{}, err
	}
	outPrefix := filepath.Join(cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
		"-owts",
	}
	if task == "translate" {
		args = append(args, "-tr")
	}
	if opts.Language != "" {
		args = append(args, "-l", opts.Language)
	}

	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return types.Transcript{}, err
	}
	return parseOutput(jb)
}

// parseOutput decodes the whisper.cpp JSON file. Segment and word text
// carry the leading space whisper.cpp emits, so both are trimmed.
func parseOutput(b []byte) (types.Transcript, error) {
	var tr types.Transcript
	if err := json.Unmarshal(b, &tr); err != nil {
		return types.Transcript{}, err
	}
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
		for j := range tr.Segments[i].Words {
			tr.Segments[i].Words[j].Word = strings.TrimSpace(tr.Segments[i].Words[j].Word)
		}
	}
	return tr, nil
}
