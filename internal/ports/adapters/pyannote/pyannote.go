// Package pyannote diarizes audio through an external pyannote runner.
//
// The runner is any executable honoring the contract
//
//	<runner> --audio <wav> --rttm <out.rttm>
//
// and writing standard RTTM. The heavy model inference stays in the
// runner; this adapter only orchestrates it and parses its output.
package pyannote

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"sigkit/internal/domain/rttm"
	"sigkit/internal/types"
)

type Adapter struct {
	runner string
}

func New(runnerPath string) *Adapter {
	return &Adapter{runner: runnerPath}
}

func (a *Adapter) Diarize(ctx context.Context, wavPath string) ([]types.SpeakerTurn, error) {
	if a.runner == "" {
		return nil, fmt.Errorf("pyannote: runner binary is not configured")
	}

	tmpDir, err := os.MkdirTemp("", "pyannote-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "diarization.rttm")
	cmd := exec.CommandContext(ctx, a.runner,
		"--audio", wavPath,
		"--rttm", outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pyannote runner failed: %w\n%s", err, string(b))
	}

	records, err := rttm.Read(outPath)
	if err != nil {
		return nil, fmt.Errorf("pyannote output: %w", err)
	}
	return rttm.Turns(records), nil
}
