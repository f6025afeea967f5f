// Package mediapipe estimates body pose through an external
// MediaPipe-style runner.
//
// The runner contract is
//
//	<runner> --video <path> --out <out.json>
//
// where the output is a JSON array of frames, each carrying an index
// and flat landmark arrays keyed by feature name.
package mediapipe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"sigkit/internal/types"
)

type Adapter struct {
	runner string
}

func New(runnerPath string) *Adapter {
	return &Adapter{runner: runnerPath}
}

func (a *Adapter) Estimate(ctx context.Context, videoPath string) ([]types.FrameRecord, error) {
	if a.runner == "" {
		return nil, fmt.Errorf("mediapipe: runner binary is not configured")
	}

	tmpDir, err := os.MkdirTemp("", "mediapipe-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	outPath := filepath.Join(tmpDir, "poses.json")
	cmd := exec.CommandContext(ctx, a.runner,
		"--video", videoPath,
		"--out", outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("mediapipe runner failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("mediapipe output: %w", err)
	}
	var recs []types.FrameRecord
	if err := json.Unmarshal(jb, &recs); err != nil {
		return nil, fmt.Errorf("mediapipe output: %w", err)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Index < recs[j].Index })
	return recs, nil
}
