// Package openface extracts facial features by running OpenFace's
// FeatureExtraction binary and regrouping its per-frame CSV columns
// into named feature vectors.
package openface

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"sigkit/internal/types"
)

// defaultOptions mirrors the OpenFace flags the toolkit depends on:
// 2D/3D landmarks, PDM parameters, head pose, action units and gaze.
var defaultOptions = []string{"-2Dfp", "-3Dfp", "-pdmparams", "-pose", "-aus", "-gaze", "-au_static"}

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "FeatureExtraction"
	}
	return &Adapter{bin: binPath}
}

func (a *Adapter) Analyze(ctx context.Context, videoPath string) ([]types.FrameRecord, error) {
	tmpDir, err := os.MkdirTemp("", "openface-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	args := append([]string{"-f", videoPath, "-out_dir", tmpDir}, defaultOptions...)
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("openface failed: %w\n%s", err, string(b))
	}

	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	csvPath := filepath.Join(tmpDir, stem+".csv")
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("openface output: %w", err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV regroups OpenFace's flat CSV columns into per-frame feature
// vectors. The frame counter is 1-based in the CSV and 0-based here.
func ParseCSV(r io.Reader) ([]types.FrameRecord, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("openface csv: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("openface csv: empty file")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	frameCol := -1
	for i, h := range header {
		if h == "frame" {
			frameCol = i
			break
		}
	}
	if frameCol < 0 {
		return nil, fmt.Errorf("openface csv: no frame column")
	}

	out := make([]types.FrameRecord, 0, len(rows)-1)
	for lineNo, row := range rows[1:] {
		frame, err := strconv.Atoi(strings.TrimSpace(row[frameCol]))
		if err != nil {
			return nil, fmt.Errorf("openface csv: row %d: bad frame: %w", lineNo+2, err)
		}
		rec := types.FrameRecord{Index: frame - 1, Features: map[string][]float64{}}
		for i, h := range header {
			if i == frameCol || i >= len(row) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("openface csv: row %d: bad %s: %w", lineNo+2, h, err)
			}
			group := groupFor(h)
			rec.Features[group] = append(rec.Features[group], v)
		}
		out = append(out, rec)
	}
	return out, nil
}

// groupFor folds column names into feature-vector names: x_0..x_67 and
// y_* become "landmarks_2d", AU*_r becomes "au_intensities", and so on.
// Ungrouped scalars (confidence, success, timestamp) keep their name.
func groupFor(col string) string {
	switch {
	case strings.HasPrefix(col, "gaze_angle"):
		return "gaze_angle"
	case strings.HasPrefix(col, "gaze_0"):
		return "gaze_left"
	case strings.HasPrefix(col, "gaze_1"):
		return "gaze_right"
	case strings.HasPrefix(col, "eye_lmk"):
		return "eye_landmarks"
	case strings.HasPrefix(col, "pose_"):
		return "pose"
	case strings.HasPrefix(col, "x_"), strings.HasPrefix(col, "y_"):
		return "landmarks_2d"
	case strings.HasPrefix(col, "X_"), strings.HasPrefix(col, "Y_"), strings.HasPrefix(col, "Z_"):
		return "landmarks_3d"
	case strings.HasPrefix(col, "p_"):
		return "pdm"
	case strings.HasPrefix(col, "AU") && strings.HasSuffix(col, "_r"):
		return "au_intensities"
	case strings.HasPrefix(col, "AU") && strings.HasSuffix(col, "_c"):
		return "au_presence"
	default:
		return col
	}
}
