// Package pipeline assembles the port adapters behind one config so the
// CLI commands share a single wiring point.
package pipeline

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"sigkit/internal/domain/vtt"
	"sigkit/internal/llm"
	"sigkit/internal/ports"
	"sigkit/internal/ports/adapters/ffmpeg"
	"sigkit/internal/ports/adapters/gapdiar"
	"sigkit/internal/ports/adapters/mediapipe"
	"sigkit/internal/ports/adapters/openface"
	"sigkit/internal/ports/adapters/pyannote"
	"sigkit/internal/ports/adapters/whispercpp"
	"sigkit/internal/usecase"
)

type Config struct {
	FFmpegPath  string
	FFprobePath string

	WhisperBin   string
	WhisperModel string

	// PyannoteRunner invokes the diarization model. When empty and
	// TranscriptVTT is set, speaker turns are inferred from the pauses
	// of that transcript instead.
	PyannoteRunner string
	TranscriptVTT  string

	OpenFaceBin     string
	MediaPipeRunner string

	// Chat-model selection, merged with an optional model YAML file.
	Provider        string
	Model           string
	APIKey          string
	ModelConfigPath string

	Log *zap.Logger
}

func (c Config) Validate() error {
	if c.ModelConfigPath != "" {
		if _, err := os.Stat(c.ModelConfigPath); err != nil {
			return fmt.Errorf("stat model config: %w", err)
		}
	}
	if c.TranscriptVTT != "" {
		if _, err := os.Stat(c.TranscriptVTT); err != nil {
			return fmt.Errorf("stat transcript: %w", err)
		}
	}
	return nil
}

// Build wires the adapters into a ready usecase.
func Build(cfg Config) (usecase.Usecase, error) {
	if err := cfg.Validate(); err != nil {
		return usecase.Usecase{}, err
	}

	diar, err := buildDiarizer(cfg)
	if err != nil {
		return usecase.Usecase{}, err
	}

	modelCfg, err := llm.LoadConfig(cfg.Provider, cfg.Model, cfg.APIKey, cfg.ModelConfigPath)
	if err != nil {
		return usecase.Usecase{}, err
	}
	model, err := llm.NewModel(modelCfg)
	if err != nil {
		return usecase.Usecase{}, err
	}

	return usecase.New(usecase.Deps{
		Media: ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		ASR:   whispercpp.New(cfg.WhisperBin, cfg.WhisperModel),
		Diar:  diar,
		Faces: openface.New(cfg.OpenFaceBin),
		Poses: mediapipe.New(cfg.MediaPipeRunner),
		Model: model,
		Log:   cfg.Log,
	}), nil
}

func buildDiarizer(cfg Config) (ports.Diarizer, error) {
	if cfg.PyannoteRunner != "" {
		return pyannote.New(cfg.PyannoteRunner), nil
	}
	if cfg.TranscriptVTT != "" {
		tr, err := vtt.Read(cfg.TranscriptVTT)
		if err != nil {
			return nil, fmt.Errorf("load transcript for diarization: %w", err)
		}
		return gapdiar.New(tr, 0), nil
	}
	return pyannote.New(""), nil
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.Diarizer = (*pyannote.Adapter)(nil)
var _ ports.Diarizer = (*gapdiar.Adapter)(nil)
var _ ports.FaceAnalyzer = (*openface.Adapter)(nil)
var _ ports.PoseEstimator = (*mediapipe.Adapter)(nil)
