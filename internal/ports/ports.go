package ports

import (
	"context"
	"time"

	"sigkit/internal/types"
)

type MediaTool interface {
	ExtractAudio(ctx context.Context, inVideo, outAudio string) error
	ConvertMono(ctx context.Context, inAudio, outWav string) error
	SplitChannels(ctx context.Context, inStereo, outLeft, outRight string) error
	Mixdown(ctx context.Context, inWavs []string, outWav string) error
	Normalize(ctx context.Context, inWav, outWav string) error
	Trim(ctx context.Context, inVideo string, start, end time.Duration, outVideo string) error
	Crop(ctx context.Context, inVideo string, x, y, w, h int, outVideo string) error
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	ProbeChannels(ctx context.Context, path string) (int, error)
}

type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string, opts TranscribeOpts) (types.Transcript, error)
}

// TranscribeOpts selects the whisper task and spoken language.
type TranscribeOpts struct {
	Task     string // "transcribe" or "translate"
	Language string // optional country code, e.g. "en"
}

type Diarizer interface {
	Diarize(ctx context.Context, wavPath string) ([]types.SpeakerTurn, error)
}

type FaceAnalyzer interface {
	Analyze(ctx context.Context, videoPath string) ([]types.FrameRecord, error)
}

type PoseEstimator interface {
	Estimate(ctx context.Context, videoPath string) ([]types.FrameRecord, error)
}

type ChatModel interface {
	Chat(ctx context.Context, msgs []types.Message) (string, error)
}
