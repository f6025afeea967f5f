// Package usecase holds the task orchestrators: each method validates
// its input and output paths, drives the port adapters and persists the
// resulting artifact.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"sigkit/internal/domain/featpack"
	"sigkit/internal/domain/paths"
	"sigkit/internal/domain/rttm"
	"sigkit/internal/domain/textio"
	"sigkit/internal/domain/vtt"
	"sigkit/internal/llm"
	"sigkit/internal/ports"
	"sigkit/internal/types"
)

type Deps struct {
	Media ports.MediaTool
	ASR   ports.ASR
	Diar  ports.Diarizer
	Faces ports.FaceAnalyzer
	Poses ports.PoseEstimator
	Model ports.ChatModel
	Log   *zap.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return Usecase{d: d}
}

// ExtractAudio pulls the audio track of a video into a standalone file.
func (u Usecase) ExtractAudio(ctx context.Context, inVideo, outAudio string, overwrite bool) error {
	if err := paths.EnsureWritable(outAudio, overwrite); err != nil {
		return err
	}
	u.d.Log.Info("extracting audio", zap.String("video", inVideo), zap.String("audio", outAudio))
	return u.d.Media.ExtractAudio(ctx, inVideo, outAudio)
}

// ConvertMono downmixes an audio file to single-channel WAV.
func (u Usecase) ConvertMono(ctx context.Context, inAudio, outWav string, overwrite bool) error {
	if err := paths.CheckSuffix(outWav, ".wav"); err != nil {
		return err
	}
	if err := paths.EnsureWritable(outWav, overwrite); err != nil {
		return err
	}
	u.d.Log.Info("converting to mono", zap.String("in", inAudio), zap.String("out", outWav))
	return u.d.Media.ConvertMono(ctx, inAudio, outWav)
}

// SplitChannels writes the left and right channels of a stereo file as
// separate mono WAVs.
func (u Usecase) SplitChannels(ctx context.Context, inStereo, outLeft, outRight string, overwrite bool) error {
	for _, out := range []string{outLeft, outRight} {
		if err := paths.CheckSuffix(out, ".wav"); err != nil {
			return err
		}
		if err := paths.EnsureWritable(out, overwrite); err != nil {
			return err
		}
	}
	u.d.Log.Info("splitting channels", zap.String("in", inStereo))
	return u.d.Media.SplitChannels(ctx, inStereo, outLeft, outRight)
}

// Mixdown mixes mono tracks into one normalized mono WAV. A single
// track is accepted and comes out gain-staged like any other input.
func (u Usecase) Mixdown(ctx context.Context, inWavs []string, outWav string, overwrite bool) error {
	if len(inWavs) == 0 {
		return fmt.Errorf("mixdown needs at least one input track")
	}
	if err := paths.CheckSuffix(outWav, ".wav"); err != nil {
		return err
	}
	if err := paths.EnsureWritable(outWav, overwrite); err != nil {
		return err
	}
	u.d.Log.Info("mixing tracks", zap.Strings("in", inWavs), zap.String("out", outWav))
	return u.d.Media.Mixdown(ctx, inWavs, outWav)
}

// Normalize boosts a WAV to peak amplitude.
func (u Usecase) Normalize(ctx context.Context, inWav, outWav string, overwrite bool) error {
	if err := paths.CheckSuffix(outWav, ".wav"); err != nil {
		return err
	}
	if err := paths.EnsureWritable(outWav, overwrite); err != nil {
		return err
	}
	u.d.Log.Info("normalizing", zap.String("in", inWav), zap.String("out", outWav))
	return u.d.Media.Normalize(ctx, inWav, outWav)
}

// Trim cuts a video to the [start, end] window.
func (u Usecase) Trim(ctx context.Context, inVideo string, start, end time.Duration, outVideo string, overwrite bool) error {
	if end <= start {
		return fmt.Errorf("trim window end %s is not after start %s", end, start)
	}
	if err := paths.EnsureWritable(outVideo, overwrite); err != nil {
		return err
	}
	u.d.Log.Info("trimming video",
		zap.String("in", inVideo),
		zap.Duration("start", start),
		zap.Duration("end", end),
	)
	return u.d.Media.Trim(ctx, inVideo, start, end, outVideo)
}

// Crop cuts a rectangular region out of every frame.
func (u Usecase) Crop(ctx context.Context, inVideo string, x, y, w, h int, outVideo string, overwrite bool) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("crop region must have positive size, got %dx%d", w, h)
	}
	if err := paths.EnsureWritable(outVideo, overwrite); err != nil {
		return err
	}
	u.d.Log.Info("cropping video", zap.String("in", inVideo), zap.String("out", outVideo))
	return u.d.Media.Crop(ctx, inVideo, x, y, w, h, outVideo)
}

type TranscribeInput struct {
	Audio     string
	Out       string // .vtt
	Task      string
	Language  string
	CacheDir  string
	Overwrite bool
}

// Transcribe runs speech recognition on a mono WAV and writes the
// transcript as WebVTT.
func (u Usecase) Transcribe(ctx context.Context, in TranscribeInput) error {
	if err := paths.CheckSuffix(in.Audio, ".wav"); err != nil {
		return err
	}
	if err := paths.CheckSuffix(in.Out, ".vtt"); err != nil {
		return err
	}
	u.d.Log.Info("transcribing", zap.String("audio", in.Audio), zap.String("task", in.Task))
	tr, err := u.d.ASR.Transcribe(ctx, in.Audio, in.CacheDir, ports.TranscribeOpts{
		Task:     in.Task,
		Language: in.Language,
	})
	if err != nil {
		return err
	}
	return vtt.Write(in.Out, tr, in.Overwrite)
}

type DiarizeInput struct {
	Audio     string
	Out       string // .rttm
	Overwrite bool
}

// Diarize segments a mono WAV by speaker and writes the turns as RTTM.
func (u Usecase) Diarize(ctx context.Context, in DiarizeInput) error {
	if err := paths.CheckSuffix(in.Audio, ".wav"); err != nil {
		return err
	}
	if err := paths.CheckSuffix(in.Out, ".rttm"); err != nil {
		return err
	}
	u.d.Log.Info("diarizing", zap.String("audio", in.Audio))
	turns, err := u.d.Diar.Diarize(ctx, in.Audio)
	if err != nil {
		return err
	}
	stem := strings.TrimSuffix(filepath.Base(in.Audio), filepath.Ext(in.Audio))
	return rttm.Write(in.Out, rttm.FromTurns(stem, turns), in.Overwrite)
}

type FeatureInput struct {
	Video     string
	Out       string // .tar, .tar.gz or .tgz
	Overwrite bool
}

// AnalyzeFaces extracts per-frame facial features from a video and
// archives them.
func (u Usecase) AnalyzeFaces(ctx context.Context, in FeatureInput) error {
	u.d.Log.Info("analyzing faces", zap.String("video", in.Video))
	records, err := u.d.Faces.Analyze(ctx, in.Video)
	if err != nil {
		return err
	}
	return writeFeatures(in.Out, records, in.Overwrite)
}

// EstimatePoses extracts per-frame body landmarks from a video and
// archives them.
func (u Usecase) EstimatePoses(ctx context.Context, in FeatureInput) error {
	u.d.Log.Info("estimating poses", zap.String("video", in.Video))
	records, err := u.d.Poses.Estimate(ctx, in.Video)
	if err != nil {
		return err
	}
	return writeFeatures(in.Out, records, in.Overwrite)
}

// writeFeatures archives one JSON entry per frame, keyed by the
// zero-padded frame index so entries sort in frame order.
func writeFeatures(out string, records []types.FrameRecord, overwrite bool) error {
	entries := make(map[string][]byte, len(records))
	for _, rec := range records {
		b, err := json.Marshal(rec.Features)
		if err != nil {
			return err
		}
		entries[fmt.Sprintf("%015d.json", rec.Index)] = b
	}
	return featpack.Write(out, entries, overwrite)
}

type ChatInput struct {
	Prompt    string // inline text or a .txt path
	Out       string // optional .txt to save the answer
	Overwrite bool
}

// Chat sends a single prompt to the chat model and returns the answer.
// When Out is set the answer is also written to disk.
func (u Usecase) Chat(ctx context.Context, in ChatInput) (string, error) {
	text := in.Prompt
	if strings.HasSuffix(strings.TrimSpace(text), ".txt") {
		var err error
		if text, err = textio.ReadTxt(strings.TrimSpace(text)); err != nil {
			return "", err
		}
	}
	msgs := []types.Message{{Role: "user", Content: text}}
	u.d.Log.Info("chatting", zap.Int("prompt_len", len(text)))
	answer, err := u.d.Model.Chat(ctx, msgs)
	if err != nil {
		return "", err
	}
	if in.Out != "" {
		if err := textio.WriteTxt(in.Out, answer, in.Overwrite); err != nil {
			return "", err
		}
	}
	return answer, nil
}

type InstructInput struct {
	Instruction string // chain YAML path
	Chain       string // chain name inside the file; optional when it defines one
	In          string // .txt or .csv
	Out         string // .txt or .csv, matching In
	Joiner      string // joins multi-segment outputs in text mode
	Overwrite   bool
}

// Instruct applies a prompt/parser chain to every record of the input
// file. Text inputs yield one record; CSV inputs yield one per row with
// a matching output column.
func (u Usecase) Instruct(ctx context.Context, in InstructInput) error {
	chains, err := llm.ChainsFromYAML(in.Instruction, u.d.Model, u.d.Log)
	if err != nil {
		return err
	}
	chain, err := pickChain(chains, in.Chain)
	if err != nil {
		return err
	}
	joiner := in.Joiner
	if joiner == "" {
		joiner = "\n"
	}

	switch filepath.Ext(in.In) {
	case ".txt":
		if err := paths.CheckSuffix(in.Out, ".txt"); err != nil {
			return err
		}
		text, err := textio.ReadTxt(in.In)
		if err != nil {
			return err
		}
		out, err := chain.Run(ctx, map[string]string{"text": text, "text_to_segment": text})
		if err != nil {
			return err
		}
		return textio.WriteTxt(in.Out, strings.Join(out, joiner), in.Overwrite)
	case ".csv":
		if err := paths.CheckSuffix(in.Out, ".csv"); err != nil {
			return err
		}
		table, err := textio.ReadCSV(in.In)
		if err != nil {
			return err
		}
		result := textio.Table{Header: append(append([]string{}, table.Header...), "result")}
		for i, rec := range table.Records() {
			out, err := chain.Run(ctx, rec)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			result.Rows = append(result.Rows, append(append([]string{}, table.Rows[i]...), strings.Join(out, joiner)))
		}
		return textio.WriteCSV(in.Out, result, in.Overwrite)
	default:
		return fmt.Errorf("%s: expected a .txt or .csv input", in.In)
	}
}

func pickChain(chains map[string]*llm.Chain, name string) (*llm.Chain, error) {
	if name != "" {
		chain, ok := chains[name]
		if !ok {
			return nil, fmt.Errorf("instruction file defines no chain %q", name)
		}
		return chain, nil
	}
	if len(chains) == 1 {
		for _, chain := range chains {
			return chain, nil
		}
	}
	return nil, fmt.Errorf("instruction file defines %d chains, pass --chain to pick one", len(chains))
}
