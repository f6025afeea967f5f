// Package ffmpeg shells out to ffmpeg/ffprobe for every audio and video
// manipulation the toolkit performs.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// ExtractAudio pulls the audio track out of a video at best VBR quality,
// resampled to 32 kHz, keeping the channel layout.
func (a *Adapter) ExtractAudio(ctx context.Context, inVideo, outAudio string) error {
	return a.run(ctx, "extract audio",
		"-y",
		"-i", inVideo,
		"-vn",
		"-q:a", "0",
		"-ar", "32000",
		outAudio,
	)
}

// ConvertMono folds any audio file down to one mono 16-bit WAV channel.
// Each channel is measured on its own and brought to -6 dBFS before the
// overlay, so a quiet channel contributes as much as a loud one.
func (a *Adapter) ConvertMono(ctx context.Context, inAudio, outWav string) error {
	channels, err := a.ProbeChannels(ctx, inAudio)
	if err != nil {
		return err
	}
	if channels < 1 {
		return fmt.Errorf("convert mono: %s has no audio channels", inAudio)
	}
	gains := make([]float64, channels)
	for ch := range gains {
		if gains[ch], err = a.channelGainToPeak(ctx, inAudio, ch, -6.0); err != nil {
			return err
		}
	}
	return a.run(ctx, "convert mono",
		"-y",
		"-i", inAudio,
		"-filter_complex", monoOverlayFilter(gains),
		"-map", "[out]",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		outWav,
	)
}

// SplitChannels writes the left and right channels of a stereo track to
// separate mono WAVs. Non-stereo input is rejected.
func (a *Adapter) SplitChannels(ctx context.Context, inStereo, outLeft, outRight string) error {
	channels, err := a.ProbeChannels(ctx, inStereo)
	if err != nil {
		return err
	}
	if channels != 2 {
		return fmt.Errorf("split channels: %s has %d channels, expected stereo", inStereo, channels)
	}
	return a.run(ctx, "split channels",
		"-y",
		"-i", inStereo,
		"-filter_complex", "[0:a]channelsplit=channel_layout=stereo[left][right]",
		"-map", "[left]", "-c:a", "pcm_s16le", outLeft,
		"-map", "[right]", "-c:a", "pcm_s16le", outRight,
	)
}

// Mixdown overlays mono tracks into one mono WAV, peak-normalizing each
// input to -6 dBFS first.
func (a *Adapter) Mixdown(ctx context.Context, inWavs []string, outWav string) error {
	if len(inWavs) == 0 {
		return fmt.Errorf("mixdown: no input tracks")
	}

	args := []string{"-y"}
	var filter strings.Builder
	for i, in := range inWavs {
		args = append(args, "-i", in)
		gain, err := a.gainToPeak(ctx, in, -6.0)
		if err != nil {
			return err
		}
		fmt.Fprintf(&filter, "[%d:a]volume=%.3fdB[a%d];", i, gain, i)
	}
	for i := range inWavs {
		fmt.Fprintf(&filter, "[a%d]", i)
	}
	fmt.Fprintf(&filter, "amix=inputs=%d:normalize=0[out]", len(inWavs))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		outWav,
	)
	return a.run(ctx, "mixdown", args...)
}

// Normalize raises the track so its peak sits at 0 dBFS.
func (a *Adapter) Normalize(ctx context.Context, inWav, outWav string) error {
	gain, err := a.gainToPeak(ctx, inWav, 0)
	if err != nil {
		return err
	}
	return a.run(ctx, "normalize",
		"-y",
		"-i", inWav,
		"-af", fmt.Sprintf("volume=%.3fdB", gain),
		"-c:a", "pcm_s16le",
		outWav,
	)
}

// Trim re-encodes the span between start and end into a new video.
func (a *Adapter) Trim(ctx context.Context, inVideo string, start, end time.Duration, outVideo string) error {
	if end <= start {
		return fmt.Errorf("trim: end %s is not after start %s", end, start)
	}
	return a.run(ctx, "trim",
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", inVideo,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		outVideo,
	)
}

// Crop cuts a w x h window at (x, y) out of every frame.
func (a *Adapter) Crop(ctx context.Context, inVideo string, x, y, w, h int, outVideo string) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("crop: window %dx%d is empty", w, h)
	}
	return a.run(ctx, "crop",
		"-y",
		"-i", inVideo,
		"-vf", fmt.Sprintf("crop=%d:%d:%d:%d", w, h, x, y),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "copy",
		outVideo,
	)
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) ProbeChannels(ctx context.Context, path string) (int, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=channels",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe channels: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse channels %q: %w", s, err)
	}
	return n, nil
}

func (a *Adapter) run(ctx context.Context, what string, args ...string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w\n%s", what, err, string(b))
	}
	return nil
}

var maxVolumeRE = regexp.MustCompile(`max_volume:\s*(-?\d+(?:\.\d+)?)\s*dB`)

// gainToPeak measures the track's peak with volumedetect and returns the
// gain in dB that moves that peak to targetDB.
func (a *Adapter) gainToPeak(ctx context.Context, in string, targetDB float64) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", in,
		"-af", "volumedetect",
		"-f", "null",
		"-",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffmpeg volumedetect: %w\n%s", err, string(b))
	}
	peak, err := parseMaxVolume(string(b))
	if err != nil {
		return 0, err
	}
	return targetDB - peak, nil
}

// channelGainToPeak measures one channel's peak in isolation and returns
// the gain that moves it to targetDB.
func (a *Adapter) channelGainToPeak(ctx context.Context, in string, ch int, targetDB float64) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", in,
		"-af", fmt.Sprintf("pan=mono|c0=c%d,volumedetect", ch),
		"-f", "null",
		"-",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffmpeg volumedetect: %w\n%s", err, string(b))
	}
	peak, err := parseMaxVolume(string(b))
	if err != nil {
		return 0, err
	}
	return targetDB - peak, nil
}

func parseMaxVolume(out string) (float64, error) {
	m := maxVolumeRE.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("volumedetect output has no max_volume line")
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse max_volume %q: %w", m[1], err)
	}
	return v, nil
}

// monoOverlayFilter builds the filter graph applying each channel's gain
// and overlaying the results: split the stream per channel, isolate
// channel i with pan, apply its gain, then amix without renormalizing.
// Mono input needs no split, only its gain.
func monoOverlayFilter(gains []float64) string {
	if len(gains) == 1 {
		return fmt.Sprintf("[0:a]volume=%.3fdB[out]", gains[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[0:a]asplit=%d", len(gains))
	for i := range gains {
		fmt.Fprintf(&b, "[s%d]", i)
	}
	b.WriteString(";")
	for i, gain := range gains {
		fmt.Fprintf(&b, "[s%d]pan=mono|c0=c%d,volume=%.3fdB[a%d];", i, i, gain, i)
	}
	for i := range gains {
		fmt.Fprintf(&b, "[a%d]", i)
	}
	fmt.Fprintf(&b, "amix=inputs=%d:normalize=0[out]", len(gains))
	return b.String()
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
