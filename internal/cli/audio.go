package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sigkit/internal/pipeline"
	"sigkit/internal/usecase"
)

func audioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audio",
		Short: "Audio extraction, conversion and analysis",
	}
	cmd.AddCommand(
		audioExtractCmd(),
		audioConvertCmd(),
		audioSplitCmd(),
		audioMixdownCmd(),
		audioNormalizeCmd(),
		audioTranscribeCmd(),
		audioDiarizeCmd(),
	)
	return cmd
}

func audioExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the audio track of a video",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			video, _ := cmd.Flags().GetString("video")
			audio, _ := cmd.Flags().GetString("audio")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.ExtractAudio(cmd.Context(), video, audio, overwrite)
		},
	}
	cmd.Flags().String("video", "", "Input video")
	cmd.Flags().String("audio", "", "Output audio file")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "video", "audio")
	return cmd
}

func audioConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert any audio file to mono WAV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			audio, _ := cmd.Flags().GetString("audio")
			out, _ := cmd.Flags().GetString("out")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.ConvertMono(cmd.Context(), audio, out, overwrite)
		},
	}
	cmd.Flags().String("audio", "", "Input audio")
	cmd.Flags().String("out", "", "Output mono WAV")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "audio", "out")
	return cmd
}

func audioSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a stereo WAV into left and right mono tracks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			audio, _ := cmd.Flags().GetString("audio")
			left, _ := cmd.Flags().GetString("left")
			right, _ := cmd.Flags().GetString("right")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.SplitChannels(cmd.Context(), audio, left, right, overwrite)
		},
	}
	cmd.Flags().String("audio", "", "Input stereo WAV")
	cmd.Flags().String("left", "", "Output left-channel WAV")
	cmd.Flags().String("right", "", "Output right-channel WAV")
	cmd.Flags().Bool("overwrite", false, "Replace existing outputs")
	markRequired(cmd, "audio", "left", "right")
	return cmd
}

func audioMixdownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mixdown",
		Short: "Mix several mono tracks into one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			audio, _ := cmd.Flags().GetStringSlice("audio")
			out, _ := cmd.Flags().GetString("out")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.Mixdown(cmd.Context(), audio, out, overwrite)
		},
	}
	cmd.Flags().StringSlice("audio", nil, "Input mono WAVs (repeatable)")
	cmd.Flags().String("out", "", "Output mixed mono WAV")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "audio", "out")
	return cmd
}

func audioNormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize a WAV to peak amplitude",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			audio, _ := cmd.Flags().GetString("audio")
			out, _ := cmd.Flags().GetString("out")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.Normalize(cmd.Context(), audio, out, overwrite)
		},
	}
	cmd.Flags().String("audio", "", "Input WAV")
	cmd.Flags().String("out", "", "Output normalized WAV")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "audio", "out")
	return cmd
}

func audioTranscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe a mono WAV to WebVTT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			cfg.WhisperBin, _ = cmd.Flags().GetString("whisper-bin")
			cfg.WhisperModel, _ = cmd.Flags().GetString("whisper-model")
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			audio, _ := cmd.Flags().GetString("audio")
			out, _ := cmd.Flags().GetString("transcription")
			task, _ := cmd.Flags().GetString("task")
			language, _ := cmd.Flags().GetString("language")
			cacheDir, _ := cmd.Flags().GetString("cache-dir")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.Transcribe(cmd.Context(), usecase.TranscribeInput{
				Audio:     audio,
				Out:       out,
				Task:      task,
				Language:  language,
				CacheDir:  cacheDir,
				Overwrite: overwrite,
			})
		},
	}
	cmd.Flags().String("audio", "", "Input mono WAV")
	cmd.Flags().String("transcription", "", "Output .vtt file")
	cmd.Flags().String("task", "transcribe", "Whisper task: transcribe or translate")
	cmd.Flags().String("language", "", "Spoken language hint, e.g. en")
	cmd.Flags().String("whisper-bin", getenvDefault("WHISPER_BIN", ".cache/bin/whisper.cpp"), "whisper.cpp binary")
	cmd.Flags().String("whisper-model", getenvDefault("WHISPER_MODEL", ".cache/models/ggml-base.bin"), "whisper.cpp model")
	cmd.Flags().String("cache-dir", ".cache", "Working directory for intermediate files")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "audio", "transcription")
	return cmd
}

func audioDiarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diarize",
		Short: "Segment a mono WAV by speaker into RTTM",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			cfg.PyannoteRunner, _ = cmd.Flags().GetString("runner")
			cfg.TranscriptVTT, _ = cmd.Flags().GetString("transcription")
			if cfg.PyannoteRunner == "" && cfg.TranscriptVTT == "" {
				return fmt.Errorf("pass --runner or --transcription to pick a diarizer")
			}
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			audio, _ := cmd.Flags().GetString("audio")
			out, _ := cmd.Flags().GetString("diarization")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.Diarize(cmd.Context(), usecase.DiarizeInput{
				Audio:     audio,
				Out:       out,
				Overwrite: overwrite,
			})
		},
	}
	cmd.Flags().String("audio", "", "Input mono WAV")
	cmd.Flags().String("diarization", "", "Output .rttm file")
	cmd.Flags().String("runner", "", "Diarization runner binary")
	cmd.Flags().String("transcription", "", "Transcript .vtt for pause-based speaker turns")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "audio", "diarization")
	return cmd
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}
