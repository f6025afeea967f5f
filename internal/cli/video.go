package cli

import (
	"github.com/spf13/cobra"

	"sigkit/internal/domain/vtt"
	"sigkit/internal/pipeline"
	"sigkit/internal/usecase"
)

func videoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "Video editing and feature extraction",
	}
	cmd.AddCommand(videoTrimCmd(), videoCropCmd(), videoFacesCmd(), videoPosesCmd())
	return cmd
}

func videoTrimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trim",
		Short: "Cut a video to a time window",
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
			out, _ := cmd.Flags().GetString("out")
			startStr, _ := cmd.Flags().GetString("start")
			endStr, _ := cmd.Flags().GetString("end")
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			start, err := vtt.ParseTimestamp(startStr)
			if err != nil {
				return err
			}
			end, err := vtt.ParseTimestamp(endStr)
			if err != nil {
				return err
			}
			return uc.Trim(cmd.Context(), video, start, end, out, overwrite)
		},
	}
	cmd.Flags().String("video", "", "Input video")
	cmd.Flags().String("out", "", "Output video")
	cmd.Flags().String("start", "", "Window start, [HH:]MM:SS.mmm")
	cmd.Flags().String("end", "", "Window end, [HH:]MM:SS.mmm")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "video", "out", "start", "end")
	return cmd
}

func videoCropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crop",
		Short: "Crop a rectangular region out of a video",
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
			out, _ := cmd.Flags().GetString("out")
			x, _ := cmd.Flags().GetInt("x")
			y, _ := cmd.Flags().GetInt("y")
			w, _ := cmd.Flags().GetInt("width")
			h, _ := cmd.Flags().GetInt("height")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.Crop(cmd.Context(), video, x, y, w, h, out, overwrite)
		},
	}
	cmd.Flags().String("video", "", "Input video")
	cmd.Flags().String("out", "", "Output video")
	cmd.Flags().Int("x", 0, "Region left edge")
	cmd.Flags().Int("y", 0, "Region top edge")
	cmd.Flags().Int("width", 0, "Region width")
	cmd.Flags().Int("height", 0, "Region height")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "video", "out", "width", "height")
	return cmd
}

func videoFacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faces",
		Short: "Extract per-frame facial features into an archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			cfg.OpenFaceBin, _ = cmd.Flags().GetString("openface-bin")
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			video, _ := cmd.Flags().GetString("video")
			features, _ := cmd.Flags().GetString("features")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.AnalyzeFaces(cmd.Context(), usecase.FeatureInput{
				Video:     video,
				Out:       features,
				Overwrite: overwrite,
			})
		},
	}
	cmd.Flags().String("video", "", "Input video")
	cmd.Flags().String("features", "", "Output feature archive (.tar, .tar.gz or .tgz)")
	cmd.Flags().String("openface-bin", getenvDefault("OPENFACE_BIN", "FeatureExtraction"), "OpenFace FeatureExtraction binary")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "video", "features")
	return cmd
}

func videoPosesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poses",
		Short: "Extract per-frame body landmarks into an archive",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := baseConfig(cmd)
			if err != nil {
				return err
			}
			cfg.MediaPipeRunner, _ = cmd.Flags().GetString("runner")
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			video, _ := cmd.Flags().GetString("video")
			features, _ := cmd.Flags().GetString("features")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			return uc.EstimatePoses(cmd.Context(), usecase.FeatureInput{
				Video:     video,
				Out:       features,
				Overwrite: overwrite,
			})
		},
	}
	cmd.Flags().String("video", "", "Input video")
	cmd.Flags().String("features", "", "Output feature archive (.tar, .tar.gz or .tgz)")
	cmd.Flags().String("runner", "", "Pose-estimation runner binary")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	markRequired(cmd, "video", "features", "runner")
	return cmd
}
