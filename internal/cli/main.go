// Package cli defines the sigkit command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sigkit/internal/pipeline"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "sigkit",
		Short:        "Multimodal recording toolkit: audio, video and text tools",
		SilenceUsage: true,
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.PersistentFlags().Bool("verbose", false, "Log at debug level")
	root.PersistentFlags().String("ffmpeg", "ffmpeg", "ffmpeg binary")
	root.PersistentFlags().String("ffprobe", "ffprobe", "ffprobe binary")

	root.AddCommand(audioCmd(), videoCmd(), textCmd())

	err := root.Execute()
	if activeLog != nil {
		_ = activeLog.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// activeLog is the logger built for the executing command, flushed
// before the process exits.
var activeLog *zap.Logger

// logger builds the process logger. --verbose switches to a development
// config at debug level, which is where parse diagnostics surface.
func logger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	var (
		log *zap.Logger
		err error
	)
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	activeLog = log
	return log, nil
}

// baseConfig collects the flags every command shares.
func baseConfig(cmd *cobra.Command) (pipeline.Config, error) {
	log, err := logger(cmd)
	if err != nil {
		return pipeline.Config{}, err
	}
	ffmpegPath, _ := cmd.Flags().GetString("ffmpeg")
	ffprobePath, _ := cmd.Flags().GetString("ffprobe")
	return pipeline.Config{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Log:         log,
	}, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
