package cli

import (
	"os"

	"github.com/spf13/cobra"

	"sigkit/internal/pipeline"
	"sigkit/internal/usecase"
)

func textCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Language-model chat and instruction tools",
	}
	cmd.AddCommand(textChatCmd(), textInstructCmd())
	return cmd
}

func textChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send one prompt to a chat model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := modelConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			prompt, _ := cmd.Flags().GetString("prompt")
			out, _ := cmd.Flags().GetString("out")
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			answer, err := uc.Chat(cmd.Context(), usecase.ChatInput{
				Prompt:    prompt,
				Out:       out,
				Overwrite: overwrite,
			})
			if err != nil {
				return err
			}
			cmd.Println(answer)
			return nil
		},
	}
	cmd.Flags().String("prompt", "", "Prompt text or a .txt file path")
	cmd.Flags().String("out", "", "Optional .txt file to save the answer")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	addModelFlags(cmd)
	markRequired(cmd, "prompt")
	return cmd
}

func textInstructCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instruct",
		Short: "Apply a prompt/parser chain to a text or CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := modelConfig(cmd)
			if err != nil {
				return err
			}
			uc, err := pipeline.Build(cfg)
			if err != nil {
				return err
			}
			instruction, _ := cmd.Flags().GetString("instruction")
			chain, _ := cmd.Flags().GetString("chain")
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			joiner, _ := cmd.Flags().GetString("joiner")
			overwrite, _ := cmd.Flags().GetBool("overwrite")

			return uc.Instruct(cmd.Context(), usecase.InstructInput{
				Instruction: instruction,
				Chain:       chain,
				In:          input,
				Out:         output,
				Joiner:      joiner,
				Overwrite:   overwrite,
			})
		},
	}
	cmd.Flags().String("instruction", "", "Instruction YAML defining the chains")
	cmd.Flags().String("chain", "", "Chain name when the file defines several")
	cmd.Flags().String("input", "", "Input .txt or .csv file")
	cmd.Flags().String("output", "", "Output file matching the input kind")
	cmd.Flags().String("joiner", "", "Separator joining multi-segment outputs")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output")
	addModelFlags(cmd)
	markRequired(cmd, "instruction", "input", "output")
	return cmd
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Chat-model provider: ollama, hf, openai or anthropic")
	cmd.Flags().String("model", "", "Model name, provider default when empty")
	cmd.Flags().String("api-key", "", "Provider API key, read from the environment when empty")
	cmd.Flags().String("model-config", "", "Model YAML file (provider, model, base_url)")
}

// modelConfig resolves the chat-model flags, falling back to the
// provider's conventional environment variable for the API key.
func modelConfig(cmd *cobra.Command) (pipeline.Config, error) {
	cfg, err := baseConfig(cmd)
	if err != nil {
		return pipeline.Config{}, err
	}
	cfg.Provider, _ = cmd.Flags().GetString("provider")
	cfg.Model, _ = cmd.Flags().GetString("model")
	cfg.APIKey, _ = cmd.Flags().GetString("api-key")
	cfg.ModelConfigPath, _ = cmd.Flags().GetString("model-config")
	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv(cfg.Provider)
	}
	return cfg, nil
}

func apiKeyFromEnv(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	case "hf", "huggingface":
		return os.Getenv("HF_API_KEY")
	default:
		return ""
	}
}
