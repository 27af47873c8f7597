/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/longkey1/gemchat/internal/gemchat"
	"github.com/longkey1/gemchat/internal/gemchat/config"
	"github.com/longkey1/gemchat/internal/gemini"
)

// modelsCmd represents the models command
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available Gemini models",
	Long: `List the Gemini models that support generateContent.
Fetches the latest model information directly from the models endpoint.

Example:
  gemchat models`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		provider, err := newProvider(cfg)
		if err != nil {
			return fmt.Errorf("creating provider: %w", err)
		}

		models, err := provider.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		if len(models) == 0 {
			return fmt.Errorf("no models returned from API")
		}

		current, _ := cfg.GetModelName()
		printModels(models, current)
		return nil
	},
}

// printModels writes the model table, marking current as the default
func printModels(models []gemini.ModelInfo, current string) {
	fmt.Printf("Available models for %s:\n\n", gemini.ProviderName)

	maxModelWidth := 15
	for _, model := range models {
		if n := len(gemchat.FormatModelString(gemini.ProviderName, model.ID)); n > maxModelWidth {
			maxModelWidth = n
		}
	}

	fmt.Printf("%-*s  %-7s  %s\n", maxModelWidth, "MODEL", "DEFAULT", "DESCRIPTION")
	fmt.Printf("%s  %s  %s\n",
		strings.Repeat("-", maxModelWidth),
		strings.Repeat("-", 7),
		strings.Repeat("-", 50))

	for _, model := range models {
		defaultMark := ""
		if model.IsDefault || model.ID == current {
			defaultMark = "Yes"
		}
		fmt.Printf("%-*s  %-7s  %s\n",
			maxModelWidth,
			gemchat.FormatModelString(gemini.ProviderName, model.ID),
			defaultMark,
			firstLine(model.Description))
	}

	fmt.Printf("\nUse a model with: gemchat chat --model <model> [message]\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
