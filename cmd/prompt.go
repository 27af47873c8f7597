/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/longkey1/gemchat/internal/gemchat/config"
	promptpkg "github.com/longkey1/gemchat/internal/gemchat/prompt"
)

var withDir bool

// promptsCmd represents the prompts command
var promptsCmd = &cobra.Command{
	Use:     "prompts",
	Aliases: []string{"prompt"},
	Short:   "List available prompt templates",
	Long: `List all available prompt templates from the configured prompt directories.
This command recursively scans all prompt directories specified in the configuration and displays
the names of available .toml prompt files, including those in subdirectories.

The prompt files should be in TOML format with the following structure:
system = "System prompt with optional {{input}} placeholder"
user = "User prompt with optional {{input}} placeholder"

Prompt names are displayed as relative paths from the prompt directory root.
For example, a file at ${prompt_dir}/foo/bar.toml will be displayed as "foo/bar".
When the same name exists in several directories, the last one wins.

If you want to see which directory each prompt comes from, use the --with-dir option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("prompt directories", zap.Strings("dirs", cfg.PromptDirs))

		names, dirs, err := promptpkg.List(cfg.PromptDirs)
		if err != nil {
			return err
		}

		if len(names) == 0 {
			fmt.Println("No prompt templates found.")
			fmt.Println("Create .toml files in the following directories:")
			for _, promptDir := range cfg.PromptDirs {
				fmt.Printf("  - %s\n", promptDir)
			}
			return nil
		}

		fmt.Printf("Available prompt templates (%d found):\n\n", len(names))
		for _, name := range names {
			if withDir {
				fmt.Printf("  %s (from %s)\n", name, dirs[name])
			} else {
				fmt.Printf("  %s\n", name)
			}
		}

		fmt.Printf("\nUse a prompt template with: gemchat chat --prompt <name> [message]\n")
		fmt.Printf("Example: gemchat chat --prompt foo/bar [message]\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
	promptsCmd.Flags().BoolVar(&withDir, "with-dir", false, "Show the directory each prompt was found in")
}
