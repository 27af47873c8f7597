package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/longkey1/gemchat/internal/gemchat/config"
)

var configFields = []string{
	"configfile", "model", "gemini_base_url", "gemini_token", "transport",
	"request_timeout", "markdown", "word_wrap", "promptdirs",
	"session_message_threshold", "session_retention_days",
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + strings.Join(configFields, ", ") + `

Examples:
  gemchat config                   # Show all configuration
  gemchat config model             # Show only model
  gemchat config gemini_token      # Show only Gemini token (masked)
  gemchat config promptdirs        # Show only prompt directories`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		if len(args) > 0 {
			value, ok := configField(cfg, args[0])
			if !ok {
				return fmt.Errorf("unknown field: %s\nAvailable fields: %s", args[0], strings.Join(configFields, ", "))
			}
			fmt.Println(value)
			return nil
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("Model: %s\n", cfg.Model)
		fmt.Printf("GeminiBaseURL: %s\n", cfg.GeminiBaseURL)
		fmt.Printf("GeminiToken: %s\n", maskToken(cfg.GeminiToken))
		fmt.Printf("Transport: %s\n", cfg.Transport)
		fmt.Printf("RequestTimeout: %s\n", cfg.RequestTimeout)
		fmt.Printf("Markdown: %v\n", cfg.Markdown)
		fmt.Printf("WordWrap: %d\n", cfg.WordWrap)
		fmt.Printf("PromptDirectories: %s\n", strings.Join(cfg.PromptDirs, ","))
		fmt.Printf("SessionMessageThreshold: %d\n", cfg.SessionMessageThreshold)
		fmt.Printf("SessionRetentionDays: %d\n", cfg.SessionRetentionDays)
		return nil
	},
}

// configField returns the printable value of a single field
func configField(cfg *config.Config, field string) (string, bool) {
	switch strings.ToLower(field) {
	case "configfile":
		return viper.ConfigFileUsed(), true
	case "model":
		return cfg.Model, true
	case "gemini_base_url", "geminibaseurl":
		return cfg.GeminiBaseURL, true
	case "gemini_token", "geminitoken":
		return maskToken(cfg.GeminiToken), true
	case "transport":
		return cfg.Transport, true
	case "request_timeout", "requesttimeout":
		return cfg.RequestTimeout.String(), true
	case "markdown":
		return fmt.Sprint(cfg.Markdown), true
	case "word_wrap", "wordwrap":
		return fmt.Sprint(cfg.WordWrap), true
	case "promptdirs", "prompt_dirs":
		return strings.Join(cfg.PromptDirs, ","), true
	case "session_message_threshold":
		return fmt.Sprint(cfg.SessionMessageThreshold), true
	case "session_retention_days":
		return fmt.Sprint(cfg.SessionRetentionDays), true
	default:
		return "", false
	}
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
