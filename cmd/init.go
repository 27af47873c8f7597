package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/longkey1/gemchat/internal/gemchat/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration file",
	Long: `Initialize the configuration file with default settings.
The config file will be created at $HOME/.config/gemchat/config.toml by default.
You can specify a different location using the --config option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile := cfgFile
		if configFile == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get home directory: %v", err)
			}
			configFile = filepath.Join(home, ".config", "gemchat", "config.toml")
		}

		configDir := filepath.Dir(configFile)
		promptsDir := filepath.Join(configDir, "prompts")
		if err := writeDefaultConfig(configFile, promptsDir); err != nil {
			return err
		}

		fmt.Printf("Configuration file created at: %s\n", configFile)
		fmt.Printf("Prompts directory created at: %s\n", promptsDir)
		return nil
	},
}

// writeDefaultConfig creates configFile with the default settings and the
// prompts directory next to it. An existing file is never overwritten.
func writeDefaultConfig(configFile, promptsDir string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	f, err := os.OpenFile(configFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("config file already exists at: %s", configFile)
		}
		return fmt.Errorf("failed to create config file: %v", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config.NewDefaultConfig(promptsDir)); err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}

	if err := os.MkdirAll(promptsDir, 0755); err != nil {
		return fmt.Errorf("failed to create prompts directory: %v", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
