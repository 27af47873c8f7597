/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/longkey1/gemchat/internal/gemchat/config"
	"github.com/longkey1/gemchat/internal/logging"
)

var (
	cfgFile string
	verbose bool

	// logger is replaced in initConfig once flags are parsed.
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gemchat",
	Short: "A terminal chat client for Google Gemini",
	Long: `gemchat sends conversations to the Gemini generateContent API and
prints each reply, or the reason there is none (missing key, transport
failure, API error, safety block, empty response).

You can configure the tool using a TOML configuration file.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/gemchat/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	l, err := logging.New(verbose)
	cobra.CheckErr(err)
	logger = l

	// A missing .env is the common case
	if err := gotenv.Load(); err == nil {
		logger.Debug("loaded .env")
	}

	viper.SetEnvPrefix("GEMCHAT")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "gemchat")

	// Later directories take precedence over earlier ones
	defaultConfig := config.NewDefaultConfig(filepath.Join(userConfigDir, "prompts"))
	defaultConfig.PromptDirs = []string{
		"/usr/share/gemchat/prompts",
		"/usr/local/share/gemchat/prompts",
		filepath.Join(userConfigDir, "prompts"),
	}
	config.SetDefaults(viper.GetViper(), defaultConfig)

	viper.BindEnv("gemini_base_url", "GEMCHAT_GEMINI_BASE_URL")
	viper.BindEnv("gemini_token", "GEMCHAT_GEMINI_TOKEN")
	viper.BindEnv("transport", "GEMCHAT_TRANSPORT")
	viper.BindEnv("request_timeout", "GEMCHAT_REQUEST_TIMEOUT")
	viper.BindEnv("session_message_threshold", "GEMCHAT_SESSION_MESSAGE_THRESHOLD")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logger.Error("reading config file", zap.String("path", cfgFile), zap.Error(err))
		}
	} else {
		// System-wide config first (lower priority)
		for _, path := range []string{"/etc/gemchat", "/usr/local/etc/gemchat"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			logger.Debug("loaded system-wide config", zap.String("path", viper.ConfigFileUsed()))
		}

		// User config merged on top
		viper.AddConfigPath(userConfigDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					logger.Error("merging user config file", zap.Error(err))
				}
			} else {
				logger.Debug("merged user config", zap.String("path", viper.ConfigFileUsed()))
			}
		} else if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				logger.Error("reading config file", zap.Error(err))
			}
		}
	}

	logger.Debug("configuration",
		zap.String("config_file", viper.ConfigFileUsed()),
		zap.String("model", viper.GetString("model")),
		zap.String("gemini_base_url", viper.GetString("gemini_base_url")),
		zap.String("transport", viper.GetString("transport")),
		zap.Strings("prompt_dirs", viper.GetStringSlice("prompt_dirs")),
	)
}
