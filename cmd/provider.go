package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/longkey1/gemchat/internal/gemchat/config"
	"github.com/longkey1/gemchat/internal/gemchat/session"
	"github.com/longkey1/gemchat/internal/gemini"
)

// newProvider creates a Gemini provider using the configured transport
func newProvider(cfg *config.Config) (*gemini.Provider, error) {
	provider, err := cfg.GetProvider()
	if err != nil {
		return nil, err
	}
	if provider != gemini.ProviderName {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	opts := []gemini.Option{
		gemini.WithLogger(logger),
		gemini.WithTimeout(cfg.RequestTimeout),
	}
	switch cfg.Transport {
	case config.TransportSDK:
		opts = append(opts, gemini.WithTransport(&gemini.SDKTransport{}))
	case config.TransportHTTP, "":
	default:
		return nil, fmt.Errorf("unsupported transport: %s", cfg.Transport)
	}

	return gemini.NewProvider(cfg, opts...), nil
}

// sessionStore returns the store next to the config file in use
func sessionStore() (*session.Store, error) {
	dir, err := session.DefaultDir(viper.ConfigFileUsed())
	if err != nil {
		return nil, err
	}
	return session.NewStore(dir), nil
}

// historyFile returns the path of the interactive input history
func historyFile(store *session.Store) string {
	return filepath.Join(filepath.Dir(store.Dir), "chat_history")
}
