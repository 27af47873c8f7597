// Package logging builds the zap logger shared by commands.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a development logger at debug level when verbose is set or
// GEMCHAT_DEBUG=true, and a warn-level production logger otherwise. Both
// write to stderr so stdout stays reserved for model output.
func New(verbose bool) (*zap.Logger, error) {
	if verbose || os.Getenv("GEMCHAT_DEBUG") == "true" {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	return cfg.Build()
}
