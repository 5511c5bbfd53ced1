package quill

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eringen/quill/journal"
)

// NewLogger builds the server logger for mode ("production" or anything
// else for development) and tees it into j when j is not nil.
func NewLogger(mode string, j *journal.Journal) (*zap.Logger, error) {
	var cfg zap.Config
	if journal.ParsePolicy(mode) == journal.Production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	var opts []zap.Option
	if j != nil {
		opts = append(opts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, j.Core())
		}))
	}
	return cfg.Build(opts...)
}
