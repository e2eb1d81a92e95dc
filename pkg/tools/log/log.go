package log

import (
	"github.com/spf13/viper"
	"github.com/voxelfit/batchfit/pkg/env"
	"go.uber.org/zap"
)

// This package replaces the zap global logger as a side effect.
// Import it with a blank identifier in cmd and in tests that want log output.
func init() {
	var logger *zap.Logger
	var err error
	if viper.GetString(env.Environment) == "prod" {
		logger, err = zap.NewProduction()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		logger, err = cfg.Build()
	}
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}
