package logger

import (
	"crud-service/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Every entry carries the run_id of this process so
// lines from restarted generators can be told apart downstream.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {

	// 1. Setup Base Config (Console/JSON)
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	// 2. Wrap the Core so entries are also counted per level
	finalCore := NewMetricsCore(baseLogger.Core())

	return zap.New(finalCore, zap.AddCaller()).With(zap.String("run_id", uuid.NewString())), nil
}
