/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/suparena/docstore/storagemodels"
)

// NewDefaultLogger returns a console logger at the given level.
func NewDefaultLogger(level zapcore.Level) (*zap.Logger, error) {
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	loggerCfg.Encoding = "console"
	loggerCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	loggerCfg.Level = zap.NewAtomicLevelAt(level)
	loggerCfg.DisableStacktrace = true
	loggerCfg.Sampling = nil

	logger, err := loggerCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	return logger, nil
}

// paramFields renders query parameters for logging.
func paramFields(params []storagemodels.Param) zap.Field {
	rendered := make(map[string]any, len(params))
	for _, p := range params {
		rendered[p.Name] = p.Value
	}
	return zap.Any("params", rendered)
}
