package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment 決定 logger 的基本輸出格式
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// Config logger 設定
type Config struct {
	Level       string      `yaml:"level"`
	Environment Environment `yaml:"environment"`
}

// New 建立 zap logger，並回傳可在執行期調整的 level
//
// production 輸出 JSON；development/local 輸出 console 格式
func New(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	var base zap.Config
	switch cfg.Environment {
	case EnvironmentProduction, "":
		base = zap.NewProductionConfig()
	case EnvironmentDevelopment, EnvironmentLocal:
		base = zap.NewDevelopmentConfig()
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("invalid log environment %q", cfg.Environment)
	}

	level := base.Level
	if strings.TrimSpace(cfg.Level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(cfg.Level); err != nil {
			return nil, zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = zap.NewAtomicLevelAt(parsed)
	}
	base.Level = level
	base.DisableStacktrace = true

	built, err := base.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to build logger: %w", err)
	}
	return built, level, nil
}
