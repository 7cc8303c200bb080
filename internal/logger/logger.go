package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// EnvVar 运行环境变量, "dev" 时输出开发格式日志
const EnvVar = "BEX_ENV"

// New 创建日志器
func New(env string) (*zap.Logger, error) {
	opts := []zap.Option{
		zap.AddStacktrace(zap.ErrorLevel),
	}

	if strings.ToLower(env) == "dev" {
		return zap.NewDevelopment(opts...)
	}

	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]interface{}{EnvVar: env}
	return cfg.Build(opts...)
}

// FromEnv 根据环境变量创建日志器, 失败时直接退出
func FromEnv() *zap.Logger {
	logger, err := New(os.Getenv(EnvVar))
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("failed to initialize logger: %w", err))
		os.Exit(1)
	}
	return logger
}
