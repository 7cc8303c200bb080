package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/theknight2/bex-calculator/internal/logger"
)

func main() {
	log := logger.FromEnv()

	if err := newRootCmd(log).Execute(); err != nil {
		log.Error("command failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}
