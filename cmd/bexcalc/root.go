package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theknight2/bex-calculator/internal/config"
	"github.com/theknight2/bex-calculator/internal/report"
	"github.com/theknight2/bex-calculator/internal/strategy"
)

// app 命令共享的依赖
type app struct {
	log        *zap.Logger
	configPath string
	theme      string

	cfg     *config.Config
	catalog *strategy.Catalog
}

func newRootCmd(log *zap.Logger) *cobra.Command {
	a := &app{log: log}

	root := &cobra.Command{
		Use:           "bexcalc",
		Short:         "End-of-day rebalancing calculator for leveraged positions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to YAML config (default $BEX_CONFIG)")
	root.PersistentFlags().StringVar(&a.theme, "theme", "", "output theme: plain, classic, midnight")

	root.AddCommand(
		newCalcCmd(a),
		newPresetsCmd(a),
		newVerifyCmd(a),
		newServeCmd(a),
	)
	return root
}

// load 加载配置与预设表
func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	catalog, err := cfg.ToCatalog()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.catalog = catalog
	return nil
}

// renderer 根据参数或配置选择主题
func (a *app) renderer() (*report.Renderer, error) {
	name := a.theme
	if name == "" {
		name = a.cfg.GetTheme()
	}
	theme, err := report.LookupTheme(name)
	if err != nil {
		return nil, err
	}
	return report.NewRenderer(theme), nil
}
