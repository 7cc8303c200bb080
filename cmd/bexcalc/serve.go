package main

import (
	"github.com/spf13/cobra"

	"github.com/theknight2/bex-calculator/internal/api"
	"github.com/theknight2/bex-calculator/internal/cost"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port <= 0 {
				port = a.cfg.GetPort()
			}
			handler := api.ApiHandler{
				Catalog:       a.catalog,
				DefaultPreset: a.cfg.GetPreset(),
				CostModel:     cost.NewDefaultCostModel(a.cfg.ToCostConfig()),
				Logger:        a.log,
			}
			return handler.StartApi(port)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default from config or $BEX_PORT)")
	return cmd
}
