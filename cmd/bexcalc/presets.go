package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/theknight2/bex-calculator/internal/report"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List strategy presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tMULTIPLIER\tCAP\t")
			for _, p := range a.catalog.Presets() {
				marker := ""
				if strings.EqualFold(p.Name, strings.TrimSpace(a.cfg.GetPreset())) {
					marker = " (default)"
				}
				fmt.Fprintf(w, "%s%s\t%.1f\t%s\t\n", p.Name, marker, p.Multiplier, report.Percent(p.CapFraction))
			}
			return w.Flush()
		},
	}
}
