package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theknight2/bex-calculator/internal/calculator"
	"github.com/theknight2/bex-calculator/internal/cost"
	"github.com/theknight2/bex-calculator/pkg/types"
)

type calcFlags struct {
	prev       float64
	curr       float64
	position   float64
	unit       string
	preset     string
	multiplier float64
	capFrac    float64
	avgPrice   float64
	asJSON     bool
}

func newCalcCmd(a *app) *cobra.Command {
	f := &calcFlags{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate today's offset for a position",
		Example: `  bexcalc calc --prev 48.50 --curr 50.25 --position 1000
  bexcalc calc --prev 100 --curr 110 --position 100000 --unit dollars --preset conservative --avg-price 95`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCalc(cmd, f)
		},
	}

	cmd.Flags().Float64Var(&f.prev, "prev", 0, "yesterday's close")
	cmd.Flags().Float64Var(&f.curr, "curr", 0, "today's close")
	cmd.Flags().Float64VarP(&f.position, "position", "p", 0, "current position (shares or dollars)")
	cmd.Flags().StringVarP(&f.unit, "unit", "u", "", "position unit: shares or dollars (default from config)")
	cmd.Flags().StringVar(&f.preset, "preset", "", "strategy preset (default from config)")
	cmd.Flags().Float64Var(&f.multiplier, "multiplier", 0, "custom multiplier, requires --cap")
	cmd.Flags().Float64Var(&f.capFrac, "cap", 0, "custom cap fraction in (0,1], requires --multiplier")
	cmd.Flags().Float64Var(&f.avgPrice, "avg-price", 0, "average entry price for P&L (0 skips P&L)")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("prev")
	_ = cmd.MarkFlagRequired("curr")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}

func (a *app) runCalc(cmd *cobra.Command, f *calcFlags) error {
	unitName := f.unit
	if unitName == "" {
		unitName = a.cfg.GetUnit()
	}
	unit, ok := types.ParsePositionUnit(unitName)
	if !ok {
		return fmt.Errorf("%w: unknown unit %q", calculator.ErrInvalidInput, unitName)
	}

	preset := f.preset
	if preset == "" {
		preset = a.cfg.GetPreset()
	}
	params, err := a.catalog.Resolve(preset, f.multiplier, f.capFrac)
	if err != nil {
		return err
	}

	in := types.CalcInput{
		Prices:   types.PriceObservation{PreviousClose: f.prev, CurrentClose: f.curr},
		Position: types.Position{Quantity: f.position, Unit: unit},
		Strategy: params,
	}
	// 表单约定: 0 表示不计算盈亏
	if f.avgPrice != 0 {
		avg := f.avgPrice
		in.AvgEntryPrice = &avg
	}

	calc, err := calculator.Compute(in)
	if err != nil {
		return err
	}
	a.log.Debug("calculated",
		zap.String("strategy", params.Name),
		zap.Float64("daily_return", calc.Result.DailyReturn),
		zap.Float64("applied_offset", calc.Result.AppliedOffset),
		zap.Bool("cap_hit", calc.Result.CapHit))

	var sale *types.SaleEstimate
	costModel := cost.NewDefaultCostModel(a.cfg.ToCostConfig())
	if !costModel.IsZero() && calc.Result.ActionRequired() {
		est := costModel.EstimateSale(calc.Result.QuantityToSell, f.curr)
		sale = &est
	}

	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			types.Calculation
			Sale        *types.SaleEstimate `json:"sale,omitempty"`
			Explanation string              `json:"explanation"`
		}{calc, sale, calculator.Explain(calc.Result, params)})
	}

	renderer, err := a.renderer()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, renderer.RenderCalculation(calc, sale))
	return err
}
