package report

import (
	"fmt"
	"strings"

	"github.com/theknight2/bex-calculator/internal/calculator"
	"github.com/theknight2/bex-calculator/pkg/types"
)

const capHitBadge = "CAP HIT"

// Renderer 终端输出渲染
type Renderer struct {
	theme Theme
}

// NewRenderer 创建渲染器
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

func (r *Renderer) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", r.theme.Label.Render(label), value)
}

// RenderCalculation 渲染单次计算结果, sale 为空时不显示成本估算
func (r *Renderer) RenderCalculation(calc types.Calculation, sale *types.SaleEstimate) string {
	t := r.theme
	res := calc.Result
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", t.Title.Render(fmt.Sprintf("BEX Volatility Decay Calculator · %s (%.1f× / cap %s)",
		calc.Input.Strategy.Name, calc.Input.Strategy.Multiplier, Percent(calc.Input.Strategy.CapFraction))))

	if !res.ActionRequired() {
		fmt.Fprintf(&b, "\n%s\n", t.Info.Render("No offset needed - price declined or flat"))
		r.row(&b, "Daily Return", t.signed(res.DailyReturn, Percent(res.DailyReturn)))
		fmt.Fprintf(&b, "  %s\n", t.Muted.Render("Offset only applies when position closes higher"))
	} else {
		fmt.Fprintf(&b, "\n%s\n", t.Title.Render("Action Required"))
		r.row(&b, "Sell Shares", t.Value.Render(Number(res.QuantityToSell, 2)))
		r.row(&b, "Dollar Value", t.Value.Render(Money(res.CashValue)))
		r.row(&b, "Daily Return", t.signed(res.DailyReturn, Percent(res.DailyReturn)))

		offset := t.Value.Render(Percent(res.AppliedOffset))
		if res.CapHit {
			offset += " " + t.Badge.Render(capHitBadge)
		}
		r.row(&b, "Offset Applied", offset)
		r.row(&b, "New Position", t.Value.Render(formatPosition(res.NewPosition, res.Unit)))
	}

	if calc.PnL != nil {
		fmt.Fprintf(&b, "\n")
		r.row(&b, "Unrealized P&L", t.signed(calc.PnL.TotalPnL, Money(calc.PnL.TotalPnL)))
		if res.ActionRequired() {
			r.row(&b, "P&L on Sale", t.signed(calc.PnL.PnLOnSoldQuantity, Money(calc.PnL.PnLOnSoldQuantity)))
		}
	}

	if sale != nil && res.ActionRequired() {
		fmt.Fprintf(&b, "\n")
		r.row(&b, "Est. Costs", t.Negative.Render(Money(sale.Slippage+sale.Commission+sale.Tax)))
		r.row(&b, "Net Proceeds", t.Value.Render(Money(sale.Net)))
	}

	fmt.Fprintf(&b, "\n%s\n  %s\n", t.Muted.Render("Calculation"), calculator.Explain(res, calc.Input.Strategy))
	return b.String()
}

// RenderSuite 渲染场景套件结果
func (r *Renderer) RenderSuite(result *types.SuiteResult) string {
	t := r.theme
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", t.Title.Render(strings.ToUpper(result.Config.Name)+" TEST SUITE"))
	for i, o := range result.Outcomes {
		status := t.Positive.Render("✓ PASSED")
		if !o.Passed {
			status = t.Negative.Render("✗ FAILED")
		}
		fmt.Fprintf(&b, "Test %d: %s  %s\n", i+1, o.Scenario.Name, status)
		if o.Error != "" {
			fmt.Fprintf(&b, "  %s\n", t.Negative.Render(o.Error))
			continue
		}
		fmt.Fprintf(&b, "  %s %s → %s, offset %s, sell %s, cash %s\n",
			t.Muted.Render(o.Scenario.Strategy),
			Money(o.Scenario.PreviousClose), Money(o.Scenario.CurrentClose),
			Percent(o.Result.AppliedOffset), Number(o.Result.QuantityToSell, 1), Money(o.Result.CashValue))
	}

	fmt.Fprintf(&b, "\nTotal: %d  Passed: %s  Failed: %s  Success Rate: %s\n",
		result.Total,
		t.Positive.Render(fmt.Sprint(result.Passed)),
		t.Negative.Render(fmt.Sprint(result.Failed)),
		Percent(result.SuccessRate()))
	return b.String()
}

// formatPosition 按单位格式化持仓
func formatPosition(v float64, unit types.PositionUnit) string {
	if unit == types.UnitDollars {
		return Money(v)
	}
	return Number(v, 2) + " " + unit.Label()
}
