package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/theknight2/bex-calculator/pkg/types"
)

// ErrInvalidInput 输入不合法 (价格/持仓非正数等)
var ErrInvalidInput = errors.New("invalid input")

// Compute 计算再平衡建议
// 仅当今收高于昨收时卖出 min(cap, multiplier*dailyReturn) 比例的持仓
func Compute(in types.CalcInput) (types.Calculation, error) {
	if err := Validate(in); err != nil {
		return types.Calculation{}, err
	}

	prev := in.Prices.PreviousClose
	curr := in.Prices.CurrentClose
	qty := in.Position.Quantity
	params := in.Strategy

	result := types.RebalanceResult{
		DailyReturn: (curr - prev) / prev,
		Unit:        in.Position.Unit,
	}
	result.RawOffset = params.Multiplier * result.DailyReturn

	if result.DailyReturn <= 0 {
		// 下跌或持平: 不操作
		result.NewPosition = qty
	} else {
		result.AppliedOffset = math.Min(params.CapFraction, result.RawOffset)
		result.CapHit = result.RawOffset > params.CapFraction

		switch in.Position.Unit {
		case types.UnitShares:
			result.QuantityToSell = qty * result.AppliedOffset
			result.CashValue = result.QuantityToSell * curr
			result.NewPosition = qty - result.QuantityToSell
		case types.UnitDollars:
			// 比例直接作用于美元金额, 股数仅供参考
			result.CashValue = qty * result.AppliedOffset
			result.QuantityToSell = result.CashValue / curr
			result.NewPosition = qty - result.CashValue
		}
	}

	calc := types.Calculation{
		Input:  in,
		Result: result,
	}
	if in.AvgEntryPrice != nil {
		pnl := unrealizedPnL(in.Position, curr, *in.AvgEntryPrice, result.QuantityToSell)
		calc.PnL = &pnl
	}
	return calc, nil
}

// Validate 校验输入, 在任何除法之前拒绝非法值
func Validate(in types.CalcInput) error {
	if !positive(in.Prices.PreviousClose) {
		return fmt.Errorf("%w: previous close must be positive, got %v", ErrInvalidInput, in.Prices.PreviousClose)
	}
	if !positive(in.Prices.CurrentClose) {
		return fmt.Errorf("%w: current close must be positive, got %v", ErrInvalidInput, in.Prices.CurrentClose)
	}
	if !positive(in.Position.Quantity) {
		return fmt.Errorf("%w: position must be positive, got %v", ErrInvalidInput, in.Position.Quantity)
	}
	if in.Position.Unit != types.UnitShares && in.Position.Unit != types.UnitDollars {
		return fmt.Errorf("%w: unknown position unit %q", ErrInvalidInput, in.Position.Unit)
	}
	if err := ValidateParams(in.Strategy); err != nil {
		return err
	}
	if in.AvgEntryPrice != nil && !positive(*in.AvgEntryPrice) {
		return fmt.Errorf("%w: average entry price must be positive when set, got %v", ErrInvalidInput, *in.AvgEntryPrice)
	}
	return nil
}

// ValidateParams 校验策略参数
func ValidateParams(p types.StrategyParams) error {
	if !positive(p.Multiplier) {
		return fmt.Errorf("%w: multiplier must be positive, got %v", ErrInvalidInput, p.Multiplier)
	}
	if !positive(p.CapFraction) || p.CapFraction > 1 {
		return fmt.Errorf("%w: cap must be in (0, 1], got %v", ErrInvalidInput, p.CapFraction)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
