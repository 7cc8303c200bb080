package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theknight2/bex-calculator/pkg/types"
)

const eps = 1e-9

func floatPtr(f float64) *float64 {
	return &f
}

func input(prev, curr, qty float64, unit types.PositionUnit, multiplier, capFraction float64) types.CalcInput {
	return types.CalcInput{
		Prices:   types.PriceObservation{PreviousClose: prev, CurrentClose: curr},
		Position: types.Position{Quantity: qty, Unit: unit},
		Strategy: types.StrategyParams{Multiplier: multiplier, CapFraction: capFraction},
	}
}

func TestCompute_Scenarios(t *testing.T) {
	t.Run("capped shares", func(t *testing.T) {
		calc, err := Compute(input(100, 105, 1000, types.UnitShares, 2.0, 0.08))
		require.NoError(t, err)

		r := calc.Result
		assert.InDelta(t, 0.05, r.DailyReturn, eps)
		assert.InDelta(t, 0.10, r.RawOffset, eps)
		assert.InDelta(t, 0.08, r.AppliedOffset, eps)
		assert.True(t, r.CapHit)
		assert.InDelta(t, 80, r.QuantityToSell, eps)
		assert.InDelta(t, 8400, r.CashValue, eps)
		assert.InDelta(t, 920, r.NewPosition, eps)
		assert.Nil(t, calc.PnL)
	})

	t.Run("cap not reached", func(t *testing.T) {
		calc, err := Compute(input(50, 51, 10, types.UnitShares, 4.0, 0.20))
		require.NoError(t, err)

		r := calc.Result
		assert.InDelta(t, 0.02, r.DailyReturn, eps)
		assert.InDelta(t, 0.08, r.RawOffset, eps)
		assert.InDelta(t, 0.08, r.AppliedOffset, eps)
		assert.False(t, r.CapHit)
		assert.InDelta(t, 0.8, r.QuantityToSell, eps)
		assert.InDelta(t, 40.8, r.CashValue, eps)
		assert.InDelta(t, 9.2, r.NewPosition, eps)
	})

	t.Run("decline takes no action", func(t *testing.T) {
		for _, qty := range []float64{1, 10, 1000, 123456.78} {
			calc, err := Compute(input(100, 95, qty, types.UnitShares, 4.0, 0.20))
			require.NoError(t, err)

			r := calc.Result
			assert.InDelta(t, -0.05, r.DailyReturn, eps)
			assert.Zero(t, r.AppliedOffset)
			assert.Zero(t, r.QuantityToSell)
			assert.Zero(t, r.CashValue)
			assert.Equal(t, qty, r.NewPosition)
			assert.False(t, r.CapHit)
			assert.False(t, r.ActionRequired())
		}
	})

	t.Run("flat price takes no action", func(t *testing.T) {
		calc, err := Compute(input(100, 100, 1000, types.UnitDollars, 4.0, 0.20))
		require.NoError(t, err)
		assert.Zero(t, calc.Result.DailyReturn)
		assert.Zero(t, calc.Result.AppliedOffset)
		assert.Equal(t, 1000.0, calc.Result.NewPosition)
	})

	t.Run("dollar position", func(t *testing.T) {
		calc, err := Compute(input(100, 110, 100000, types.UnitDollars, 4.0, 0.20))
		require.NoError(t, err)

		r := calc.Result
		assert.InDelta(t, 0.10, r.DailyReturn, eps)
		assert.InDelta(t, 0.40, r.RawOffset, eps)
		assert.InDelta(t, 0.20, r.AppliedOffset, eps)
		assert.True(t, r.CapHit)
		assert.InDelta(t, 20000, r.CashValue, 1e-6)
		assert.InDelta(t, 20000.0/110, r.QuantityToSell, 1e-6)
		assert.InDelta(t, 80000, r.NewPosition, 1e-6)
		assert.Equal(t, types.UnitDollars, r.Unit)
	})
}

func TestCompute_Rejects(t *testing.T) {
	valid := input(100, 105, 1000, types.UnitShares, 2.0, 0.08)

	tests := []struct {
		name   string
		mutate func(in *types.CalcInput)
	}{
		{"zero previous close", func(in *types.CalcInput) { in.Prices.PreviousClose = 0 }},
		{"negative previous close", func(in *types.CalcInput) { in.Prices.PreviousClose = -1 }},
		{"zero current close", func(in *types.CalcInput) { in.Prices.CurrentClose = 0 }},
		{"zero quantity", func(in *types.CalcInput) { in.Position.Quantity = 0 }},
		{"negative quantity", func(in *types.CalcInput) { in.Position.Quantity = -5 }},
		{"NaN price", func(in *types.CalcInput) { in.Prices.CurrentClose = math.NaN() }},
		{"infinite quantity", func(in *types.CalcInput) { in.Position.Quantity = math.Inf(1) }},
		{"unknown unit", func(in *types.CalcInput) { in.Position.Unit = "lots" }},
		{"zero multiplier", func(in *types.CalcInput) { in.Strategy.Multiplier = 0 }},
		{"zero cap", func(in *types.CalcInput) { in.Strategy.CapFraction = 0 }},
		{"cap above one", func(in *types.CalcInput) { in.Strategy.CapFraction = 1.5 }},
		{"zero avg entry price", func(in *types.CalcInput) { in.AvgEntryPrice = floatPtr(0) }},
		{"negative avg entry price", func(in *types.CalcInput) { in.AvgEntryPrice = floatPtr(-10) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			calc, err := Compute(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, types.Calculation{}, calc)
		})
	}
}

func TestCompute_CapAllowsOne(t *testing.T) {
	calc, err := Compute(input(100, 200, 10, types.UnitShares, 4.0, 1.0))
	require.NoError(t, err)
	assert.Equal(t, 1.0, calc.Result.AppliedOffset)
	assert.InDelta(t, 0, calc.Result.NewPosition, eps)
}

func TestCompute_OffsetBounds(t *testing.T) {
	presets := []types.StrategyParams{
		{Multiplier: 2.0, CapFraction: 0.08},
		{Multiplier: 3.0, CapFraction: 0.125},
		{Multiplier: 4.0, CapFraction: 0.20},
	}
	prices := []float64{0.5, 1, 50, 99.99, 100, 100.01, 101, 105, 150, 1000}

	for _, p := range presets {
		for _, prev := range prices {
			for _, curr := range prices {
				in := input(prev, curr, 1000, types.UnitShares, p.Multiplier, p.CapFraction)
				calc, err := Compute(in)
				require.NoError(t, err)

				r := calc.Result
				assert.GreaterOrEqual(t, r.AppliedOffset, 0.0)
				assert.LessOrEqual(t, r.AppliedOffset, p.CapFraction)
				if curr <= prev {
					assert.Zero(t, r.AppliedOffset, "prev=%v curr=%v", prev, curr)
				}
				assert.InDelta(t, 1000, r.NewPosition+r.QuantityToSell, eps)
			}
		}
	}
}

func TestCompute_Monotonic(t *testing.T) {
	const capFraction = 0.20
	prev := 100.0
	last := 0.0
	reached := false

	for curr := 90.0; curr <= 130; curr += 0.25 {
		calc, err := Compute(input(prev, curr, 500, types.UnitShares, 4.0, capFraction))
		require.NoError(t, err)

		offset := calc.Result.AppliedOffset
		assert.GreaterOrEqual(t, offset, last, "curr=%v", curr)
		if reached {
			assert.Equal(t, capFraction, offset, "curr=%v", curr)
		}
		if offset == capFraction {
			reached = true
		}
		last = offset
	}
	assert.True(t, reached)
}

func TestCompute_Idempotent(t *testing.T) {
	in := input(102.50, 118.09, 670, types.UnitShares, 4.0, 0.20)
	in.AvgEntryPrice = floatPtr(95)

	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, *first.PnL, *second.PnL)
}

func TestCompute_PnL(t *testing.T) {
	t.Run("shares", func(t *testing.T) {
		in := input(100, 105, 1000, types.UnitShares, 2.0, 0.08)
		in.AvgEntryPrice = floatPtr(90)

		calc, err := Compute(in)
		require.NoError(t, err)
		require.NotNil(t, calc.PnL)

		// 1000 * (105 - 90), 80 * (105 - 90)
		assert.InDelta(t, 15000, calc.PnL.TotalPnL, eps)
		assert.InDelta(t, 1200, calc.PnL.PnLOnSoldQuantity, 1e-6)
	})

	t.Run("dollars", func(t *testing.T) {
		in := input(100, 110, 100000, types.UnitDollars, 4.0, 0.20)
		in.AvgEntryPrice = floatPtr(100)

		calc, err := Compute(in)
		require.NoError(t, err)
		require.NotNil(t, calc.PnL)

		// 1000 股 * 10, 卖出 181.818 股 * 10
		assert.InDelta(t, 10000, calc.PnL.TotalPnL, 1e-6)
		assert.InDelta(t, 20000.0/110*10, calc.PnL.PnLOnSoldQuantity, 1e-6)
	})

	t.Run("loss with no action", func(t *testing.T) {
		in := input(100, 95, 200, types.UnitShares, 4.0, 0.20)
		in.AvgEntryPrice = floatPtr(120)

		calc, err := Compute(in)
		require.NoError(t, err)
		require.NotNil(t, calc.PnL)
		assert.InDelta(t, -5000, calc.PnL.TotalPnL, eps)
		assert.Zero(t, calc.PnL.PnLOnSoldQuantity)
	})
}

func TestExplain(t *testing.T) {
	params := types.StrategyParams{Multiplier: 4.0, CapFraction: 0.20}

	capped, err := Compute(input(100, 110, 1000, types.UnitShares, 4.0, 0.20))
	require.NoError(t, err)
	assert.Equal(t, "Raw: 4.0 × 0.1000 = 0.4000 → Capped at 0.2000", Explain(capped.Result, params))

	below, err := Compute(input(50, 51, 10, types.UnitShares, 4.0, 0.20))
	require.NoError(t, err)
	assert.Equal(t, "Offset % = 4.0 × 0.0200 = 0.0800", Explain(below.Result, params))

	down, err := Compute(input(100, 95, 10, types.UnitShares, 4.0, 0.20))
	require.NoError(t, err)
	assert.Equal(t, "No offset: daily return -5.00% (price declined or flat)", Explain(down.Result, params))
}
