package data

import (
	"github.com/theknight2/bex-calculator/pkg/types"
)

// BuiltinLoader 内置场景
type BuiltinLoader struct{}

// NewBuiltinLoader 创建内置场景加载器
func NewBuiltinLoader() *BuiltinLoader {
	return &BuiltinLoader{}
}

// SourceType 返回数据源类型
func (l *BuiltinLoader) SourceType() string {
	return "builtin"
}

// Load 返回内置场景
func (l *BuiltinLoader) Load() ([]types.Scenario, error) {
	return BuiltinScenarios(), nil
}

func shares(v float64) *float64 {
	return &v
}

// BuiltinScenarios 内置场景列表
func BuiltinScenarios() []types.Scenario {
	return []types.Scenario{
		{
			Name:          "Small Gain - Below Cap",
			PreviousClose: 100.0, CurrentClose: 105.0,
			Position: 1000.0, Unit: types.UnitShares, Strategy: "Aggressive",
			ExpectedReturn: 0.05, ExpectedOffset: 0.20, // 4.0 * 0.05 = 0.20
			ExpectedShares: shares(200.0),
		},
		{
			Name:          "Large Gain - Hits Cap",
			PreviousClose: 100.0, CurrentClose: 120.0,
			Position: 1000.0, Unit: types.UnitShares, Strategy: "Aggressive",
			ExpectedReturn: 0.20, ExpectedOffset: 0.20, // 0.80 封顶
			ExpectedShares: shares(200.0),
		},
		{
			Name:          "Conservative Strategy - Small Gain",
			PreviousClose: 100.0, CurrentClose: 105.0,
			Position: 1000.0, Unit: types.UnitShares, Strategy: "Conservative",
			ExpectedReturn: 0.05, ExpectedOffset: 0.08, // 0.10 封顶
			ExpectedShares: shares(80.0),
		},
		{
			Name:          "Price Decline - No Action",
			PreviousClose: 100.0, CurrentClose: 95.0,
			Position: 1000.0, Unit: types.UnitShares, Strategy: "Aggressive",
			ExpectedReturn: -0.05, ExpectedOffset: 0.0,
			ExpectedShares: shares(0.0),
		},
		{
			Name:          "Flat Price - No Action",
			PreviousClose: 100.0, CurrentClose: 100.0,
			Position: 1000.0, Unit: types.UnitShares, Strategy: "Aggressive",
			ExpectedReturn: 0.0, ExpectedOffset: 0.0,
			ExpectedShares: shares(0.0),
		},
		{
			Name:          "Dollar Value Position",
			PreviousClose: 100.0, CurrentClose: 110.0,
			Position: 100000.0, Unit: types.UnitDollars, Strategy: "Aggressive",
			ExpectedReturn: 0.10, ExpectedOffset: 0.20, // 0.40 封顶
		},
		{
			Name:          "Very Small Position",
			PreviousClose: 50.0, CurrentClose: 51.0,
			Position: 10.0, Unit: types.UnitShares, Strategy: "Aggressive",
			ExpectedReturn: 0.02, ExpectedOffset: 0.08,
			ExpectedShares: shares(0.8),
		},
		{
			Name:          "Moderate Strategy - Medium Gain",
			PreviousClose: 100.0, CurrentClose: 108.0,
			Position: 1000.0, Unit: types.UnitShares, Strategy: "Moderate",
			ExpectedReturn: 0.08, ExpectedOffset: 0.125, // 0.24 封顶
			ExpectedShares: shares(125.0),
		},
		{
			Name:          "Realistic BE Scenario - High Volatility",
			PreviousClose: 102.50, CurrentClose: 118.09,
			Position: 670.0, Unit: types.UnitShares, Strategy: "Aggressive",
			ExpectedReturn: 0.1521, ExpectedOffset: 0.20,
			ExpectedShares: shares(134.0),
		},
		{
			Name:          "Conservative - High Volatility",
			PreviousClose: 102.50, CurrentClose: 118.09,
			Position: 670.0, Unit: types.UnitShares, Strategy: "Conservative",
			ExpectedReturn: 0.1521, ExpectedOffset: 0.08,
			ExpectedShares: shares(53.6),
		},
	}
}
