package types

import (
	"strings"
)

// PositionUnit 持仓单位
type PositionUnit string

const (
	UnitShares  PositionUnit = "shares"
	UnitDollars PositionUnit = "dollars"
)

// ParsePositionUnit 解析持仓单位 (兼容表单中的 "Dollar Value" 写法)
func ParsePositionUnit(s string) (PositionUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shares", "share":
		return UnitShares, true
	case "dollars", "dollar", "dollar value", "usd", "$":
		return UnitDollars, true
	}
	return "", false
}

// Label 显示用单位后缀
func (u PositionUnit) Label() string {
	if u == UnitDollars {
		return "$"
	}
	return "shares"
}

// PriceObservation 昨收/今收价格
type PriceObservation struct {
	PreviousClose float64 `json:"previous_close"`
	CurrentClose  float64 `json:"current_close"`
}

// Position 当前持仓
type Position struct {
	Quantity float64      `json:"quantity"`
	Unit     PositionUnit `json:"unit"`
}

// StrategyParams 策略参数 (乘数 + 上限)
type StrategyParams struct {
	Name        string  `json:"name" yaml:"name"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`
	CapFraction float64 `json:"cap" yaml:"cap"`
}

// CalcInput 一次计算的全部输入
type CalcInput struct {
	Prices   PriceObservation `json:"prices"`
	Position Position         `json:"position"`
	Strategy StrategyParams   `json:"strategy"`

	// AvgEntryPrice 平均成本, nil 表示不计算盈亏
	AvgEntryPrice *float64 `json:"avg_entry_price,omitempty"`
}

// RebalanceResult 再平衡建议
type RebalanceResult struct {
	DailyReturn    float64      `json:"daily_return"`
	RawOffset      float64      `json:"raw_offset"`
	AppliedOffset  float64      `json:"applied_offset"`
	CapHit         bool         `json:"cap_hit"`
	QuantityToSell float64      `json:"quantity_to_sell"` // 股数 (美元持仓时为等价股数)
	CashValue      float64      `json:"cash_value"`
	NewPosition    float64      `json:"new_position"` // 与输入同单位
	Unit           PositionUnit `json:"unit"`
}

// ActionRequired 是否需要卖出
func (r RebalanceResult) ActionRequired() bool {
	return r.AppliedOffset > 0
}

// UnrealizedPnL 浮动盈亏
type UnrealizedPnL struct {
	TotalPnL          float64 `json:"total_pnl"`
	PnLOnSoldQuantity float64 `json:"pnl_on_sold_quantity"`
}

// Calculation 计算结果 (输入 + 建议 + 可选盈亏)
type Calculation struct {
	Input  CalcInput       `json:"input"`
	Result RebalanceResult `json:"result"`
	PnL    *UnrealizedPnL  `json:"pnl,omitempty"`
}

// CostConfig 成本配置
type CostConfig struct {
	CommissionRate float64 // 佣金率
	MinCommission  float64 // 最低佣金
	SlippageRate   float64 // 滑点率
	TaxRate        float64 // 税率
}

// SaleEstimate 卖出成本估算
type SaleEstimate struct {
	Gross      float64 `json:"gross"`
	Slippage   float64 `json:"slippage"`
	Commission float64 `json:"commission"`
	Tax        float64 `json:"tax"`
	Net        float64 `json:"net"`
}
