package cost

import (
	"math"

	"github.com/theknight2/bex-calculator/pkg/types"
)

// CostModel 成本模型接口
type CostModel interface {
	// EstimateSale 估算卖出成本及净收入
	EstimateSale(quantity, price float64) types.SaleEstimate
}

// DefaultCostModel 默认成本模型
type DefaultCostModel struct {
	CommissionRate float64 // 佣金率
	MinCommission  float64 // 最低佣金
	SlippageRate   float64 // 滑点率
	TaxRate        float64 // 税率 (卖出时收取)
}

// NewDefaultCostModel 创建默认成本模型
func NewDefaultCostModel(config types.CostConfig) *DefaultCostModel {
	return &DefaultCostModel{
		CommissionRate: config.CommissionRate,
		MinCommission:  config.MinCommission,
		SlippageRate:   config.SlippageRate,
		TaxRate:        config.TaxRate,
	}
}

// NewZeroCostModel 创建零成本模型
func NewZeroCostModel() *DefaultCostModel {
	return &DefaultCostModel{}
}

// IsZero 是否零成本
func (m *DefaultCostModel) IsZero() bool {
	return m.CommissionRate == 0 && m.MinCommission == 0 && m.SlippageRate == 0 && m.TaxRate == 0
}

// EstimateSale 估算卖出成本
func (m *DefaultCostModel) EstimateSale(quantity, price float64) types.SaleEstimate {
	gross := math.Abs(quantity * price)
	if gross == 0 {
		return types.SaleEstimate{}
	}

	// 卖出时价格下浮
	executionValue := gross * (1 - m.SlippageRate)
	slippage := gross - executionValue

	// 佣金
	commission := executionValue * m.CommissionRate
	if commission < m.MinCommission {
		commission = m.MinCommission
	}

	// 税费
	tax := executionValue * m.TaxRate

	return types.SaleEstimate{
		Gross:      gross,
		Slippage:   slippage,
		Commission: commission,
		Tax:        tax,
		Net:        executionValue - commission - tax,
	}
}
