package calculator

import (
	"github.com/theknight2/bex-calculator/pkg/types"
)

// unrealizedPnL 计算浮动盈亏, 与卖出建议无关
//
// 股数持仓:   total = quantity * (current - avg)
// 美元持仓:   total = (quantity / avg) * (current - avg)
// 卖出部分统一使用 quantityToSell (美元持仓时为等价股数)
func unrealizedPnL(pos types.Position, current, avg, quantityToSell float64) types.UnrealizedPnL {
	sharesHeld := pos.Quantity
	if pos.Unit == types.UnitDollars {
		sharesHeld = pos.Quantity / avg
	}

	perShare := current - avg
	return types.UnrealizedPnL{
		TotalPnL:          sharesHeld * perShare,
		PnLOnSoldQuantity: quantityToSell * perShare,
	}
}
