package calculator

import (
	"fmt"

	"github.com/theknight2/bex-calculator/pkg/types"
)

// Explain 生成计算过程说明
func Explain(r types.RebalanceResult, p types.StrategyParams) string {
	if !r.ActionRequired() {
		return fmt.Sprintf("No offset: daily return %.2f%% (price declined or flat)", r.DailyReturn*100)
	}
	if r.CapHit {
		return fmt.Sprintf("Raw: %.1f × %.4f = %.4f → Capped at %.4f",
			p.Multiplier, r.DailyReturn, r.RawOffset, p.CapFraction)
	}
	return fmt.Sprintf("Offset %% = %.1f × %.4f = %.4f", p.Multiplier, r.DailyReturn, r.AppliedOffset)
}
