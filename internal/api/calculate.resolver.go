package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theknight2/bex-calculator/internal/calculator"
	"github.com/theknight2/bex-calculator/internal/strategy"
	"github.com/theknight2/bex-calculator/pkg/types"
)

type calculateRequest struct {
	PreviousClose float64  `json:"previous_close"`
	CurrentClose  float64  `json:"current_close"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	Preset        string   `json:"preset"`
	Multiplier    float64  `json:"multiplier"`
	Cap           float64  `json:"cap"`
	AvgEntryPrice *float64 `json:"avg_entry_price"`
}

type calculateResponse struct {
	Strategy    types.StrategyParams  `json:"strategy"`
	Result      types.RebalanceResult `json:"result"`
	PnL         *types.UnrealizedPnL  `json:"pnl,omitempty"`
	Sale        *types.SaleEstimate   `json:"sale,omitempty"`
	Explanation string                `json:"explanation"`
}

func (m ApiHandler) calculate(ctx *gin.Context) {
	var req calculateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to bind request: %w", err), ctx, http.StatusBadRequest)
		return
	}

	in, err := m.toInput(req)
	if err != nil {
		returnErrorJsonCode(err, ctx, statusFor(err))
		return
	}

	calc, err := calculator.Compute(in)
	if err != nil {
		returnErrorJsonCode(err, ctx, statusFor(err))
		return
	}

	out := calculateResponse{
		Strategy:    in.Strategy,
		Result:      calc.Result,
		PnL:         calc.PnL,
		Explanation: calculator.Explain(calc.Result, in.Strategy),
	}
	if m.CostModel != nil && !m.CostModel.IsZero() && calc.Result.ActionRequired() {
		sale := m.CostModel.EstimateSale(calc.Result.QuantityToSell, in.Prices.CurrentClose)
		out.Sale = &sale
	}
	ctx.JSON(http.StatusOK, out)
}

// toInput 请求转换为计算输入, avg_entry_price 为 0 时视为未提供
func (m ApiHandler) toInput(req calculateRequest) (types.CalcInput, error) {
	unit := types.UnitShares
	if req.Unit != "" {
		var ok bool
		unit, ok = types.ParsePositionUnit(req.Unit)
		if !ok {
			return types.CalcInput{}, fmt.Errorf("%w: unknown unit %q", calculator.ErrInvalidInput, req.Unit)
		}
	}

	preset := req.Preset
	if preset == "" {
		preset = m.defaultPreset()
	}
	params, err := m.Catalog.Resolve(preset, req.Multiplier, req.Cap)
	if err != nil {
		return types.CalcInput{}, err
	}

	in := types.CalcInput{
		Prices:   types.PriceObservation{PreviousClose: req.PreviousClose, CurrentClose: req.CurrentClose},
		Position: types.Position{Quantity: req.Quantity, Unit: unit},
		Strategy: params,
	}
	if req.AvgEntryPrice != nil && *req.AvgEntryPrice != 0 {
		in.AvgEntryPrice = req.AvgEntryPrice
	}
	return in, nil
}

func statusFor(err error) int {
	if errors.Is(err, calculator.ErrInvalidInput) || errors.Is(err, strategy.ErrUnknownPreset) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
