package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/theknight2/bex-calculator/internal/cost"
	"github.com/theknight2/bex-calculator/internal/strategy"
	"github.com/theknight2/bex-calculator/pkg/types"
)

func newTestHandler(costModel *cost.DefaultCostModel) ApiHandler {
	gin.SetMode(gin.TestMode)
	return ApiHandler{
		Catalog:   strategy.DefaultCatalog(),
		CostModel: costModel,
		Logger:    zap.NewNop(),
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	router := newTestHandler(nil).Router()
	w := doJSON(t, router, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestPresets(t *testing.T) {
	router := newTestHandler(nil).Router()
	w := doJSON(t, router, http.MethodGet, "/presets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out presetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Aggressive", out.Default)
	assert.Len(t, out.Presets, 3)
	assert.Equal(t, 0.125, out.Presets[1].CapFraction)
}

func TestCalculate(t *testing.T) {
	t.Run("preset shares with pnl", func(t *testing.T) {
		router := newTestHandler(nil).Router()
		w := doJSON(t, router, http.MethodPost, "/calculate", map[string]interface{}{
			"previous_close":  100,
			"current_close":   105,
			"quantity":        1000,
			"unit":            "shares",
			"preset":          "conservative",
			"avg_entry_price": 90,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out calculateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "Conservative", out.Strategy.Name)
		assert.InDelta(t, 0.08, out.Result.AppliedOffset, 1e-9)
		assert.True(t, out.Result.CapHit)
		assert.InDelta(t, 80, out.Result.QuantityToSell, 1e-9)
		assert.InDelta(t, 8400, out.Result.CashValue, 1e-9)
		require.NotNil(t, out.PnL)
		assert.InDelta(t, 15000, out.PnL.TotalPnL, 1e-9)
		assert.Nil(t, out.Sale)
		assert.Contains(t, out.Explanation, "Capped at 0.0800")
	})

	t.Run("custom params dollars with costs", func(t *testing.T) {
		router := newTestHandler(cost.NewDefaultCostModel(types.CostConfig{CommissionRate: 0.001})).Router()
		w := doJSON(t, router, http.MethodPost, "/calculate", map[string]interface{}{
			"previous_close":  100,
			"current_close":   110,
			"quantity":        100000,
			"unit":            "Dollar Value",
			"multiplier":      4,
			"cap":             0.2,
			"avg_entry_price": 0,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out calculateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "Custom", out.Strategy.Name)
		assert.Equal(t, types.UnitDollars, out.Result.Unit)
		assert.InDelta(t, 20000, out.Result.CashValue, 1e-6)
		assert.InDelta(t, 80000, out.Result.NewPosition, 1e-6)
		assert.Nil(t, out.PnL)
		require.NotNil(t, out.Sale)
		assert.InDelta(t, 20, out.Sale.Commission, 1e-6)
	})

	t.Run("decline", func(t *testing.T) {
		router := newTestHandler(cost.NewDefaultCostModel(types.CostConfig{MinCommission: 1})).Router()
		w := doJSON(t, router, http.MethodPost, "/calculate", map[string]interface{}{
			"previous_close": 100,
			"current_close":  95,
			"quantity":       1000,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var out calculateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Zero(t, out.Result.AppliedOffset)
		assert.Equal(t, 1000.0, out.Result.NewPosition)
		assert.Nil(t, out.Sale)
	})
}

func TestCalculate_BadRequests(t *testing.T) {
	router := newTestHandler(nil).Router()

	tests := []struct {
		name string
		body interface{}
		want string
	}{
		{"zero price", map[string]interface{}{"previous_close": 0, "current_close": 105, "quantity": 10}, "invalid input"},
		{"zero quantity", map[string]interface{}{"previous_close": 100, "current_close": 105, "quantity": 0}, "invalid input"},
		{"bad unit", map[string]interface{}{"previous_close": 100, "current_close": 105, "quantity": 10, "unit": "lots"}, "unknown unit"},
		{"unknown preset", map[string]interface{}{"previous_close": 100, "current_close": 105, "quantity": 10, "preset": "Reckless"}, "unknown strategy preset"},
		{"negative avg price", map[string]interface{}{"previous_close": 100, "current_close": 105, "quantity": 10, "avg_entry_price": -1}, "average entry price"},
		{"malformed body", "not an object", "failed to bind request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/calculate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var out map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.Contains(t, out["error"], tt.want)
		})
	}
}
