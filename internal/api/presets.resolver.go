package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/theknight2/bex-calculator/pkg/types"
)

type presetsResponse struct {
	Default string                 `json:"default"`
	Presets []types.StrategyParams `json:"presets"`
}

func (m ApiHandler) presets(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, presetsResponse{
		Default: m.defaultPreset(),
		Presets: m.Catalog.Presets(),
	})
}
