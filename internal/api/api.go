package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/theknight2/bex-calculator/internal/cost"
	"github.com/theknight2/bex-calculator/internal/strategy"
)

const requestIDHeader = "X-Request-ID"

// ApiHandler HTTP接口
type ApiHandler struct {
	Catalog       *strategy.Catalog
	DefaultPreset string
	CostModel     *cost.DefaultCostModel
	Logger        *zap.Logger
}

// defaultPreset 未指定策略时使用的预设
func (m ApiHandler) defaultPreset() string {
	if m.DefaultPreset != "" {
		return m.DefaultPreset
	}
	return strategy.DefaultPreset
}

// Router 构建路由
func (m ApiHandler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/presets", m.presets)
	router.POST("/calculate", m.calculate)

	return router
}

// StartApi 启动HTTP服务
func (m ApiHandler) StartApi(port int) error {
	m.Logger.Info("starting api", zap.Int("port", port))
	return m.Router().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := ctx.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx.Header(requestIDHeader, requestID)

	start := time.Now()
	ctx.Next()

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", ctx.Request.Method),
		zap.String("route", ctx.Request.URL.Path),
		zap.Int("status", ctx.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
	}
	if len(ctx.Errors) > 0 {
		fields = append(fields, zap.String("errors", ctx.Errors.String()))
	}
	if ctx.Writer.Status() >= http.StatusInternalServerError {
		m.Logger.Error("request failed", fields...)
		return
	}
	m.Logger.Info("request", fields...)
}
