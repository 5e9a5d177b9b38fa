package api

import (
	"fmt"
	"net/http"
	"time"

	"recipe-shopping/internal/api/handlers/health"
	shoppingHandler "recipe-shopping/internal/api/handlers/shopping"
	"recipe-shopping/internal/api/middleware"
	"recipe-shopping/internal/core/shopping"
	"recipe-shopping/internal/core/shopping/cache"
	"recipe-shopping/internal/core/shopping/queue"
	"recipe-shopping/internal/infrastructure/config"
	"recipe-shopping/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
)

// Services 路由需要的服務，Cache 與 Queue 可以為 nil
type Services struct {
	Shopping *shopping.Service
	Cache    cache.Store
	Queue    *queue.Manager
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if svc.Shopping == nil {
		return nil, fmt.Errorf("shopping service is required")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件（Logger 需要請求 ID）
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Request.MaxBodyBytes))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrNotFound.Response(false))
	})

	// 健康檢查路由（不受限流影響）
	healthHandler := health.NewHandler(cfg, svc.Queue, svc.Cache)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	if cfg.DedupWindow > 0 {
		api.Use(middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow)))
	}
	api.Use(middleware.Timeout(timeoutDuration))

	h := shoppingHandler.NewHandler(svc.Shopping, cfg)
	{
		// 食材解析
		api.POST("/ingredients/parse", gin.WrapF(h.HandleParseIngredients()))

		unitGroup := api.Group("/units")
		{
			unitGroup.GET("", h.HandleListUnits)
			unitGroup.GET("/check", h.HandleCheckUnit)
			unitGroup.POST("/classify", h.HandleClassify)
			unitGroup.POST("/convert", h.HandleConvert)
		}

		shoppingGroup := api.Group("/shopping")
		{
			shoppingGroup.POST("/aggregate", h.HandleAggregate)
			shoppingGroup.POST("/suggest", h.HandleSuggest)
			shoppingGroup.POST("/list", h.HandleGenerateList)
			shoppingGroup.POST("/batch", h.HandleBatch)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("cache_enabled", svc.Cache != nil),
		zap.Bool("queue_enabled", svc.Queue != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Request.MaxBodyBytes),
	)

	return router, nil
}
