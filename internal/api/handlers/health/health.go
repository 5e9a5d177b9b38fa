package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-shopping/internal/core/shopping/cache"
	"recipe-shopping/internal/core/shopping/queue"
	"recipe-shopping/internal/infrastructure/config"
	"recipe-shopping/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pingTimeout 就緒檢查等待依賴回應的時間
const pingTimeout = 2 * time.Second

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
	Cache     *CacheStatus           `json:"cache,omitempty"`
}

// CacheStatus 快取狀態
type CacheStatus struct {
	Backend string       `json:"backend"`
	Stats   *cache.Stats `json:"stats,omitempty"`
}

// pinger 可檢查連線的依賴
type pinger interface {
	Ping(ctx context.Context) error
}

// Handler 健康檢查處理程序
type Handler struct {
	config *config.Config
	queue  *queue.Manager
	cache  cache.Store
}

// NewHandler 創建健康檢查處理程序，queue 與 store 可為 nil
func NewHandler(cfg *config.Config, q *queue.Manager, store cache.Store) *Handler {
	return &Handler{config: cfg, queue: q, cache: store}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if h.queue != nil {
		status := h.queue.Status()
		response.Queue = &status
	}

	if h.cache != nil {
		response.Cache = &CacheStatus{Backend: h.config.Cache.Backend}
		if mgr, ok := h.cache.(*cache.Manager); ok {
			stats := mgr.Stats()
			response.Cache.Stats = &stats
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，快取後端無法連線時回傳 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if p, ok := h.cache.(pinger); ok {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			common.LogWarn("快取後端未就緒", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"code":   common.ErrCodeServiceUnavailable,
				"cache":  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
