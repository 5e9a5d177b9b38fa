package shopping

import (
	"context"
	"errors"
	"net/http"

	shoppingService "recipe-shopping/internal/core/shopping"
	"recipe-shopping/internal/infrastructure/config"
	"recipe-shopping/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler 購物清單與食材解析處理程序
type Handler struct {
	service  *shoppingService.Service
	debug    bool
	maxLines int
	maxBatch int
}

// NewHandler 創建新的處理程序
func NewHandler(service *shoppingService.Service, cfg *config.Config) *Handler {
	return &Handler{
		service:  service,
		debug:    cfg.App.Debug,
		maxLines: cfg.Request.MaxLines,
		maxBatch: cfg.Request.MaxBatch,
	}
}

// requestIDFrom 取得請求 ID，沒有時產生新的
func requestIDFrom(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = requestid.Get(c)
	}
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// respondError 寫入錯誤響應
func (h *Handler) respondError(c *gin.Context, requestID string, err *common.CustomError) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("code", err.Code),
		zap.Int("status", err.Status),
	}
	if err.Err != nil {
		fields = append(fields, zap.Error(err.Err))
	}
	if err.Status >= http.StatusInternalServerError {
		common.LogError(err.Message, fields...)
	} else {
		common.LogWarn(err.Message, fields...)
	}
	c.AbortWithStatusJSON(err.Status, err.Response(h.debug))
}

// toCustomError 將服務錯誤轉換為 API 錯誤
func toCustomError(err error) *common.CustomError {
	var customErr *common.CustomError
	switch {
	case errors.As(err, &customErr):
		return customErr
	case errors.Is(err, common.ErrSourceUnavailable):
		return common.NewError(common.ErrCodeInvalidRequest,
			"records are required when no recipe store is configured",
			http.StatusBadRequest, err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.WithErr(err)
	case errors.Is(err, context.Canceled):
		return common.ErrRequestTimeout.WithErr(err)
	default:
		return common.ErrInternalError.WithErr(err)
	}
}

// invalidRequest 建立請求格式錯誤
func invalidRequest(message string, err error) *common.CustomError {
	return common.NewError(common.ErrCodeInvalidRequest, message, http.StatusBadRequest, err)
}
