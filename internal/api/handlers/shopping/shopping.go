package shopping

import (
	"net/http"

	shoppingService "recipe-shopping/internal/core/shopping"
	"recipe-shopping/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AggregateRequest 彙總請求
type AggregateRequest struct {
	RecipeIDs []int64                   `json:"recipe_ids"`
	Records   []common.IngredientRecord `json:"records"`
}

// AggregatedItem 彙總結果與建議購買量
type AggregatedItem struct {
	shoppingService.AggregatedQuantity
	Key        string                     `json:"key"`
	Suggestion shoppingService.Suggestion `json:"suggestion"`
}

// SuggestRequest 建議購買單位請求
type SuggestRequest struct {
	TotalBase float64 `json:"total_base"`
	BaseUnit  string  `json:"base_unit" binding:"required"`
	Name      string  `json:"name"`
}

// BatchRequest 批次產生購物清單
type BatchRequest struct {
	Requests []shoppingService.GenerateRequest `json:"requests" binding:"required"`
}

// HandleAggregate 彙總所選食譜的食材
func (h *Handler) HandleAggregate(c *gin.Context) {
	requestID := requestIDFrom(c)

	var req AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, requestID, invalidRequest("Invalid request format", err))
		return
	}
	if h.tooManyRecords(c, requestID, len(req.Records)) {
		return
	}

	rows := shoppingService.Aggregate(req.Records, req.RecipeIDs)
	items := make([]AggregatedItem, len(rows))
	for i, row := range rows {
		items[i] = AggregatedItem{
			AggregatedQuantity: row,
			Key:                row.Key(),
			Suggestion:         shoppingService.Suggest(row.TotalBase, row.BaseUnit, row.DisplayName),
		}
	}

	common.LogDebug("彙總完成",
		zap.String("request_id", requestID),
		zap.Int("records", len(req.Records)),
		zap.Int("rows", len(items)),
	)
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// HandleSuggest 將基準單位數量換算成購買單位
func (h *Handler) HandleSuggest(c *gin.Context) {
	requestID := requestIDFrom(c)

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, requestID, invalidRequest("Invalid request format", err))
		return
	}
	if req.TotalBase < 0 {
		h.respondError(c, requestID, invalidRequest("total_base must not be negative", nil))
		return
	}

	c.JSON(http.StatusOK, shoppingService.Suggest(req.TotalBase, req.BaseUnit, req.Name))
}

// HandleGenerateList 產生購物清單（含現有量扣除）
func (h *Handler) HandleGenerateList(c *gin.Context) {
	requestID := requestIDFrom(c)

	common.LogInfo("開始處理購物清單請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req shoppingService.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, requestID, invalidRequest("Invalid request format", err))
		return
	}
	if h.tooManyRecords(c, requestID, len(req.Records)) {
		return
	}
	req.RequestID = requestID

	list, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, requestID, toCustomError(err))
		return
	}

	c.JSON(http.StatusOK, list)
}

// HandleBatch 一次產生多份購物清單
func (h *Handler) HandleBatch(c *gin.Context) {
	requestID := requestIDFrom(c)

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, requestID, invalidRequest("Invalid request format", err))
		return
	}
	if len(req.Requests) == 0 {
		h.respondError(c, requestID, invalidRequest("requests must not be empty", nil))
		return
	}
	if h.maxBatch > 0 && len(req.Requests) > h.maxBatch {
		h.respondError(c, requestID, common.NewError(common.ErrCodeEntityTooLarge, "too many requests in batch", http.StatusRequestEntityTooLarge, nil))
		return
	}

	for i := range req.Requests {
		req.Requests[i].RequestID = requestID
	}

	results := h.service.GenerateBatch(c.Request.Context(), req.Requests)

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	common.LogInfo("批次購物清單完成",
		zap.String("request_id", requestID),
		zap.Int("total", len(results)),
		zap.Int("failed", failed),
	)

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// tooManyRecords 超過單次請求的食材筆數上限時回傳 413
func (h *Handler) tooManyRecords(c *gin.Context, requestID string, n int) bool {
	if h.maxLines <= 0 || n <= h.maxLines {
		return false
	}
	h.respondError(c, requestID, common.NewError(common.ErrCodeEntityTooLarge, "too many ingredient records", http.StatusRequestEntityTooLarge, nil))
	return true
}
