package shopping

import (
	"net/http"
	"strings"

	"recipe-shopping/internal/core/unit"

	"github.com/gin-gonic/gin"
)

// 換算方向
const (
	directionToBase   = "to_base"
	directionFromBase = "from_base"
)

// ClassifyRequest 單位分類請求
type ClassifyRequest struct {
	Unit string `json:"unit"`
	Name string `json:"name"`
}

// ConvertRequest 單位換算請求
//
// to_base：Quantity / Unit / Name → 基準單位
// from_base：Quantity / BaseUnit → TargetUnit
type ConvertRequest struct {
	Direction  string   `json:"direction" binding:"required,oneof=to_base from_base"`
	Quantity   *float64 `json:"quantity"`
	Unit       string   `json:"unit"`
	Name       string   `json:"name"`
	BaseUnit   string   `json:"base_unit"`
	TargetUnit string   `json:"target_unit"`
}

// ConvertResponse 單位換算結果
type ConvertResponse struct {
	Quantity float64    `json:"quantity"`
	Unit     string     `json:"unit"`
	Class    unit.Class `json:"class,omitempty"`
}

// HandleListUnits 列出所有可辨識的單位
func (h *Handler) HandleListUnits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"units": unit.SupportedUnits()})
}

// HandleCheckUnit 檢查單位是否無法參與彙總，並提供拼字建議
func (h *Handler) HandleCheckUnit(c *gin.Context) {
	u := c.Query("unit")
	resp := gin.H{
		"unit":        u,
		"unsupported": unit.IsUnsupported(u),
	}
	if suggestion, ok := unit.Closest(u); ok {
		resp["did_you_mean"] = suggestion
	}
	c.JSON(http.StatusOK, resp)
}

// HandleClassify 回傳單位的基準單位、倍數與類別
func (h *Handler) HandleClassify(c *gin.Context) {
	requestID := requestIDFrom(c)

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, requestID, invalidRequest("Invalid request format", err))
		return
	}

	c.JSON(http.StatusOK, unit.Classify(req.Unit, req.Name))
}

// HandleConvert 在基準單位與一般單位間換算
func (h *Handler) HandleConvert(c *gin.Context) {
	requestID := requestIDFrom(c)

	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, requestID, invalidRequest("Invalid request format", err))
		return
	}

	switch req.Direction {
	case directionToBase:
		q, base, class := unit.ConvertToBase(req.Quantity, req.Unit, req.Name)
		c.JSON(http.StatusOK, ConvertResponse{Quantity: q, Unit: base, Class: class})
	case directionFromBase:
		if req.Quantity == nil || strings.TrimSpace(req.BaseUnit) == "" || strings.TrimSpace(req.TargetUnit) == "" {
			h.respondError(c, requestID, invalidRequest("quantity, base_unit and target_unit are required", nil))
			return
		}
		q := unit.ConvertFromBase(*req.Quantity, req.BaseUnit, req.TargetUnit)
		c.JSON(http.StatusOK, ConvertResponse{Quantity: q, Unit: req.TargetUnit})
	}
}
