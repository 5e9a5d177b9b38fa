package shopping

import (
	"net/http"
	"strings"

	"recipe-shopping/internal/core/ingredient"
	"recipe-shopping/internal/core/unit"
	"recipe-shopping/internal/pkg/common"

	"go.uber.org/zap"
)

// ParseRequest 食材解析請求，lines 與 text 擇一
type ParseRequest struct {
	Lines []string `json:"lines,omitempty"`
	Text  string   `json:"text,omitempty"`
}

// ParsedIngredient 解析後的食材
type ParsedIngredient struct {
	ingredient.Line
	Formatted   string `json:"display"`
	Unsupported bool   `json:"unsupported_unit"`
}

// ParseResponse 食材解析響應
type ParseResponse struct {
	Ingredients []ParsedIngredient `json:"ingredients"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// HandleParseIngredients 將自由文字的食材解析成數量、單位與名稱
func (h *Handler) HandleParseIngredients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = w.Header().Get("X-Request-ID")
		}
		if requestID == "" {
			requestID = common.GenerateUUID()
			w.Header().Set("X-Request-ID", requestID)
		}

		var req ParseRequest
		if err := common.DecodeJSONStrict(r.Body, &req); err != nil {
			common.LogWarn("Invalid request format",
				zap.Error(err),
				zap.String("request_id", requestID))
			common.WriteErrorResponse(w, http.StatusBadRequest, common.ErrCodeInvalidRequest, "Invalid request format")
			return
		}

		raw := req.Lines
		if len(raw) == 0 && req.Text != "" {
			raw = strings.Split(req.Text, "\n")
		}
		if len(raw) == 0 {
			common.WriteErrorResponse(w, http.StatusBadRequest, common.ErrCodeInvalidRequest, "lines or text is required")
			return
		}
		if h.maxLines > 0 && len(raw) > h.maxLines {
			common.WriteErrorResponse(w, http.StatusRequestEntityTooLarge, common.ErrCodeEntityTooLarge, "too many ingredient lines")
			return
		}

		resp := ParseResponse{Ingredients: make([]ParsedIngredient, 0, len(raw))}
		for _, text := range raw {
			line, err := ingredient.ParseLine(text)
			if err != nil {
				continue
			}

			unsupported := unit.IsUnsupported(line.UnitString())
			if unsupported {
				resp.Warnings = append(resp.Warnings, "unit \""+line.UnitString()+"\" cannot be combined on a shopping list")
			}
			resp.Ingredients = append(resp.Ingredients, ParsedIngredient{
				Line:        line,
				Formatted:   line.Display(),
				Unsupported: unsupported,
			})
		}

		common.LogInfo("食材解析完成",
			zap.String("request_id", requestID),
			zap.Int("lines", len(raw)),
			zap.Int("parsed", len(resp.Ingredients)),
		)
		common.WriteJSON(w, http.StatusOK, resp)
	}
}
