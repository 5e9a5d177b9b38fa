package common

import (
	"fmt"
	"strings"
)

// IngredientRecord 持久層提供的結構化食材紀錄
type IngredientRecord struct {
	ID        int64    `json:"id,omitempty"`
	RecipeID  int64    `json:"recipe_id"`
	Name      string   `json:"name"`
	Quantity  *float64 `json:"quantity"`
	Unit      string   `json:"unit"`
	SortOrder int      `json:"sort_order,omitempty"`
}

// OnHand 使用者已有的量，Unit 為空時視為與購物單位相同
type OnHand struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// Float64 回傳指標，方便建立可為空的數量
func Float64(v float64) *float64 {
	return &v
}

// String 回傳指標，方便建立可為空的單位
func String(v string) *string {
	return &v
}

// FormatRecords 格式化食材紀錄（用於除錯日誌）
func FormatRecords(records []IngredientRecord) string {
	var sb strings.Builder
	for _, rec := range records {
		qty := "-"
		if rec.Quantity != nil {
			qty = fmt.Sprintf("%g", *rec.Quantity)
		}
		sb.WriteString(fmt.Sprintf("- [%d] %s %s %s\n", rec.RecipeID, qty, rec.Unit, rec.Name))
	}
	return sb.String()
}
