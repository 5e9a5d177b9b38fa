package shopping

import (
	"sort"

	"recipe-shopping/internal/core/unit"
	"recipe-shopping/internal/pkg/common"
)

// AggregatedQuantity 同一彙總鍵（名稱 + 單位類別）的總量
type AggregatedQuantity struct {
	Name        string     `json:"name"`
	Class       unit.Class `json:"class"`
	BaseUnit    string     `json:"base_unit"`
	TotalBase   float64    `json:"total_base"`
	DisplayName string     `json:"display_name"`
	Lines       int        `json:"lines"`
}

// Key 回傳彙總鍵 "name|class"，現有量以此對應
func (a AggregatedQuantity) Key() string {
	return Key(a.Name, a.Class)
}

// Key 組合彙總鍵
func Key(name string, class unit.Class) string {
	return name + "|" + string(class)
}

type bucketKey struct {
	name  string
	class unit.Class
}

// Aggregate 依 (正規化名稱, 單位類別) 加總所選食譜的食材
//
// 每個鍵的基準單位與顯示名稱取自第一筆資料；同名但類別不同的食材分成兩列。
// 沒有選擇任何食譜時回傳空切片。
func Aggregate(records []common.IngredientRecord, selected []int64) []AggregatedQuantity {
	if len(selected) == 0 || len(records) == 0 {
		return []AggregatedQuantity{}
	}

	want := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}

	buckets := make(map[bucketKey]*AggregatedQuantity)
	for _, rec := range records {
		if _, ok := want[rec.RecipeID]; !ok {
			continue
		}

		qty, baseUnit, class := unit.ConvertToBase(rec.Quantity, rec.Unit, rec.Name)
		key := bucketKey{name: NormalizeName(rec.Name), class: class}

		b, ok := buckets[key]
		if !ok {
			b = &AggregatedQuantity{
				Name:        key.name,
				Class:       class,
				BaseUnit:    baseUnit,
				DisplayName: rec.Name,
			}
			buckets[key] = b
		}
		b.TotalBase += qty
		b.Lines++
	}

	result := make([]AggregatedQuantity, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Class < result[j].Class
	})
	return result
}
