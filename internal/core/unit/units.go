// Package unit 將食材單位分類為容量、重量或計數，並換算成基準單位
package unit

import (
	"sort"
	"strings"
)

// Class 單位類別
type Class string

const (
	Volume Class = "volume"
	Weight Class = "weight"
	Count  Class = "count"
)

// 各類別的基準單位
const (
	BaseUnitVolume = "tsp"
	BaseUnitWeight = "oz"
	BaseUnitCount  = "unit"
)

// Classification 單位分類結果，Factor 為相對於 BaseUnit 的倍數
type Classification struct {
	BaseUnit string  `json:"base_unit"`
	Factor   float64 `json:"factor"`
	Class    Class   `json:"class"`
}

// Classify 回傳單位的基準單位、倍數與類別，永不失敗
//
// 特定食材規則優先（例如奶油的 stick），再查通用表；
// 不認得的單位視為自身的計數單位。
func Classify(unit, ingredientName string) Classification {
	u := normalizeUnit(unit)

	for _, rule := range overrideRules {
		if !rule.matches(ingredientName) {
			continue
		}
		if o, ok := rule.units[u]; ok {
			c := classifyGeneric(o.unit)
			c.Factor *= o.factor
			return c
		}
	}
	return classifyGeneric(u)
}

func classifyGeneric(u string) Classification {
	if f, ok := volumeToTsp[u]; ok {
		return Classification{BaseUnit: BaseUnitVolume, Factor: f, Class: Volume}
	}
	if f, ok := weightToOz[u]; ok {
		return Classification{BaseUnit: BaseUnitWeight, Factor: f, Class: Weight}
	}
	if noun, ok := countNouns[u]; ok {
		return Classification{BaseUnit: noun, Factor: 1, Class: Count}
	}
	if genericCount[u] {
		return Classification{BaseUnit: BaseUnitCount, Factor: 1, Class: Count}
	}
	return Classification{BaseUnit: u, Factor: 1, Class: Count}
}

// ConvertToBase 將數量換算成基準單位，數量為 nil 時視為 1
func ConvertToBase(quantity *float64, unit, ingredientName string) (float64, string, Class) {
	q := 1.0
	if quantity != nil {
		q = *quantity
	}
	c := Classify(unit, ingredientName)
	return q * c.Factor, c.BaseUnit, c.Class
}

// ConvertFromBase 將基準單位數量換回目標單位，查不到對應時原值返回
func ConvertFromBase(quantity float64, baseUnit, targetUnit string) float64 {
	target := normalizeUnit(targetUnit)
	switch baseUnit {
	case BaseUnitVolume:
		if f, ok := volumeToTsp[target]; ok {
			return quantity / f
		}
	case BaseUnitWeight:
		if f, ok := weightToOz[target]; ok {
			return quantity / f
		}
	}
	return quantity
}

// IsUnsupported 判斷單位是否無法參與彙總，空字串視為支援
func IsUnsupported(unit string) bool {
	if strings.TrimSpace(unit) == "" {
		return false
	}
	return !supported[normalizeUnit(unit)]
}

// SupportedUnits 回傳所有可辨識的單位（已排序）
func SupportedUnits() []string {
	units := make([]string, 0, len(supported))
	for u := range supported {
		if u != "" {
			units = append(units, u)
		}
	}
	sort.Strings(units)
	return units
}

var supported = buildSupported()

func buildSupported() map[string]bool {
	set := make(map[string]bool)
	for u := range volumeToTsp {
		set[u] = true
	}
	for u := range weightToOz {
		set[u] = true
	}
	for u := range countNouns {
		set[u] = true
	}
	for u := range genericCount {
		set[u] = true
	}
	for _, rule := range overrideRules {
		for u := range rule.units {
			set[u] = true
		}
	}
	return set
}

func normalizeUnit(unit string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(unit)), ".")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
