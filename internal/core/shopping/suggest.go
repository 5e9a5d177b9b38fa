package shopping

import (
	"math"
	"strconv"
	"strings"

	"recipe-shopping/internal/core/ingredient"
	"recipe-shopping/internal/core/unit"
)

// 每個單位相當的茶匙數
const (
	tspPerCup    = 48
	tspPerPint   = 96
	tspPerQuart  = 192
	tspPerGallon = 768
	tspPerStick  = 24
	ozPerLb      = 16

	// 一般容量低於 1/8 杯時以茶匙顯示
	minCupTsp = 6
	// 重量低於 1/8 磅時以盎司顯示
	minLbOz = 2

	flourBagCups    = 5
	milkCupLimit    = 4
	milkHalfGalCups = 8

	// 一袋 5 磅麵粉約 18 杯
	flourBagTsp   = 18 * tspPerCup
	flourBagLabel = "bag (5 lb)"

	// epsilon 進位前扣除的浮點誤差
	epsilon = 1e-9
)

// Suggestion 建議的購買數量與單位
type Suggestion struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// packagingRule 特定食材的包裝規則
type packagingRule struct {
	name    string
	matches func(name, baseUnit string) bool
	suggest func(total float64) Suggestion
}

// packagingRules 依序檢查，第一個符合的規則生效
var packagingRules = []packagingRule{
	{name: "butter", matches: isButter, suggest: suggestButter},
	{name: "egg", matches: isEgg, suggest: suggestEggs},
	{name: "flour", matches: volumeOf("flour"), suggest: suggestFlour},
	{name: "milk", matches: volumeOf("milk"), suggest: suggestMilk},
}

// Suggest 將彙總後的基準單位數量換算成實際購買的數量與單位，一律無條件進位
func Suggest(totalBase float64, baseUnit, name string) Suggestion {
	lowered := strings.ToLower(name)
	for _, rule := range packagingRules {
		if rule.matches(lowered, baseUnit) {
			return rule.suggest(totalBase)
		}
	}

	switch baseUnit {
	case unit.BaseUnitVolume:
		return suggestVolume(totalBase)
	case unit.BaseUnitWeight:
		return suggestWeight(totalBase)
	default:
		return suggestCount(totalBase, baseUnit)
	}
}

func volumeOf(keyword string) func(name, baseUnit string) bool {
	return func(name, baseUnit string) bool {
		return baseUnit == unit.BaseUnitVolume && strings.Contains(name, keyword)
	}
}

func isButter(name, baseUnit string) bool {
	return baseUnit == unit.BaseUnitVolume &&
		strings.Contains(name, "butter") &&
		!strings.Contains(name, "buttermilk")
}

func isEgg(name, baseUnit string) bool {
	if baseUnit == unit.BaseUnitVolume || baseUnit == unit.BaseUnitWeight {
		return false
	}
	return strings.Contains(name, "egg") && !strings.Contains(name, "eggplant")
}

// suggestButter 以半條為單位進位
func suggestButter(total float64) Suggestion {
	sticks := total / tspPerStick
	halves := math.Ceil(sticks*2-epsilon) / 2
	return Suggestion{Quantity: ingredient.ToFractionString(halves), Unit: "stick"}
}

// suggestEggs 最少半打，超過則進位到整打
func suggestEggs(total float64) Suggestion {
	if total <= 6 {
		return Suggestion{Quantity: "6", Unit: "eggs (half dozen)"}
	}
	dozens := math.Ceil(total/12 - epsilon)
	return Suggestion{Quantity: strconv.Itoa(int(dozens) * 12), Unit: "eggs (dozen)"}
}

func suggestFlour(total float64) Suggestion {
	cups := total / tspPerCup
	if cups < flourBagCups {
		return Suggestion{Quantity: ingredient.ToFractionString(cups), Unit: "cup"}
	}
	return Suggestion{Quantity: "1", Unit: flourBagLabel}
}

func suggestMilk(total float64) Suggestion {
	cups := total / tspPerCup
	switch {
	case cups < milkCupLimit:
		return Suggestion{Quantity: ingredient.ToFractionString(cups), Unit: "cup"}
	case cups <= milkHalfGalCups:
		return Suggestion{Quantity: "1/2", Unit: "gallon"}
	default:
		gallons := math.Ceil(total/tspPerGallon - epsilon)
		return Suggestion{Quantity: strconv.Itoa(int(gallons)), Unit: "gallon"}
	}
}

// suggestVolume 選擇最大的合理容量單位（不使用湯匙）
func suggestVolume(total float64) Suggestion {
	switch {
	case total >= tspPerGallon:
		return Suggestion{Quantity: ingredient.ToFractionString(total / tspPerGallon), Unit: "gallon"}
	case total >= tspPerQuart:
		return Suggestion{Quantity: ingredient.ToFractionString(total / tspPerQuart), Unit: "quart"}
	case total >= tspPerPint:
		return Suggestion{Quantity: ingredient.ToFractionString(total / tspPerPint), Unit: "pint"}
	case total >= minCupTsp:
		return Suggestion{Quantity: ingredient.ToFractionString(total / tspPerCup), Unit: "cup"}
	default:
		return Suggestion{Quantity: ingredient.ToFractionString(total), Unit: unit.BaseUnitVolume}
	}
}

func suggestWeight(total float64) Suggestion {
	if total >= minLbOz {
		return Suggestion{Quantity: ingredient.ToFractionString(total / ozPerLb), Unit: "lb"}
	}
	return Suggestion{Quantity: ingredient.ToFractionString(total), Unit: unit.BaseUnitWeight}
}

// suggestCount 計數一律進位到整數，通用單位顯示為 "count"
func suggestCount(total float64, baseUnit string) Suggestion {
	n := math.Ceil(total - epsilon)
	label := baseUnit
	if baseUnit == unit.BaseUnitCount {
		label = "count"
	}
	return Suggestion{Quantity: strconv.FormatFloat(n, 'f', 0, 64), Unit: label}
}
