package unit

// volumeToTsp 容量單位換算成茶匙的倍數
var volumeToTsp = map[string]float64{
	"tsp": 1, "teaspoon": 1, "teaspoons": 1,
	"tbsp": 3, "tablespoon": 3, "tablespoons": 3,
	"cup": 48, "cups": 48, "c": 48,
	"pint": 96, "pints": 96, "pt": 96,
	"quart": 192, "quarts": 192, "qt": 192,
	"gallon": 768, "gallons": 768, "gal": 768,
	"fl oz": 6, "fluid ounce": 6, "fluid ounces": 6,
	"ml": 0.202884, "milliliter": 0.202884, "milliliters": 0.202884,
	"l": 202.884, "liter": 202.884, "liters": 202.884,
}

// weightToOz 重量單位換算成盎司的倍數
var weightToOz = map[string]float64{
	"oz": 1, "ounce": 1, "ounces": 1,
	"lb": 16, "lbs": 16, "pound": 16, "pounds": 16,
	"g": 0.035274, "gram": 0.035274, "grams": 0.035274,
	"kg": 35.274, "kilogram": 35.274, "kilograms": 35.274,
}

// countNouns 計數單位，複數一律收斂成單數
var countNouns = map[string]string{
	"piece": "piece", "pieces": "piece",
	"clove": "clove", "cloves": "clove",
	"slice": "slice", "slices": "slice",
	"can": "can", "cans": "can",
	"bunch": "bunch", "bunches": "bunch",
	"head": "head", "heads": "head",
	"stalk": "stalk", "stalks": "stalk",
	"sprig": "sprig", "sprigs": "sprig",
	"leaf": "leaf", "leaves": "leaf",
	"stick": "stick", "sticks": "stick",
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",
}

// genericCount 沒有具體名詞的計數寫法，統一為 "unit"
var genericCount = map[string]bool{
	"": true, "unit": true, "units": true, "whole": true,
	"large": true, "medium": true, "small": true,
}

// override 特定食材的單位換算
type override struct {
	unit   string
	factor float64
}

// overrideRule 食材名稱符合時才套用的單位表
type overrideRule struct {
	matches func(name string) bool
	units   map[string]override
}

func nameContains(keyword string) func(string) bool {
	return func(name string) bool {
		return containsFold(name, keyword)
	}
}

// overrideRules 依序檢查，第一個名稱與單位都符合的規則生效
var overrideRules = []overrideRule{
	{
		matches: nameContains("butter"),
		units: map[string]override{
			"stick":  {unit: "tbsp", factor: 8},
			"sticks": {unit: "tbsp", factor: 8},
		},
	},
	{
		matches: nameContains("egg"),
		units: map[string]override{
			"large":  {unit: BaseUnitCount, factor: 1},
			"medium": {unit: BaseUnitCount, factor: 1},
			"small":  {unit: BaseUnitCount, factor: 1},
		},
	},
}
