package ingredient

// unitWords 食材行中可辨識的單位詞（小寫）對應的標準簡寫
var unitWords = map[string]string{
	// 容量
	"teaspoon": "tsp", "teaspoons": "tsp", "tsp": "tsp", "tsps": "tsp",
	"tablespoon": "tbsp", "tablespoons": "tbsp", "tbsp": "tbsp", "tbsps": "tbsp", "tbs": "tbsp",
	"cup": "cup", "cups": "cup", "c": "cup",
	"pint": "pint", "pints": "pint", "pt": "pint",
	"quart": "quart", "quarts": "quart", "qt": "quart",
	"gallon": "gallon", "gallons": "gallon", "gal": "gallon",
	"fl oz": "fl oz", "fluid ounce": "fl oz", "fluid ounces": "fl oz",
	"milliliter": "ml", "milliliters": "ml", "ml": "ml",
	"liter": "l", "liters": "l", "l": "l",

	// 重量
	"ounce": "oz", "ounces": "oz", "oz": "oz",
	"pound": "lb", "pounds": "lb", "lb": "lb", "lbs": "lb",
	"gram": "g", "grams": "g", "g": "g",
	"kilogram": "kg", "kilograms": "kg", "kg": "kg",

	// 容器與計數
	"stick": "stick", "sticks": "stick",
	"clove": "clove", "cloves": "clove",
	"slice": "slice", "slices": "slice",
	"piece": "piece", "pieces": "piece",
	"can": "can", "cans": "can",
	"bunch": "bunch", "bunches": "bunch",
	"head": "head", "heads": "head",
	"stalk": "stalk", "stalks": "stalk",
	"sprig": "sprig", "sprigs": "sprig",
	"leaf": "leaf", "leaves": "leaf",

	// 少量
	"pinch": "pinch", "pinches": "pinch",
	"dash": "dash", "dashes": "dash",

	// 尺寸
	"large": "large", "medium": "medium", "small": "small",
}
