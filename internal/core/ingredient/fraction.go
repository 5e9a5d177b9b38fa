package ingredient

import (
	"math"
	"strconv"
)

const (
	// wholeSnap 距離整數在此範圍內時直接取整數
	wholeSnap = 0.05
	// ladderTolerance 分數比較容許的誤差（讓 0.333 對應到 1/3）
	ladderTolerance = 0.001
	// snapEpsilon 吸收 1.05 - 1 這類浮點誤差
	snapEpsilon = 1e-9
)

type fraction struct {
	num, den int
}

func (f fraction) value() float64 {
	return float64(f.num) / float64(f.den)
}

func (f fraction) String() string {
	return strconv.Itoa(f.num) + "/" + strconv.Itoa(f.den)
}

// shoppingLadder 購物數量允許的分數，依大小排序
var shoppingLadder = []fraction{
	{1, 8}, {1, 4}, {1, 3}, {1, 2}, {2, 3}, {3, 4},
}

// displayLadder 顯示食譜用的常見分數
var displayLadder = []fraction{
	{1, 8}, {1, 4}, {1, 3}, {3, 8}, {1, 2}, {5, 8}, {2, 3}, {3, 4}, {7, 8},
}

// ToFractionString 將數量轉為購物用的分數字串，一律無條件進位
//
// 例：0.26 → "1/3"、1.5 → "1 1/2"、0.8 → "1"、0.02 → "1/8"
func ToFractionString(q float64) string {
	if q <= 0 || math.IsNaN(q) {
		return "0"
	}

	whole := math.Floor(q)
	rem := q - whole

	if rem <= wholeSnap+snapEpsilon {
		if whole == 0 {
			return shoppingLadder[0].String()
		}
		return formatWhole(whole)
	}
	if rem >= 1-wholeSnap-snapEpsilon {
		return formatWhole(whole + 1)
	}

	for _, f := range shoppingLadder {
		if f.value() >= rem-ladderTolerance {
			return mixed(whole, f)
		}
	}
	return formatWhole(whole + 1)
}

// FormatQuantity 將食譜數量轉為易讀格式（取最接近的常見分數，不進位）
func FormatQuantity(q float64) string {
	whole := math.Floor(q)
	rem := q - whole

	for _, f := range displayLadder {
		if math.Abs(rem-f.value()) < 0.01 {
			return mixed(whole, f)
		}
	}
	if whole > 0 && rem < 0.01 {
		return formatWhole(whole)
	}
	return strconv.FormatFloat(math.Round(q*100)/100, 'f', -1, 64)
}

func mixed(whole float64, f fraction) string {
	if whole == 0 {
		return f.String()
	}
	return formatWhole(whole) + " " + f.String()
}

func formatWhole(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
