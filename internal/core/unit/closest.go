package unit

import (
	"github.com/agnivade/levenshtein"
)

// minSimilarity 建議拼字修正的最低相似度
const minSimilarity = 0.6

// similarity 以編輯距離計算 0 到 1 的相似度
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}

// Closest 為無法辨識的單位找出最相近的已知單位
//
// 單位已可辨識或沒有足夠相近的候選時回傳 false。
func Closest(unit string) (string, bool) {
	if !IsUnsupported(unit) {
		return "", false
	}

	u := normalizeUnit(unit)
	best, bestScore := "", minSimilarity
	for _, candidate := range SupportedUnits() {
		if score := similarity(u, candidate); score > bestScore || (score == bestScore && best == "") {
			best, bestScore = candidate, score
		}
	}
	return best, best != ""
}
