// Package shopping 彙總多份食譜的食材並換算成實際購買的單位
package shopping

import (
	"regexp"
	"strings"
)

// descriptors 正規化名稱時移除的處理方式與狀態形容詞
var descriptors = []string{
	"room temperature", "all-purpose", "all purpose",
	"fresh", "dried", "ground", "chopped", "minced", "diced", "sliced",
	"large", "medium", "small", "whole", "crushed", "grated", "shredded",
	"melted", "softened", "cold", "warm", "hot",
	"organic", "unsalted", "salted",
}

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	descriptorRe    = buildDescriptorRe(descriptors)
)

func buildDescriptorRe(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// NormalizeName 計算彙總用的食材名稱，原始名稱仍保留作顯示
//
// 例："2 Fresh Basil (chopped)" → "2 basil"、"unsalted butter, melted" → "butter"
func NormalizeName(name string) string {
	lowered := collapse(strings.ToLower(name))

	s := collapse(parentheticalRe.ReplaceAllString(lowered, " "))
	// 移除後可能拼出新的形容詞片語，重複到不再變化
	for {
		next := collapse(descriptorRe.ReplaceAllString(s, " "))
		if next == s {
			break
		}
		s = next
	}
	s = strings.Trim(s, " ,;")

	if s == "" {
		return lowered
	}
	return s
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
