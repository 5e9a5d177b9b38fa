package ingredient

import (
	"strings"
	"unicode"

	"recipe-shopping/internal/pkg/common"

	"go.uber.org/zap"
)

// Line 解析後的食材行
type Line struct {
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Name     string   `json:"name"`
}

// Display 以 "數量 單位 名稱" 格式輸出
func (l Line) Display() string {
	parts := make([]string, 0, 3)
	if l.Quantity != nil && *l.Quantity > 0 {
		parts = append(parts, FormatQuantity(*l.Quantity))
	}
	if l.Unit != nil && *l.Unit != "" {
		parts = append(parts, *l.Unit)
	}
	parts = append(parts, l.Name)
	return strings.Join(parts, " ")
}

// UnitString 回傳單位，沒有單位時為空字串
func (l Line) UnitString() string {
	if l.Unit == nil {
		return ""
	}
	return *l.Unit
}

// ParseLine 將一行自由文字拆成數量、單位與名稱
//
// 找不到數量或單位不是錯誤，剩下的文字全部當作名稱保留（包含處理方式等備註）。
func ParseLine(text string) (Line, error) {
	line := strings.TrimSpace(text)
	if line == "" {
		return Line{}, common.ErrEmptyLine
	}

	result := Line{}
	rest := line

	if qty, n, ok := leadingQuantity(line); ok {
		// 只有數量沒有其他文字時，整行視為名稱
		if remainder := strings.TrimSpace(line[n:]); remainder != "" {
			result.Quantity = &qty
			rest = remainder
		}
	}

	if unit, n, ok := leadingUnit(rest); ok {
		result.Unit = &unit
		rest = strings.TrimSpace(rest[n:])
	}

	result.Name = rest
	return result, nil
}

// ParseLines 逐行解析食材文字，略過空白行
func ParseLines(block string) []Line {
	rawLines := strings.Split(block, "\n")
	lines := make([]Line, 0, len(rawLines))
	for _, raw := range rawLines {
		parsed, err := ParseLine(raw)
		if err != nil {
			continue
		}
		lines = append(lines, parsed)
	}
	return lines
}

// leadingQuantity 依優先順序嘗試每個數量匹配器
func leadingQuantity(line string) (float64, int, bool) {
	for _, match := range quantityMatchers {
		n, ok := match(line)
		if !ok {
			continue
		}
		qty, err := ParseQuantity(line[:n])
		if err != nil {
			// 分數無效時視為沒有數量，保留原文
			common.LogDebug("Ignoring malformed quantity",
				zap.String("token", line[:n]),
				zap.Error(err),
			)
			return 0, 0, false
		}
		return qty, n, true
	}
	return 0, 0, false
}

// leadingUnit 從開頭匹配單位詞，單位後面必須還有名稱
// 兩個字的單位（fl oz）先嘗試，確保最長匹配
func leadingUnit(s string) (string, int, bool) {
	first := wordEnd(s, 0)
	if first >= len(s) {
		return "", 0, false
	}

	secondStart := spaceEnd(s, first)
	second := wordEnd(s, secondStart)
	if second < len(s) {
		if unit, ok := lookupUnit(s[:first] + " " + s[secondStart:second]); ok {
			return unit, second, true
		}
	}

	if unit, ok := lookupUnit(s[:first]); ok {
		return unit, first, true
	}
	return "", 0, false
}

func lookupUnit(word string) (string, bool) {
	word = strings.TrimRight(strings.ToLower(word), ".")
	unit, ok := unitWords[word]
	return unit, ok
}

func wordEnd(s string, i int) int {
	if idx := strings.IndexFunc(s[i:], unicode.IsSpace); idx >= 0 {
		return i + idx
	}
	return len(s)
}

func spaceEnd(s string, i int) int {
	if idx := strings.IndexFunc(s[i:], func(r rune) bool { return !unicode.IsSpace(r) }); idx >= 0 {
		return i + idx
	}
	return len(s)
}
