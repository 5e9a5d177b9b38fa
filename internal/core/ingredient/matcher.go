package ingredient

// quantityMatcher 嘗試從字串開頭匹配數量，回傳消耗的長度
type quantityMatcher func(s string) (int, bool)

// quantityMatchers 依優先順序排列，越具體的格式越先嘗試，
// 避免從 "1/2" 中只取出 "1"
var quantityMatchers = []quantityMatcher{
	matchDecimal,
	matchMixedFraction,
	matchSimpleFraction,
	matchInteger,
}

// digitsEnd 回傳從 i 開始連續數字的結尾位置
func digitsEnd(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

// blanksEnd 回傳從 i 開始連續空白（空格或 tab）的結尾位置
func blanksEnd(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// matchDecimal 匹配 "1.5"
func matchDecimal(s string) (int, bool) {
	i := digitsEnd(s, 0)
	if i == 0 || i >= len(s) || s[i] != '.' {
		return 0, false
	}
	j := digitsEnd(s, i+1)
	if j == i+1 {
		return 0, false
	}
	return j, true
}

// matchMixedFraction 匹配 "1 1/2"
func matchMixedFraction(s string) (int, bool) {
	i := digitsEnd(s, 0)
	if i == 0 {
		return 0, false
	}
	k := blanksEnd(s, i)
	if k == i {
		return 0, false
	}
	n, ok := matchSimpleFraction(s[k:])
	if !ok {
		return 0, false
	}
	return k + n, true
}

// matchSimpleFraction 匹配 "1/2"
func matchSimpleFraction(s string) (int, bool) {
	i := digitsEnd(s, 0)
	if i == 0 || i >= len(s) || s[i] != '/' {
		return 0, false
	}
	j := digitsEnd(s, i+1)
	if j == i+1 {
		return 0, false
	}
	return j, true
}

// matchInteger 匹配 "2"
func matchInteger(s string) (int, bool) {
	i := digitsEnd(s, 0)
	return i, i > 0
}
