package ingredient

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"recipe-shopping/internal/pkg/common"
)

// ParseQuantity 將數量字串轉為浮點數
// 支援 "2"、"1.5"、"1/2" 以及帶分數 "1 1/2"
func ParseQuantity(token string) (float64, error) {
	token = strings.TrimSpace(token)
	parts := strings.Fields(token)

	switch len(parts) {
	case 0:
		return 0, fmt.Errorf("%w: empty token", common.ErrMalformedQuantity)
	case 1:
		if strings.Contains(token, "/") {
			return parseFraction(token)
		}
		return parseNumber(token)
	case 2:
		// 帶分數：整數部分 + 分數部分
		whole, err := parseNumber(parts[0])
		if err != nil {
			return 0, err
		}
		if !strings.Contains(parts[1], "/") {
			return whole, nil
		}
		frac, err := parseFraction(parts[1])
		if err != nil {
			return 0, err
		}
		return whole + frac, nil
	default:
		return 0, fmt.Errorf("%w: %q", common.ErrMalformedQuantity, token)
	}
}

func parseFraction(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	if !ok || strings.Contains(den, "/") {
		return 0, fmt.Errorf("%w: %q", common.ErrMalformedQuantity, s)
	}
	n, err := parseNumber(num)
	if err != nil {
		return 0, err
	}
	d, err := parseNumber(den)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("%w: zero denominator in %q", common.ErrMalformedQuantity, s)
	}
	return n / d, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", common.ErrMalformedQuantity, s)
	}
	return v, nil
}
