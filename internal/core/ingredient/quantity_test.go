package ingredient

import (
	"fmt"
	"testing"

	"recipe-shopping/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		want  float64
	}{
		{name: "integer", token: "2", want: 2},
		{name: "decimal", token: "1.5", want: 1.5},
		{name: "simple fraction", token: "1/2", want: 0.5},
		{name: "improper fraction", token: "3/2", want: 1.5},
		{name: "mixed fraction", token: "1 1/2", want: 1.5},
		{name: "mixed fraction with tab", token: "2\t3/4", want: 2.75},
		{name: "surrounding whitespace", token: "  3  ", want: 3},
		{name: "mixed without fraction keeps whole", token: "2 3", want: 2},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseQuantity(tc.token)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParseQuantity_Malformed(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"1/0", "1 1/0", "a/2", "1/b", "1/2/3", "", "abc", "1 2 3", "NaN", "Inf"} {
		token := token
		t.Run(token, func(t *testing.T) {
			t.Parallel()
			_, err := ParseQuantity(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrMalformedQuantity)
		})
	}
}

func TestParseQuantity_FractionProperties(t *testing.T) {
	t.Parallel()

	for a := 0; a <= 12; a++ {
		for b := 1; b <= 12; b++ {
			got, err := ParseQuantity(fmt.Sprintf("%d/%d", a, b))
			require.NoError(t, err)
			assert.InDelta(t, float64(a)/float64(b), got, 1e-12)

			for _, w := range []int{1, 2, 7} {
				got, err := ParseQuantity(fmt.Sprintf("%d %d/%d", w, a, b))
				require.NoError(t, err)
				assert.InDelta(t, float64(w)+float64(a)/float64(b), got, 1e-12)
			}
		}
	}
}

func TestQuantityMatchers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matcher quantityMatcher
		input   string
		wantN   int
		wantOK  bool
	}{
		{"decimal matches", matchDecimal, "1.25 cups", 4, true},
		{"decimal needs digits after point", matchDecimal, "1. cups", 0, false},
		{"decimal rejects fraction", matchDecimal, "1/2 cup", 0, false},
		{"mixed matches", matchMixedFraction, "1 1/2 cups", 5, true},
		{"mixed rejects plain integer", matchMixedFraction, "2 cups", 0, false},
		{"mixed rejects simple fraction", matchMixedFraction, "1/2 cup", 0, false},
		{"simple matches", matchSimpleFraction, "3/4 tsp", 3, true},
		{"simple needs denominator", matchSimpleFraction, "3/ tsp", 0, false},
		{"integer matches", matchInteger, "12 eggs", 2, true},
		{"integer rejects words", matchInteger, "eggs", 0, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			n, ok := tc.matcher(tc.input)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantN, n)
		})
	}
}
