package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		unit       string
		ingredient string
		want       Classification
	}{
		{"teaspoon", "tsp", "salt", Classification{BaseUnit: "tsp", Factor: 1, Class: Volume}},
		{"tablespoon plural", "Tablespoons", "oil", Classification{BaseUnit: "tsp", Factor: 3, Class: Volume}},
		{"cup", "cup", "flour", Classification{BaseUnit: "tsp", Factor: 48, Class: Volume}},
		{"fluid ounce", "fl oz", "milk", Classification{BaseUnit: "tsp", Factor: 6, Class: Volume}},
		{"liter", "l", "water", Classification{BaseUnit: "tsp", Factor: 202.884, Class: Volume}},
		{"pound", "lb", "beef", Classification{BaseUnit: "oz", Factor: 16, Class: Weight}},
		{"gram", "g", "cheese", Classification{BaseUnit: "oz", Factor: 0.035274, Class: Weight}},
		{"butter stick", "stick", "butter", Classification{BaseUnit: "tsp", Factor: 24, Class: Volume}},
		{"butter sticks with modifier", "sticks", "Unsalted Butter", Classification{BaseUnit: "tsp", Factor: 24, Class: Volume}},
		{"stick without butter", "stick", "cinnamon", Classification{BaseUnit: "stick", Factor: 1, Class: Count}},
		{"large egg", "large", "eggs", Classification{BaseUnit: "unit", Factor: 1, Class: Count}},
		{"size adjective on other food", "medium", "onion", Classification{BaseUnit: "unit", Factor: 1, Class: Count}},
		{"bunch of kale", "bunch", "kale", Classification{BaseUnit: "bunch", Factor: 1, Class: Count}},
		{"plural count noun", "cloves", "garlic", Classification{BaseUnit: "clove", Factor: 1, Class: Count}},
		{"empty unit", "", "eggs", Classification{BaseUnit: "unit", Factor: 1, Class: Count}},
		{"whole", "whole", "chicken", Classification{BaseUnit: "unit", Factor: 1, Class: Count}},
		{"trailing dot", "Tbsp.", "sugar", Classification{BaseUnit: "tsp", Factor: 3, Class: Volume}},
		{"unknown unit", "Handful", "spinach", Classification{BaseUnit: "handful", Factor: 1, Class: Count}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tc.unit, tc.ingredient)
			assert.Equal(t, tc.want.BaseUnit, got.BaseUnit)
			assert.Equal(t, tc.want.Class, got.Class)
			assert.InDelta(t, tc.want.Factor, got.Factor, 1e-9)
		})
	}
}

func TestConvertToBase(t *testing.T) {
	t.Parallel()

	one := 1.0
	q, base, class := ConvertToBase(&one, "stick", "butter")
	assert.InDelta(t, 24.0, q, 1e-9)
	assert.Equal(t, "tsp", base)
	assert.Equal(t, Volume, class)

	two := 2.0
	q, base, class = ConvertToBase(&two, "cup", "flour")
	assert.InDelta(t, 96.0, q, 1e-9)
	assert.Equal(t, "tsp", base)
	assert.Equal(t, Volume, class)

	q, base, class = ConvertToBase(nil, "", "eggs")
	assert.InDelta(t, 1.0, q, 1e-9)
	assert.Equal(t, "unit", base)
	assert.Equal(t, Count, class)
}

func TestConvertRoundTrip(t *testing.T) {
	t.Parallel()

	units := make([]string, 0, len(volumeToTsp)+len(weightToOz))
	for u := range volumeToTsp {
		units = append(units, u)
	}
	for u := range weightToOz {
		units = append(units, u)
	}

	for _, u := range units {
		for _, q := range []float64{0.125, 1, 2.5, 17} {
			qty := q
			base, baseUnit, _ := ConvertToBase(&qty, u, "anything")
			back := ConvertFromBase(base, baseUnit, u)
			assert.InDelta(t, q, back, 1e-9, "unit %q", u)
		}
	}
}

func TestConvertFromBase_Fallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10.0, ConvertFromBase(10, "tsp", "lb"))
	assert.Equal(t, 10.0, ConvertFromBase(10, "oz", "cup"))
	assert.Equal(t, 10.0, ConvertFromBase(10, "clove", "clove"))
	assert.InDelta(t, 2.0, ConvertFromBase(96, "tsp", "Cups"), 1e-9)
}

func TestIsUnsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		unit string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"bunch", false},
		{"cups", false},
		{"Tbsp.", false},
		{"large", false},
		{"pinch", false},
		{"fl oz", false},
		{"pinch-of-something-weird", true},
		{"handful", true},
	}

	for _, tc := range tests {
		tc := tc
		assert.Equal(t, tc.want, IsUnsupported(tc.unit), "unit %q", tc.unit)
	}
}

func TestSupportedUnits(t *testing.T) {
	t.Parallel()

	units := SupportedUnits()
	require.NotEmpty(t, units)
	assert.IsIncreasing(t, units)
	assert.Contains(t, units, "tsp")
	assert.Contains(t, units, "stick")
	assert.Contains(t, units, "bunch")
	assert.NotContains(t, units, "")

	for _, u := range units {
		assert.False(t, IsUnsupported(u), "listed unit %q must be supported", u)
	}
}
