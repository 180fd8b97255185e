package rating

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	tests := []struct {
		total       float64
		want        Level
		wantWarning bool
	}{
		{total: 100, want: A},
		{total: 80, want: A},
		{total: 79.999, want: B},
		{total: 60, want: B},
		{total: 59.9, want: C, wantWarning: true},
		{total: 30, want: C, wantWarning: true},
		{total: 29, want: D, wantWarning: true},
		{total: 0, want: D, wantWarning: true},
		{total: -12, want: D, wantWarning: true},
		{total: math.NaN(), want: D, wantWarning: true},
	}
	for _, tt := range tests {
		got := Rate(tt.total)
		assert.Equal(t, tt.want, got.Level, "Rate(%v)", tt.total)
		assert.Equal(t, tt.wantWarning, got.Warning != "", "Rate(%v) warning", tt.total)
		assert.NotEmpty(t, got.Products, "Rate(%v) products", tt.total)
	}
}

func TestRateTierMetadata(t *testing.T) {
	a := Rate(85)
	assert.Equal(t, "領先級 (A)", a.LevelName)
	assert.Equal(t, 0.15, a.RateDiscount)
	assert.Equal(t, "0.15% ~ 0.2%", a.RateDiscountRange)
	assert.Contains(t, a.Products, "永續績效連結貸款(SLL)")

	d := Rate(10)
	assert.Equal(t, -0.05, d.RateDiscount)
	assert.Equal(t, "基準利率加碼0.05%", d.RateDiscountRange)

	// Returned slices must not alias the shared table.
	a.Products[0] = "changed"
	assert.Equal(t, "永續績效連結貸款(SLL)", Rate(85).Products[0])
}

func TestRateByPercentage(t *testing.T) {
	tests := []struct {
		name        string
		yes, total  int
		want        Level
		wantDisplay float64
	}{
		{name: "exactly ninety", yes: 9, total: 10, want: A, wantDisplay: 90},
		{name: "rounds to ninety but is below", yes: 8999, total: 10000, want: B, wantDisplay: 90},
		{name: "seventeen of eighteen", yes: 17, total: 18, want: A, wantDisplay: 94.4},
		{name: "sixteen of eighteen", yes: 16, total: 18, want: B, wantDisplay: 88.9},
		{name: "exactly seventy", yes: 7, total: 10, want: B, wantDisplay: 70},
		{name: "below seventy", yes: 12, total: 18, want: C, wantDisplay: 66.7},
		{name: "no questions", yes: 0, total: 0, want: C, wantDisplay: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RateByPercentage(tt.yes, tt.total)
			assert.Equal(t, tt.want, got.Level)
			assert.InDelta(t, tt.wantDisplay, got.Percentage, 1e-9)
			assert.NotEmpty(t, got.Description)
		})
	}
}

func TestForPercentageComparesUnrounded(t *testing.T) {
	assert.Equal(t, B, ForPercentage(89.99999999999).Level)
	assert.Equal(t, B, ForPercentage((0.9-1e-12)*100).Level)
	assert.Equal(t, A, ForPercentage(90).Level)
	assert.Equal(t, C, ForPercentage(69.999).Level)
	assert.Equal(t, C, ForPercentage(math.NaN()).Level)
}

func TestRatingMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("higher total never rates worse", prop.ForAll(
		func(a, b float64) bool {
			if a < b {
				a, b = b, a
			}
			return Rate(a).Level.Rank() >= Rate(b).Level.Rank()
		},
		gen.Float64Range(-20, 120),
		gen.Float64Range(-20, 120),
	))

	properties.Property("higher percentage never rates worse", prop.ForAll(
		func(a, b float64) bool {
			if a < b {
				a, b = b, a
			}
			return ForPercentage(a).Level.Rank() >= ForPercentage(b).Level.Rank()
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}
