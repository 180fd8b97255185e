package carbon

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name                    string
		in                      Inputs
		wantS1, wantS2, wantTot float64
	}{
		{name: "electricity only", in: Inputs{Electricity: 1000}, wantS1: 0, wantS2: 509, wantTot: 509},
		{name: "every fuel", in: Inputs{NaturalGas: 100, Gasoline: 100, Diesel: 100, LPG: 100}, wantS1: 852, wantS2: 0, wantTot: 852},
		{name: "mixed", in: Inputs{Diesel: 12.5, Electricity: 333}, wantS1: 33.5, wantS2: 169.5, wantTot: 203},
		{name: "rounding happens at the end", in: Inputs{Electricity: 1, LPG: 0.003}, wantS1: 0, wantS2: 0.51, wantTot: 0.51},
		{name: "negative counts as zero", in: Inputs{Gasoline: -40, Electricity: 10}, wantS1: 0, wantS2: 5.09, wantTot: 5.09},
		{name: "nothing", in: Inputs{}, wantS1: 0, wantS2: 0, wantTot: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Compute(tt.in)
			assert.InDelta(t, tt.wantS1, f.Scope1, 1e-9)
			assert.InDelta(t, tt.wantS2, f.Scope2, 1e-9)
			assert.InDelta(t, tt.wantTot, f.Total, 1e-9)
			assert.Equal(t, "kg CO2e", f.Unit)
		})
	}
}

func TestComputeBreakdown(t *testing.T) {
	f := Compute(Inputs{NaturalGas: 10, Electricity: 100})
	assert.Equal(t, map[string]float64{"naturalGas": 20.2, "electricity": 50.9}, f.Breakdown)
}

func TestInputsDecodeLeniently(t *testing.T) {
	var in Inputs
	body := `{"naturalGas":"12.5","gasoline":"abc","diesel":null,"lpg":true,"electricity":1000}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Equal(t, Amount(12.5), in.NaturalGas)
	assert.Equal(t, Amount(0), in.Gasoline)
	assert.Equal(t, Amount(0), in.Diesel)
	assert.Equal(t, Amount(0), in.LPG)
	assert.Equal(t, Amount(1000), in.Electricity)
}

func TestSuggestions(t *testing.T) {
	electric := Suggestions(Compute(Inputs{Electricity: 1000}))
	require.Len(t, electric, 2)
	assert.Equal(t, "電力使用優化建議", electric[0].Title)
	assert.Equal(t, "長期減碳目標", electric[1].Title)

	fuel := Suggestions(Compute(Inputs{Diesel: 1000, Electricity: 10}))
	require.Len(t, fuel, 2)
	assert.Equal(t, "直接排放優化建議", fuel[0].Title)

	assert.Len(t, Suggestions(Footprint{}), 1)
}

func TestComputeIsLinear(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	amount := gen.Float64Range(0, 1e6)
	properties.Property("doubling every input doubles every output", prop.ForAll(
		func(ng, gas, dsl, lpg, kwh float64) bool {
			in := Inputs{Amount(ng), Amount(gas), Amount(dsl), Amount(lpg), Amount(kwh)}
			twice := Inputs{Amount(2 * ng), Amount(2 * gas), Amount(2 * dsl), Amount(2 * lpg), Amount(2 * kwh)}
			a, b := Compute(in), Compute(twice)
			// each side is rounded to 0.01 once, so doubling can drift by at most 0.015
			const tol = 0.015 + 1e-6
			return math.Abs(2*a.Scope1-b.Scope1) <= tol &&
				math.Abs(2*a.Scope2-b.Scope2) <= tol &&
				math.Abs(2*a.Total-b.Total) <= tol
		},
		amount, amount, amount, amount, amount,
	))

	properties.Property("outputs are never negative and total is the scope sum", prop.ForAll(
		func(ng, kwh float64) bool {
			f := Compute(Inputs{NaturalGas: Amount(ng), Electricity: Amount(kwh)})
			return f.Scope1 >= 0 && f.Scope2 >= 0 && math.Abs(f.Total-(f.Scope1+f.Scope2)) <= 0.015+1e-6
		},
		gen.Float64Range(-100, 1e5), gen.Float64Range(-100, 1e5),
	))

	properties.TestingRun(t)
}
