// Package carbon estimates Scope 1 and Scope 2 emissions from fuel and
// electricity usage using fixed emission factors.
package carbon

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is the unit of every Footprint figure.
const Unit = "kg CO2e"

// Emission factors in kg CO2e per physical unit.
const (
	FactorNaturalGas  = 2.02  // per m³
	FactorGasoline    = 2.31  // per L
	FactorDiesel      = 2.68  // per L
	FactorLPG         = 1.51  // per L
	FactorElectricity = 0.509 // per kWh, grid average
)

// Amount is a usage quantity decoded leniently from JSON. Numbers and
// numeric strings are accepted; anything else decodes as zero.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*a = Amount(f)
	return nil
}

// Inputs holds one period of usage.
type Inputs struct {
	NaturalGas  Amount `json:"naturalGas"`  // m³
	Gasoline    Amount `json:"gasoline"`    // L
	Diesel      Amount `json:"diesel"`      // L
	LPG         Amount `json:"lpg"`         // L
	Electricity Amount `json:"electricity"` // kWh
}

// Footprint is the computed emission total. All figures are rounded to two
// decimals; Breakdown lists the per-source contribution.
type Footprint struct {
	Scope1    float64            `json:"scope1"`
	Scope2    float64            `json:"scope2"`
	Total     float64            `json:"total"`
	Unit      string             `json:"unit"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

type source struct {
	name   string
	factor float64
	scope2 bool
	amount func(Inputs) Amount
}

var sources = []source{
	{name: "naturalGas", factor: FactorNaturalGas, amount: func(in Inputs) Amount { return in.NaturalGas }},
	{name: "gasoline", factor: FactorGasoline, amount: func(in Inputs) Amount { return in.Gasoline }},
	{name: "diesel", factor: FactorDiesel, amount: func(in Inputs) Amount { return in.Diesel }},
	{name: "lpg", factor: FactorLPG, amount: func(in Inputs) Amount { return in.LPG }},
	{name: "electricity", factor: FactorElectricity, scope2: true, amount: func(in Inputs) Amount { return in.Electricity }},
}

// Compute applies the emission factors. Negative quantities count as zero.
// Sums are kept exact and rounded only once at the end.
func Compute(in Inputs) Footprint {
	scope1 := decimal.Zero
	scope2 := decimal.Zero
	breakdown := make(map[string]float64)

	for _, s := range sources {
		qty := float64(s.amount(in))
		if qty <= 0 {
			continue
		}
		kg := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(s.factor))
		breakdown[s.name] = round(kg)
		if s.scope2 {
			scope2 = scope2.Add(kg)
		} else {
			scope1 = scope1.Add(kg)
		}
	}

	return Footprint{
		Scope1:    round(scope1),
		Scope2:    round(scope2),
		Total:     round(scope1.Add(scope2)),
		Unit:      Unit,
		Breakdown: breakdown,
	}
}

func round(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
