// Package rating maps ESG results onto letter grades and the financing terms
// attached to each grade.
//
// Two strategies exist and they are not interchangeable:
//
//   - Rate grades a point total (0-100) on the A/B/C/D scale used by the
//     scored assessment.
//   - RateByPercentage grades the share of "yes" answers on the A/B/C scale
//     used by the questionnaire and activity submissions.
//
// Both compare against inclusive lower bounds.
package rating

import "math"

// Level is a letter grade.
type Level string

const (
	A Level = "A"
	B Level = "B"
	C Level = "C"
	D Level = "D"
)

// Rank orders levels from worst (0) to best. Unknown levels rank below D.
func (l Level) Rank() int {
	switch l {
	case A:
		return 4
	case B:
		return 3
	case C:
		return 2
	case D:
		return 1
	default:
		return 0
	}
}

// Tier is a point-based grade with its financing terms.
type Tier struct {
	Level             Level    `json:"level"`
	LevelName         string   `json:"levelName"`
	MinScore          float64  `json:"minScore"`
	RateDiscount      float64  `json:"rateDiscount"`
	RateDiscountRange string   `json:"rateDiscountRange"`
	Products          []string `json:"products"`
	SpecialBenefits   []string `json:"specialBenefits,omitempty"`
	Warning           string   `json:"warning,omitempty"`
}

// Tiers lists the point-based grades from best to worst.
var Tiers = []Tier{
	{
		Level:             A,
		LevelName:         "領先級 (A)",
		MinScore:          80,
		RateDiscount:      0.15,
		RateDiscountRange: "0.15% ~ 0.2%",
		Products:          []string{"永續績效連結貸款(SLL)", "綠色融資", "永續夥伴年度表揚"},
		SpecialBenefits:   []string{"優先承作 SLL 資格", "最高減碼幅度"},
	},
	{
		Level:             B,
		LevelName:         "平均級 (B)",
		MinScore:          60,
		RateDiscount:      0.075,
		RateDiscountRange: "0.05% ~ 0.1%",
		Products:          []string{"一般永續授信", "永續主題貸款"},
		SpecialBenefits:   []string{"綠色融資快速審核通道", "ESG輔導平台進階功能免費使用"},
	},
	{
		Level:             C,
		LevelName:         "潛力級 (C)",
		MinScore:          30,
		RateDiscount:      0,
		RateDiscountRange: "無利率優惠",
		Products:          []string{"一般授信(須持續改善)"},
		SpecialBenefits:   []string{"需簽訂12個月轉型意向書", "達到B級後續貸享優惠"},
		Warning:           "需與銀行簽訂「永續轉型意向書」，12個月內達到B級",
	},
	{
		Level:             D,
		LevelName:         "風險級 (D)",
		MinScore:          0,
		RateDiscount:      -0.05,
		RateDiscountRange: "基準利率加碼0.05%",
		Products:          []string{"一般授信(需加嚴審核)"},
		SpecialBenefits:   []string{"限制下一年度授信額度"},
		Warning:           "需提交「風險改善計畫」並定期追蹤",
	},
}

// Rate returns the point-based tier for a total. Totals below zero or not
// a number fall into the lowest tier.
func Rate(total float64) Tier {
	if !math.IsNaN(total) {
		for _, t := range Tiers[:len(Tiers)-1] {
			if total >= t.MinScore {
				return t.clone()
			}
		}
	}
	return Tiers[len(Tiers)-1].clone()
}

// clone copies the slices so callers cannot edit the shared table.
func (t Tier) clone() Tier {
	t.Products = append([]string(nil), t.Products...)
	if t.SpecialBenefits != nil {
		t.SpecialBenefits = append([]string(nil), t.SpecialBenefits...)
	}
	return t
}
