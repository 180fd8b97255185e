package rating

import "math"

// PercentageTier is a grade on the share-of-yes scale.
type PercentageTier struct {
	Level        Level    `json:"level"`
	MinPercent   float64  `json:"minPercent"`
	RateDiscount float64  `json:"rateDiscount"`
	Description  string   `json:"description"`
	Benefits     []string `json:"benefits"`
}

// PercentageTiers lists the percentage grades from best to worst.
var PercentageTiers = []PercentageTier{
	{
		Level:        A,
		MinPercent:   90,
		RateDiscount: 0.1,
		Description:  "優良：永續實踐完整，適用最高利率減碼",
		Benefits:     []string{"利率減碼0.1%", "優先適用綠色融資方案", "永續夥伴年度表揚"},
	},
	{
		Level:        B,
		MinPercent:   70,
		RateDiscount: 0.05,
		Description:  "良好：具備基本永續實踐，適用部分利率減碼",
		Benefits:     []string{"利率減碼0.05%", "ESG輔導平台進階功能"},
	},
	{
		Level:        C,
		MinPercent:   0,
		RateDiscount: 0,
		Description:  "待加強：建議參考改善建議後重新評估",
		Benefits:     []string{"免費ESG輔導諮詢"},
	},
}

// PercentageRating is the result of RateByPercentage.
//
// Percentage is rounded to one decimal for display only; the grade was
// decided on the unrounded value.
type PercentageRating struct {
	PercentageTier
	YesCount   int     `json:"yesCount"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// RateByPercentage grades yesCount out of totalQuestions. A non-positive
// question count rates as 0%.
func RateByPercentage(yesCount, totalQuestions int) PercentageRating {
	pct := 0.0
	if totalQuestions > 0 {
		pct = float64(yesCount) / float64(totalQuestions) * 100
	}
	tier := ForPercentage(pct)
	tier.Benefits = append([]string(nil), tier.Benefits...)
	return PercentageRating{
		PercentageTier: tier,
		YesCount:       yesCount,
		Total:          totalQuestions,
		Percentage:     math.Round(pct*10) / 10,
	}
}

// ForPercentage grades a raw percentage. Callers must not round first:
// 89.96% is a B even though it displays as 90.0.
func ForPercentage(pct float64) PercentageTier {
	if !math.IsNaN(pct) {
		for _, t := range PercentageTiers[:len(PercentageTiers)-1] {
			if pct >= t.MinPercent {
				return t
			}
		}
	}
	return PercentageTiers[len(PercentageTiers)-1]
}
