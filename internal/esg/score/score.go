// Package score runs the assessment pipeline.
//
// Raw answers are normalized onto the canonical rubric, scored per category
// (Environment 35, Social 35, Governance 30), and the total is rated A-D.
// Activity submissions are classified and rated by their compliant share.
package score

import (
	"github.com/build-flow-labs/esgrate/rating"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
	"github.com/build-flow-labs/esgrate/taxonomy"
)

// Score evaluates a raw answer set and returns the rated assessment.
func Score(raw rubric.Answers) *schema.Assessment {
	scores := rubric.Score(rubric.Normalize(raw))
	total := scores.Total()
	tier := rating.Rate(float64(total))

	return &schema.Assessment{
		E:                 scores.E.Total,
		S:                 scores.S.Total,
		G:                 scores.G.Total,
		Total:             float64(total),
		Level:             string(tier.Level),
		LevelName:         tier.LevelName,
		RateDiscount:      tier.RateDiscount,
		RateDiscountRange: tier.RateDiscountRange,
		Products:          tier.Products,
		SpecialBenefits:   tier.SpecialBenefits,
		Warning:           tier.Warning,
		Improvements:      scores.Improvements(),
		Details:           scores.Details(),
		RubricVersion:     rubric.Version,
	}
}

// ActivityReport is a classified activity batch with its compliance grade.
type ActivityReport struct {
	taxonomy.Report
	Rating rating.PercentageRating `json:"rating"`
}

// ScoreActivities classifies each activity and grades the share of
// in-scope activities that are compliant.
func ScoreActivities(activities []taxonomy.Activity) ActivityReport {
	r := taxonomy.Summarize(activities)
	return ActivityReport{
		Report: r,
		Rating: rating.RateByPercentage(r.Counts[taxonomy.Compliant], r.InScope),
	}
}

// ScoreQuestionnaire grades the share of "yes" answers on the simple
// e1..g7 questionnaire.
func ScoreQuestionnaire(raw rubric.Answers) rating.PercentageRating {
	yes, total := rubric.CountYes(raw)
	return rating.RateByPercentage(yes, total)
}
