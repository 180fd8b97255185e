// Package taxonomy classifies economic activities against the sustainable
// taxonomy: Compliant (Y), Transitioning (T), NonCompliant (N), or
// OutOfScope (X).
package taxonomy

import (
	"strings"

	"golang.org/x/text/width"
)

// Rating is the compliance tag of one activity.
type Rating string

const (
	Compliant     Rating = "Y"
	Transitioning Rating = "T"
	NonCompliant  Rating = "N"
	OutOfScope    Rating = "X"
)

// Ratings lists every tag in report order.
var Ratings = []Rating{Compliant, Transitioning, NonCompliant, OutOfScope}

// Label returns the short display text of the tag.
func (r Rating) Label() string {
	switch r {
	case Compliant:
		return "符合"
	case Transitioning:
		return "轉型中"
	case NonCompliant:
		return "不符合"
	case OutOfScope:
		return "不適用"
	default:
		return string(r)
	}
}

// Definition returns the fixed meaning of the tag.
func (r Rating) Definition() string {
	switch r {
	case Compliant:
		return "符合第一、二、三項條件"
	case Transitioning:
		return "未符合條件但已提出轉型計畫"
	case NonCompliant:
		return "未符合條件且無轉型計畫"
	case OutOfScope:
		return "經濟活動不屬於適用範圍"
	default:
		return ""
	}
}

// Plan is a parsed transition-plan answer.
type Plan int

const (
	PlanUnknown Plan = iota
	PlanYes
	PlanNo
	PlanNotApplicable
)

// ParsePlan accepts the localized and English spellings of the
// transition-plan answer.
func ParsePlan(s string) Plan {
	switch strings.ToLower(width.Fold.String(strings.TrimSpace(s))) {
	case "是", "有", "yes", "y", "true":
		return PlanYes
	case "否", "無", "no", "n", "false":
		return PlanNo
	case "不適用", "n/a", "na", "not-applicable", "not applicable":
		return PlanNotApplicable
	default:
		return PlanUnknown
	}
}

// Activity is one economic activity submitted for classification.
//
// Condition1 is substantial contribution, Condition2 no significant
// environmental harm, Condition3 no significant social harm.
type Activity struct {
	Type                 string   `json:"type,omitempty"`
	Code                 string   `json:"activityCode,omitempty"`
	Name                 string   `json:"activityName,omitempty"`
	Category             string   `json:"category"`
	RevenueShare         *float64 `json:"revenueShare,omitempty"`
	Condition1           bool     `json:"condition1"`
	Condition1Items      []string `json:"condition1Items,omitempty"`
	Condition2           bool     `json:"condition2"`
	Condition2Violations []string `json:"condition2Violations,omitempty"`
	Condition3           bool     `json:"condition3"`
	TransitionPlan       string   `json:"transitionPlan"`
}

// Classification is the outcome of Classify.
//
// Flagged is set when a failing activity had no usable yes/no transition
// plan and was rated NonCompliant by default.
type Classification struct {
	Rating     Rating `json:"rating"`
	Label      string `json:"label"`
	Definition string `json:"definition"`
	Flagged    bool   `json:"flagged,omitempty"`
}

func classification(r Rating) Classification {
	return Classification{Rating: r, Label: r.Label(), Definition: r.Definition()}
}

// IsOutOfScope reports whether a category tag marks the activity as
// excluded from the taxonomy.
func IsOutOfScope(category string) bool {
	c := strings.ToLower(width.Fold.String(strings.TrimSpace(category)))
	switch c {
	case "x", "excluded", "out-of-scope", "out of scope":
		return true
	}
	return strings.Contains(c, "不適用") || strings.Contains(c, "排除")
}

// Classify applies the decision rules in order: out-of-scope category, all
// conditions met, failing with a transition plan, failing without one.
func Classify(a Activity) Classification {
	if IsOutOfScope(a.Category) {
		return classification(OutOfScope)
	}
	if a.Condition1 && a.Condition2 && a.Condition3 {
		return classification(Compliant)
	}
	switch ParsePlan(a.TransitionPlan) {
	case PlanYes:
		return classification(Transitioning)
	case PlanNo:
		return classification(NonCompliant)
	default:
		c := classification(NonCompliant)
		c.Flagged = true
		return c
	}
}
