package taxonomy

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		activity    Activity
		want        Rating
		wantFlagged bool
	}{
		{
			name:     "failing condition with a transition plan",
			activity: Activity{Category: "一般經濟活動", Condition1: true, Condition2: true, Condition3: false, TransitionPlan: "是"},
			want:     Transitioning,
		},
		{
			name:     "all conditions met",
			activity: Activity{Category: "一般經濟活動", Condition1: true, Condition2: true, Condition3: true, TransitionPlan: "否"},
			want:     Compliant,
		},
		{
			name:     "failing condition without a plan",
			activity: Activity{Category: "一般經濟活動", Condition1: false, Condition2: true, Condition3: true, TransitionPlan: "否"},
			want:     NonCompliant,
		},
		{
			name:     "excluded category wins over conditions",
			activity: Activity{Category: "不適用/排除", Condition1: true, Condition2: true, Condition3: true, TransitionPlan: "是"},
			want:     OutOfScope,
		},
		{
			name:     "english plan spelling",
			activity: Activity{Category: "general", Condition2: false, TransitionPlan: "Yes"},
			want:     Transitioning,
		},
		{
			name:        "not applicable plan on a failing activity",
			activity:    Activity{Category: "一般經濟活動", Condition1: true, TransitionPlan: "不適用"},
			want:        NonCompliant,
			wantFlagged: true,
		},
		{
			name:        "missing plan on a failing activity",
			activity:    Activity{Category: "一般經濟活動"},
			want:        NonCompliant,
			wantFlagged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.activity)
			if got.Rating != tt.want {
				t.Errorf("Rating = %s, want %s", got.Rating, tt.want)
			}
			if got.Flagged != tt.wantFlagged {
				t.Errorf("Flagged = %v, want %v", got.Flagged, tt.wantFlagged)
			}
			if got.Definition != tt.want.Definition() || got.Label != tt.want.Label() {
				t.Errorf("Definition/Label = %q/%q, want fixed text for %s", got.Definition, got.Label, tt.want)
			}
		})
	}
}

func TestTransitionDefinitionMentionsPlan(t *testing.T) {
	got := Classify(Activity{Category: "一般經濟活動", Condition1: true, Condition2: true, TransitionPlan: "是"})
	if !strings.Contains(got.Definition, "轉型計畫") {
		t.Errorf("Definition = %q, want transition-plan text", got.Definition)
	}
}

func TestParsePlan(t *testing.T) {
	tests := map[string]Plan{
		"是":              PlanYes,
		" YES ":          PlanYes,
		"ｙｅｓ":            PlanYes,
		"否":              PlanNo,
		"no":             PlanNo,
		"不適用":            PlanNotApplicable,
		"N/A":            PlanNotApplicable,
		"not-applicable": PlanNotApplicable,
		"":               PlanUnknown,
		"maybe":          PlanUnknown,
	}
	for in, want := range tests {
		if got := ParsePlan(in); got != want {
			t.Errorf("ParsePlan(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	share := func(v float64) *float64 { return &v }
	r := Summarize([]Activity{
		{Type: "operating", Category: "一般", Condition1: true, Condition2: true, Condition3: true, RevenueShare: share(40)},
		{Type: "operating", Category: "一般", Condition1: true, Condition2: true, Condition3: true, RevenueShare: share(15)},
		{Type: "operating", Category: "一般", Condition1: false, TransitionPlan: "是", RevenueShare: share(30)},
		{Type: "project", Category: "一般", Condition1: false, TransitionPlan: "不適用"},
		{Type: "project", Category: "排除"},
	})

	if r.Counts[Compliant] != 2 || r.Counts[Transitioning] != 1 || r.Counts[NonCompliant] != 1 || r.Counts[OutOfScope] != 1 {
		t.Errorf("Counts = %v", r.Counts)
	}
	if r.InScope != 4 {
		t.Errorf("InScope = %d, want 4", r.InScope)
	}
	if r.Flagged != 1 {
		t.Errorf("Flagged = %d, want 1", r.Flagged)
	}
	if r.CompliantRevenueShare != 55 {
		t.Errorf("CompliantRevenueShare = %v, want 55", r.CompliantRevenueShare)
	}
	if len(r.Results) != 5 {
		t.Errorf("len(Results) = %d, want 5", len(r.Results))
	}
}

func TestClassifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	plans := []string{"是", "否", "不適用", "", "yes", "no", "n/a", "whatever"}
	inScope := []string{"一般經濟活動", "製造業", "general", ""}
	excluded := []string{"不適用", "排除", "不適用/排除", "excluded", "X"}

	properties.Property("out-of-scope categories always rate X", prop.ForAll(
		func(cat, plan int, c1, c2, c3 bool) bool {
			a := Activity{Category: excluded[cat], Condition1: c1, Condition2: c2, Condition3: c3, TransitionPlan: plans[plan]}
			return Classify(a).Rating == OutOfScope
		},
		gen.IntRange(0, len(excluded)-1), gen.IntRange(0, len(plans)-1), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("in-scope activities meeting every condition rate Y", prop.ForAll(
		func(cat, plan int) bool {
			a := Activity{Category: inScope[cat], Condition1: true, Condition2: true, Condition3: true, TransitionPlan: plans[plan]}
			return Classify(a).Rating == Compliant
		},
		gen.IntRange(0, len(inScope)-1), gen.IntRange(0, len(plans)-1),
	))

	properties.Property("in-scope failing activities never rate Y or X", prop.ForAll(
		func(cat, plan int, c1, c2 bool) bool {
			a := Activity{Category: inScope[cat], Condition1: c1, Condition2: c2, Condition3: false, TransitionPlan: plans[plan]}
			r := Classify(a).Rating
			return r == Transitioning || r == NonCompliant
		},
		gen.IntRange(0, len(inScope)-1), gen.IntRange(0, len(plans)-1), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
