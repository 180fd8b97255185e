package rubric

import (
	"reflect"
	"testing"
)

func TestScoreCategory(t *testing.T) {
	tests := []struct {
		name      string
		raw       Answers
		category  Category
		wantTotal int
		wantQ     map[string]int
		wantImpr  []string
	}{
		{
			name:      "penalty, green investment and circular economy only",
			raw:       Answers{"e4": "yes", "e5": "yes", "e6": "yes"},
			category:  Environment,
			wantTotal: 15,
			wantQ:     map[string]int{"E1": 0, "E2": 0, "E3": 0, "E4": 6, "E5": 5, "E6": 4},
			wantImpr:  []string{"E1", "E2", "E3"},
		},
		{
			name:      "legacy e1 yes maps to completed scope 1 and 2",
			raw:       Answers{"e1": "yes"},
			category:  Environment,
			wantTotal: 12,
			wantQ:     map[string]int{"E1": 12},
		},
		{
			name:      "detailed key wins over legacy key",
			raw:       Answers{"e1_carbonManagement": "platform-tool", "e1": "yes"},
			category:  Environment,
			wantTotal: 6,
			wantQ:     map[string]int{"E1": 6},
		},
		{
			name:      "unrecognized detailed value shadows legacy key",
			raw:       Answers{"e1_carbonManagement": "some-new-option", "e1": "yes"},
			category:  Environment,
			wantTotal: 0,
			wantQ:     map[string]int{"E1": 0},
		},
		{
			name:      "empty detailed value falls back to legacy",
			raw:       Answers{"e1_carbonManagement": "  ", "e1": "yes"},
			category:  Environment,
			wantTotal: 12,
			wantQ:     map[string]int{"E1": 12},
		},
		{
			name:      "legacy e3 covers waste and water",
			raw:       Answers{"e3": "yes"},
			category:  Environment,
			wantTotal: 6,
			wantQ:     map[string]int{"E3": 6},
		},
		{
			name:      "legacy e4 is the penalty question, not water",
			raw:       Answers{"e4": "yes"},
			category:  Environment,
			wantTotal: 6,
			wantQ:     map[string]int{"E3": 0, "E4": 6},
		},
		{
			name:      "partial E3 credit",
			raw:       Answers{"e3_waste": "yes", "e3_water": "no"},
			category:  Environment,
			wantTotal: 3,
			wantQ:     map[string]int{"E3": 3},
		},
		{
			name:      "full-width answers are folded",
			raw:       Answers{"s3_supplychain": "ＹＥＳ", "s4_community": " Yes "},
			category:  Social,
			wantTotal: 10,
			wantQ:     map[string]int{"S3": 5, "S4": 5},
		},
		{
			name:      "older long names beat simple keys",
			raw:       Answers{"g1_governanceStructure": "yes", "g1": "yes"},
			category:  Governance,
			wantTotal: 5,
			wantQ:     map[string]int{"G1": 5},
		},
		{
			name:      "older long names translate",
			raw:       Answers{"s1_employeeSatisfaction": "yes", "s2_community": "yes", "s3_social": "yes"},
			category:  Social,
			wantTotal: 25,
			wantQ:     map[string]int{"S1": 10, "S2": 10, "S3": 5},
		},
		{
			name:      "empty submission scores zero",
			raw:       Answers{},
			category:  Governance,
			wantTotal: 0,
			wantImpr:  []string{"G1", "G2", "G3", "G4", "G5", "G6", "G7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := ScoreCategory(tt.category, Normalize(tt.raw))
			if cs.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d (breakdown=%v)", cs.Total, tt.wantTotal, cs.Breakdown)
			}
			for id, want := range tt.wantQ {
				if got := cs.Breakdown[id]; got != want {
					t.Errorf("Breakdown[%s] = %d, want %d", id, got, want)
				}
			}
			if tt.wantImpr != nil && !reflect.DeepEqual(cs.Improvements, tt.wantImpr) {
				t.Errorf("Improvements = %v, want %v", cs.Improvements, tt.wantImpr)
			}
		})
	}
}

func TestScoreFullMarksHitsCaps(t *testing.T) {
	raw := Answers{
		"e1_carbonManagement": "completed-scope1-2",
		"e2_energyEfficiency": "updated-equipment-past2y",
		"e3_waste":            "yes",
		"e3_water":            "yes",
		"e4":                  "yes",
		"e5":                  "yes",
		"e6":                  "yes",
		"s1_training":         "yes-15hours",
		"s2_welfare":          "exceeds-law",
		"s3_supplychain":      "yes",
		"s4_community":        "yes",
		"s5":                  "yes",
		"g1_sustainability":   "executive-with-team",
		"g2_compliance":       "no-major-violations",
		"g3_integrity":        "yes",
		"g4":                  "yes",
		"g5":                  "yes",
		"g6":                  "yes",
		"g7":                  "yes",
	}
	s := Score(Normalize(raw))

	if s.E.Subtotal != 43 || s.E.Total != 35 || !s.E.Capped {
		t.Errorf("E = %+v, want subtotal 43 capped to 35", s.E)
	}
	if s.S.Subtotal != 35 || s.S.Total != 35 || s.S.Capped {
		t.Errorf("S = %+v, want 35 uncapped", s.S)
	}
	if s.G.Subtotal != 41 || s.G.Total != 30 || !s.G.Capped {
		t.Errorf("G = %+v, want subtotal 41 capped to 30", s.G)
	}
	if s.Total() != 100 {
		t.Errorf("Total() = %d, want 100", s.Total())
	}
	if len(s.Improvements()) != 0 {
		t.Errorf("Improvements() = %v, want none", s.Improvements())
	}
}

func TestNormalizeDropsUnknownKeys(t *testing.T) {
	n := Normalize(Answers{"foo": "bar", "t1_platform": "yes-2years", "e2": "maybe"})
	if len(n) != 0 {
		t.Errorf("Normalize = %v, want empty", n)
	}
}

func TestNormalizeDetailedKeyShadowsLegacy(t *testing.T) {
	n := Normalize(Answers{
		"e1_carbonManagement": "some-new-option",
		"e1":                  "yes",
		"s1_training":         "",
		"s1":                  "yes",
	})
	if v, ok := n["e1_carbonManagement"]; ok {
		t.Errorf("e1_carbonManagement = %q, want omitted", v)
	}
	if n["s1_training"] != "yes-15hours" {
		t.Errorf("s1_training = %q, want legacy fallback yes-15hours", n["s1_training"])
	}
}

func TestNormalizeOnlyCanonicalValues(t *testing.T) {
	n := Normalize(Answers{
		"e1":                  "committed-next-year",
		"e2_energyEfficiency": "LED-Full-Replacement",
		"g2":                  "no",
	})
	want := Normalized{
		"e1_carbonManagement": "committed-next-year",
		"e2_energyEfficiency": "led-full-replacement",
		"g2_compliance":       "none",
	}
	if !reflect.DeepEqual(n, want) {
		t.Errorf("Normalize = %v, want %v", n, want)
	}
}

func TestQuestionMaxima(t *testing.T) {
	wantMax := map[string]int{
		"E1": 12, "E2": 10, "E3": 6, "E4": 6, "E5": 5, "E6": 4,
		"S1": 10, "S2": 10, "S3": 5, "S4": 5, "S5": 5,
		"G1": 10, "G2": 10, "G3": 5, "G4": 4, "G5": 4, "G6": 4, "G7": 4,
	}
	qs := Questions()
	if len(qs) != len(wantMax) {
		t.Fatalf("len(Questions()) = %d, want %d", len(qs), len(wantMax))
	}
	for _, q := range qs {
		if q.Max() != wantMax[q.ID] {
			t.Errorf("%s Max() = %d, want %d", q.ID, q.Max(), wantMax[q.ID])
		}
	}
}

func TestEveryTranslationTargetsCanonicalKey(t *testing.T) {
	for _, tr := range Translations {
		p, ok := partFor(tr.To)
		if !ok {
			t.Errorf("translation %s -> %s targets unknown key", tr.From, tr.To)
			continue
		}
		for from, to := range tr.Values {
			if !p.accepts(to) {
				t.Errorf("translation %s=%s -> %s=%s produces unrecognized value", tr.From, from, tr.To, to)
			}
		}
	}
}

func TestSuggestionsCoverEveryQuestion(t *testing.T) {
	var ids []string
	for _, q := range Questions() {
		ids = append(ids, q.ID)
	}
	got := Suggestions(append(ids, "T1", "bogus"))
	if len(got) != len(ids) {
		t.Errorf("Suggestions returned %d entries, want %d", len(got), len(ids))
	}
	for id, s := range got {
		if s.Title == "" || s.Hint == "" || len(s.Actions) == 0 {
			t.Errorf("suggestion %s is incomplete: %+v", id, s)
		}
	}
	if Hint("T1") != "T1" {
		t.Errorf("Hint(T1) = %q, want the ID back", Hint("T1"))
	}
}

func TestScreen(t *testing.T) {
	tests := []struct {
		name       string
		v          Violations
		wantPass   bool
		wantAction int
	}{
		{name: "clean record", v: Violations{}, wantPass: true},
		{name: "labor violation", v: Violations{Labor: true}, wantPass: false, wantAction: 1},
		{name: "all violations", v: Violations{true, true, true}, wantPass: false, wantAction: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Screen(tt.v)
			if got.Passed != tt.wantPass {
				t.Errorf("Passed = %v, want %v", got.Passed, tt.wantPass)
			}
			if len(got.Actions) != tt.wantAction {
				t.Errorf("len(Actions) = %d, want %d", len(got.Actions), tt.wantAction)
			}
		})
	}
}

func TestCountYes(t *testing.T) {
	yes, total := CountYes(Answers{"e1": "yes", "e2": "no", "g7": "ＹＥＳ", "e1_carbonManagement": "yes"})
	if yes != 2 || total != 18 {
		t.Errorf("CountYes = %d/%d, want 2/18", yes, total)
	}
}
