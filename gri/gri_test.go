package gri

import (
	"strings"
	"testing"
)

func items(values ...string) []Item {
	out := make([]Item, len(values))
	for i, v := range values {
		out[i] = Item{Label: "Q" + string(rune('1'+i)), Value: v}
	}
	return out
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		resp      Responses
		wantTotal float64
		wantLevel string
		wantRecs  int
	}{
		{
			name:      "all advanced",
			resp:      Responses{E: items("advanced", "yes", "advanced"), S: items("yes", "yes", "yes"), G: items("advanced", "advanced", "yes")},
			wantTotal: 9,
			wantLevel: "A (領先級)",
			wantRecs:  0,
		},
		{
			name:      "mixed answers",
			resp:      Responses{E: items("basic", "yes", "developing"), S: items("yes", "no", "yes"), G: items("basic", "basic", "yes")},
			wantTotal: 7,
			wantLevel: "B (中上級)",
			wantRecs:  5,
		},
		{
			name:      "unknown values score zero",
			resp:      Responses{E: items("unsure"), S: items("no", "no"), G: items("no")},
			wantTotal: 1,
			wantLevel: "D (初期級)",
			wantRecs:  4,
		},
		{
			name:      "nothing answered",
			resp:      Responses{},
			wantTotal: 0,
			wantLevel: "D (初期級)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.resp)
			if got.Total != tt.wantTotal {
				t.Errorf("Total = %v, want %v", got.Total, tt.wantTotal)
			}
			if got.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", got.Level, tt.wantLevel)
			}
			if len(got.Recommendations) != tt.wantRecs {
				t.Errorf("Recommendations = %v, want %d entries", got.Recommendations, tt.wantRecs)
			}
			if got.Summary == "" {
				t.Error("expected a summary")
			}
			if got.Details["E"] != got.E || got.Details["S"] != got.S || got.Details["G"] != got.G {
				t.Errorf("Details = %v, does not match category sums", got.Details)
			}
		})
	}
}

func TestRecommendationFormat(t *testing.T) {
	got := Score(Responses{S: []Item{{Label: "人權政策", Value: "basic"}}})
	if len(got.Recommendations) != 1 || !strings.HasPrefix(got.Recommendations[0], "S構面可進一步改善：人權政策") {
		t.Errorf("Recommendations = %v", got.Recommendations)
	}
}
