// Package rubric implements the canonical ESG point rubric.
//
// Answers are collected per question across three categories: Environment,
// Social, and Governance. Raw answers may arrive in any of the historical
// field-naming schemes; Normalize maps them onto the canonical keys and
// Score turns the normalized set into per-category points.
package rubric

// Version identifies the point rubric implemented by this package.
// Records scored under an older version are re-scored on load.
const Version = "2.0.0"

// Category is one of the three assessment categories.
type Category string

const (
	Environment Category = "E"
	Social      Category = "S"
	Governance  Category = "G"
)

// Categories lists every category in report order.
var Categories = []Category{Environment, Social, Governance}

// Cap returns the most points a category can contribute to the total.
func (c Category) Cap() int {
	switch c {
	case Environment:
		return 35
	case Social:
		return 35
	case Governance:
		return 30
	default:
		return 0
	}
}

// Name returns the display name of the category.
func (c Category) Name() string {
	switch c {
	case Environment:
		return "Environment"
	case Social:
		return "Social"
	case Governance:
		return "Governance"
	default:
		return string(c)
	}
}

// Rung is one step of a decision ladder.
type Rung struct {
	Value  string
	Points int
}

// Part is one scored answer field of a question. Most questions have a
// single part; E3 is split into waste and water management.
type Part struct {
	Key   string
	Rungs []Rung
}

// max returns the highest points any rung awards.
func (p Part) max() int {
	m := 0
	for _, r := range p.Rungs {
		if r.Points > m {
			m = r.Points
		}
	}
	return m
}

// points walks the ladder top-down; the first matching rung wins.
func (p Part) points(value string) int {
	for _, r := range p.Rungs {
		if r.Value == value {
			return r.Points
		}
	}
	return 0
}

// accepts reports whether value is a recognized answer for this part.
// "no" and "none" are always recognized and score zero.
func (p Part) accepts(value string) bool {
	if value == "no" || value == "none" {
		return true
	}
	for _, r := range p.Rungs {
		if r.Value == value {
			return true
		}
	}
	return false
}

// Question is a single rubric question.
type Question struct {
	ID       string
	Category Category
	Title    string
	Parts    []Part
}

// Max returns the most points the question can award.
func (q Question) Max() int {
	total := 0
	for _, p := range q.Parts {
		total += p.max()
	}
	return total
}

func yes(points int) []Rung {
	return []Rung{{Value: "yes", Points: points}}
}

var questions = []Question{
	{ID: "E1", Category: Environment, Title: "碳管理意識與盤查", Parts: []Part{{
		Key: "e1_carbonManagement",
		Rungs: []Rung{
			{Value: "completed-scope1-2", Points: 12},
			{Value: "platform-tool", Points: 6},
			{Value: "committed-next-year", Points: 3},
		},
	}}},
	{ID: "E2", Category: Environment, Title: "能源效率與節約行動", Parts: []Part{{
		Key: "e2_energyEfficiency",
		Rungs: []Rung{
			{Value: "updated-equipment-past2y", Points: 10},
			{Value: "led-full-replacement", Points: 7},
			{Value: "basic-measures", Points: 4},
		},
	}}},
	{ID: "E3", Category: Environment, Title: "廢棄物與水資源管理", Parts: []Part{
		{Key: "e3_waste", Rungs: yes(3)},
		{Key: "e3_water", Rungs: yes(3)},
	}},
	{ID: "E4", Category: Environment, Title: "無環境污染裁罰", Parts: []Part{{Key: "e4_noEnvironmentalPenalty", Rungs: yes(6)}}},
	{ID: "E5", Category: Environment, Title: "綠能建置投資", Parts: []Part{{Key: "e5_greenInvestment", Rungs: yes(5)}}},
	{ID: "E6", Category: Environment, Title: "廢棄物資源循環利用", Parts: []Part{{Key: "e6_circularEconomy", Rungs: yes(4)}}},

	{ID: "S1", Category: Social, Title: "員工培訓與職涯發展", Parts: []Part{{
		Key: "s1_training",
		Rungs: []Rung{
			{Value: "yes-15hours", Points: 10},
			{Value: "basic-training", Points: 4},
		},
	}}},
	{ID: "S2", Category: Social, Title: "員工福利與友善職場", Parts: []Part{{
		Key: "s2_welfare",
		Rungs: []Rung{
			{Value: "exceeds-law", Points: 10},
			{Value: "basic-insurance", Points: 5},
		},
	}}},
	{ID: "S3", Category: Social, Title: "供應鏈管理（初階）", Parts: []Part{{Key: "s3_supplychain", Rungs: yes(5)}}},
	{ID: "S4", Category: Social, Title: "當地社會參與", Parts: []Part{{Key: "s4_community", Rungs: yes(5)}}},
	{ID: "S5", Category: Social, Title: "投資ESG綠色金融商品", Parts: []Part{{Key: "s5_greenFinance", Rungs: yes(5)}}},

	{ID: "G1", Category: Governance, Title: "永續專責組織與承諾", Parts: []Part{{
		Key: "g1_sustainability",
		Rungs: []Rung{
			{Value: "executive-with-team", Points: 10},
			{Value: "dedicated-staff", Points: 5},
		},
	}}},
	{ID: "G2", Category: Governance, Title: "法規遵循紀錄", Parts: []Part{{
		Key: "g2_compliance",
		Rungs: []Rung{
			{Value: "no-major-violations", Points: 10},
			{Value: "minor-violations-resolved", Points: 5},
		},
	}}},
	{ID: "G3", Category: Governance, Title: "誠信經營與風險管理", Parts: []Part{{Key: "g3_integrity", Rungs: yes(5)}}},
	{ID: "G4", Category: Governance, Title: "近三年皆有盈餘", Parts: []Part{{Key: "g4_profitability", Rungs: yes(4)}}},
	{ID: "G5", Category: Governance, Title: "定期召開董事會說明財務", Parts: []Part{{Key: "g5_boardMeetings", Rungs: yes(4)}}},
	{ID: "G6", Category: Governance, Title: "定期與股東說明營運狀況", Parts: []Part{{Key: "g6_shareholderCommunication", Rungs: yes(4)}}},
	{ID: "G7", Category: Governance, Title: "編製永續報告書", Parts: []Part{{Key: "g7_sustainabilityReport", Rungs: yes(4)}}},
}

// Questions returns every rubric question in rubric order.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// Lookup returns the question with the given ID.
func Lookup(id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// CanonicalKeys returns every canonical answer key in rubric order.
func CanonicalKeys() []string {
	var keys []string
	for _, q := range questions {
		for _, p := range q.Parts {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// partFor returns the rubric part that owns a canonical key.
func partFor(key string) (Part, bool) {
	for _, q := range questions {
		for _, p := range q.Parts {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Part{}, false
}
