package rubric

// CategoryScore is the result of scoring one category.
//
// Subtotal is always the sum of Breakdown. Total is Subtotal limited to the
// category cap; Capped reports when the limit applied.
type CategoryScore struct {
	Category     Category       `json:"category"`
	Breakdown    map[string]int `json:"breakdown"`
	Subtotal     int            `json:"subtotal"`
	Total        int            `json:"total"`
	Capped       bool           `json:"capped,omitempty"`
	Improvements []string       `json:"improvements,omitempty"`
}

// Scores holds the three category results of one assessment.
type Scores struct {
	E CategoryScore `json:"E"`
	S CategoryScore `json:"S"`
	G CategoryScore `json:"G"`
}

// Total is the sum of the capped category totals, 0 to 100.
func (s Scores) Total() int {
	return s.E.Total + s.S.Total + s.G.Total
}

// Improvements lists every question scoring below its maximum, E then S then G.
func (s Scores) Improvements() []string {
	out := make([]string, 0, len(s.E.Improvements)+len(s.S.Improvements)+len(s.G.Improvements))
	out = append(out, s.E.Improvements...)
	out = append(out, s.S.Improvements...)
	out = append(out, s.G.Improvements...)
	return out
}

// Details merges the per-question breakdowns of all categories.
func (s Scores) Details() map[string]int {
	out := make(map[string]int, len(questions))
	for _, c := range []CategoryScore{s.E, s.S, s.G} {
		for id, pts := range c.Breakdown {
			out[id] = pts
		}
	}
	return out
}

// Score computes all three categories from a normalized answer set.
func Score(n Normalized) Scores {
	return Scores{
		E: ScoreCategory(Environment, n),
		S: ScoreCategory(Social, n),
		G: ScoreCategory(Governance, n),
	}
}

// ScoreCategory scores every question of one category. Absent answers
// score zero and are reported as improvements.
func ScoreCategory(c Category, n Normalized) CategoryScore {
	cs := CategoryScore{
		Category:  c,
		Breakdown: make(map[string]int),
	}
	for _, q := range questions {
		if q.Category != c {
			continue
		}
		pts := 0
		for _, p := range q.Parts {
			pts += p.points(n[p.Key])
		}
		cs.Breakdown[q.ID] = pts
		cs.Subtotal += pts
		if pts < q.Max() {
			cs.Improvements = append(cs.Improvements, q.ID)
		}
	}

	cs.Total = cs.Subtotal
	if limit := c.Cap(); cs.Total > limit {
		cs.Total = limit
		cs.Capped = true
	}
	return cs
}
