package taxonomy

// Result pairs an activity with its classification.
type Result struct {
	Activity       Activity       `json:"activity"`
	Classification Classification `json:"classification"`
}

// Report summarizes a batch of classified activities.
//
// InScope counts every activity not tagged X. CompliantRevenueShare sums
// the revenue share of compliant operating activities that declare one.
type Report struct {
	Results               []Result       `json:"results"`
	Counts                map[Rating]int `json:"counts"`
	InScope               int            `json:"inScope"`
	Flagged               int            `json:"flagged"`
	CompliantRevenueShare float64        `json:"compliantRevenueShare"`
}

// Summarize classifies every activity and tallies the outcomes.
func Summarize(activities []Activity) Report {
	r := Report{
		Results: make([]Result, 0, len(activities)),
		Counts:  make(map[Rating]int, len(Ratings)),
	}
	for _, tag := range Ratings {
		r.Counts[tag] = 0
	}
	for _, a := range activities {
		c := Classify(a)
		r.Results = append(r.Results, Result{Activity: a, Classification: c})
		r.Counts[c.Rating]++
		if c.Rating != OutOfScope {
			r.InScope++
		}
		if c.Flagged {
			r.Flagged++
		}
		if c.Rating == Compliant && a.RevenueShare != nil {
			r.CompliantRevenueShare += *a.RevenueShare
		}
	}
	return r
}
