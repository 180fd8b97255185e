package rubric

// Violations records the major-violation questions asked before scoring.
type Violations struct {
	Environmental bool `json:"hasEnvironmentalViolations"`
	Labor         bool `json:"hasLaborViolations"`
	Governance    bool `json:"hasGovernanceIssues"`
}

// Screening is the outcome of the eligibility threshold check.
type Screening struct {
	Passed  bool     `json:"passed"`
	Actions []string `json:"actions,omitempty"`
}

// Screen fails any company with a major violation on record and lists the
// remediation required before it can be scored.
func Screen(v Violations) Screening {
	var actions []string
	if v.Environmental {
		actions = append(actions, "處理環境污染違規事項")
	}
	if v.Labor {
		actions = append(actions, "解決勞工違規問題")
	}
	if v.Governance {
		actions = append(actions, "改善公司治理缺失")
	}
	return Screening{Passed: len(actions) == 0, Actions: actions}
}

// CountYes counts the questions answered "yes" on the simple e1..g7
// questionnaire. The second result is the number of questions asked.
func CountYes(raw Answers) (yes, total int) {
	for _, q := range questions {
		if Fold(raw[simpleKey(q.ID)]) == "yes" {
			yes++
		}
	}
	return yes, len(questions)
}

// simpleKey returns the questionnaire key for a question ID, "E1" -> "e1".
func simpleKey(id string) string {
	b := []byte(id)
	if len(b) > 0 && b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
