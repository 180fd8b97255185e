package rubric

import (
	"strings"

	"golang.org/x/text/width"
)

// Answers is a raw answer submission: question key to answer value.
// Keys from any historical naming scheme are accepted.
type Answers map[string]string

// Normalized holds canonical keys only, each mapped to a recognized value.
type Normalized map[string]string

// Translation maps one legacy answer key onto a canonical key.
// Values lists every legacy value that has a canonical equivalent;
// legacy values missing from the table are not translated.
type Translation struct {
	From   string
	To     string
	Values map[string]string
}

func yesNo(from, to string) Translation {
	return Translation{From: from, To: to, Values: map[string]string{"yes": "yes", "no": "no"}}
}

// ladder translates a legacy yes onto the top rung and passes through
// values that already use the canonical spelling.
func ladder(from, to, top string, keep ...string) Translation {
	values := map[string]string{"yes": top, "no": "none", top: top}
	for _, k := range keep {
		values[k] = k
	}
	return Translation{From: from, To: to, Values: values}
}

func onlyYes(from, to, value string) Translation {
	return Translation{From: from, To: to, Values: map[string]string{"yes": value}}
}

// Translations lists every legacy mapping in precedence order: for a given
// canonical key the older long-form names are consulted before the simple
// e1..g7 keys.
var Translations = []Translation{
	ladder("e1", "e1_carbonManagement", "completed-scope1-2", "platform-tool", "committed-next-year"),
	ladder("e2", "e2_energyEfficiency", "updated-equipment-past2y", "led-full-replacement", "basic-measures"),
	yesNo("e3", "e3_waste"),
	yesNo("e3", "e3_water"),
	yesNo("e4", "e4_noEnvironmentalPenalty"),
	yesNo("e5", "e5_greenInvestment"),
	yesNo("e6", "e6_circularEconomy"),

	onlyYes("s1_employeeSatisfaction", "s1_training", "yes-15hours"),
	ladder("s1", "s1_training", "yes-15hours", "basic-training"),
	onlyYes("s2_community", "s2_welfare", "exceeds-law"),
	ladder("s2", "s2_welfare", "exceeds-law", "basic-insurance"),
	onlyYes("s3_social", "s3_supplychain", "yes"),
	yesNo("s3", "s3_supplychain"),
	yesNo("s4", "s4_community"),
	yesNo("s5", "s5_greenFinance"),

	onlyYes("g1_governanceStructure", "g1_sustainability", "dedicated-staff"),
	ladder("g1", "g1_sustainability", "executive-with-team", "dedicated-staff"),
	onlyYes("g2_riskManagement", "g2_compliance", "minor-violations-resolved"),
	ladder("g2", "g2_compliance", "no-major-violations", "minor-violations-resolved"),
	onlyYes("g3_audit", "g3_integrity", "yes"),
	yesNo("g3", "g3_integrity"),
	yesNo("g4", "g4_profitability"),
	yesNo("g5", "g5_boardMeetings"),
	yesNo("g6", "g6_shareholderCommunication"),
	yesNo("g7", "g7_sustainabilityReport"),
}

// Fold canonicalizes an answer value: surrounding space trimmed,
// full-width forms folded to ASCII, lower-cased.
func Fold(v string) string {
	return strings.ToLower(width.Fold.String(strings.TrimSpace(v)))
}

// Normalize maps a raw answer set onto the canonical keys.
//
// A non-empty canonical key decides its own answer: it is kept when
// recognized and omitted otherwise, and the legacy keys are not consulted.
// Only an absent or empty canonical key falls back to the legacy
// translations, tried in order; the first legacy key with a translatable
// value wins. Questions with no usable answer are omitted and score zero.
func Normalize(raw Answers) Normalized {
	out := make(Normalized)
	for _, key := range CanonicalKeys() {
		part, _ := partFor(key)
		if v := Fold(raw[key]); v != "" {
			if part.accepts(v) {
				out[key] = v
			}
			continue
		}
		for _, t := range Translations {
			if t.To != key {
				continue
			}
			old, ok := raw[t.From]
			if !ok {
				continue
			}
			if v, ok := t.Values[Fold(old)]; ok {
				out[key] = v
				break
			}
		}
	}
	return out
}
