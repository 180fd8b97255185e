package rubric

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var (
	propKeys = append(CanonicalKeys(),
		"e1", "e2", "e3", "e4", "e5", "e6",
		"s1", "s2", "s3", "s4", "s5",
		"g1", "g2", "g3", "g4", "g5", "g6", "g7",
		"s1_employeeSatisfaction", "s2_community", "s3_social",
		"g1_governanceStructure", "g2_riskManagement", "g3_audit",
		"t1_platform", "unknown",
	)
	propValues = []string{
		"yes", "no", "", "none", "YES", "ｙｅｓ", "maybe",
		"completed-scope1-2", "platform-tool", "committed-next-year",
		"updated-equipment-past2y", "led-full-replacement", "basic-measures",
		"yes-15hours", "basic-training", "exceeds-law", "basic-insurance",
		"executive-with-team", "dedicated-staff",
		"no-major-violations", "minor-violations-resolved",
	}
)

func answersFrom(keyIdx, valIdx []int) Answers {
	raw := Answers{}
	for i := 0; i < len(keyIdx) && i < len(valIdx); i++ {
		raw[propKeys[keyIdx[i]]] = propValues[valIdx[i]]
	}
	return raw
}

func TestScoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	keyGen := gen.SliceOf(gen.IntRange(0, len(propKeys)-1))
	valGen := gen.SliceOf(gen.IntRange(0, len(propValues)-1))

	properties.Property("total equals E+S+G and stays within 0..100", prop.ForAll(
		func(keyIdx, valIdx []int) bool {
			s := Score(Normalize(answersFrom(keyIdx, valIdx)))
			total := s.Total()
			return total == s.E.Total+s.S.Total+s.G.Total && total >= 0 && total <= 100
		},
		keyGen, valGen,
	))

	properties.Property("subtotal equals breakdown sum and entries respect maxima", prop.ForAll(
		func(keyIdx, valIdx []int) bool {
			s := Score(Normalize(answersFrom(keyIdx, valIdx)))
			for _, cs := range []CategoryScore{s.E, s.S, s.G} {
				sum := 0
				for id, pts := range cs.Breakdown {
					q, _ := Lookup(id)
					if pts < 0 || pts > q.Max() {
						return false
					}
					sum += pts
				}
				if sum != cs.Subtotal || cs.Total > cs.Category.Cap() {
					return false
				}
			}
			return true
		},
		keyGen, valGen,
	))

	properties.Property("normalized output holds canonical keys and recognized values", prop.ForAll(
		func(keyIdx, valIdx []int) bool {
			for k, v := range Normalize(answersFrom(keyIdx, valIdx)) {
				p, ok := partFor(k)
				if !ok || !p.accepts(v) {
					return false
				}
			}
			return true
		},
		keyGen, valGen,
	))

	properties.TestingRun(t)
}
