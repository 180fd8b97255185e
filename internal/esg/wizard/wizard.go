// Package wizard implements the interactive `esgrate assess` questionnaire.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/build-flow-labs/esgrate/internal/esg/score"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

// ErrScreeningFailed is returned when a major violation stops the
// assessment before any question is asked.
var ErrScreeningFailed = errors.New("eligibility screening failed")

// Result is what the questionnaire collected.
type Result struct {
	Screening         rubric.Screening          `json:"screening"`
	Answers           rubric.Answers            `json:"answers,omitempty"`
	EnvironmentalData *schema.EnvironmentalData `json:"environmentalData,omitempty"`
	Assessment        *schema.Assessment        `json:"assessment,omitempty"`
}

// Wizard walks a respondent through screening and every rubric question.
type Wizard struct {
	prompt *prompter
	out    io.Writer

	// AskEnvironment adds the environmental usage step used by
	// achievement tracking.
	AskEnvironment bool

	result Result
}

// New creates a wizard reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Wizard {
	return &Wizard{
		prompt: newPrompter(in, out),
		out:    out,
	}
}

// Run executes every step in order. A failed screening ends the run early
// with ErrScreeningFailed and the screening outcome in the result.
func (w *Wizard) Run(ctx context.Context) (*Result, error) {
	w.result = Result{Answers: rubric.Answers{}}

	fmt.Fprintln(w.out, "")
	fmt.Fprintln(w.out, "  ESG Self-Assessment")
	fmt.Fprintln(w.out, "  ===================")
	fmt.Fprintln(w.out, "")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Eligibility screening", w.screen},
		{"Environment", func() error { return w.askCategory(rubric.Environment) }},
		{"Social", func() error { return w.askCategory(rubric.Social) }},
		{"Governance", func() error { return w.askCategory(rubric.Governance) }},
	}
	if w.AskEnvironment {
		steps = append(steps, struct {
			name string
			fn   func() error
		}{"Environmental data", w.askEnvironment})
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fmt.Fprintf(w.out, "\n--- Step %d/%d: %s ---\n", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			if errors.Is(err, ErrScreeningFailed) {
				return &w.result, err
			}
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.name, err)
		}
	}

	w.result.Assessment = score.Score(w.result.Answers)
	return &w.result, nil
}

func (w *Wizard) screen() error {
	var v rubric.Violations
	for _, q := range []struct {
		prompt string
		dst    *bool
	}{
		{"  Any major environmental pollution violation in the past 3 years?", &v.Environmental},
		{"  Any major labor law violation in the past 3 years?", &v.Labor},
		{"  Any major corporate governance deficiency?", &v.Governance},
	} {
		ans, err := w.prompt.askYesNo(q.prompt, false)
		if err != nil {
			return err
		}
		*q.dst = ans
	}

	w.result.Screening = rubric.Screen(v)
	if !w.result.Screening.Passed {
		fmt.Fprintln(w.out, "\n  Not eligible for scoring until these are resolved:")
		for _, a := range w.result.Screening.Actions {
			fmt.Fprintf(w.out, "    - %s\n", a)
		}
		return ErrScreeningFailed
	}
	fmt.Fprintln(w.out, "  Screening passed.")
	return nil
}

func (w *Wizard) askCategory(c rubric.Category) error {
	for _, q := range rubric.Questions() {
		if q.Category != c {
			continue
		}
		for _, part := range q.Parts {
			title := fmt.Sprintf("  %s %s", q.ID, q.Title)
			if len(q.Parts) > 1 {
				title += " (" + part.Key + ")"
			}
			value, err := w.askPart(title, part)
			if err != nil {
				return err
			}
			w.result.Answers[part.Key] = value
		}
	}
	return nil
}

// askPart asks yes/no for single-rung parts and offers the full ladder
// otherwise. Declining always records "no".
func (w *Wizard) askPart(title string, part rubric.Part) (string, error) {
	if len(part.Rungs) == 1 && part.Rungs[0].Value == "yes" {
		ok, err := w.prompt.askYesNo(title+"?", false)
		if err != nil || !ok {
			return "no", err
		}
		return "yes", nil
	}

	options := make([]string, 0, len(part.Rungs)+1)
	for _, r := range part.Rungs {
		options = append(options, fmt.Sprintf("%s (%d pts)", r.Value, r.Points))
	}
	options = append(options, "none of the above")
	idx, err := w.prompt.askChoice(title, options)
	if err != nil {
		return "", err
	}
	if idx == len(part.Rungs) {
		return "no", nil
	}
	return part.Rungs[idx].Value, nil
}

func (w *Wizard) askEnvironment() error {
	env := &schema.EnvironmentalData{}
	for _, q := range []struct {
		prompt string
		dst    *float64
	}{
		{"  Scope 1 emissions (t CO2e)", &env.Scope1Emissions},
		{"  Scope 2 emissions (t CO2e)", &env.Scope2Emissions},
		{"  Electricity usage (kWh)", &env.ElectricityUsage},
		{"  Water usage (m³)", &env.WaterUsage},
	} {
		v, err := w.prompt.askAmount(q.prompt)
		if err != nil {
			return err
		}
		*q.dst = v
	}
	w.result.EnvironmentalData = env
	return nil
}
