// Package achievements unlocks milestones from a company's assessment
// history. Rules are CEL expressions loaded from rules.yaml.
package achievements

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"

	"github.com/build-flow-labs/esgrate/schema"
)

//go:embed rules.yaml
var defaultRules []byte

const costLimit = 10000

// Rule is one achievement definition.
type Rule struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	Category    string `yaml:"category"`
	When        string `yaml:"when"`
}

// Engine evaluates rules against record histories.
type Engine struct {
	env      *cel.Env
	rules    []Rule
	prgCache map[string]cel.Program
	mu       sync.RWMutex
}

// New returns an engine with the built-in rules.
func New() (*Engine, error) {
	var rules []Rule
	if err := yaml.Unmarshal(defaultRules, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return NewWithRules(rules)
}

// NewWithRules compiles rules and fails on the first invalid expression.
func NewWithRules(rules []Rule) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("current", cel.DynType),
		cel.Variable("previous", cel.DynType),
		cel.Variable("has_previous", cel.BoolType),
		cel.Variable("history", cel.ListType(cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}
	e := &Engine{env: env, rules: rules, prgCache: make(map[string]cel.Program)}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.ID == "" || seen[r.ID] {
			return nil, fmt.Errorf("rule id %q is empty or duplicated", r.ID)
		}
		seen[r.ID] = true
		if _, err := e.program(r.When); err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.ID, err)
		}
	}
	return e, nil
}

// Rules returns the loaded definitions.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

func (e *Engine) program(expression string) (cel.Program, error) {
	e.mu.RLock()
	prg, hit := e.prgCache[expression]
	e.mu.RUnlock()
	if hit {
		return prg, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, hit = e.prgCache[expression]; hit {
		return prg, nil
	}
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("CEL compile error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast, cel.CostLimit(costLimit))
	if err != nil {
		return nil, fmt.Errorf("CEL program error: %w", err)
	}
	e.prgCache[expression] = prg
	return prg, nil
}

// Evaluate walks history oldest first and returns the achievements newly
// unlocked, each stamped with the record that first satisfied it. Rules
// already in unlocked are skipped.
func (e *Engine) Evaluate(history []schema.Record, unlocked []schema.Achievement) ([]schema.Achievement, error) {
	done := make(map[string]bool, len(unlocked))
	for _, a := range unlocked {
		done[a.ID] = true
	}

	values := make([]any, len(history))
	for i, r := range history {
		v, err := toValue(r)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	var out []schema.Achievement
	for i, r := range history {
		vars := map[string]any{
			"current":      values[i],
			"previous":     map[string]any{},
			"has_previous": i > 0,
			"history":      values[:i+1],
		}
		if i > 0 {
			vars["previous"] = values[i-1]
		}
		for _, rule := range e.rules {
			if done[rule.ID] {
				continue
			}
			ok, err := e.eval(rule.When, vars)
			if err != nil {
				return nil, fmt.Errorf("rule %s on record %s: %w", rule.ID, r.ID, err)
			}
			if !ok {
				continue
			}
			done[rule.ID] = true
			out = append(out, schema.Achievement{
				ID:           rule.ID,
				Name:         rule.Name,
				Description:  rule.Description,
				Icon:         rule.Icon,
				Category:     rule.Category,
				UnlockedDate: r.Date,
				UnlockedBy:   r.ID,
			})
		}
	}
	return out, nil
}

func (e *Engine) eval(expression string, vars map[string]any) (bool, error) {
	prg, err := e.program(expression)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("CEL eval error: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("result not boolean")
	}
	return b, nil
}

// toValue turns a record into the JSON-shaped map the rules see.
func toValue(r schema.Record) (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding record %s: %w", r.ID, err)
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding record %s: %w", r.ID, err)
	}
	return v, nil
}
