// Package gri scores the GRI level-2 disclosure self-assessment.
package gri

import (
	"fmt"
	"math"
	"strings"
)

// Weights of each category in the weighted total.
const (
	WeightE = 0.35
	WeightS = 0.35
	WeightG = 0.30
)

var answerPoints = map[string]int{
	"no":         1,
	"basic":      2,
	"developing": 2,
	"yes":        3,
	"advanced":   3,
}

// Item is one answered disclosure question.
type Item struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Responses groups answered items by category.
type Responses struct {
	E []Item `json:"E"`
	S []Item `json:"S"`
	G []Item `json:"G"`
}

// Result is a scored GRI assessment.
type Result struct {
	E               int            `json:"E"`
	S               int            `json:"S"`
	G               int            `json:"G"`
	Total           float64        `json:"total"`
	Level           string         `json:"level"`
	Summary         string         `json:"summary"`
	Details         map[string]int `json:"details"`
	Recommendations []string       `json:"recommendations"`
}

// Score sums each category, weights the sums, and grades the weighted
// total. Every answer short of the top rung adds a recommendation.
func Score(r Responses) Result {
	res := Result{Recommendations: []string{}}
	for _, cat := range []struct {
		name  string
		items []Item
		sum   *int
	}{
		{"E", r.E, &res.E},
		{"S", r.S, &res.S},
		{"G", r.G, &res.G},
	} {
		for _, it := range cat.items {
			v := strings.ToLower(strings.TrimSpace(it.Value))
			*cat.sum += answerPoints[v]
			if v != "advanced" && v != "yes" {
				res.Recommendations = append(res.Recommendations, fmt.Sprintf("%s構面可進一步改善：%s", cat.name, it.Label))
			}
		}
	}

	weighted := float64(res.E)*WeightE + float64(res.S)*WeightS + float64(res.G)*WeightG
	res.Total = math.Round(weighted*10) / 10
	res.Level, res.Summary = grade(res.Total)
	res.Details = map[string]int{"E": res.E, "S": res.S, "G": res.G}
	return res
}

func grade(total float64) (level, summary string) {
	switch {
	case total >= 8.5:
		return "A (領先級)", "您的公司已具備卓越的 GRI 揭露基礎，建議進一步尋求第三方驗證"
	case total >= 7.0:
		return "B (中上級)", "您的公司具備良好的永續發展實踐，建議重點補強評分較低的構面"
	case total >= 5.5:
		return "C (進展級)", "您的公司已開始建立永續管理體系，建議優先改善環境與治理構面"
	default:
		return "D (初期級)", "建議從基礎政策制定與員工意識提升開始著手"
	}
}
