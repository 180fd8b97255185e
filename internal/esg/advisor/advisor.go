// Package advisor produces written improvement feedback for an assessment.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/build-flow-labs/esgrate/internal/platform/logger"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

// ErrUnavailable is returned when an advisor cannot produce feedback.
var ErrUnavailable = errors.New("advisor unavailable")

// Advisor writes feedback for a scored assessment.
type Advisor interface {
	Feedback(ctx context.Context, a *schema.Assessment, raw rubric.Answers) (string, error)
}

// Static builds feedback from the built-in suggestion catalog.
type Static struct{}

func (Static) Feedback(_ context.Context, a *schema.Assessment, _ rubric.Answers) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "ESG 總分 %.0f 分，評級 %s（%s）。\n", a.Total, a.Level, a.LevelName)
	if a.Warning != "" {
		fmt.Fprintf(&b, "%s\n", a.Warning)
	}
	if len(a.Improvements) == 0 {
		b.WriteString("各題項均已達滿分，建議維持現有做法並尋求第三方驗證。")
		return b.String(), nil
	}

	b.WriteString("優先改善項目：\n")
	catalog := rubric.Suggestions(a.Improvements)
	for _, id := range a.Improvements {
		s, ok := catalog[id]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s %s：%s\n", id, s.Title, s.Hint)
		for _, action := range s.Actions {
			fmt.Fprintf(&b, "  • %s\n", action)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Fallback tries primary first and answers from secondary when primary fails.
type Fallback struct {
	Primary   Advisor
	Secondary Advisor
	Log       *logger.Logger
}

func (f Fallback) Feedback(ctx context.Context, a *schema.Assessment, raw rubric.Answers) (string, error) {
	text, err := f.Primary.Feedback(ctx, a, raw)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	f.Log.Warn("advisor failed, using fallback", "error", err)
	return f.Secondary.Feedback(ctx, a, raw)
}

// prompt renders the assessment for a language model.
func prompt(a *schema.Assessment) string {
	var b strings.Builder
	b.WriteString("以下是一家中小企業的 ESG 自評結果。請以繁體中文撰寫約 300 字的改善建議，")
	b.WriteString("依影響程度排序，每項建議需具體可執行。\n\n")
	fmt.Fprintf(&b, "總分：%.0f / 100，評級：%s（%s）\n", a.Total, a.Level, a.LevelName)
	fmt.Fprintf(&b, "環境 E：%d / %d，社會 S：%d / %d，治理 G：%d / %d\n",
		a.E, rubric.Environment.Cap(), a.S, rubric.Social.Cap(), a.G, rubric.Governance.Cap())
	if len(a.Improvements) == 0 {
		b.WriteString("所有題項皆已滿分。\n")
		return b.String()
	}
	b.WriteString("未達滿分的題項：\n")
	for _, id := range a.Improvements {
		q, ok := rubric.Lookup(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s %s（得分 %d / %d）\n", id, q.Title, a.Details[id], q.Max())
	}
	return b.String()
}
