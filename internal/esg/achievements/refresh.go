package achievements

import (
	"context"
	"fmt"

	"github.com/build-flow-labs/esgrate/internal/esg/history"
	"github.com/build-flow-labs/esgrate/schema"
)

// Refresh evaluates company's stored history and persists any newly
// unlocked achievements, which it returns. The result is never nil.
func (e *Engine) Refresh(ctx context.Context, s history.Store, company string) ([]schema.Achievement, error) {
	hist, err := history.Chronological(ctx, s, company)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	have, err := s.Achievements(ctx, company)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}
	fresh, err := e.Evaluate(hist, have)
	if err != nil {
		return nil, err
	}
	if len(fresh) == 0 {
		return []schema.Achievement{}, nil
	}
	if err := s.Unlock(ctx, company, fresh); err != nil {
		return nil, fmt.Errorf("unlocking achievements: %w", err)
	}
	return fresh, nil
}
