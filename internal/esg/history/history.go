// Package history stores assessment records per company.
package history

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/build-flow-labs/esgrate/internal/esg/score"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCompany is returned for company IDs that are empty or unsafe.
	ErrInvalidCompany = errors.New("invalid company id")
)

var companyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidCompany reports whether id can be used as a company key.
func ValidCompany(id string) error {
	if !companyPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidCompany, id)
	}
	return nil
}

// Store persists records and unlocked achievements.
type Store interface {
	Save(ctx context.Context, r *schema.Record) error
	Get(ctx context.Context, company, id string) (*schema.Record, error)
	List(ctx context.Context, opts ListOptions) ([]schema.Record, error)
	Achievements(ctx context.Context, company string) ([]schema.Achievement, error)
	Unlock(ctx context.Context, company string, achievements []schema.Achievement) error
	Close() error
}

// ListOptions controls filtering and sorting of record listings.
type ListOptions struct {
	Company   string // exact company id; empty lists every company
	Rating    string // filter by rating level
	SortField string // "timestamp", "total", "rating"
	SortDesc  bool
	Limit     int // 0 means no limit
}

// NewRecord scores raw answers and builds a record stamped at now.
func NewRecord(companyID, companyName string, raw rubric.Answers, env *schema.EnvironmentalData, now time.Time) (*schema.Record, *schema.Assessment, error) {
	if err := ValidCompany(companyID); err != nil {
		return nil, nil, err
	}
	fp, err := Fingerprint(raw)
	if err != nil {
		return nil, nil, err
	}
	a := score.Score(raw)
	answers := make(map[string]string, len(raw))
	for k, v := range raw {
		answers[k] = v
	}
	now = now.UTC()
	return &schema.Record{
		ID:                uuid.New().String(),
		CompanyID:         companyID,
		CompanyName:       companyName,
		Date:              now.Format(time.DateOnly),
		Timestamp:         now,
		Scores:            schema.Scores{Total: a.Total, E: a.E, S: a.S, G: a.G},
		Rating:            a.Level,
		EnvironmentalData: env,
		Answers:           answers,
		RubricVersion:     a.RubricVersion,
		Fingerprint:       fp,
	}, a, nil
}

// submitLocks holds one mutex per company id.
var submitLocks sync.Map

func lockCompany(company string) (unlock func()) {
	v, _ := submitLocks.LoadOrStore(company, new(sync.Mutex))
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Submit saves r unless the company's latest record has the same
// fingerprint, in which case that record is returned and created is false.
//
// Submissions for one company are serialized within the process, so
// concurrent identical submissions store a single record. Separate
// processes sharing a database are not coordinated and may each store one.
func Submit(ctx context.Context, s Store, r *schema.Record) (rec *schema.Record, created bool, err error) {
	defer lockCompany(r.CompanyID)()

	latest, err := s.List(ctx, ListOptions{Company: r.CompanyID, SortField: "timestamp", SortDesc: true, Limit: 1})
	if err != nil {
		return nil, false, fmt.Errorf("loading latest record: %w", err)
	}
	if len(latest) == 1 && latest[0].Fingerprint != "" && latest[0].Fingerprint == r.Fingerprint {
		return &latest[0], false, nil
	}
	if err := s.Save(ctx, r); err != nil {
		return nil, false, fmt.Errorf("saving record: %w", err)
	}
	return r, true, nil
}

// Chronological returns every record of a company, oldest first.
func Chronological(ctx context.Context, s Store, company string) ([]schema.Record, error) {
	return s.List(ctx, ListOptions{Company: company, SortField: "timestamp"})
}

// LatestPerCompany keeps the most recent of each company's records,
// ordered by company id.
func LatestPerCompany(records []schema.Record) []schema.Record {
	latest := make(map[string]schema.Record)
	for _, r := range records {
		if existing, ok := latest[r.CompanyID]; !ok || r.Timestamp.After(existing.Timestamp) {
			latest[r.CompanyID] = r
		}
	}

	result := make([]schema.Record, 0, len(latest))
	for _, r := range latest {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CompanyID < result[j].CompanyID
	})
	return result
}

func filterRecords(records []schema.Record, opts ListOptions) []schema.Record {
	var out []schema.Record
	for _, r := range records {
		if opts.Company != "" && r.CompanyID != opts.Company {
			continue
		}
		if opts.Rating != "" && r.Rating != opts.Rating {
			continue
		}
		out = append(out, r)
	}
	sortRecords(out, opts.SortField, opts.SortDesc)
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func sortRecords(records []schema.Record, field string, desc bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if desc {
			a, b = b, a
		}
		switch field {
		case "total":
			return a.Scores.Total < b.Scores.Total
		case "rating":
			return a.Rating < b.Rating
		default: // "timestamp" or empty
			return a.Timestamp.Before(b.Timestamp)
		}
	})
}

// orderColumn maps a sort field onto a column name.
func orderColumn(field string) string {
	switch field {
	case "total":
		return "total"
	case "rating":
		return "rating"
	default:
		return "ts"
	}
}

func mergeAchievements(have, add []schema.Achievement) (merged []schema.Achievement, changed bool) {
	seen := make(map[string]bool, len(have))
	merged = append(merged, have...)
	for _, a := range have {
		seen[a.ID] = true
	}
	for _, a := range add {
		if seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		merged = append(merged, a)
		changed = true
	}
	return merged, changed
}
