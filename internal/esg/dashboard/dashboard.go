// Package dashboard serves the HTML view of assessment history.
package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/build-flow-labs/esgrate/internal/esg/history"
	"github.com/build-flow-labs/esgrate/internal/esg/scorecard"
	"github.com/build-flow-labs/esgrate/internal/platform/logger"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

//go:embed templates static
var embeddedFS embed.FS

// Dashboard renders the overview and per-company pages.
type Dashboard struct {
	store        history.Store
	overviewTmpl *template.Template
	companyTmpl  *template.Template
	staticFS     fs.FS
	scorecard    scorecard.Options
	log          *logger.Logger
	now          func() time.Time
}

// New parses the page templates. Scorecard images use opts.
func New(store history.Store, opts scorecard.Options, log *logger.Logger) (*Dashboard, error) {
	d := &Dashboard{
		store:     store,
		scorecard: opts,
		log:       log.With("component", "dashboard"),
		now:       time.Now,
	}

	funcMap := template.FuncMap{
		"shortID":  shortID,
		"timeAgo":  d.timeAgo,
		"barWidth": barWidth,
		"lower":    strings.ToLower,
		"dict":     dict,
		"list":     func(v ...string) []string { return v },
	}

	// each page gets its own set so their {{define "content"}} blocks don't clash
	shared := []string{
		"templates/layout.html",
		"templates/partials/record_table.html",
	}

	var err error
	d.overviewTmpl, err = template.New("").Funcs(funcMap).ParseFS(embeddedFS,
		append(shared, "templates/overview.html")...)
	if err != nil {
		return nil, fmt.Errorf("parsing overview templates: %w", err)
	}
	d.companyTmpl, err = template.New("").Funcs(funcMap).ParseFS(embeddedFS,
		append(shared, "templates/company.html")...)
	if err != nil {
		return nil, fmt.Errorf("parsing company templates: %w", err)
	}

	d.staticFS, err = fs.Sub(embeddedFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static FS: %w", err)
	}
	return d, nil
}

// Routes returns the dashboard router, meant to be mounted at /ui.
func (d *Dashboard) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", d.handleOverview)
	r.Get("/companies/{company}", d.handleCompany)
	r.Get("/companies/{company}/assessments/{id}/scorecard.png", d.handleScorecard)
	r.Handle("/static/*", http.StripPrefix("/ui/static/", http.FileServer(http.FS(d.staticFS))))
	return r
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (d *Dashboard) timeAgo(t time.Time) string {
	since := d.now().Sub(t)
	switch {
	case since < time.Minute:
		return "just now"
	case since < time.Hour:
		return fmt.Sprintf("%dm ago", int(since.Minutes()))
	case since < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(since.Hours()))
	default:
		days := int(since.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}

// barWidth is a category score as a percentage of its cap.
func barWidth(category string, points int) int {
	c := rubric.Category(category).Cap()
	if c == 0 || points <= 0 {
		return 0
	}
	if points >= c {
		return 100
	}
	return points * 100 / c
}

// dict builds a map from alternating key-value pairs, for passing data to
// sub-templates.
func dict(values ...any) map[string]any {
	m := make(map[string]any, len(values)/2)
	for i := 0; i+1 < len(values); i += 2 {
		if key, ok := values[i].(string); ok {
			m[key] = values[i+1]
		}
	}
	return m
}

type overviewData struct {
	Title       string
	Version     string
	RecordCount int
	Records     []schema.Record
	Latest      []schema.Record
	Filters     history.ListOptions
}

type companyData struct {
	Title        string
	Version      string
	RecordCount  int
	Company      string
	Latest       *schema.Record
	Records      []schema.Record
	Achievements []schema.Achievement
}
