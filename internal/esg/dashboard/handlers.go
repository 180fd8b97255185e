package dashboard

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/build-flow-labs/esgrate/internal/esg/history"
	"github.com/build-flow-labs/esgrate/internal/esg/score"
	"github.com/build-flow-labs/esgrate/internal/esg/scorecard"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

func (d *Dashboard) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	all, err := d.store.List(ctx, history.ListOptions{})
	if err != nil {
		d.fail(w, "listing records", err)
		return
	}

	opts := parseListOptions(r)
	records := all
	if opts != (history.ListOptions{}) {
		if records, err = d.store.List(ctx, opts); err != nil {
			d.fail(w, "listing records", err)
			return
		}
	}

	d.render(w, d.overviewTmpl, overviewData{
		Title:       "Overview",
		Version:     schema.Version,
		RecordCount: len(all),
		Records:     records,
		Latest:      history.LatestPerCompany(all),
		Filters:     opts,
	})
}

func (d *Dashboard) handleCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	company := chi.URLParam(r, "company")
	if history.ValidCompany(company) != nil {
		http.NotFound(w, r)
		return
	}

	records, err := d.store.List(ctx, history.ListOptions{Company: company, SortField: "timestamp", SortDesc: true})
	if err != nil {
		d.fail(w, "listing records", err)
		return
	}
	if len(records) == 0 {
		http.NotFound(w, r)
		return
	}
	achieved, err := d.store.Achievements(ctx, company)
	if err != nil {
		d.fail(w, "loading achievements", err)
		return
	}

	title := company
	if records[0].CompanyName != "" {
		title = records[0].CompanyName
	}
	d.render(w, d.companyTmpl, companyData{
		Title:        title,
		Version:      schema.Version,
		RecordCount:  len(records),
		Company:      company,
		Latest:       &records[0],
		Records:      records,
		Achievements: achieved,
	})
}

func (d *Dashboard) handleScorecard(w http.ResponseWriter, r *http.Request) {
	rec, err := d.store.Get(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		d.fail(w, "loading record", err)
		return
	}

	opts := d.scorecard
	if opts.Title == "" {
		opts.Title = rec.CompanyID
	}
	img, err := scorecard.Render(score.Score(rubric.Answers(rec.Answers)), opts)
	if err != nil {
		d.fail(w, "rendering scorecard", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	_, _ = w.Write(img)
}

func (d *Dashboard) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		d.log.Error("rendering page", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (d *Dashboard) fail(w http.ResponseWriter, what string, err error) {
	d.log.Error(what, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func parseListOptions(r *http.Request) history.ListOptions {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 0 {
		limit = 0
	}
	return history.ListOptions{
		Company:   q.Get("company"),
		Rating:    q.Get("rating"),
		SortField: q.Get("sort"),
		SortDesc:  q.Get("desc") == "true",
		Limit:     limit,
	}
}
