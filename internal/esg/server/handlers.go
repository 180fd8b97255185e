package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/build-flow-labs/esgrate/carbon"
	"github.com/build-flow-labs/esgrate/gri"
	"github.com/build-flow-labs/esgrate/internal/esg/history"
	"github.com/build-flow-labs/esgrate/internal/esg/score"
	"github.com/build-flow-labs/esgrate/internal/esg/scorecard"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
	"github.com/build-flow-labs/esgrate/taxonomy"
)

func (s *Server) handleCalculateScore(w http.ResponseWriter, r *http.Request) {
	var raw rubric.Answers
	if !decode(w, r, &raw) {
		return
	}
	a := score.Score(raw)
	s.markScored()
	writeJSON(w, http.StatusOK, a)
}

type suggestionsRequest struct {
	Improvements []string `json:"improvements"`
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, rubric.Suggestions(req.Improvements))
}

type carbonResponse struct {
	carbon.Footprint
	Suggestions []carbon.Suggestion `json:"suggestions"`
}

func (s *Server) handleCarbon(w http.ResponseWriter, r *http.Request) {
	var in carbon.Inputs
	if !decode(w, r, &in) {
		return
	}
	f := carbon.Compute(in)
	writeJSON(w, http.StatusOK, carbonResponse{Footprint: f, Suggestions: carbon.Suggestions(f)})
}

type griRequest struct {
	Responses gri.Responses `json:"responses"`
	Timestamp string        `json:"timestamp"`
}

type griResponse struct {
	Status    string     `json:"status"`
	Message   string     `json:"message"`
	Score     gri.Result `json:"score"`
	Timestamp string     `json:"timestamp"`
}

func (s *Server) handleGRI(w http.ResponseWriter, r *http.Request) {
	var req griRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, griResponse{
		Status:    "success",
		Message:   "感謝您完成 GRI 評估！",
		Score:     gri.Score(req.Responses),
		Timestamp: req.Timestamp,
	})
}

func (s *Server) handleScreening(w http.ResponseWriter, r *http.Request) {
	var v rubric.Violations
	if !decode(w, r, &v) {
		return
	}
	writeJSON(w, http.StatusOK, rubric.Screen(v))
}

// handleClassify accepts a single activity or a list of them.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if !decode(w, r, &body) {
		return
	}
	var activities []taxonomy.Activity
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &activities); err != nil {
			writeError(w, http.StatusBadRequest, "invalid activity list: "+err.Error())
			return
		}
	} else {
		var a taxonomy.Activity
		if err := json.Unmarshal(trimmed, &a); err != nil {
			writeError(w, http.StatusBadRequest, "invalid activity: "+err.Error())
			return
		}
		activities = []taxonomy.Activity{a}
	}
	writeJSON(w, http.StatusOK, score.ScoreActivities(activities))
}

func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	var raw rubric.Answers
	if !decode(w, r, &raw) {
		return
	}
	writeJSON(w, http.StatusOK, score.ScoreQuestionnaire(raw))
}

type feedbackResponse struct {
	Total    float64 `json:"total"`
	Level    string  `json:"level"`
	Feedback string  `json:"feedback"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var raw rubric.Answers
	if !decode(w, r, &raw) {
		return
	}
	a := score.Score(raw)
	s.markScored()
	text, err := s.deps.Advisor.Feedback(r.Context(), a, raw)
	if err != nil {
		s.log.Error("feedback failed", "error", err)
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, feedbackResponse{Total: a.Total, Level: a.Level, Feedback: text})
}

func (s *Server) handleScorecard(w http.ResponseWriter, r *http.Request) {
	var raw rubric.Answers
	if !decode(w, r, &raw) {
		return
	}
	a := score.Score(raw)
	s.markScored()
	img, err := scorecard.Render(a, s.deps.Scorecard)
	if err != nil {
		s.log.Error("rendering scorecard", "error", err)
		writeError(w, http.StatusInternalServerError, "rendering scorecard failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	_, _ = w.Write(img)
}

type submitRequest struct {
	CompanyID         string                    `json:"companyId"`
	CompanyName       string                    `json:"companyName"`
	Answers           rubric.Answers            `json:"answers"`
	EnvironmentalData *schema.EnvironmentalData `json:"environmentalData"`
}

type submitResponse struct {
	Created      bool                 `json:"created"`
	Record       *schema.Record       `json:"record"`
	Assessment   *schema.Assessment   `json:"assessment"`
	Achievements []schema.Achievement `json:"newAchievements"`
}

// handleSubmit scores and stores an assessment, then unlocks any
// achievements the company's history now satisfies.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "history storage is not configured")
		return
	}
	var req submitRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Answers == nil {
		writeError(w, http.StatusBadRequest, "answers are required")
		return
	}

	ctx := r.Context()
	rec, a, err := history.NewRecord(req.CompanyID, req.CompanyName, req.Answers, req.EnvironmentalData, s.now())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.markScored()

	saved, created, err := history.Submit(ctx, s.deps.Store, rec)
	if err != nil {
		s.log.Error("storing assessment", "company", req.CompanyID, "error", err)
		writeError(w, statusFor(err), "storing assessment failed")
		return
	}
	resp := submitResponse{Created: created, Record: saved, Assessment: a, Achievements: []schema.Achievement{}}
	if !created {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	s.stored.Add(1)
	s.log.Info("assessment stored", "company", saved.CompanyID, "id", saved.ID, "total", saved.Scores.Total, "rating", saved.Rating)

	if s.deps.Achievements != nil {
		unlocked, err := s.deps.Achievements.Refresh(r.Context(), s.deps.Store, saved.CompanyID)
		if err != nil {
			s.log.Error("evaluating achievements", "company", saved.CompanyID, "error", err)
		} else {
			resp.Achievements = unlocked
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "history storage is not configured")
		return
	}
	opts := parseListOptions(r)
	if err := history.ValidCompany(opts.Company); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := s.deps.Store.List(r.Context(), opts)
	if err != nil {
		s.log.Error("listing assessments", "company", opts.Company, "error", err)
		writeError(w, statusFor(err), "listing assessments failed")
		return
	}
	if records == nil {
		records = []schema.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "history storage is not configured")
		return
	}
	rec, err := s.deps.Store.Get(r.Context(), chi.URLParam(r, "company"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "history storage is not configured")
		return
	}
	list, err := s.deps.Store.Achievements(r.Context(), chi.URLParam(r, "company"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if list == nil {
		list = []schema.Achievement{}
	}
	writeJSON(w, http.StatusOK, list)
}

func parseListOptions(r *http.Request) history.ListOptions {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 0 {
		limit = 0
	}
	return history.ListOptions{
		Company:   chi.URLParam(r, "company"),
		Rating:    q.Get("rating"),
		SortField: q.Get("sort"),
		SortDesc:  q.Get("desc") == "true",
		Limit:     limit,
	}
}
