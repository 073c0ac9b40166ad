package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/stance-data/balance.report/internal/balance"
	"github.com/stance-data/balance.report/internal/db"
	"github.com/stance-data/balance.report/internal/httputil"
	"github.com/stance-data/balance.report/internal/pose"
	"github.com/stance-data/balance.report/internal/report"
	"github.com/stance-data/balance.report/internal/version"
)

// AnalyzeRequest is the POST /api/analyze payload: the athlete, the
// session parameters, and the raw landmark trajectory from the pose
// model. Unknown fields are rejected at decode time.
type AnalyzeRequest struct {
	AthleteName string          `json:"athlete_name"`
	AthleteAge  int             `json:"athlete_age"`
	StandingLeg pose.Side       `json:"standing_leg"`
	MaxDuration float64         `json:"max_duration,omitempty"` // 0 → configured default
	Trajectory  pose.Trajectory `json:"trajectory"`
}

// AnalyzeResponse carries the analysis and, when a store is attached,
// the persisted assessment ID.
type AnalyzeResponse struct {
	AssessmentID string          `json:"assessment_id,omitempty"`
	Result       *balance.Result `json:"result"`
}

// BilateralRequest asks for a comparison of two stored assessments.
type BilateralRequest struct {
	LeftAssessmentID  string `json:"left_assessment_id"`
	RightAssessmentID string `json:"right_assessment_id"`
}

// BilateralResponse carries the comparison and its stored ID.
type BilateralResponse struct {
	ComparisonID string             `json:"comparison_id,omitempty"`
	Comparison   balance.Comparison `json:"comparison"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"status": "ok", "version": version.String()})
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.cfg)
}

// sessionParams resolves the request's session parameters, applying the
// configured max duration when the client leaves it zero.
func (s *Server) sessionParams(req *AnalyzeRequest) pose.SessionParams {
	maxDuration := req.MaxDuration
	if maxDuration == 0 {
		maxDuration = s.cfg.GetMaxTestDuration()
	}
	return pose.SessionParams{
		StandingLeg: req.StandingLeg,
		MaxDuration: maxDuration,
		AthleteAge:  req.AthleteAge,
	}
}

// writeAnalysisError maps engine errors onto HTTP statuses:
// precondition failures are client errors (bad capture), everything
// else is a server fault.
func writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, balance.ErrInsufficientData),
		errors.Is(err, balance.ErrNoInitialPose),
		errors.Is(err, balance.ErrTruncatedRecording):
		httputil.WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		httputil.BadRequest(w, err.Error())
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req AnalyzeRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	result, err := s.analyzer.Analyze(&req.Trajectory, s.sessionParams(&req))
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	resp := AnalyzeResponse{Result: result}
	if s.db != nil {
		id, err := s.db.InsertAssessment(req.AthleteName, req.AthleteAge, result)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		resp.AssessmentID = id
	}

	httputil.WriteJSONOK(w, resp)
}

// handleAnalyzeChart renders the filtered sway path of a submitted
// trajectory as an HTML chart without persisting anything.
func (s *Server) handleAnalyzeChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req AnalyzeRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	filtered, err := balance.Preprocess(&req.Trajectory, s.cfg)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	title := "Sway path"
	if req.AthleteName != "" {
		title = "Sway path — " + req.AthleteName
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.SwayChartHTML(w, title, filtered); err != nil {
		httputil.InternalServerError(w, err.Error())
	}
}

func (s *Server) handleBilateral(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "no assessment store attached")
		return
	}

	var req BilateralRequest
	if err := httputil.DecodeJSONBody(r, &req); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	left, err := s.loadLegAssessment(req.LeftAssessmentID, pose.SideLeft)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	right, err := s.loadLegAssessment(req.RightAssessmentID, pose.SideRight)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	comparison := s.analyzer.Compare(left.Result, right.Result)

	resp := BilateralResponse{Comparison: comparison}
	id, err := s.db.InsertComparison(left.ID, right.ID, comparison)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	resp.ComparisonID = id

	httputil.WriteJSONOK(w, resp)
}

// loadLegAssessment fetches a stored assessment and checks it belongs
// to the expected leg, so a left/right mixup fails loudly instead of
// producing a mislabelled comparison.
func (s *Server) loadLegAssessment(id string, want pose.Side) (*db.Assessment, error) {
	a, err := s.db.GetAssessment(id)
	if err != nil {
		return nil, err
	}
	if a.Leg != want {
		return nil, errBadLeg{id: id, got: a.Leg, want: want}
	}
	return a, nil
}

type errBadLeg struct {
	id        string
	got, want pose.Side
}

func (e errBadLeg) Error() string {
	return "assessment " + e.id + " tested the " + string(e.got) + " leg, expected " + string(e.want)
}

func writeStoreError(w http.ResponseWriter, err error) {
	var badLeg errBadLeg
	switch {
	case errors.Is(err, db.ErrNotFound):
		httputil.NotFound(w, err.Error())
	case errors.As(err, &badLeg):
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalServerError(w, err.Error())
	}
}

func (s *Server) handleAssessments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "no assessment store attached")
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			httputil.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	assessments, err := s.db.ListAssessments(limit)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{"assessments": assessments})
}

func (s *Server) handleAssessmentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.NotFound(w, "no assessment store attached")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/assessments/")
	if id == "" || strings.Contains(id, "/") {
		httputil.NotFound(w, "unknown assessment path")
		return
	}

	a, err := s.db.GetAssessment(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httputil.WriteJSONOK(w, a)
}
