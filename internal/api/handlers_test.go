package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stance-data/balance.report/internal/balance"
	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/db"
	"github.com/stance-data/balance.report/internal/pose"
	"github.com/stance-data/balance.report/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	database, err := db.NewDB(filepath.Join(t.TempDir(), "test.db"))
	testutil.AssertNoError(t, err)
	t.Cleanup(func() { database.Close() })

	s := NewServer(config.EmptyTuningConfig(), database, nil)
	return s, s.Routes()
}

func postJSON(t *testing.T, handler http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	testutil.AssertNoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := testutil.NewTestRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func analyzePayload(leg pose.Side, traj *pose.Trajectory) AnalyzeRequest {
	return AnalyzeRequest{
		AthleteName: "Sam",
		AthleteAge:  10,
		StandingLeg: leg,
		Trajectory:  *traj,
	}
}

func TestHandleHealthz(t *testing.T) {
	_, handler := newTestServer(t)

	rec := testutil.NewTestRecorder()
	handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/healthz"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var body map[string]string
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestHandleParams(t *testing.T) {
	_, handler := newTestServer(t)

	rec := testutil.NewTestRecorder()
	handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/params"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var cfg config.TuningConfig
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
}

func TestHandleAnalyze(t *testing.T) {
	_, handler := newTestServer(t)

	traj := testutil.SteadyTrajectory(20.5, 0.01)
	rec := postJSON(t, handler, "/api/analyze", analyzePayload(pose.SideLeft, traj))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var resp AnalyzeResponse
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if resp.AssessmentID == "" {
		t.Error("assessment not persisted: empty ID")
	}
	if resp.Result == nil || resp.Result.Outcome.Reason != balance.ReasonTimeComplete {
		t.Errorf("result = %+v, want a time_complete outcome", resp.Result)
	}
}

func TestHandleAnalyzeWithoutStore(t *testing.T) {
	s := NewServer(config.EmptyTuningConfig(), nil, nil)
	handler := s.Routes()

	traj := testutil.SteadyTrajectory(20.5, 0.01)
	rec := postJSON(t, handler, "/api/analyze", analyzePayload(pose.SideLeft, traj))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var resp AnalyzeResponse
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if resp.AssessmentID != "" {
		t.Errorf("assessment ID %q without a store", resp.AssessmentID)
	}
}

func TestHandleAnalyzeErrors(t *testing.T) {
	_, handler := newTestServer(t)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{"))
		rec := testutil.NewTestRecorder()
		handler.ServeHTTP(rec, req)
		testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/analyze",
			strings.NewReader(`{"athlete": "x"}`))
		rec := testutil.NewTestRecorder()
		handler.ServeHTTP(rec, req)
		testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("bad leg", func(t *testing.T) {
		traj := testutil.SteadyTrajectory(20.5, 0)
		rec := postJSON(t, handler, "/api/analyze", analyzePayload("both", traj))
		testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("truncated recording", func(t *testing.T) {
		traj := testutil.SteadyTrajectory(5, 0) // stops 5s into a 20s test
		rec := postJSON(t, handler, "/api/analyze", analyzePayload(pose.SideLeft, traj))
		testutil.AssertStatusCode(t, rec.Code, http.StatusUnprocessableEntity)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := testutil.NewTestRecorder()
		handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/analyze"))
		testutil.AssertStatusCode(t, rec.Code, http.StatusMethodNotAllowed)
	})
}

func TestHandleAnalyzeChart(t *testing.T) {
	_, handler := newTestServer(t)

	traj := testutil.SteadyTrajectory(5, 0.01)
	rec := postJSON(t, handler, "/api/analyze/chart", analyzePayload(pose.SideLeft, traj))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "hip midpoint") {
		t.Error("chart output missing the sway series")
	}
}

func TestHandleBilateral(t *testing.T) {
	_, handler := newTestServer(t)

	leftTraj := testutil.SteadyTrajectory(20.5, 0.01)
	leftRec := postJSON(t, handler, "/api/analyze", analyzePayload(pose.SideLeft, leftTraj))
	testutil.AssertStatusCode(t, leftRec.Code, http.StatusOK)
	var left AnalyzeResponse
	testutil.AssertNoError(t, json.Unmarshal(leftRec.Body.Bytes(), &left))

	rightTraj := testutil.SteadyTrajectory(20.5, 0.01)
	for i := range rightTraj.Frames {
		lm := rightTraj.Frames[i].Landmarks
		lm[pose.LeftAnkle].Y, lm[pose.RightAnkle].Y = lm[pose.RightAnkle].Y, lm[pose.LeftAnkle].Y
	}
	rightRec := postJSON(t, handler, "/api/analyze", analyzePayload(pose.SideRight, rightTraj))
	testutil.AssertStatusCode(t, rightRec.Code, http.StatusOK)
	var right AnalyzeResponse
	testutil.AssertNoError(t, json.Unmarshal(rightRec.Body.Bytes(), &right))

	rec := postJSON(t, handler, "/api/bilateral", BilateralRequest{
		LeftAssessmentID:  left.AssessmentID,
		RightAssessmentID: right.AssessmentID,
	})
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

	var resp BilateralResponse
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if resp.ComparisonID == "" {
		t.Error("comparison not persisted: empty ID")
	}
	if resp.Comparison.DominantLeg != balance.DominantBalanced {
		t.Errorf("dominant = %s, want balanced for two full holds", resp.Comparison.DominantLeg)
	}

	t.Run("swapped legs rejected", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/bilateral", BilateralRequest{
			LeftAssessmentID:  right.AssessmentID,
			RightAssessmentID: left.AssessmentID,
		})
		testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("unknown assessment", func(t *testing.T) {
		rec := postJSON(t, handler, "/api/bilateral", BilateralRequest{
			LeftAssessmentID:  "no-such-id",
			RightAssessmentID: right.AssessmentID,
		})
		testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
	})
}

func TestHandleAssessments(t *testing.T) {
	_, handler := newTestServer(t)

	traj := testutil.SteadyTrajectory(20.5, 0.01)
	created := postJSON(t, handler, "/api/analyze", analyzePayload(pose.SideLeft, traj))
	var resp AnalyzeResponse
	testutil.AssertNoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	t.Run("list", func(t *testing.T) {
		rec := testutil.NewTestRecorder()
		handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/assessments"))
		testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

		var body struct {
			Assessments []*db.Assessment `json:"assessments"`
		}
		testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		if len(body.Assessments) != 1 {
			t.Errorf("listed %d assessments, want 1", len(body.Assessments))
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		rec := testutil.NewTestRecorder()
		handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/assessments?limit=zero"))
		testutil.AssertStatusCode(t, rec.Code, http.StatusBadRequest)
	})

	t.Run("by id", func(t *testing.T) {
		rec := testutil.NewTestRecorder()
		handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/assessments/"+resp.AssessmentID))
		testutil.AssertStatusCode(t, rec.Code, http.StatusOK)

		var a db.Assessment
		testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
		if a.ID != resp.AssessmentID {
			t.Errorf("loaded ID %s, want %s", a.ID, resp.AssessmentID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := testutil.NewTestRecorder()
		handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/assessments/no-such-id"))
		testutil.AssertStatusCode(t, rec.Code, http.StatusNotFound)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	s := NewServer(config.EmptyTuningConfig(), nil, NewRequestCounter(2, time.Minute))
	handler := s.Routes()

	for i := 0; i < 2; i++ {
		rec := testutil.NewTestRecorder()
		handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/healthz"))
		testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	}

	rec := testutil.NewTestRecorder()
	handler.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, "/api/healthz"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusTooManyRequests)
}
