// Package api exposes the balance analysis engine over a JSON HTTP
// API. The engine itself stays transport-free; this layer decodes
// trajectories at the boundary into the typed structs the engine
// consumes, runs it, and persists completed analyses.
package api

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/stance-data/balance.report/internal/balance"
	"github.com/stance-data/balance.report/internal/config"
	"github.com/stance-data/balance.report/internal/db"
	"github.com/stance-data/balance.report/internal/httputil"
)

// ANSI escape codes for request log colouring
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server wires the analysis engine, the assessment store, and the
// per-client request counter behind an http.ServeMux.
type Server struct {
	analyzer *balance.Analyzer
	cfg      *config.TuningConfig
	db       *db.DB
	counter  *RequestCounter
}

// NewServer builds a Server. The db may be nil, in which case analyses
// are returned but not persisted and the assessment endpoints report
// 404. The counter may be nil to disable rate limiting.
func NewServer(cfg *config.TuningConfig, database *db.DB, counter *RequestCounter) *Server {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Server{
		analyzer: balance.NewAnalyzer(cfg),
		cfg:      cfg,
		db:       database,
		counter:  counter,
	}
}

// Routes returns the fully wired handler, with logging and rate-limit
// middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/healthz", s.handleHealthz)
	mux.HandleFunc("/api/params", s.handleParams)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/analyze/chart", s.handleAnalyzeChart)
	mux.HandleFunc("/api/bilateral", s.handleBilateral)
	mux.HandleFunc("/api/assessments", s.handleAssessments)
	mux.HandleFunc("/api/assessments/", s.handleAssessmentByID)
	return LoggingMiddleware(s.rateLimitMiddleware(mux))
}

// rateLimitMiddleware enforces the per-client request counter, keyed by
// remote host.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.counter != nil {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !s.counter.Allow(host) {
				httputil.TooManyRequests(w, "request limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	default:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	}
}

// LoggingMiddleware logs method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf("[%s] %s %s %vms",
			statusCodeColor(lrw.statusCode), r.Method, r.URL.Path,
			time.Since(start).Milliseconds())
	})
}
