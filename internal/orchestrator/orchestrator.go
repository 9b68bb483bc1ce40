// Package orchestrator is the HTTP surface. It takes an upload through the
// type checks, text acquisition and analysis, keeps the result for review,
// and serves saved courses with their grade tools and calendar.
package orchestrator

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/filetype"
	"github.com/local/syllabusparser/internal/limiter"
	"github.com/local/syllabusparser/internal/metrics"
	"github.com/local/syllabusparser/internal/statuscheck"
	"github.com/local/syllabusparser/internal/store"
	"github.com/local/syllabusparser/internal/textextract"
)

// DocumentAnalyzer is implemented by *analyzer.Analyzer.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, text string) (analyzer.Analysis, error)
	AnalyzeRemote(ctx context.Context, text string) (analyzer.Analysis, error)
}

// TextExtractor is implemented by *textextract.Extractor.
type TextExtractor interface {
	Extract(ctx context.Context, path string, kind filetype.Kind) (textextract.Document, error)
}

// Archiver keeps a copy of each accepted upload. *storage.Archive
// implements it.
type Archiver interface {
	Put(ctx context.Context, analysisID, fileName, contentType string, body io.Reader) (string, error)
}

// StatusReporter is implemented by *statuscheck.Checker.
type StatusReporter interface {
	Summary(ctx context.Context) statuscheck.Summary
}

type Dependencies struct {
	Analyzer  DocumentAnalyzer
	Extractor TextExtractor
	Detector  *filetype.Detector
	Limiter   *limiter.Limiter
	Courses   store.Courses
	Analyses  store.Analyses
	Pages     store.Pages
	// Archive and Status are optional.
	Archive Archiver
	Status  StatusReporter
	Now     func() time.Time
}

type Orchestrator struct {
	deps Dependencies
}

func New(deps Dependencies) *Orchestrator {
	if deps.Detector == nil {
		deps.Detector = filetype.New(0)
	}
	if deps.Limiter == nil {
		deps.Limiter = limiter.New(0)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /ready", o.handleReady)

	mux.HandleFunc("POST /v1/documents", o.handleDocumentUpload)
	mux.HandleFunc("GET /v1/analyses/{id}", o.handleGetAnalysis)
	mux.HandleFunc("GET /v1/analyses/{id}/pages", o.handleGetPages)
	mux.HandleFunc("POST /v1/analyze-syllabus", o.handleAnalyzeSyllabus)

	mux.HandleFunc("POST /v1/courses", o.handleAddCourse)
	mux.HandleFunc("GET /v1/courses", o.handleListCourses)
	mux.HandleFunc("GET /v1/courses/{id}", o.handleGetCourse)
	mux.HandleFunc("PUT /v1/courses/{id}", o.handleUpdateCourse)
	mux.HandleFunc("DELETE /v1/courses/{id}", o.handleDeleteCourse)
	mux.HandleFunc("GET /v1/courses/{id}/breakdown", o.handleBreakdown)
	mux.HandleFunc("POST /v1/courses/{id}/grade", o.handleGrade)
	mux.HandleFunc("GET /v1/courses/{id}/stats", o.handleStats)
	mux.HandleFunc("GET /v1/calendar", o.handleCalendar)
	mux.HandleFunc("GET /v1/sample", o.handleSample)
}

// handleReady answers 503 while a configured store or the archive is
// unreachable.
func (o *Orchestrator) handleReady(w http.ResponseWriter, r *http.Request) {
	if o.deps.Status == nil {
		writeJSON(w, http.StatusOK, statuscheck.Summary{OK: true})
		return
	}
	s := o.deps.Status.Summary(r.Context())
	status := http.StatusOK
	if !s.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, s)
}
