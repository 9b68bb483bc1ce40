package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/syllabusparser/internal/ai"
	"github.com/local/syllabusparser/internal/breaker"
	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/patterns"
)

const syllabus = `CS 101 - Introduction to Programming
State University
Fall 2025

Instructor: Prof. Grace Hopper, ghopper@state.edu
Office Hours: Wednesdays 1:00-3:00pm, Room 210

Grading
Homework: 50%
Final Exam: 50%
`

func assertWellFormed(t *testing.T, c course.CourseData) {
	t.Helper()
	assert.NotEmpty(t, c.Course.Title)
	assert.NotEmpty(t, c.Course.Semester)
	assert.NotEmpty(t, c.Instructors)
	assert.NotEmpty(t, c.Grading)
	assert.NotEmpty(t, c.Schedule)
	assert.NotEmpty(t, c.ImportantDates)
	assert.Equal(t, c, course.Normalize(c))
}

func gateway(t *testing.T, h http.HandlerFunc) (*ai.GatewayClient, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return ai.NewGatewayClient(ai.Options{BaseURL: srv.URL, Model: "m", Credentials: ai.StaticCredential("k")}), &calls
}

func reply(args string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{
			"tool_calls": []any{map[string]any{"function": map[string]any{"name": ai.ToolName, "arguments": args}}},
		}}},
	})
	return string(b)
}

func TestAnalyze_BackendSuccess(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(course.Sample())
	require.NoError(t, err)
	client, _ := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, reply(string(b)))
	})

	an, err := New(client).Analyze(context.Background(), syllabus)
	require.NoError(t, err)
	assert.Equal(t, PathAI, an.Path)
	assert.Equal(t, ConfidenceAI, an.Confidence)
	assert.Equal(t, course.Sample(), an.Data)
	assert.Equal(t, []string{"Successfully analyzed with gateway (m)"}, an.ExtractionLog)
	assert.NotEmpty(t, an.ID)
}

func TestAnalyze_RateLimitFallsBack(t *testing.T) {
	t.Parallel()

	client, calls := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	cd := breaker.New(breaker.NewMemoryStore(), 0, 0)
	a := New(client, WithCooldown(cd))

	an, err := a.Analyze(context.Background(), syllabus)
	require.NoError(t, err)
	assertWellFormed(t, an.Data)
	assert.Equal(t, PathFallback, an.Path)
	assert.LessOrEqual(t, an.Confidence, 0.3)
	assert.Equal(t, ai.KindRateLimited, an.FailureKind)
	require.NotEmpty(t, an.ExtractionLog)
	assert.Contains(t, an.ExtractionLog[0], "AI analysis failed (rate_limited)")
	assert.Contains(t, strings.Join(an.ExtractionLog, "\n"), "rate limited")

	// fallback content comes from the text
	assert.Equal(t, "Introduction to Programming", an.Data.Course.Title)
	assert.Equal(t, "ghopper@state.edu", an.Data.Instructors[0].Email)

	// the backend is now cooling down and is not called again
	an, err = a.Analyze(context.Background(), syllabus)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	assert.Contains(t, an.ExtractionLog[0], "cooling down after rate_limited")
	assert.Equal(t, ConfidenceFallback, an.Confidence)
}

func TestAnalyze_Confidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    ai.Kind
		want    float64
	}{
		{"payment", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusPaymentRequired) }, ai.KindPaymentRequired, ConfidenceFallback},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, ai.KindBackend, ConfidenceFallback},
		{"no tool call", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"hello"}}]}`)
		}, ai.KindNoToolCall, ConfidenceFallback},
		{"unparseable", func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, reply("{oops")) }, ai.KindParse, ConfidenceUnparsed},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, _ := gateway(t, tt.handler)
			an, err := New(client).Analyze(context.Background(), syllabus)
			require.NoError(t, err)
			assertWellFormed(t, an.Data)
			assert.Equal(t, tt.kind, an.FailureKind)
			assert.Equal(t, tt.want, an.Confidence)
			assert.Equal(t, PathFallback, an.Path)
		})
	}
}

func TestAnalyze_NoBackend(t *testing.T) {
	t.Parallel()

	an, err := New(nil).Analyze(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, course.Default().Grading, an.Data.Grading)
	assert.Equal(t, ConfidenceFallback, an.Confidence)
	assert.Equal(t, []string{"No AI backend configured, using pattern extraction", "Pattern extraction completed"}, an.ExtractionLog)
}

func TestAnalyze_WeightAdvisory(t *testing.T) {
	t.Parallel()

	client, _ := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, reply(`{"grading":[{"component":"Exams","weight":0.5},{"component":"Labs","weight":0.35}]}`))
	})
	an, err := New(client).Analyze(context.Background(), syllabus)
	require.NoError(t, err)
	assert.Equal(t, PathAI, an.Path)
	assert.Contains(t, an.ExtractionLog, "Grading weights total 85%, expected 100%")
	require.Len(t, an.Data.Grading, 2)
}

func TestAnalyze_ExtractionFailure(t *testing.T) {
	t.Parallel()

	broken := func(string) (course.CourseData, error) {
		return course.CourseData{}, patterns.ErrExtraction
	}
	_, err := New(nil, WithExtractor(broken)).Analyze(context.Background(), syllabus)
	assert.True(t, errors.Is(err, ErrExtractionFailed))
}

func TestAnalyzeRemote(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(course.Sample())
	require.NoError(t, err)
	client, _ := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, reply(string(b)))
	})

	an, err := New(client).AnalyzeRemote(context.Background(), syllabus)
	require.NoError(t, err)
	assert.Equal(t, PathAI, an.Path)
	assert.Equal(t, ConfidenceAI, an.Confidence)
	assert.Equal(t, course.Sample(), an.Data)
	assert.Equal(t, "gateway", an.Provider)
}

func TestAnalyzeRemote_SurfacesBackendErrors(t *testing.T) {
	t.Parallel()

	client, calls := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})
	a := New(client, WithCooldown(breaker.New(breaker.NewMemoryStore(), 0, 0)))

	_, err := a.AnalyzeRemote(context.Background(), syllabus)
	assert.True(t, ai.IsPaymentRequired(err))

	// cooling down: same class of error, no second request
	_, err = a.AnalyzeRemote(context.Background(), syllabus)
	assert.True(t, ai.IsPaymentRequired(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	_, err = New(nil).AnalyzeRemote(context.Background(), syllabus)
	assert.ErrorIs(t, err, ErrNoBackend)
}
