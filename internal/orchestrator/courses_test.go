package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/store"
)

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func addSample(t *testing.T, mux http.Handler) store.Course {
	t.Helper()
	sample := course.Sample()
	rec := serve(mux, httptest.NewRequest(http.MethodPost, "/v1/courses", jsonBody(t, addCourseReq{Data: &sample, Name: "ml.pdf"})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[store.Course](t, rec)
}

func TestCourses_CRUD(t *testing.T) {
	t.Parallel()
	mux := newTestMux(Dependencies{})

	c := addSample(t, mux)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Introduction to Machine Learning", c.Name)
	assert.Equal(t, "CS 229", c.Code)
	assert.Equal(t, course.Sample(), c.Data)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/v1/courses", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]store.Course](t, rec)["courses"]
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	updated := course.Sample()
	updated.Course.Title = "Machine Learning"
	updated.Course.Semester = "Fall 2024"
	rec = serve(mux, httptest.NewRequest(http.MethodPut, "/v1/courses/"+c.ID, jsonBody(t, updateCourseReq{Data: &updated})))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[store.Course](t, rec)
	assert.Equal(t, "Machine Learning", got.Name)
	assert.Equal(t, "Fall 2024", got.Semester)
	assert.Equal(t, c.CreatedAt.Unix(), got.CreatedAt.Unix())

	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/v1/courses/"+c.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Machine Learning", decode[store.Course](t, rec).Data.Course.Title)

	rec = serve(mux, httptest.NewRequest(http.MethodDelete, "/v1/courses/"+c.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/v1/courses/"+c.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = serve(mux, httptest.NewRequest(http.MethodDelete, "/v1/courses/"+c.ID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourses_ListEmpty(t *testing.T) {
	t.Parallel()
	rec := serve(newTestMux(Dependencies{}), httptest.NewRequest(http.MethodGet, "/v1/courses", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"courses":[]}`, rec.Body.String())
}

func TestCourses_AddFromAnalysis(t *testing.T) {
	t.Parallel()

	analyses := store.NewMemoryAnalyses(time.Hour)
	data := course.Sample()
	data.Course.Title = ""
	require.NoError(t, analyses.Save(context.Background(), analyzer.Analysis{ID: "a1", Data: data}))
	mux := newTestMux(Dependencies{Analyses: analyses})

	rec := serve(mux, httptest.NewRequest(http.MethodPost, "/v1/courses", strings.NewReader(`{"analysis_id":"a1","name":"ml-notes.docx"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "ml-notes", decode[store.Course](t, rec).Name)

	rec = serve(mux, httptest.NewRequest(http.MethodPost, "/v1/courses", strings.NewReader(`{"analysis_id":"gone"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourses_BadRequests(t *testing.T) {
	t.Parallel()
	mux := newTestMux(Dependencies{})
	c := addSample(t, mux)

	tests := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/v1/courses", `{}`},
		{http.MethodPost, "/v1/courses", `not json`},
		{http.MethodPut, "/v1/courses/" + c.ID, `{"name":"x"}`},
		{http.MethodPost, "/v1/courses/" + c.ID + "/grade", `{"entries":`},
	}
	for _, tt := range tests {
		rec := serve(mux, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.method+" "+tt.path+" "+tt.body)
	}
}

func TestCourses_Breakdown(t *testing.T) {
	t.Parallel()
	mux := newTestMux(Dependencies{})
	c := addSample(t, mux)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/v1/courses/"+c.ID+"/breakdown", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	b := decode[course.Breakdown](t, rec)
	assert.True(t, b.Valid)
	assert.Equal(t, 100, b.TotalPercentage)
	require.Len(t, b.Items, 4)
	assert.Equal(t, 35, b.Items[2].Percentage)
}

func TestCourses_Grade(t *testing.T) {
	t.Parallel()
	mux := newTestMux(Dependencies{})
	c := addSample(t, mux)

	rec := serve(mux, httptest.NewRequest(http.MethodPost, "/v1/courses/"+c.ID+"/grade", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fresh := decode[gradeResp](t, rec)
	assert.Len(t, fresh.Entries, 4)
	assert.Zero(t, fresh.CurrentGrade)
	assert.Equal(t, course.DefaultTargetGrade, fresh.Target)
	require.NotNil(t, fresh.Required)
	assert.InDelta(t, 70, fresh.Required.Percentage, 1e-9)

	ps, mid := 90.0, 80.0
	entries := course.ScoreEntries(c.Data.Grading)
	entries[0].Score = &ps
	entries[1].Score = &mid
	rec = serve(mux, httptest.NewRequest(http.MethodPost, "/v1/courses/"+c.ID+"/grade", jsonBody(t, gradeReq{Entries: entries})))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[gradeResp](t, rec)
	assert.InDelta(t, 47/0.55, got.CurrentGrade, 1e-9)
	require.NotNil(t, got.Required)
	assert.InDelta(t, 23/0.45, got.Required.Percentage, 1e-9)
	assert.True(t, got.Required.Achievable)

	target := 99.0
	low := 10.0
	entries[0].Score = &low
	entries[1].Score = &low
	rec = serve(mux, httptest.NewRequest(http.MethodPost, "/v1/courses/"+c.ID+"/grade", jsonBody(t, gradeReq{Entries: entries, Target: &target})))
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[gradeResp](t, rec)
	assert.Equal(t, 99.0, got.Target)
	require.NotNil(t, got.Required)
	assert.Equal(t, 100.0, got.Required.Percentage)
	assert.False(t, got.Required.Achievable)
}

func TestCourses_Stats(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)
	mux := newTestMux(Dependencies{Now: func() time.Time { return now }})
	c := addSample(t, mux)

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/v1/courses/"+c.ID+"/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[course.Stats](t, rec)
	require.NotNil(t, st.NextClass)
	assert.Equal(t, "Logistic Regression", st.NextClass.Topic)
	require.NotNil(t, st.NextDeliverable)
	assert.Equal(t, "Problem Set 1", st.NextDeliverable.Name)
	assert.Equal(t, 1, st.Professors)
	assert.Equal(t, 1, st.TeachingAssists)
	assert.Equal(t, 7, st.TotalWeeks)
}

func TestCalendar(t *testing.T) {
	t.Parallel()
	mux := newTestMux(Dependencies{})

	rec := serve(mux, httptest.NewRequest(http.MethodGet, "/v1/calendar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events":[]}`, rec.Body.String())

	c := addSample(t, mux)
	rec = serve(mux, httptest.NewRequest(http.MethodGet, "/v1/calendar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[map[string][]course.Event](t, rec)["events"]
	require.Len(t, events, 12)
	assert.Equal(t, course.EventClass, events[0].Kind)
	assert.Equal(t, c.ID, events[0].CourseID)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Date.Before(events[i-1].Date))
	}
}

func TestSample(t *testing.T) {
	t.Parallel()
	rec := serve(newTestMux(Dependencies{}), httptest.NewRequest(http.MethodGet, "/v1/sample", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, course.Sample(), decode[course.CourseData](t, rec))
}
