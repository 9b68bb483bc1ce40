package orchestrator

import (
	"fmt"
	"net/http"

	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/store"
)

// addCourseReq saves either explicit data or a reviewed analysis.
type addCourseReq struct {
	Data       *course.CourseData `json:"data"`
	AnalysisID string             `json:"analysis_id"`
	Name       string             `json:"name"`
}

type updateCourseReq struct {
	Data *course.CourseData `json:"data"`
}

func (o *Orchestrator) handleAddCourse(w http.ResponseWriter, r *http.Request) {
	var req addCourseReq
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	ctx := r.Context()
	var data course.CourseData
	switch {
	case req.Data != nil:
		data = *req.Data
	case req.AnalysisID != "":
		an, err := o.deps.Analyses.Get(ctx, req.AnalysisID)
		if err != nil {
			fail(w, err)
			return
		}
		data = an.Data
	default:
		fail(w, fmt.Errorf("%w: data or analysis_id is required", errBadRequest))
		return
	}

	c, err := o.deps.Courses.Add(ctx, data, req.Name)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (o *Orchestrator) handleListCourses(w http.ResponseWriter, r *http.Request) {
	list, err := o.deps.Courses.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	if list == nil {
		list = []store.Course{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"courses": list})
}

func (o *Orchestrator) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := o.deps.Courses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (o *Orchestrator) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	var req updateCourseReq
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, err)
		return
	}
	if req.Data == nil {
		fail(w, fmt.Errorf("%w: data is required", errBadRequest))
		return
	}
	c, err := o.deps.Courses.Update(r.Context(), r.PathValue("id"), *req.Data)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (o *Orchestrator) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := o.deps.Courses.Delete(r.Context(), r.PathValue("id")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (o *Orchestrator) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	c, err := o.deps.Courses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course.GradeBreakdown(c.Data.Grading))
}

type gradeReq struct {
	Entries []course.ScoreEntry `json:"entries"`
	Target  *float64            `json:"target"`
}

type gradeResp struct {
	Entries      []course.ScoreEntry   `json:"entries"`
	CurrentGrade float64               `json:"current_grade"`
	Target       float64               `json:"target"`
	Required     *course.RequiredScore `json:"required"`
}

// handleGrade runs the grade calculator. Without entries it starts from the
// course's grading scheme with nothing graded.
func (o *Orchestrator) handleGrade(w http.ResponseWriter, r *http.Request) {
	c, err := o.deps.Courses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	var req gradeReq
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			fail(w, err)
			return
		}
	}
	entries := req.Entries
	if entries == nil {
		entries = course.ScoreEntries(c.Data.Grading)
	}
	target := course.DefaultTargetGrade
	if req.Target != nil {
		target = *req.Target
	}
	writeJSON(w, http.StatusOK, gradeResp{
		Entries:      entries,
		CurrentGrade: course.CurrentGrade(entries),
		Target:       target,
		Required:     course.RequiredForTarget(entries, target),
	})
}

func (o *Orchestrator) handleStats(w http.ResponseWriter, r *http.Request) {
	c, err := o.deps.Courses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course.CourseStats(c.Data, o.deps.Now()))
}

// handleCalendar merges the events of every saved course.
func (o *Orchestrator) handleCalendar(w http.ResponseWriter, r *http.Request) {
	list, err := o.deps.Courses.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	sources := make([]course.CalendarSource, 0, len(list))
	for _, c := range list {
		sources = append(sources, course.CalendarSource{CourseID: c.ID, CourseName: c.Name, Data: c.Data})
	}
	events := course.CalendarEvents(sources...)
	if events == nil {
		events = []course.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (o *Orchestrator) handleSample(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, course.Sample())
}
