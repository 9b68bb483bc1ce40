package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestGradeBreakdown(t *testing.T) {
	t.Parallel()

	b := GradeBreakdown(Sample().Grading)
	assert.True(t, b.Valid)
	assert.Equal(t, 100, b.TotalPercentage)
	require.Len(t, b.Items, 4)
	assert.Equal(t, 30, b.Items[0].Percentage)
	assert.Empty(t, b.Warning)

	b = GradeBreakdown([]GradingComponent{{Component: "Exams", Weight: 0.5}, {Component: "Labs", Weight: 0.35}})
	assert.False(t, b.Valid)
	assert.Equal(t, 85, b.TotalPercentage)
	assert.NotEmpty(t, b.Warning)
}

func TestWeightsBalanced(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		weights []float64
		want    bool
	}{
		{"exact", []float64{0.4, 0.4, 0.2}, true},
		{"within tolerance", []float64{0.335, 0.33, 0.33}, true},
		{"short", []float64{0.5, 0.3}, false},
		{"over", []float64{0.6, 0.6}, false},
	}
	for _, tt := range tests {
		var c CourseData
		for _, w := range tt.weights {
			c.Grading = append(c.Grading, GradingComponent{Component: "x", Weight: w})
		}
		assert.Equal(t, tt.want, c.WeightsBalanced(), tt.name)
	}
}

func TestCurrentGrade(t *testing.T) {
	t.Parallel()

	entries := []ScoreEntry{
		{Component: "Homework", Weight: 0.4, Score: score(45), MaxPoints: 50},
		{Component: "Midterm", Weight: 0.2, Score: score(70), MaxPoints: 100},
		{Component: "Final", Weight: 0.4},
	}
	// (90*0.4 + 70*0.2) / 0.6
	assert.InDelta(t, 83.333, CurrentGrade(entries), 0.001)
	assert.Equal(t, 0.0, CurrentGrade(ScoreEntries(DefaultGrading())))
}

func TestRequiredForTarget(t *testing.T) {
	t.Parallel()

	entries := []ScoreEntry{
		{Component: "Homework", Weight: 0.4, Score: score(90), MaxPoints: 100},
		{Component: "Midterm", Weight: 0.2, Score: score(70), MaxPoints: 100},
		{Component: "Final", Weight: 0.4, MaxPoints: 100},
	}

	req := RequiredForTarget(entries, DefaultTargetGrade)
	require.NotNil(t, req)
	// (70 - 50) / 0.4
	assert.InDelta(t, 50, req.Percentage, 1e-9)
	assert.True(t, req.Achievable)

	req = RequiredForTarget(entries, 100)
	require.NotNil(t, req)
	assert.Equal(t, 100.0, req.Percentage)
	assert.False(t, req.Achievable)

	req = RequiredForTarget(entries, 10)
	require.NotNil(t, req)
	assert.Equal(t, 0.0, req.Percentage)

	entries[2].Score = score(80)
	assert.Nil(t, RequiredForTarget(entries, DefaultTargetGrade))
}

func TestCalendarEvents(t *testing.T) {
	t.Parallel()

	events := CalendarEvents(CalendarSource{CourseID: "c1", CourseName: "ML", Data: Sample()})

	var classes, deliverables, important int
	for i, ev := range events {
		if i > 0 {
			assert.False(t, ev.Date.Before(events[i-1].Date), "events must be sorted")
		}
		assert.Equal(t, "c1", ev.CourseID)
		switch ev.Kind {
		case EventClass:
			classes++
		case EventDeliverable:
			deliverables++
		case EventImportantDate:
			important++
		}
	}
	assert.Equal(t, 6, classes)
	assert.Equal(t, 3, deliverables)
	assert.Equal(t, 3, important)
	assert.Equal(t, "Spring Break", events[len(events)-2].Title)
}

func TestCalendarEvents_SkipsUnparseableDates(t *testing.T) {
	t.Parallel()

	data := Default()
	data.Schedule[0].Date = "Mar 5"
	assert.Empty(t, CalendarEvents(CalendarSource{Data: data}))
}

func TestCourseStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 20, 15, 0, 0, 0, time.UTC)
	st := CourseStats(Sample(), now)

	require.NotNil(t, st.NextClass)
	assert.Equal(t, "Logistic Regression", st.NextClass.Topic)
	require.NotNil(t, st.NextDeliverable)
	assert.Equal(t, "Problem Set 1", st.NextDeliverable.Name)
	assert.Equal(t, 1, st.Professors)
	assert.Equal(t, 1, st.TeachingAssists)
	assert.Equal(t, 5, st.ActivityCounts[ActivityLecture])
	assert.Equal(t, 1, st.ActivityCounts[ActivityExam])
	assert.Equal(t, 7, st.TotalWeeks)

	later := CourseStats(Sample(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Nil(t, later.NextClass)
	assert.Nil(t, later.NextDeliverable)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"2024-10-15", "2024-10-15 11:59pm", "10/15/2024"} {
		d, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, time.October, d.Month())
		assert.Equal(t, 15, d.Day())
	}
	for _, s := range []string{"", "Oct 15", "someday"} {
		_, ok := ParseDate(s)
		assert.False(t, ok, s)
	}
}
