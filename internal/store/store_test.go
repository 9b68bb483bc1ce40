package store

import (
	"context"
	"os"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/textextract"
)

func TestNewCourse_Naming(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

	c := newCourse("1", course.Sample(), "ml.pdf", now)
	assert.Equal(t, "Introduction to Machine Learning", c.Name)
	assert.Equal(t, "CS 229", c.Code)
	assert.Equal(t, "Spring 2024", c.Semester)
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.LastModified)

	c = newCourse("2", course.CourseData{}, "Organic Chemistry.v2.docx", now)
	assert.Equal(t, "Organic Chemistry.v2", c.Name)
	assert.Equal(t, course.DefaultTitle, c.Data.Course.Title)
	assert.NotEmpty(t, c.Data.Instructors)

	c = newCourse("3", course.CourseData{}, "", now)
	assert.Equal(t, course.DefaultTitle, c.Name)
}

func TestCourse_WithData(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)
	c := newCourse("1", course.Sample(), "ml.pdf", created)

	edited := course.Sample()
	edited.Course.Title = ""
	edited.Course.Code = "CS 230"
	later := created.Add(time.Hour)
	u := c.withData(edited, later)

	assert.Equal(t, "Introduction to Machine Learning", u.Name)
	assert.Equal(t, "CS 230", u.Code)
	assert.Equal(t, created, u.CreatedAt)
	assert.Equal(t, later, u.LastModified)
	assert.Equal(t, course.DefaultTitle, u.Data.Course.Title)
}

func TestMemoryCourses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryCourses()

	first, err := s.Add(ctx, course.Sample(), "ml.pdf")
	require.NoError(t, err)
	second, err := s.Add(ctx, course.CourseData{}, "chem.docx")
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	// returned records are copies
	list[1].Data.Instructors[0].Name = "changed"
	got, err := s.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Andrew Ng", got.Data.Instructors[0].Name)

	data := got.Data
	data.Course.Semester = "Fall 2025"
	upd, err := s.Update(ctx, first.ID, data)
	require.NoError(t, err)
	assert.Equal(t, "Fall 2025", upd.Semester)

	require.NoError(t, s.Delete(ctx, first.ID))
	_, err = s.Get(ctx, first.ID)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, s.Delete(ctx, first.ID), ErrNotFound)
	_, err = s.Update(ctx, first.ID, data)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestMemoryAnalyses_Expire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryAnalyses(time.Hour)
	s.m.now = func() time.Time { return now }

	a := analyzer.Analysis{ID: "a1", Data: course.Sample(), Confidence: 0.95, Path: analyzer.PathAI}
	require.NoError(t, s.Save(ctx, a))

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	now = now.Add(time.Hour)
	_, err = s.Get(ctx, "a1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryPages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryPages(0)
	pages := []textextract.Page{{PageNumber: 1, Content: "one"}, {PageNumber: 2, Content: "two"}}
	require.NoError(t, s.SavePages(ctx, "a1", pages))

	got, err := s.GetPages(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, pages, got)

	_, err = s.GetPages(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	rdb, err := Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisStores(t *testing.T) {
	rdb := redisClient(t)
	ctx := context.Background()

	courses := NewRedisCourses(rdb)
	c, err := courses.Add(ctx, course.Sample(), "ml.pdf")
	require.NoError(t, err)
	t.Cleanup(func() { _ = courses.Delete(ctx, c.ID) })

	got, err := courses.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Data, got.Data)
	assert.Equal(t, c.Name, got.Name)

	list, err := courses.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, list)
	assert.Equal(t, c.ID, list[0].ID)

	require.NoError(t, courses.Delete(ctx, c.ID))
	_, err = courses.Get(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	analyses := NewRedisAnalyses(rdb, time.Minute)
	a := analyzer.Analysis{ID: "test-" + c.ID, Data: course.Sample(), Confidence: 0.3, Path: analyzer.PathFallback,
		ExtractionLog: []string{"Pattern extraction completed"}}
	require.NoError(t, analyses.Save(ctx, a))
	ga, err := analyses.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Data, ga.Data)
	assert.Equal(t, a.ExtractionLog, ga.ExtractionLog)

	pages := NewRedisPages(rdb, time.Minute)
	want := []textextract.Page{{PageNumber: 2, Content: "b"}, {PageNumber: 1, Content: "a"}, {PageNumber: 10, Content: "j"}}
	require.NoError(t, pages.SavePages(ctx, a.ID, want))
	gp, err := pages.GetPages(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 10}, []int{gp[0].PageNumber, gp[1].PageNumber, gp[2].PageNumber})
}
