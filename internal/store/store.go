// Package store persists courses, analyses awaiting review and the page
// texts they were made from. Every type has a Redis and an in-memory
// implementation.
package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/textextract"
)

var ErrNotFound = errors.New("not found")

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Course is a saved CourseData with its display fields.
type Course struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Code         string            `json:"code"`
	Semester     string            `json:"semester"`
	Data         course.CourseData `json:"data"`
	CreatedAt    time.Time         `json:"createdAt"`
	LastModified time.Time         `json:"lastModified"`
}

// Courses is the course repository. List returns newest first.
type Courses interface {
	Add(ctx context.Context, data course.CourseData, fileName string) (Course, error)
	Update(ctx context.Context, id string, data course.CourseData) (Course, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Course, error)
	List(ctx context.Context) ([]Course, error)
}

// Analyses keeps analyses for the review step.
type Analyses interface {
	Save(ctx context.Context, a analyzer.Analysis) error
	Get(ctx context.Context, id string) (analyzer.Analysis, error)
}

// Pages keeps the acquired page texts of an analysis.
type Pages interface {
	SavePages(ctx context.Context, analysisID string, pages []textextract.Page) error
	GetPages(ctx context.Context, analysisID string) ([]textextract.Page, error)
}

// newCourse names a course after the extracted title, or the upload's file
// name without extension when there is none. Data is normalized.
func newCourse(id string, data course.CourseData, fileName string, now time.Time) Course {
	name := strings.TrimSpace(data.Course.Title)
	if name == "" {
		name = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	}
	norm := course.Normalize(data)
	if name == "" {
		name = norm.Course.Title
	}
	return Course{
		ID:           id,
		Name:         name,
		Code:         norm.Course.Code,
		Semester:     norm.Course.Semester,
		Data:         norm,
		CreatedAt:    now,
		LastModified: now,
	}
}

// withData replaces the data; display fields follow it when non-empty.
func (c Course) withData(data course.CourseData, now time.Time) Course {
	info := data.Course
	norm := course.Normalize(data)
	c.Data = norm
	if v := strings.TrimSpace(info.Title); v != "" {
		c.Name = v
	}
	if norm.Course.Code != "" {
		c.Code = norm.Course.Code
	}
	if v := strings.TrimSpace(info.Semester); v != "" {
		c.Semester = norm.Course.Semester
	}
	c.LastModified = now
	return c
}

func (c Course) clone() Course {
	c.Data = c.Data.Clone()
	return c
}
