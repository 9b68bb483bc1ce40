package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/local/syllabusparser/internal/analyzer"
	"github.com/local/syllabusparser/internal/course"
	"github.com/local/syllabusparser/internal/textextract"
)

// MemoryCourses is a process-local Courses for development and tests.
type MemoryCourses struct {
	mu    sync.RWMutex
	byID  map[string]Course
	order []string // newest first
	now   func() time.Time
}

func NewMemoryCourses() *MemoryCourses {
	return &MemoryCourses{byID: map[string]Course{}, now: time.Now}
}

func (m *MemoryCourses) Add(_ context.Context, data course.CourseData, fileName string) (Course, error) {
	c := newCourse(uuid.NewString(), data, fileName, m.now().UTC())
	m.mu.Lock()
	m.byID[c.ID] = c
	m.order = append([]string{c.ID}, m.order...)
	m.mu.Unlock()
	return c.clone(), nil
}

func (m *MemoryCourses) Update(_ context.Context, id string, data course.CourseData) (Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	c = c.withData(data, m.now().UTC())
	m.byID[id] = c
	return c.clone(), nil
}

func (m *MemoryCourses) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	delete(m.byID, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryCourses) Get(_ context.Context, id string) (Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.byID[id]
	if !ok {
		return Course{}, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return c.clone(), nil
}

func (m *MemoryCourses) List(_ context.Context) ([]Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Course, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id].clone())
	}
	return out, nil
}

type memoryEntry[T any] struct {
	v       T
	expires time.Time
}

// ttlMap is a mutex guarded map whose entries lapse after ttl. A zero ttl
// keeps entries forever.
type ttlMap[T any] struct {
	mu  sync.Mutex
	m   map[string]memoryEntry[T]
	ttl time.Duration
	now func() time.Time
}

func newTTLMap[T any](ttl time.Duration) *ttlMap[T] {
	return &ttlMap[T]{m: map[string]memoryEntry[T]{}, ttl: ttl, now: time.Now}
}

func (t *ttlMap[T]) put(key string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := memoryEntry[T]{v: v}
	if t.ttl > 0 {
		e.expires = t.now().Add(t.ttl)
	}
	t.m[key] = e
}

func (t *ttlMap[T]) get(key string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.m[key]
	if ok && !e.expires.IsZero() && !t.now().Before(e.expires) {
		delete(t.m, key)
		ok = false
	}
	return e.v, ok
}

// MemoryAnalyses is a process-local Analyses.
type MemoryAnalyses struct {
	m *ttlMap[analyzer.Analysis]
}

func NewMemoryAnalyses(ttl time.Duration) *MemoryAnalyses {
	return &MemoryAnalyses{m: newTTLMap[analyzer.Analysis](ttl)}
}

func (s *MemoryAnalyses) Save(_ context.Context, a analyzer.Analysis) error {
	a.Data = a.Data.Clone()
	s.m.put(a.ID, a)
	return nil
}

func (s *MemoryAnalyses) Get(_ context.Context, id string) (analyzer.Analysis, error) {
	a, ok := s.m.get(id)
	if !ok {
		return analyzer.Analysis{}, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	a.Data = a.Data.Clone()
	a.ExtractionLog = append([]string(nil), a.ExtractionLog...)
	return a, nil
}

// MemoryPages is a process-local Pages.
type MemoryPages struct {
	m *ttlMap[[]textextract.Page]
}

func NewMemoryPages(ttl time.Duration) *MemoryPages {
	return &MemoryPages{m: newTTLMap[[]textextract.Page](ttl)}
}

func (s *MemoryPages) SavePages(_ context.Context, analysisID string, pages []textextract.Page) error {
	s.m.put(analysisID, append([]textextract.Page(nil), pages...))
	return nil
}

func (s *MemoryPages) GetPages(_ context.Context, analysisID string) ([]textextract.Page, error) {
	p, ok := s.m.get(analysisID)
	if !ok {
		return nil, fmt.Errorf("pages for %s: %w", analysisID, ErrNotFound)
	}
	return append([]textextract.Page(nil), p...), nil
}
