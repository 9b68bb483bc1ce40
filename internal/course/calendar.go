package course

import (
	"sort"
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 3:04pm",
	"2006-01-02 15:04",
	"1/2/2006",
	time.RFC3339,
}

// ParseDate parses the date formats found in course data. Dates without a
// year ("Mar 5") are not calendar-worthy and fail.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type EventKind string

const (
	EventClass         EventKind = "class"
	EventDeliverable   EventKind = "deliverable"
	EventImportantDate EventKind = "important_date"
)

type Event struct {
	Date        time.Time       `json:"date"`
	Kind        EventKind       `json:"kind"`
	Title       string          `json:"title"`
	CourseID    string          `json:"course_id"`
	CourseName  string          `json:"course_name"`
	Week        int             `json:"week,omitempty"`
	Activities  []ActivityType  `json:"activities,omitempty"`
	Deliverable DeliverableType `json:"deliverable_type,omitempty"`
	DateType    DateType        `json:"date_type,omitempty"`
}

// CalendarSource is one course contributing events.
type CalendarSource struct {
	CourseID   string
	CourseName string
	Data       CourseData
}

// CalendarEvents merges schedule rows, deliverables and important dates of
// every source into one list sorted by date. Entries with unparseable dates
// are skipped.
func CalendarEvents(sources ...CalendarSource) []Event {
	var events []Event
	for _, src := range sources {
		for _, item := range src.Data.Schedule {
			if d, ok := ParseDate(item.Date); ok {
				events = append(events, Event{
					Date:       d,
					Kind:       EventClass,
					Title:      item.Topic,
					CourseID:   src.CourseID,
					CourseName: src.CourseName,
					Week:       item.Week,
					Activities: item.Activities,
				})
			}
			for _, del := range item.Deliverables {
				d, ok := ParseDate(del.Due)
				if !ok {
					continue
				}
				events = append(events, Event{
					Date:        d,
					Kind:        EventDeliverable,
					Title:       del.Name,
					CourseID:    src.CourseID,
					CourseName:  src.CourseName,
					Week:        item.Week,
					Deliverable: del.Type,
				})
			}
		}
		for _, imp := range src.Data.ImportantDates {
			d, ok := ParseDate(imp.Date)
			if !ok {
				continue
			}
			events = append(events, Event{
				Date:       d,
				Kind:       EventImportantDate,
				Title:      imp.Name,
				CourseID:   src.CourseID,
				CourseName: src.CourseName,
				DateType:   imp.Type,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events
}

type UpcomingDeliverable struct {
	Deliverable
	Week int `json:"week"`
}

// Stats is the dashboard summary of one course.
type Stats struct {
	NextClass       *ScheduleItem        `json:"next_class,omitempty"`
	NextDeliverable *UpcomingDeliverable `json:"next_deliverable,omitempty"`
	ActivityCounts  map[ActivityType]int `json:"activity_counts"`
	Professors      int                  `json:"professors"`
	TeachingAssists int                  `json:"teaching_assistants"`
	TotalWeeks      int                  `json:"total_weeks"`
	Breakdown       Breakdown            `json:"breakdown"`
}

// CourseStats computes the summary relative to now. Items dated today count
// as upcoming.
func CourseStats(data CourseData, now time.Time) Stats {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	st := Stats{
		ActivityCounts: map[ActivityType]int{},
		Breakdown:      GradeBreakdown(data.Grading),
	}

	var classDate, delDate time.Time
	for i, item := range data.Schedule {
		if item.Week > st.TotalWeeks {
			st.TotalWeeks = item.Week
		}
		for _, a := range item.Activities {
			st.ActivityCounts[a]++
		}
		if d, ok := ParseDate(item.Date); ok && !d.Before(today) {
			if st.NextClass == nil || d.Before(classDate) {
				st.NextClass = &data.Schedule[i]
				classDate = d
			}
		}
		for _, del := range item.Deliverables {
			d, ok := ParseDate(del.Due)
			if !ok || d.Before(today) {
				continue
			}
			if st.NextDeliverable == nil || d.Before(delDate) {
				st.NextDeliverable = &UpcomingDeliverable{Deliverable: del, Week: item.Week}
				delDate = d
			}
		}
	}

	for _, in := range data.Instructors {
		if in.Role == RoleTA {
			st.TeachingAssists++
		} else {
			st.Professors++
		}
	}
	return st
}
