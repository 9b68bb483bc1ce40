package course

import (
	"encoding/json"
	"math"
	"sort"
)

// Normalize maps any candidate object to a well-formed CourseData. The
// candidate may be decoded JSON (map[string]any), raw JSON bytes, a
// CourseData value or pointer, or anything else; unusable fields fall back
// to their defaults one by one. Normalize never panics and
// Normalize(Normalize(x)) equals Normalize(x).
func Normalize(candidate any) CourseData {
	m := asMap(generic(candidate))

	return CourseData{
		Course:         normalizeInfo(asMap(m["course"])),
		Instructors:    normalizeInstructors(m["instructors"]),
		Grading:        normalizeGrading(m["grading"]),
		Schedule:       normalizeSchedule(m["schedule"]),
		Policies:       normalizePolicies(asMap(m["policies"])),
		ImportantDates: normalizeImportantDates(m["important_dates"]),
	}
}

func normalizeInfo(m map[string]any) Info {
	return Info{
		Title:       nonEmpty(m["title"], DefaultTitle),
		Code:        str(m["code"]),
		Semester:    nonEmpty(m["semester"], DefaultSemester),
		Institution: str(m["institution"]),
	}
}

func normalizeInstructors(v any) []Instructor {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return []Instructor{PlaceholderInstructor()}
	}
	out := make([]Instructor, 0, len(items))
	for _, it := range items {
		m := asMap(it)
		role := RoleProfessor
		if s, ok := m["role"].(string); ok && s == string(RoleTA) {
			role = RoleTA
		}
		out = append(out, Instructor{
			Name:        nonEmpty(m["name"], DefaultInstructorName),
			Email:       str(m["email"]),
			OfficeHours: str(m["office_hours"]),
			Location:    str(m["location"]),
			Role:        role,
		})
	}
	// primary instructors first, relative order otherwise kept
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Role == RoleProfessor && out[j].Role == RoleTA
	})
	return out
}

func normalizeGrading(v any) []GradingComponent {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return DefaultGrading()
	}
	out := make([]GradingComponent, 0, len(items))
	for _, it := range items {
		m := asMap(it)
		w, ok := number(m["weight"])
		if !ok {
			w = DefaultWeight
		}
		g := GradingComponent{
			Component:   nonEmpty(m["component"], DefaultComponentName),
			Weight:      w,
			Description: str(m["description"]),
			Rubric:      str(m["rubric"]),
		}
		if b, ok := m["drop_lowest"].(bool); ok {
			g.DropLowest = &b
		}
		out = append(out, g)
	}
	return out
}

func normalizeSchedule(v any) []ScheduleItem {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return DefaultSchedule()
	}
	out := make([]ScheduleItem, 0, len(items))
	for _, it := range items {
		m := asMap(it)
		week := DefaultWeek
		if n, ok := number(m["week"]); ok && math.Abs(n) <= math.MaxInt32 {
			week = int(math.Round(n))
		}
		out = append(out, ScheduleItem{
			Date:         str(m["date"]),
			Week:         week,
			Topic:        str(m["topic"]),
			Activities:   normalizeActivities(m["activities"]),
			Deliverables: normalizeDeliverables(m["deliverables"]),
			Readings:     normalizeReadings(m["readings"]),
		})
	}
	return out
}

func normalizeActivities(v any) []ActivityType {
	items, ok := v.([]any)
	if !ok {
		return []ActivityType{ActivityLecture}
	}
	out := make([]ActivityType, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && validActivity(s) {
			out = append(out, ActivityType(s))
		}
	}
	return out
}

func normalizeDeliverables(v any) []Deliverable {
	items, ok := v.([]any)
	if !ok {
		return []Deliverable{}
	}
	out := make([]Deliverable, 0, len(items))
	for _, it := range items {
		m := asMap(it)
		t := DeliverableAssignment
		if s, ok := m["type"].(string); ok && validDeliverable(s) {
			t = DeliverableType(s)
		}
		out = append(out, Deliverable{Name: str(m["name"]), Due: str(m["due"]), Type: t})
	}
	return out
}

func normalizeReadings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func normalizePolicies(m map[string]any) Policies {
	return Policies{
		LateWork:   str(m["late_work"]),
		Attendance: str(m["attendance"]),
		HonorCode:  str(m["honor_code"]),
	}
}

func normalizeImportantDates(v any) []ImportantDate {
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return DefaultImportantDates()
	}
	out := make([]ImportantDate, 0, len(items))
	for _, it := range items {
		m := asMap(it)
		t := DateDeadline
		if s, ok := m["type"].(string); ok && validDateType(s) {
			t = DateType(s)
		}
		out = append(out, ImportantDate{Name: str(m["name"]), Date: str(m["date"]), Type: t})
	}
	return out
}

func validActivity(s string) bool {
	for _, a := range activityTypes {
		if string(a) == s {
			return true
		}
	}
	return false
}

func validDeliverable(s string) bool {
	for _, d := range deliverableTypes {
		if string(d) == s {
			return true
		}
	}
	return false
}

func validDateType(s string) bool {
	for _, d := range dateTypes {
		if string(d) == s {
			return true
		}
	}
	return false
}

// generic converts typed inputs into the decoded-JSON shape the field rules
// operate on.
func generic(v any) any {
	switch t := v.(type) {
	case CourseData:
		return t.toMap()
	case *CourseData:
		if t == nil {
			return nil
		}
		return t.toMap()
	case json.RawMessage:
		return decode(t)
	case []byte:
		return decode(t)
	default:
		return plain(v)
	}
}

// plain rewrites v into the decoded-JSON shape. Typed slices, typed maps and
// structs are round-tripped through encoding/json; a value that cannot be
// encoded becomes nil and its field falls back on its own.
func plain(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64, float32, int, int32, int64, json.Number:
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return decode(b)
	}
}

func decode(b []byte) any {
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func nonEmpty(v any, def string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// number accepts the numeric kinds decoded JSON and hand-built fixtures use.
// Non-finite values are rejected.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func (c CourseData) toMap() map[string]any {
	instructors := make([]any, 0, len(c.Instructors))
	for _, in := range c.Instructors {
		instructors = append(instructors, map[string]any{
			"name":         in.Name,
			"email":        in.Email,
			"office_hours": in.OfficeHours,
			"location":     in.Location,
			"role":         string(in.Role),
		})
	}

	grading := make([]any, 0, len(c.Grading))
	for _, g := range c.Grading {
		m := map[string]any{
			"component":   g.Component,
			"weight":      g.Weight,
			"description": g.Description,
			"rubric":      g.Rubric,
		}
		if g.DropLowest != nil {
			m["drop_lowest"] = *g.DropLowest
		}
		grading = append(grading, m)
	}

	schedule := make([]any, 0, len(c.Schedule))
	for _, s := range c.Schedule {
		m := map[string]any{
			"date":  s.Date,
			"week":  s.Week,
			"topic": s.Topic,
		}
		if s.Activities != nil {
			acts := make([]any, 0, len(s.Activities))
			for _, a := range s.Activities {
				acts = append(acts, string(a))
			}
			m["activities"] = acts
		}
		if s.Deliverables != nil {
			dels := make([]any, 0, len(s.Deliverables))
			for _, d := range s.Deliverables {
				dels = append(dels, map[string]any{"name": d.Name, "due": d.Due, "type": string(d.Type)})
			}
			m["deliverables"] = dels
		}
		if s.Readings != nil {
			rs := make([]any, 0, len(s.Readings))
			for _, r := range s.Readings {
				rs = append(rs, r)
			}
			m["readings"] = rs
		}
		schedule = append(schedule, m)
	}

	dates := make([]any, 0, len(c.ImportantDates))
	for _, d := range c.ImportantDates {
		dates = append(dates, map[string]any{"name": d.Name, "date": d.Date, "type": string(d.Type)})
	}

	return map[string]any{
		"course": map[string]any{
			"title":       c.Course.Title,
			"code":        c.Course.Code,
			"semester":    c.Course.Semester,
			"institution": c.Course.Institution,
		},
		"instructors":     instructors,
		"grading":         grading,
		"schedule":        schedule,
		"policies":        map[string]any{"late_work": c.Policies.LateWork, "attendance": c.Policies.Attendance, "honor_code": c.Policies.HonorCode},
		"important_dates": dates,
	}
}
