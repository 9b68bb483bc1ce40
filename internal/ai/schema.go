package ai

import (
	"github.com/local/syllabusparser/internal/course"
)

const (
	ToolName        = "extract_syllabus_data"
	ToolDescription = "Extract structured course data from a syllabus document"
)

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func enum[T ~string](values []T, desc string) map[string]any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return map[string]any{"type": "string", "enum": out, "description": desc}
}

func object(props map[string]any, required ...string) map[string]any {
	m := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		req := make([]any, 0, len(required))
		for _, r := range required {
			req = append(req, r)
		}
		m["required"] = req
	}
	return m
}

func array(items map[string]any, desc string) map[string]any {
	return map[string]any{"type": "array", "items": items, "description": desc}
}

// ToolSchema returns the JSON Schema of the tool arguments. A fresh map is
// built on every call so callers may embed it in request bodies freely.
func ToolSchema() map[string]any {
	courseInfo := object(map[string]any{
		"title":       str("Official course title as students know it, not the code or a description."),
		"code":        str("Course code exactly as used for registration, e.g. 'CS 2310' or 'BIOL-445'."),
		"semester":    str("Academic term with year, e.g. 'Fall 2024'."),
		"institution": str("University or college name if stated, otherwise empty."),
	}, "title", "code", "semester")

	instructor := object(map[string]any{
		"name":         str("Full name with title if given, as written."),
		"email":        str("Contact email address."),
		"office_hours": str("Days, times and format of office hours, e.g. 'Mon/Wed 2-4pm, Room 305'."),
		"location":     str("Office room, building or virtual location."),
		"role": enum([]course.Role{course.RoleProfessor, course.RoleTA},
			"'professor' for the primary instructor or lecturer, 'ta' for teaching or lab assistants."),
	}, "name", "email")

	grading := object(map[string]any{
		"component": str("Grade component name in the syllabus wording. Group similar items into one entry."),
		"weight": map[string]any{
			"type":        "number",
			"description": "Share of the final grade as a decimal between 0 and 1, 35% is 0.35. Weights sum to 1.0.",
		},
		"description": str("Count, frequency or drop policy of this component."),
		"drop_lowest": map[string]any{"type": "boolean", "description": "Whether the lowest score is dropped."},
		"rubric":      str("Rubric or grading criteria if stated."),
	}, "component", "weight")

	deliverable := object(map[string]any{
		"name": str("Specific deliverable name, e.g. 'Problem Set 3'."),
		"due":  str("Due date as YYYY-MM-DD, optionally with a time like '2024-10-15 11:59pm'."),
		"type": enum(course.DeliverableTypes(), "Kind of deliverable."),
	})

	scheduleItem := object(map[string]any{
		"date":         str("Start date of the week or session as YYYY-MM-DD."),
		"week":         map[string]any{"type": "number", "description": "Sequential week number starting at 1."},
		"topic":        str("Main topic of the week."),
		"activities":   array(enum(course.ActivityTypes(), "Activity kind."), "What happens this week."),
		"deliverables": array(deliverable, "Work due this week, not work assigned."),
		"readings":     array(map[string]any{"type": "string"}, "Required readings for the week."),
	}, "week", "topic")

	importantDate := object(map[string]any{
		"name": str("Clear name of the milestone, e.g. 'Midterm Exam 1' or 'Last Day to Drop'."),
		"date": str("Date as YYYY-MM-DD; the start date for multi-day events."),
		"type": enum(course.DateTypes(), "Category of the date."),
	}, "name", "date", "type")

	policies := object(map[string]any{
		"late_work":  str("Late submission rules and penalties."),
		"attendance": str("Attendance requirements and consequences."),
		"honor_code": str("Academic integrity and collaboration rules."),
	})
	policies["description"] = "Course policies with their actual rules and consequences."

	schema := object(map[string]any{
		"course":          courseInfo,
		"instructors":     array(instructor, "All teaching staff, primary instructor first."),
		"grading":         array(grading, "Every component that counts toward the final grade."),
		"schedule":        array(scheduleItem, "One entry per week or session."),
		"policies":        policies,
		"important_dates": array(importantDate, "Dates worth a calendar reminder."),
	}, "course", "instructors", "grading", "schedule", "policies")
	schema["additionalProperties"] = false
	return schema
}
