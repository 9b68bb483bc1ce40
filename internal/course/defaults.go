package course

const (
	DefaultTitle          = "Course Title"
	DefaultSemester       = "Fall 2024"
	DefaultInstructorName = "Instructor"
	DefaultComponentName  = "Component"
	DefaultWeight         = 0.2
	DefaultWeek           = 1
	DefaultTopic          = "Course Introduction"
)

// PlaceholderInstructor stands in when no instructor could be found.
func PlaceholderInstructor() Instructor {
	return Instructor{Name: DefaultInstructorName, Role: RoleProfessor}
}

// DefaultGrading is the 40/40/20 split used when no grading scheme is known.
func DefaultGrading() []GradingComponent {
	return []GradingComponent{
		{Component: "Assignments", Weight: 0.4, Description: "Regular assignments and homework"},
		{Component: "Exams", Weight: 0.4, Description: "Midterm and final examinations"},
		{Component: "Participation", Weight: 0.2, Description: "Class participation and engagement"},
	}
}

func DefaultSchedule() []ScheduleItem {
	return []ScheduleItem{{
		Week:         DefaultWeek,
		Topic:        DefaultTopic,
		Activities:   []ActivityType{ActivityLecture},
		Deliverables: []Deliverable{},
		Readings:     []string{},
	}}
}

func DefaultImportantDates() []ImportantDate {
	return []ImportantDate{
		{Name: "Midterm Exam", Type: DateExam},
		{Name: "Final Exam", Type: DateExam},
	}
}

// Default returns a record made entirely of defaults. It is what Normalize
// produces for nil input.
func Default() CourseData {
	return CourseData{
		Course:         Info{Title: DefaultTitle, Semester: DefaultSemester},
		Instructors:    []Instructor{PlaceholderInstructor()},
		Grading:        DefaultGrading(),
		Schedule:       DefaultSchedule(),
		ImportantDates: DefaultImportantDates(),
	}
}
