package course

// Sample returns a fully populated course used for demos and as a fixture.
// The value is already normalized.
func Sample() CourseData {
	dropLowest := true
	return CourseData{
		Course: Info{
			Title:       "Introduction to Machine Learning",
			Code:        "CS 229",
			Semester:    "Spring 2024",
			Institution: "Stanford University",
		},
		Instructors: []Instructor{
			{Name: "Dr. Andrew Ng", Email: "ang@cs.stanford.edu", OfficeHours: "Tuesdays 2:00-4:00 PM", Location: "Gates 156", Role: RoleProfessor},
			{Name: "Sarah Chen", Email: "schen@cs.stanford.edu", OfficeHours: "Fridays 10:00 AM-12:00 PM", Location: "Gates 204", Role: RoleTA},
		},
		Grading: []GradingComponent{
			{Component: "Problem Sets", Weight: 0.30, Description: "4 problem sets throughout the semester", DropLowest: &dropLowest},
			{Component: "Midterm Exam", Weight: 0.25, Description: "In-class examination"},
			{Component: "Final Project", Weight: 0.35, Description: "Original research project with presentation"},
			{Component: "Participation", Weight: 0.10, Description: "Class participation and discussion"},
		},
		Schedule: []ScheduleItem{
			{
				Date: "2024-01-15", Week: 1, Topic: "Introduction to ML and Linear Regression",
				Activities:   []ActivityType{ActivityLecture},
				Deliverables: []Deliverable{},
				Readings:     []string{"Chapter 1-2 of textbook"},
			},
			{
				Date: "2024-01-17", Week: 1, Topic: "Linear Regression Continued",
				Activities:   []ActivityType{ActivityLecture, ActivityQuiz},
				Deliverables: []Deliverable{{Name: "Problem Set 1", Due: "2024-01-24", Type: DeliverableAssignment}},
				Readings:     []string{},
			},
			{
				Date: "2024-01-22", Week: 2, Topic: "Logistic Regression",
				Activities:   []ActivityType{ActivityLecture, ActivityMonitored},
				Deliverables: []Deliverable{},
				Readings:     []string{},
			},
			{
				Date: "2024-01-24", Week: 2, Topic: "Neural Networks Basics",
				Activities:   []ActivityType{ActivityLecture},
				Deliverables: []Deliverable{{Name: "Quiz 1", Due: "2024-01-24", Type: DeliverableQuiz}},
				Readings:     []string{},
			},
			{
				Date: "2024-02-15", Week: 6, Topic: "Midterm Review",
				Activities:   []ActivityType{ActivityLecture},
				Deliverables: []Deliverable{},
				Readings:     []string{},
			},
			{
				Date: "2024-02-19", Week: 7, Topic: "Midterm Examination",
				Activities:   []ActivityType{ActivityExam},
				Deliverables: []Deliverable{{Name: "Midterm Exam", Due: "2024-02-19", Type: DeliverableExam}},
				Readings:     []string{},
			},
		},
		Policies: Policies{
			LateWork:   "Late assignments will be penalized 10% per day. No late work accepted after 3 days.",
			Attendance: "Attendance is mandatory. More than 2 unexcused absences may result in grade reduction.",
			HonorCode:  "All work must be your own. Collaboration is encouraged on problem sets but solutions must be written independently.",
		},
		ImportantDates: []ImportantDate{
			{Name: "Midterm Exam", Date: "2024-02-19", Type: DateExam},
			{Name: "Final Project Due", Date: "2024-04-15", Type: DateDeadline},
			{Name: "Spring Break", Date: "2024-03-25", Type: DateBreak},
		},
	}
}
