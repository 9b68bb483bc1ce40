// Package course holds the CourseData record produced by syllabus analysis
// and the pure functions that operate on it.
package course

// Role of a member of the teaching staff.
type Role string

const (
	RoleProfessor Role = "professor"
	RoleTA        Role = "ta"
)

// ActivityType is something that happens during a schedule week.
type ActivityType string

const (
	ActivityQuiz       ActivityType = "quiz"
	ActivityExam       ActivityType = "exam"
	ActivityAssignment ActivityType = "assignment"
	ActivityMonitored  ActivityType = "monitored"
	ActivityLecture    ActivityType = "lecture"
	ActivityLab        ActivityType = "lab"
)

// DeliverableType categorizes work due during a schedule week.
type DeliverableType string

const (
	DeliverableAssignment DeliverableType = "assignment"
	DeliverableQuiz       DeliverableType = "quiz"
	DeliverableExam       DeliverableType = "exam"
	DeliverableProject    DeliverableType = "project"
)

// DateType categorizes an important date.
type DateType string

const (
	DateExam     DateType = "exam"
	DateDeadline DateType = "deadline"
	DateQuiz     DateType = "quiz"
	DateProject  DateType = "project"
	DateBreak    DateType = "break"
	DateOther    DateType = "other"
)

var (
	activityTypes    = []ActivityType{ActivityQuiz, ActivityExam, ActivityAssignment, ActivityMonitored, ActivityLecture, ActivityLab}
	deliverableTypes = []DeliverableType{DeliverableAssignment, DeliverableQuiz, DeliverableExam, DeliverableProject}
	dateTypes        = []DateType{DateExam, DateDeadline, DateQuiz, DateProject, DateBreak, DateOther}
)

// ActivityTypes returns every valid activity type in schema order.
func ActivityTypes() []ActivityType { return append([]ActivityType(nil), activityTypes...) }

// DeliverableTypes returns every valid deliverable type in schema order.
func DeliverableTypes() []DeliverableType {
	return append([]DeliverableType(nil), deliverableTypes...)
}

// DateTypes returns every valid important date type in schema order.
func DateTypes() []DateType { return append([]DateType(nil), dateTypes...) }

// Info identifies the course itself.
type Info struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Semester    string `json:"semester"`
	Institution string `json:"institution"`
}

type Instructor struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OfficeHours string `json:"office_hours"`
	Location    string `json:"location"`
	Role        Role   `json:"role"`
}

// GradingComponent is one weighted part of the final grade. Weight is a
// fraction of the whole grade, 0.25 for 25%.
type GradingComponent struct {
	Component   string  `json:"component"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description,omitempty"`
	DropLowest  *bool   `json:"drop_lowest,omitempty"`
	Rubric      string  `json:"rubric,omitempty"`
}

type Deliverable struct {
	Name string          `json:"name"`
	Due  string          `json:"due"`
	Type DeliverableType `json:"type"`
}

type ScheduleItem struct {
	Date         string         `json:"date"`
	Week         int            `json:"week"`
	Topic        string         `json:"topic"`
	Activities   []ActivityType `json:"activities"`
	Deliverables []Deliverable  `json:"deliverables"`
	Readings     []string       `json:"readings"`
}

type Policies struct {
	LateWork   string `json:"late_work"`
	Attendance string `json:"attendance"`
	HonorCode  string `json:"honor_code"`
}

type ImportantDate struct {
	Name string   `json:"name"`
	Date string   `json:"date"`
	Type DateType `json:"type"`
}

// CourseData is the structured form of one syllabus. After Normalize every
// list holds at least one element and title and semester are non-empty.
type CourseData struct {
	Course         Info               `json:"course"`
	Instructors    []Instructor       `json:"instructors"`
	Grading        []GradingComponent `json:"grading"`
	Schedule       []ScheduleItem     `json:"schedule"`
	Policies       Policies           `json:"policies"`
	ImportantDates []ImportantDate    `json:"important_dates"`
}

// Clone returns a deep copy so callers can edit a record without touching
// the one they were handed.
func (c CourseData) Clone() CourseData {
	out := c
	out.Instructors = cloneSlice(c.Instructors)
	out.Grading = cloneSlice(c.Grading)
	for i, g := range out.Grading {
		if g.DropLowest != nil {
			v := *g.DropLowest
			out.Grading[i].DropLowest = &v
		}
	}
	out.Schedule = cloneSlice(c.Schedule)
	for i, s := range out.Schedule {
		s.Activities = cloneSlice(s.Activities)
		s.Deliverables = cloneSlice(s.Deliverables)
		s.Readings = cloneSlice(s.Readings)
		out.Schedule[i] = s
	}
	out.ImportantDates = cloneSlice(c.ImportantDates)
	return out
}

// cloneSlice keeps the nil/empty distinction so JSON output is unchanged.
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
