package patterns

import (
	"regexp"
	"strings"

	"github.com/local/syllabusparser/internal/course"
)

const (
	minTopicLen = 6
	maxTopicLen = 100
)

const monthDay = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{1,2}\b`

var (
	dateTokenRe = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b|\b\d{4}-\d{2}-\d{2}\b|\b` + monthDay)

	activityRes = []struct {
		re  *regexp.Regexp
		act course.ActivityType
	}{
		{regexp.MustCompile(`(?i)\bquiz(?:zes)?\b`), course.ActivityQuiz},
		{regexp.MustCompile(`(?i)\bexams?\b`), course.ActivityExam},
		{regexp.MustCompile(`(?i)\bassignments?\b`), course.ActivityAssignment},
		{regexp.MustCompile(`(?i)\blectures?\b`), course.ActivityLecture},
		{regexp.MustCompile(`(?i)\blabs?\b`), course.ActivityLab},
	}
)

// Schedule turns every line carrying a date into a schedule row. The week
// number simply counts rows. Deliverables and readings are left empty.
func Schedule(lines []string) []course.ScheduleItem {
	var out []course.ScheduleItem
	week := 1
	for _, l := range lines {
		loc := dateTokenRe.FindStringIndex(l)
		if loc == nil {
			continue
		}
		topic := strings.Trim(collapseSpace(l[:loc[0]]+" "+l[loc[1]:]), " -–:|,;")
		if len(topic) < minTopicLen {
			continue
		}
		if r := []rune(topic); len(r) > maxTopicLen {
			topic = string(r[:maxTopicLen])
		}
		out = append(out, course.ScheduleItem{
			Date:         l[loc[0]:loc[1]],
			Week:         week,
			Topic:        topic,
			Activities:   activities(l),
			Deliverables: []course.Deliverable{},
			Readings:     []string{},
		})
		week++
	}
	return out
}

func activities(line string) []course.ActivityType {
	var out []course.ActivityType
	for _, a := range activityRes {
		if a.re.MatchString(line) {
			out = append(out, a.act)
		}
	}
	if len(out) == 0 {
		return []course.ActivityType{course.ActivityLecture}
	}
	return out
}
