package patterns

import (
	"regexp"
	"strings"

	"github.com/local/syllabusparser/internal/course"
)

const maxDateNameLen = 80

var importantDateRe = regexp.MustCompile(`\b((?i:exams?|projects?|assignments?|quiz(?:zes)?))\b[^\n]*?(` + dateTokenRe.String() + `)`)

// ImportantDates finds exam, project, assignment and quiz mentions followed
// by a date on the same line. Exams are typed exam, the rest deadline.
func ImportantDates(text string) []course.ImportantDate {
	seen := map[string]bool{}
	var out []course.ImportantDate
	for _, idx := range importantDateRe.FindAllStringSubmatchIndex(text, -1) {
		keyword := text[idx[2]:idx[3]]
		date := text[idx[4]:idx[5]]

		lineStart := strings.LastIndexByte(text[:idx[4]], '\n') + 1
		name := strings.Trim(collapseSpace(text[lineStart:idx[4]]), " -–:|,;(")
		if name == "" {
			name = capitalize(strings.ToLower(keyword))
		}
		if r := []rune(name); len(r) > maxDateNameLen {
			name = string(r[:maxDateNameLen])
		}

		key := strings.ToLower(name) + "|" + date
		if seen[key] {
			continue
		}
		seen[key] = true

		t := course.DateDeadline
		if strings.Contains(strings.ToLower(keyword), "exam") {
			t = course.DateExam
		}
		out = append(out, course.ImportantDate{Name: name, Date: date, Type: t})
	}
	return out
}
