package patterns

import (
	"regexp"
	"strings"

	"github.com/local/syllabusparser/internal/course"
)

var (
	codeTitleRe  = regexp.MustCompile(`^([A-Z]{2,4}\s*-?\d{3,4}[A-Z]?)\s*[-–:]\s*(.+)`)
	titleLabelRe = regexp.MustCompile(`(?i)^course\s+(?:title|name)\s*:\s*(.+)`)
	codeLabelRe  = regexp.MustCompile(`(?i)^course\s+(?:code|number)\s*:\s*([A-Za-z]{2,4}\s*-?\d{3,4}[A-Za-z]?)`)
	codeTokenRe  = regexp.MustCompile(`\b([A-Z]{2,4}\s?-?\d{3,4}[A-Z]?)\b`)
	allCapsRe    = regexp.MustCompile(`^[A-Z][A-Z &:,'-]{9,79}$`)

	semesterRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(fall|spring|summer|winter)\s+semester\s+(\d{4})\b`),
		regexp.MustCompile(`(?i)\b(fall|spring|summer|winter)\s+(\d{4})\b`),
		regexp.MustCompile(`(?i)\b(\d{4})\s+(fall|spring|summer|winter)\b`),
	}

	institutionRes = []*regexp.Regexp{
		regexp.MustCompile(`\b((?:[A-Z][a-z]+[ \t]+){1,3}(?:University|College|Institute|School))\b`),
		regexp.MustCompile(`\b((?:University|College|Institute|School)[ \t]+of[ \t]+[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)?)\b`),
	}
)

const maxInstitutionLen = 80

// CourseInfo resolves title, code, semester and institution independently.
// For each field the candidate patterns are tried in priority order and the
// first hit wins. Missing title and semester are left empty for the
// normalizer to fill.
func CourseInfo(text string, lines []string) course.Info {
	header := head(lines, headerLines)
	return course.Info{
		Title:       courseTitle(lines, header),
		Code:        courseCode(lines, header),
		Semester:    Semester(text),
		Institution: Institution(text),
	}
}

func courseTitle(lines, header []string) string {
	for _, l := range header {
		if m := codeTitleRe.FindStringSubmatch(l); m != nil {
			return strings.TrimSpace(m[2])
		}
	}
	for _, l := range head(lines, 3*headerLines) {
		if m := titleLabelRe.FindStringSubmatch(l); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, l := range header {
		if standaloneTitle(l) {
			return l
		}
	}
	for _, l := range header {
		if allCapsRe.MatchString(l) {
			return l
		}
	}
	return ""
}

func standaloneTitle(l string) bool {
	if len(l) <= 15 || len(l) >= 80 {
		return false
	}
	if l[0] < 'A' || l[0] > 'Z' {
		return false
	}
	if strings.Contains(l, "@") {
		return false
	}
	// a line that is mostly a course code is not a title
	return !codeTokenRe.MatchString(l) || len(codeTokenRe.FindString(l)) < len(l)/2
}

func courseCode(lines, header []string) string {
	for _, l := range header {
		if m := codeTitleRe.FindStringSubmatch(l); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	for _, l := range head(lines, 3*headerLines) {
		if m := codeLabelRe.FindStringSubmatch(l); m != nil {
			return strings.ToUpper(strings.TrimSpace(m[1]))
		}
	}
	for _, l := range header {
		if m := codeTokenRe.FindStringSubmatch(l); m != nil {
			return m[1]
		}
	}
	return ""
}

// Semester finds "Fall 2024", "2024 Fall" or "Fall Semester 2024" and
// renders it as "Fall 2024".
func Semester(text string) string {
	for i, re := range semesterRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		season, year := m[1], m[2]
		if i == 2 {
			season, year = m[2], m[1]
		}
		return capitalize(strings.ToLower(season)) + " " + year
	}
	return ""
}

func Institution(text string) string {
	for _, re := range institutionRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := collapseSpace(m[1])
			if len(name) < maxInstitutionLen {
				return name
			}
		}
	}
	return ""
}
