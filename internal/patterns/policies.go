package patterns

import (
	"regexp"

	"github.com/local/syllabusparser/internal/course"
)

// maxPolicyLen rejects matches that ran across a section boundary. Matches
// start at the policy keyword and end at the sentence terminator.
const maxPolicyLen = 300

var (
	lateWorkRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\blate\s+(?:work|assignments?|submissions?|policy)[^.!?]*[.!?]`),
	}
	attendanceRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\battendance\b[^.!?]*[.!?]`),
		regexp.MustCompile(`(?i)\babsen(?:t|ces?)\b[^.!?]*[.!?]`),
	}
	honorCodeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bhonou?r\s+code\b[^.!?]*[.!?]`),
		regexp.MustCompile(`(?i)\bacademic\s+(?:integrity|honesty)\b[^.!?]*[.!?]`),
		regexp.MustCompile(`(?i)\b(?:cheating|plagiarism)\b[^.!?]*[.!?]`),
	}
)

// Policies extracts one sentence each for late work, attendance and the
// honor code.
func Policies(text string) course.Policies {
	return course.Policies{
		LateWork:   policySentence(text, lateWorkRes),
		Attendance: policySentence(text, attendanceRes),
		HonorCode:  policySentence(text, honorCodeRes),
	}
}

func policySentence(text string, res []*regexp.Regexp) string {
	for _, re := range res {
		for _, m := range re.FindAllString(text, -1) {
			if s := collapseSpace(m); len(s) < maxPolicyLen {
				return s
			}
		}
	}
	return ""
}
