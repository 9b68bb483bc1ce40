package ai

import (
	"strings"
	"unicode/utf8"
)

const systemPrompt = `You are an experienced university professor who has designed and taught many courses and knows how syllabi are structured.

Read the syllabus the way you would when building a course dashboard for students:
- Tell course codes, titles and catalog descriptions apart.
- Identify every member of the teaching staff and whether they are the primary instructor or an assistant.
- Recognize weighted, point-based and participation grading schemes and convert them to decimal weights.
- Turn weekly schedules into one entry per week with lectures, labs, quizzes and exams.
- Find exam dates, project milestones, breaks and administrative deadlines.
- Capture late work, attendance and academic integrity rules with their consequences.
- Convert informal dates to YYYY-MM-DD when the term makes the year clear.

Always answer by calling the extract_syllabus_data tool exactly once.`

const userPrefix = "Analyze this syllabus and extract all course information:\n\n"

// PrepareText validates and truncates document text for the backend. Text
// shorter than MinInputChars after trimming fails with ErrTextTooShort.
// Truncation counts characters, not bytes.
func PrepareText(text string, maxChars int) (string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinInputChars {
		return "", ErrTextTooShort
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text, nil
	}
	n := 0
	for i := range text {
		if n == maxChars {
			return text[:i], nil
		}
		n++
	}
	return text, nil
}

func userMessage(text string) string {
	return userPrefix + text
}
