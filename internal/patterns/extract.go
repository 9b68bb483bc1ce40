// Package patterns derives course data from raw syllabus text with layered
// regular expressions. It is the fallback when the language-model backend
// is unavailable, so every facet degrades to defaults instead of failing.
package patterns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/local/syllabusparser/internal/course"
)

// ErrExtraction is returned when extraction itself broke, which only
// happens on a bug in a facet extractor.
var ErrExtraction = errors.New("pattern extraction failed")

// headerLines is how many leading lines are treated as the document header
// when looking for the course title and code.
const headerLines = 10

// Extract runs every facet extractor over text. The result is structurally
// complete but not normalized.
func Extract(text string) (data course.CourseData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExtraction, r)
		}
	}()

	lines := Lines(text)
	data = course.CourseData{
		Course:         CourseInfo(text, lines),
		Instructors:    Instructors(text),
		Grading:        Grading(text),
		Schedule:       Schedule(lines),
		Policies:       Policies(text),
		ImportantDates: ImportantDates(text),
	}
	return data, nil
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func head(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
