package patterns

import (
	"regexp"
	"strings"

	"github.com/local/syllabusparser/internal/course"
)

// contextWindow bounds how far before and after an email address the
// instructor details are searched.
const contextWindow = 500

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// Name patterns in priority order.
	nameRes = []*regexp.Regexp{
		regexp.MustCompile(`\b(?i:dr\.?|prof\.?|professor|instructor)\s+([A-Z][a-z]+\s+[A-Z][a-z]+)`),
		regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+),?\s+(?:Ph\.?\s?D|M\.?S|M\.?A|Ed\.?D)\b`),
		regexp.MustCompile(`\b([A-Z][a-z]+[ \t]+[A-Z][a-z]+)\b`),
	}
	titledNameRe = nameRes[0]

	officeHoursRe = regexp.MustCompile(`(?i)(?:office\s+hours?|hours?)\s*:?\s*([^.\n]{10,80})`)
	locationRe    = regexp.MustCompile(`((?i:office|room|location|building))\s*:?\s*([A-Z]?\d+[A-Z]?|[A-Z][a-z]+\s+\d+[A-Z]?|[A-Z]\b)`)
	taRe          = regexp.MustCompile(`(?i)\b(?:ta|teaching\s+assistant|graduate\s+student)\b`)
)

// nonNameWords are capitalized words that the generic two-word pattern
// picks up from labels rather than names.
var nonNameWords = map[string]bool{
	"office": true, "hours": true, "room": true, "email": true, "course": true,
	"syllabus": true, "teaching": true, "assistant": true, "instructor": true,
	"professor": true, "university": true, "college": true, "contact": true,
	"location": true, "building": true, "phone": true, "department": true,
}

type emailSpan struct {
	addr       string
	start, end int
}

// Instructors finds teaching staff anchored on email addresses. Every
// distinct address yields one instructor whose details come from the text
// around it. Without any address a title-prefixed name is tried, and the
// result is never empty.
func Instructors(text string) []course.Instructor {
	spans := emailSpans(text)
	if len(spans) == 0 {
		if m := titledNameRe.FindStringSubmatch(text); m != nil && plausibleName(m[1]) {
			return []course.Instructor{{Name: collapseSpace(m[1]), Role: course.RoleProfessor}}
		}
		return []course.Instructor{course.PlaceholderInstructor()}
	}

	out := make([]course.Instructor, 0, len(spans))
	for i, sp := range spans {
		lo := max(sp.start-contextWindow, 0)
		if i > 0 {
			lo = max(lo, spans[i-1].end)
		}
		hi := min(sp.end+contextWindow, len(text))
		if i+1 < len(spans) {
			hi = min(hi, spans[i+1].start)
		}
		before, after := text[lo:sp.start], text[sp.end:hi]

		in := course.Instructor{
			Name:        instructorName(before, after),
			Email:       sp.addr,
			OfficeHours: firstOrLast(officeHoursRe, after, before, officeHours),
			Location:    firstOrLast(locationRe, after, before, location),
			Role:        course.RoleProfessor,
		}
		if taRe.MatchString(before) || taRe.MatchString(trailing(after, i+1 == len(spans))) {
			in.Role = course.RoleTA
		}
		if in.Name == "" {
			in.Name = course.DefaultInstructorName
		}
		out = append(out, in)
	}
	return out
}

func emailSpans(text string) []emailSpan {
	seen := map[string]bool{}
	var out []emailSpan
	for _, loc := range emailRe.FindAllStringIndex(text, -1) {
		addr := strings.TrimRight(text[loc[0]:loc[1]], ".")
		key := strings.ToLower(addr)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, emailSpan{addr: addr, start: loc[0], end: loc[0] + len(addr)})
	}
	return out
}

// instructorName prefers the closest name preceding the address, falling
// back to the first one after it.
func instructorName(before, after string) string {
	for _, re := range nameRes {
		ms := re.FindAllStringSubmatch(before, -1)
		for i := len(ms) - 1; i >= 0; i-- {
			if plausibleName(ms[i][1]) {
				return collapseSpace(ms[i][1])
			}
		}
	}
	for _, re := range nameRes {
		for _, m := range re.FindAllStringSubmatch(after, -1) {
			if plausibleName(m[1]) {
				return collapseSpace(m[1])
			}
		}
	}
	return ""
}

func plausibleName(s string) bool {
	s = collapseSpace(s)
	if len(s) <= 5 || len(s) >= 40 {
		return false
	}
	for _, w := range strings.Fields(s) {
		if nonNameWords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

// firstOrLast takes the first match after the address, else the last one
// before it.
func firstOrLast(re *regexp.Regexp, after, before string, render func([]string) string) string {
	if m := re.FindStringSubmatch(after); m != nil {
		return render(m)
	}
	if ms := re.FindAllStringSubmatch(before, -1); len(ms) > 0 {
		return render(ms[len(ms)-1])
	}
	return ""
}

func officeHours(m []string) string {
	return strings.Trim(collapseSpace(m[1]), " ,;:")
}

func location(m []string) string {
	kw := strings.ToLower(m[1])
	if kw == "room" || kw == "building" {
		return capitalize(kw) + " " + m[2]
	}
	return m[2]
}

// trailing is the part of after that describes the address: all of it for
// the last address, else up to the end of the line. after already stops at
// the next address.
func trailing(after string, last bool) string {
	if last {
		return after
	}
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		return after[:i]
	}
	return after
}
