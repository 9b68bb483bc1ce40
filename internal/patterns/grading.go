package patterns

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/local/syllabusparser/internal/course"
)

const (
	minComponentLen = 2
	maxComponentLen = 50
)

var (
	gradingSectionRe = regexp.MustCompile(`(?i)(?:grading|grade\s+breakdown|assessment)[\s\S]{0,800}`)

	// Each family captures a label and a percentage; labelIdx and pctIdx
	// locate them in the submatch slice.
	gradingFamilies = []struct {
		re               *regexp.Regexp
		labelIdx, pctIdx int
	}{
		{regexp.MustCompile(`([A-Za-z][A-Za-z \t]{2,30})\s*[-:]\s*(\d{1,3}(?:\.\d+)?)\s*%`), 1, 2},
		{regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)\s*%\s*[-:]\s*([A-Za-z][A-Za-z \t]{2,30})`), 2, 1},
		{regexp.MustCompile(`(?i)\b(assignments?|homeworks?|exams?|quiz(?:zes)?|projects?|participation|attendance|midterms?|finals?(?:\s+exam)?|labs?)\b[^%\n]{0,40}?(\d{1,3}(?:\.\d+)?)\s*%`), 1, 2},
	}

	nonWordRe = regexp.MustCompile(`[^\w]+`)
)

// Grading collects weighted components from "Label: N%" style text. When a
// grading section heading is present only the text following it is
// scanned. Components are deduplicated by name and each percentage is
// claimed by at most one component. Without any hit the default 40/40/20
// split is returned.
func Grading(text string) []course.GradingComponent {
	scope := text
	if sec := gradingSectionRe.FindString(text); sec != "" {
		scope = sec
	}

	seen := map[string]bool{}
	claimed := map[int]bool{}
	var out []course.GradingComponent
	for _, fam := range gradingFamilies {
		for _, idx := range fam.re.FindAllStringSubmatchIndex(scope, -1) {
			pctEnd := idx[2*fam.pctIdx+1]
			if claimed[pctEnd] {
				continue
			}
			name := componentName(scope[idx[2*fam.labelIdx]:idx[2*fam.labelIdx+1]])
			if len(name) < minComponentLen || len(name) > maxComponentLen {
				continue
			}
			pct, err := strconv.ParseFloat(scope[idx[2*fam.pctIdx]:pctEnd], 64)
			if err != nil {
				continue
			}
			w := pct / 100
			if w <= 0 || w > 1 {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			claimed[pctEnd] = true
			out = append(out, course.GradingComponent{
				Component:   name,
				Weight:      w,
				Description: name + " assessment component",
			})
		}
	}
	if len(out) == 0 {
		return course.DefaultGrading()
	}
	return out
}

func componentName(label string) string {
	return capitalize(collapseSpace(nonWordRe.ReplaceAllString(label, " ")))
}
