package course

import "math"

// WeightTolerance is how far the grading total may drift from 1.0 before it
// is flagged. Flagging is advisory, nothing rejects the record.
const WeightTolerance = 0.01

// DefaultTargetGrade is the percentage the calculator aims for when the
// caller does not say.
const DefaultTargetGrade = 70.0

// TotalWeight sums the grading weights.
func (c CourseData) TotalWeight() float64 {
	var sum float64
	for _, g := range c.Grading {
		sum += g.Weight
	}
	return sum
}

// WeightsBalanced reports whether the grading weights sum to 1.0 within
// WeightTolerance.
func (c CourseData) WeightsBalanced() bool {
	return math.Abs(c.TotalWeight()-1) <= WeightTolerance
}

type BreakdownItem struct {
	Component   string  `json:"component"`
	Weight      float64 `json:"weight"`
	Percentage  int     `json:"percentage"`
	Description string  `json:"description,omitempty"`
}

type Breakdown struct {
	Items           []BreakdownItem `json:"items"`
	Total           float64         `json:"total"`
	TotalPercentage int             `json:"total_percentage"`
	Valid           bool            `json:"valid"`
	Warning         string          `json:"warning,omitempty"`
}

// GradeBreakdown summarizes the grading scheme for display.
func GradeBreakdown(grading []GradingComponent) Breakdown {
	b := Breakdown{Items: make([]BreakdownItem, 0, len(grading))}
	for _, g := range grading {
		b.Total += g.Weight
		b.Items = append(b.Items, BreakdownItem{
			Component:   g.Component,
			Weight:      g.Weight,
			Percentage:  int(math.Round(g.Weight * 100)),
			Description: g.Description,
		})
	}
	b.TotalPercentage = int(math.Round(b.Total * 100))
	b.Valid = math.Abs(b.Total-1) < 0.001
	if !b.Valid {
		b.Warning = "Grade weights should total 100%"
	}
	return b
}

// ScoreEntry is one grading component as seen by the calculator. A nil
// Score means the component has not been graded yet.
type ScoreEntry struct {
	Component string   `json:"component"`
	Weight    float64  `json:"weight"`
	Score     *float64 `json:"score,omitempty"`
	MaxPoints float64  `json:"max_points"`
}

type RequiredScore struct {
	Percentage float64 `json:"percentage"`
	Achievable bool    `json:"achievable"`
}

// ScoreEntries seeds calculator entries from a grading scheme.
func ScoreEntries(grading []GradingComponent) []ScoreEntry {
	out := make([]ScoreEntry, 0, len(grading))
	for _, g := range grading {
		out = append(out, ScoreEntry{Component: g.Component, Weight: g.Weight, MaxPoints: 100})
	}
	return out
}

func (e ScoreEntry) graded() bool { return e.Score != nil && *e.Score >= 0 }

func (e ScoreEntry) percent() float64 {
	pts := e.MaxPoints
	if pts <= 0 {
		pts = 100
	}
	return *e.Score / pts * 100
}

// CurrentGrade is the weighted average percentage over graded entries, or 0
// when nothing is graded.
func CurrentGrade(entries []ScoreEntry) float64 {
	var weighted, weight float64
	for _, e := range entries {
		if !e.graded() {
			continue
		}
		weighted += e.percent() * e.Weight
		weight += e.Weight
	}
	if weight <= 0 {
		return 0
	}
	return weighted / weight
}

// RequiredForTarget returns the average percentage needed on the ungraded
// entries to finish at target. It returns nil when nothing is left to grade.
func RequiredForTarget(entries []ScoreEntry, target float64) *RequiredScore {
	var earned, remaining float64
	left := 0
	for _, e := range entries {
		if e.graded() {
			earned += e.percent() * e.Weight
			continue
		}
		left++
		remaining += e.Weight
	}
	if left == 0 || remaining == 0 {
		return nil
	}
	raw := (target - earned) / remaining
	return &RequiredScore{
		Percentage: math.Max(0, math.Min(100, raw)),
		Achievable: raw <= 100,
	}
}
