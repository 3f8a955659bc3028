package services

import (
	"strconv"
	"strings"
)

// Grade numbers below first grade
const (
	GradePreK         = -1
	GradeKindergarten = 0
)

var gradeNames = map[string]int{
	"pre-k":            GradePreK,
	"prek":             GradePreK,
	"pk":               GradePreK,
	"pre-kindergarten": GradePreK,
	"preschool":        GradePreK,
	"k":                GradeKindergarten,
	"kg":               GradeKindergarten,
	"kindergarten":     GradeKindergarten,
}

// ParseGrade converts a registration grade ("Pre-K", "K", "3", "3rd",
// "Grade 12") to its number. It reports false for anything else.
func ParseGrade(s string) (int, bool) {
	g := strings.ToLower(strings.TrimSpace(s))
	g = strings.TrimSpace(strings.TrimPrefix(g, "grade"))
	g = strings.TrimSpace(strings.TrimSuffix(g, "grade"))
	if n, ok := gradeNames[g]; ok {
		return n, true
	}

	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(g, suffix) {
			g = strings.TrimSuffix(g, suffix)
			break
		}
	}
	n, err := strconv.Atoi(g)
	if err != nil || n < GradeKindergarten || n > 12 {
		return 0, false
	}
	return n, true
}
