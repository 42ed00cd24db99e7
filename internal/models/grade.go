package models

import "fmt"

// GradeLevel is the ordered school-year stage a student is enrolled in.
// The ordering is fixed; the last level has no successor and promoting
// past it graduates the student.
type GradeLevel string

const (
	GradePaud GradeLevel = "PAUD"
	GradeTkA  GradeLevel = "TK_A"
	GradeTkB  GradeLevel = "TK_B"
	GradeSd1  GradeLevel = "SD_1"
	GradeSd2  GradeLevel = "SD_2"
	GradeSd3  GradeLevel = "SD_3"
	GradeSd4  GradeLevel = "SD_4"
	GradeSd5  GradeLevel = "SD_5"
	GradeSd6  GradeLevel = "SD_6"
)

// GradeLevels lists every level in promotion order.
var GradeLevels = []GradeLevel{
	GradePaud,
	GradeTkA,
	GradeTkB,
	GradeSd1,
	GradeSd2,
	GradeSd3,
	GradeSd4,
	GradeSd5,
	GradeSd6,
}

// Valid returns true when the level is a supported value.
func (g GradeLevel) Valid() bool {
	for _, level := range GradeLevels {
		if level == g {
			return true
		}
	}
	return false
}

// Next returns the successor level. The second return value is false when
// the level is terminal and promoting past it graduates the student.
func (g GradeLevel) Next() (GradeLevel, bool) {
	for i, level := range GradeLevels {
		if level == g {
			if i+1 < len(GradeLevels) {
				return GradeLevels[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// Terminal reports whether the level has no successor.
func (g GradeLevel) Terminal() bool {
	_, ok := g.Next()
	return !ok && g.Valid()
}

// ParseGradeLevel validates a raw grade level value.
func ParseGradeLevel(raw string) (GradeLevel, error) {
	level := GradeLevel(raw)
	if !level.Valid() {
		return "", fmt.Errorf("unknown grade level %q", raw)
	}
	return level, nil
}
