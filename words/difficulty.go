package words

import (
	"fmt"
	"strings"
)

// Range is an inclusive word-length range.
type Range struct {
	Min int
	Max int
}

// Contains reports whether n lies in the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// DifficultyRange returns the word lengths used for the first level.
// Anything that is not Easy or Medium plays as Hard.
func DifficultyRange(d Difficulty) Range {
	switch d {
	case Easy:
		return Range{3, 5}
	case Medium:
		return Range{6, 8}
	default:
		return Range{9, 12}
	}
}

// LevelRange returns the word lengths for level. Level 1 keeps current.
func LevelRange(level int, current Range) Range {
	switch {
	case level == 2:
		return Range{4, 6}
	case level == 3:
		return Range{7, 9}
	case level > 3:
		return Range{10, 12}
	default:
		return current
	}
}
