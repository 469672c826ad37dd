package quiz

import (
	"fmt"
	"strings"
)

// Difficulty is the level attached to every question. Levels are ordered
// Easy < Medium < Hard; the order drives backfill adjacency.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Difficulties lists all levels in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty decodes a difficulty from its full name or first letter,
// case-insensitively ("E", "easy", "EASY" are all Easy). Anything it does not
// recognize decodes to Medium.
func ParseDifficulty(s string) Difficulty {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Medium
	}
	switch s[0] {
	case 'e':
		return Easy
	case 'h':
		return Hard
	default:
		return Medium
	}
}

// Code returns the single-letter wire form: "E", "M" or "H".
func (d Difficulty) Code() string {
	switch d {
	case Easy:
		return "E"
	case Hard:
		return "H"
	default:
		return "M"
	}
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// DisplayName returns the capitalized name, e.g. "Medium".
func (d Difficulty) DisplayName() string {
	s := d.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Valid reports whether d is one of the three defined levels.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// Adjacent returns the levels used to backfill a short selection at d.
// Easy and Hard both fall back to Medium; Medium draws from both ends.
func (d Difficulty) Adjacent() []Difficulty {
	switch d {
	case Easy, Hard:
		return []Difficulty{Medium}
	default:
		return []Difficulty{Easy, Hard}
	}
}

// MarshalText encodes the difficulty as its single-letter code.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.Code()), nil
}

// UnmarshalText decodes tolerantly; see ParseDifficulty.
func (d *Difficulty) UnmarshalText(text []byte) error {
	*d = ParseDifficulty(string(text))
	return nil
}
