package entities

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Difficulty is a course level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty accepts any casing of a known level.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

var courseNamespace = uuid.MustParse("6f1c0b1e-3a55-4c1f-9d0e-5b7a2f9e8c41")

// CourseID derives a stable identifier from the role and title, so reseeding
// the catalog never changes the ID of an existing course.
func CourseID(role, title string) uuid.UUID {
	return uuid.NewSHA1(courseNamespace, []byte(strings.ToLower(role)+"/"+strings.ToLower(title)))
}

// Course is a static catalog entry.
type Course struct {
	ID             uuid.UUID  // stable course ID
	Role           string     // professional role the course belongs to
	Difficulty     Difficulty // easy, medium or hard
	Title          string     // course title
	Description    string     // short description shown in the course list
	OrderIndex     int        // position inside the role
	TotalQuestions int        // number of questions, at least one
}

// Option is one answer choice of a question.
type Option struct {
	ID   string // a, b, c, d
	Text string
}

// Question is a single multiple-choice scenario.
type Question struct {
	Title       string
	Description string // scenario
	Prompt      string // the actual question
	Options     []Option
	Correct     string // ID of the correct option
	Explanation string
	Points      int
}

// IsCorrect reports whether optionID is the correct answer.
func (q Question) IsCorrect(optionID string) bool {
	return strings.EqualFold(strings.TrimSpace(optionID), q.Correct)
}

// Option returns the option with the given ID.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if strings.EqualFold(o.ID, id) {
			return o, true
		}
	}
	return Option{}, false
}
