package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventKind is the stable name of an event variant.
type EventKind string

const (
	KindAnswerSubmitted EventKind = "answer_submitted"
	KindCourseCompleted EventKind = "course_completed"
	KindStreakUpdated   EventKind = "streak_updated"
	KindStreakAtRisk    EventKind = "streak_at_risk"
	KindTrophyAwarded   EventKind = "trophy_awarded"
)

// Event is one of the variants declared in this file.
type Event interface {
	Kind() EventKind
	User() int64
	isEvent()
}

// AnswerSubmitted enters the pipeline on every answer.
type AnswerSubmitted struct {
	UserID        int64     `json:"user_id"`
	CourseID      uuid.UUID `json:"course_id"`
	QuestionIndex int       `json:"question_index"`
	IsCorrect     bool      `json:"is_correct"`
	FirstAttempt  bool      `json:"first_attempt"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// CourseCompleted fires when the last question of a course is answered.
type CourseCompleted struct {
	UserID      int64     `json:"user_id"`
	CourseID    uuid.UUID `json:"course_id"`
	Role        string    `json:"role"`
	Title       string    `json:"title"`
	Accuracy    float64   `json:"accuracy"`
	CompletedAt time.Time `json:"completed_at"`
}

// StreakUpdated fires when an active day was counted.
type StreakUpdated struct {
	UserID        int64     `json:"user_id"`
	CurrentStreak int       `json:"current_streak"`
	MaxStreak     int       `json:"max_streak"`
	Day           time.Time `json:"day"`
}

// StreakAtRisk is sent by the reminder job to users who have not been active today.
type StreakAtRisk struct {
	UserID        int64 `json:"user_id"`
	CurrentStreak int   `json:"current_streak"`
}

// TrophyAwarded fires once per newly inserted user trophy.
type TrophyAwarded struct {
	UserID   int64     `json:"user_id"`
	Trophy   Trophy    `json:"trophy"`
	EarnedAt time.Time `json:"earned_at"`
}

func (AnswerSubmitted) Kind() EventKind { return KindAnswerSubmitted }
func (CourseCompleted) Kind() EventKind { return KindCourseCompleted }
func (StreakUpdated) Kind() EventKind   { return KindStreakUpdated }
func (StreakAtRisk) Kind() EventKind    { return KindStreakAtRisk }
func (TrophyAwarded) Kind() EventKind   { return KindTrophyAwarded }

func (e AnswerSubmitted) User() int64 { return e.UserID }
func (e CourseCompleted) User() int64 { return e.UserID }
func (e StreakUpdated) User() int64   { return e.UserID }
func (e StreakAtRisk) User() int64    { return e.UserID }
func (e TrophyAwarded) User() int64   { return e.UserID }

func (AnswerSubmitted) isEvent() {}
func (CourseCompleted) isEvent() {}
func (StreakUpdated) isEvent()   {}
func (StreakAtRisk) isEvent()    {}
func (TrophyAwarded) isEvent()   {}

type envelope struct {
	Kind    EventKind `json:"kind"`
	UserID  int64     `json:"user_id"`
	Payload Event     `json:"payload"`
}

// MarshalEvent encodes an event with its kind so consumers can dispatch on it.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(envelope{Kind: e.Kind(), UserID: e.User(), Payload: e})
}
