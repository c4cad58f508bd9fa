package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnswerResult describes what an answer submission did to a progress row.
type AnswerResult int

const (
	AnswerIgnored   AnswerResult = iota // course already completed, nothing changed
	AnswerRecorded                      // counters changed, course still in progress
	AnswerCompleted                     // this answer completed the course
)

// Answer is a single submission for a question of a course.
type Answer struct {
	QuestionIndex int  // zero-based index of the question
	IsCorrect     bool // whether the chosen option was correct
	FirstAttempt  bool // first try at this question index
}

// CourseProgress tracks a user's answers inside one course.
type CourseProgress struct {
	UserID              int64      // Telegram user ID
	CourseID            uuid.UUID  // course ID
	TotalQuestions      int        // snapshot of the course length
	QuestionsAnswered   int        // questions answered correctly, 0..TotalQuestions
	FirstAttemptCorrect int        // questions right on the first try, 0..QuestionsAnswered
	TotalAttempts       int        // every submission, >= QuestionsAnswered
	CurrentAttempts     int        // wrong answers on the current question
	CompletedAt         *time.Time // set iff QuestionsAnswered == TotalQuestions
	StartedAt           time.Time
	LastAccessed        time.Time
	Revision            int64 // bumped by the store on every successful update
}

// NewCourseProgress creates an empty progress row for a course.
func NewCourseProgress(userID int64, course *Course, now time.Time) *CourseProgress {
	return &CourseProgress{
		UserID:         userID,
		CourseID:       course.ID,
		TotalQuestions: course.TotalQuestions,
		StartedAt:      now,
		LastAccessed:   now,
	}
}

// IsCompleted reports whether the course is finished.
func (p *CourseProgress) IsCompleted() bool {
	return p.CompletedAt != nil
}

// IsPerfect reports whether every question was answered right on the first try.
func (p *CourseProgress) IsPerfect() bool {
	return p.IsCompleted() && p.FirstAttemptCorrect == p.TotalQuestions
}

// Accuracy is the share of attempts that were first-try correct answers, in percent.
func (p *CourseProgress) Accuracy() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.FirstAttemptCorrect) / float64(p.TotalAttempts) * 100
}

// ApplyAnswer updates the counters for one submission.
//
// Only the current question (index == QuestionsAnswered) can move the course
// forward, and it does so only when answered correctly. A correct answer counts
// as first-try only if the current question has no wrong answers recorded,
// whatever the caller claims. A retry of a question that was already counted
// adds an attempt and nothing else. Skipping ahead, or claiming a first attempt
// on a question that was already counted, is rejected without touching the row.
func (p *CourseProgress) ApplyAnswer(a Answer, now time.Time) (AnswerResult, error) {
	if p.IsCompleted() {
		return AnswerIgnored, nil
	}

	if a.QuestionIndex < 0 || a.QuestionIndex >= p.TotalQuestions {
		return AnswerIgnored, fmt.Errorf("question index %d out of range [0, %d)", a.QuestionIndex, p.TotalQuestions)
	}
	if a.QuestionIndex > p.QuestionsAnswered {
		return AnswerIgnored, fmt.Errorf("question %d answered before question %d", a.QuestionIndex, p.QuestionsAnswered)
	}
	if a.QuestionIndex < p.QuestionsAnswered && a.FirstAttempt {
		return AnswerIgnored, fmt.Errorf("first attempt on question %d which is already answered", a.QuestionIndex)
	}

	p.TotalAttempts++
	p.LastAccessed = now

	if a.QuestionIndex == p.QuestionsAnswered {
		if !a.IsCorrect {
			p.CurrentAttempts++
			return AnswerRecorded, nil
		}
		if a.FirstAttempt && p.CurrentAttempts == 0 {
			p.FirstAttemptCorrect++
		}
		p.QuestionsAnswered++
		p.CurrentAttempts = 0
	}

	if p.QuestionsAnswered == p.TotalQuestions {
		p.CompletedAt = &now
		return AnswerCompleted, nil
	}

	return AnswerRecorded, nil
}

// Reset clears the counters so the course can be taken again.
func (p *CourseProgress) Reset(now time.Time) {
	p.QuestionsAnswered = 0
	p.FirstAttemptCorrect = 0
	p.TotalAttempts = 0
	p.CurrentAttempts = 0
	p.CompletedAt = nil
	p.LastAccessed = now
}

// CourseStatus pairs a catalog course with the user's progress in it.
type CourseStatus struct {
	Course   *Course
	Progress *CourseProgress // nil when never visited
}

// CompletedCourse is a finished course as listed on profiles.
type CompletedCourse struct {
	CourseID    uuid.UUID
	Role        string
	Title       string
	CompletedAt time.Time
}

// ProgressSummary aggregates a user's course progress.
type ProgressSummary struct {
	Completed           int
	InProgress          int
	FirstAttemptCorrect int
	TotalAttempts       int
}

// Accuracy across all courses, in percent.
func (s ProgressSummary) Accuracy() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.FirstAttemptCorrect) / float64(s.TotalAttempts) * 100
}
