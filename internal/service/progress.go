package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// ProgressService is the course progress tracker.
type ProgressService struct {
	courses  CourseRepository
	progress ProgressRepository
	opts     Options
}

func NewProgressService(courses CourseRepository, progress ProgressRepository, opts Options) *ProgressService {
	return &ProgressService{
		courses:  courses,
		progress: progress,
		opts:     opts.withDefaults(),
	}
}

// AnswerOutcome is the result of one answer submission.
type AnswerOutcome struct {
	Course   *entities.Course
	Progress *entities.CourseProgress
	Result   entities.AnswerResult

	// Completion is set whenever the course is completed, including replays
	// against a course that was completed earlier.
	Completion *entities.CourseCompleted
}

// NewlyCompleted reports whether this submission completed the course.
func (o *AnswerOutcome) NewlyCompleted() bool {
	return o.Result == entities.AnswerCompleted
}

// SubmitAnswer records one answer for the question at ev.QuestionIndex.
func (s *ProgressService) SubmitAnswer(ctx context.Context, ev entities.AnswerSubmitted) (*AnswerOutcome, error) {
	const op = "submit answer"

	course, err := s.courses.GetByID(ctx, ev.CourseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	answer := entities.Answer{
		QuestionIndex: ev.QuestionIndex,
		IsCorrect:     ev.IsCorrect,
		FirstAttempt:  ev.FirstAttempt,
	}

	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		now := s.opts.Now()

		p, err := s.load(ctx, ev.UserID, course, now)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		res, err := p.ApplyAnswer(answer, now)
		if err != nil {
			return nil, apperr.New(apperr.ErrInvalidState, op, err)
		}

		if res != entities.AnswerIgnored {
			err = s.progress.Update(ctx, p)
			if errors.Is(err, apperr.ErrConflict) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}

		return newAnswerOutcome(course, p, res), nil
	}

	return nil, apperr.Conflict(op)
}

func newAnswerOutcome(course *entities.Course, p *entities.CourseProgress, res entities.AnswerResult) *AnswerOutcome {
	out := &AnswerOutcome{Course: course, Progress: p, Result: res}
	if p.IsCompleted() {
		out.Completion = &entities.CourseCompleted{
			UserID:      p.UserID,
			CourseID:    course.ID,
			Role:        course.Role,
			Title:       course.Title,
			Accuracy:    p.Accuracy(),
			CompletedAt: *p.CompletedAt,
		}
	}
	return out
}

// Visit returns the progress row of a course, creating it on the first visit.
func (s *ProgressService) Visit(ctx context.Context, userID int64, courseID uuid.UUID) (*entities.CourseProgress, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("visit course: %w", err)
	}

	p, err := s.load(ctx, userID, course, s.opts.Now())
	if err != nil {
		return nil, fmt.Errorf("visit course: %w", err)
	}
	return p, nil
}

// ResetCourse zeroes the counters of a course so it can be retried. Streaks
// and trophies are left as they are.
func (s *ProgressService) ResetCourse(ctx context.Context, userID int64, courseID uuid.UUID) (*entities.CourseProgress, error) {
	const op = "reset course"

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for attempt := 0; attempt < s.opts.MaxRetries; attempt++ {
		p, err := s.progress.Get(ctx, userID, courseID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, apperr.InvalidState(op, "course %s was never started", courseID)
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		p.Reset(s.opts.Now())

		err = s.progress.Update(ctx, p)
		if errors.Is(err, apperr.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return p, nil
	}

	return nil, apperr.Conflict(op)
}

// load reads the progress row or creates it with zero counters.
func (s *ProgressService) load(ctx context.Context, userID int64, course *entities.Course, now time.Time) (*entities.CourseProgress, error) {
	p, err := s.progress.Get(ctx, userID, course.ID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	p = entities.NewCourseProgress(userID, course, now)
	created, err := s.progress.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	if created {
		return p, nil
	}

	// Lost the race to a concurrent first visit.
	return s.progress.Get(ctx, userID, course.ID)
}

// Roles lists the roles of the catalog.
func (s *ProgressService) Roles(ctx context.Context) ([]string, error) {
	roles, err := s.courses.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// Course returns a catalog course.
func (s *ProgressService) Course(ctx context.Context, courseID uuid.UUID) (*entities.Course, error) {
	c, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// ListCourses returns the courses of a role with the user's progress in each.
func (s *ProgressService) ListCourses(ctx context.Context, userID int64, role string) ([]entities.CourseStatus, error) {
	courses, err := s.courses.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	if len(courses) == 0 {
		return nil, apperr.NotFound("role " + role)
	}

	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	byCourse := make(map[uuid.UUID]*entities.CourseProgress, len(rows))
	for _, p := range rows {
		byCourse[p.CourseID] = p
	}

	res := make([]entities.CourseStatus, 0, len(courses))
	for _, c := range courses {
		res = append(res, entities.CourseStatus{Course: c, Progress: byCourse[c.ID]})
	}
	return res, nil
}

// Summary aggregates all progress rows of a user.
func (s *ProgressService) Summary(ctx context.Context, userID int64) (*entities.ProgressSummary, error) {
	rows, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("progress summary: %w", err)
	}

	var sum entities.ProgressSummary
	for _, p := range rows {
		if p.IsCompleted() {
			sum.Completed++
		} else if p.TotalAttempts > 0 {
			sum.InProgress++
		}
		sum.FirstAttemptCorrect += p.FirstAttemptCorrect
		sum.TotalAttempts += p.TotalAttempts
	}
	return &sum, nil
}

// CompletionTimes lists the completions of a user at or after since, oldest first.
func (s *ProgressService) CompletionTimes(ctx context.Context, userID int64, since time.Time) ([]time.Time, error) {
	times, err := s.progress.CompletionTimes(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list completion times: %w", err)
	}
	return times, nil
}
