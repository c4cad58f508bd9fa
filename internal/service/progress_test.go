package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

func TestProgressService_VisitCreatesOnce(t *testing.T) {
	f := newFixture(t)

	p, err := f.tracker.Visit(f.ctx, 1, foundations)
	require.NoError(t, err)
	assert.Equal(t, 4, p.TotalQuestions)
	assert.Zero(t, p.TotalAttempts)

	f.answer(t, 1, foundations, 0, false, true)

	p, err = f.tracker.Visit(f.ctx, 1, foundations)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalAttempts)
}

func TestProgressService_ResetCourse(t *testing.T) {
	f := newFixture(t)

	f.complete(t, 1, foundations, 4)

	p, err := f.tracker.ResetCourse(f.ctx, 1, foundations)
	require.NoError(t, err)
	assert.False(t, p.IsCompleted())
	assert.Zero(t, p.QuestionsAnswered)
	assert.Zero(t, p.TotalAttempts)

	res := f.answer(t, 1, foundations, 0, true, true)
	assert.Equal(t, entities.AnswerRecorded, res.Answer.Result)
	assert.Equal(t, 1, res.Answer.Progress.QuestionsAnswered)
}

func TestProgressService_ResetUnstartedCourse(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.ResetCourse(f.ctx, 1, foundations)
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.tracker.ResetCourse(f.ctx, 1, entities.CourseID("QA Tester", "Missing"))
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProgressService_ListCoursesAndSummary(t *testing.T) {
	f := newFixture(t)

	f.complete(t, 1, automation, 1)
	f.answer(t, 1, foundations, 0, false, true)

	roles, err := f.tracker.Roles(f.ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"QA Tester", "UX Designer"}, roles)

	courses, err := f.tracker.ListCourses(f.ctx, 1, "QA Tester")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Foundations", courses[0].Course.Title)
	require.NotNil(t, courses[0].Progress)
	assert.False(t, courses[0].Progress.IsCompleted())
	require.NotNil(t, courses[1].Progress)
	assert.True(t, courses[1].Progress.IsCompleted())

	_, err = f.tracker.ListCourses(f.ctx, 1, "Astronaut")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	sum, err := f.tracker.Summary(f.ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Completed)
	assert.Equal(t, 1, sum.InProgress)
	assert.InDelta(t, 50.0, sum.Accuracy(), 0.001)
}
