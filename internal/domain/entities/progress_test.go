package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgress(total int) *CourseProgress {
	course := &Course{ID: CourseID("Data Analyst", "Metrics"), TotalQuestions: total}
	return NewCourseProgress(42, course, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
}

func TestApplyAnswer_FourQuestionCourse(t *testing.T) {
	p := newTestProgress(4)
	now := time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC)

	res, err := p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)
	assert.Equal(t, AnswerRecorded, res)
	assert.Equal(t, 1, p.QuestionsAnswered)
	assert.Equal(t, 1, p.FirstAttemptCorrect)
	assert.Equal(t, 1, p.TotalAttempts)

	_, err = p.ApplyAnswer(Answer{QuestionIndex: 1, IsCorrect: false, FirstAttempt: true}, now)
	require.NoError(t, err)
	_, err = p.ApplyAnswer(Answer{QuestionIndex: 1, IsCorrect: true, FirstAttempt: false}, now)
	require.NoError(t, err)
	assert.Equal(t, 2, p.QuestionsAnswered)
	assert.Equal(t, 1, p.FirstAttemptCorrect)
	assert.Equal(t, 3, p.TotalAttempts)
	assert.False(t, p.IsCompleted())

	_, err = p.ApplyAnswer(Answer{QuestionIndex: 2, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)
	res, err = p.ApplyAnswer(Answer{QuestionIndex: 3, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)

	assert.Equal(t, AnswerCompleted, res)
	assert.Equal(t, 4, p.QuestionsAnswered)
	assert.Equal(t, 3, p.FirstAttemptCorrect)
	assert.Equal(t, 5, p.TotalAttempts)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, now, *p.CompletedAt)
	assert.InDelta(t, 60.0, p.Accuracy(), 0.001)
	assert.False(t, p.IsPerfect())
}

func TestApplyAnswer_FirstAttemptAfterWrongAnswerNotCounted(t *testing.T) {
	p := newTestProgress(2)
	now := time.Now()

	_, err := p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: false, FirstAttempt: true}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentAttempts)

	// The caller lost track of the earlier try and claims a first attempt again.
	_, err = p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, p.QuestionsAnswered)
	assert.Zero(t, p.FirstAttemptCorrect)
	assert.Zero(t, p.CurrentAttempts)

	res, err := p.ApplyAnswer(Answer{QuestionIndex: 1, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)
	assert.Equal(t, AnswerCompleted, res)
	assert.Equal(t, 1, p.FirstAttemptCorrect)
	assert.Equal(t, 3, p.TotalAttempts)
	assert.False(t, p.IsPerfect())
}

func TestApplyAnswer_DuplicateFirstAttemptCountsOnce(t *testing.T) {
	p := newTestProgress(3)
	now := time.Now()

	_, err := p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)

	_, err = p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.Error(t, err)

	assert.Equal(t, 1, p.QuestionsAnswered)
	assert.Equal(t, 1, p.FirstAttemptCorrect)
	assert.Equal(t, 1, p.TotalAttempts)
}

func TestApplyAnswer_RetryOfCountedQuestionOnlyAddsAttempt(t *testing.T) {
	p := newTestProgress(3)
	now := time.Now()

	_, err := p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)

	res, err := p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: false}, now)
	require.NoError(t, err)
	assert.Equal(t, AnswerRecorded, res)
	assert.Equal(t, 1, p.QuestionsAnswered)
	assert.Equal(t, 2, p.TotalAttempts)
}

func TestApplyAnswer_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		answer Answer
	}{
		{name: "skips ahead", answer: Answer{QuestionIndex: 2, IsCorrect: true, FirstAttempt: true}},
		{name: "negative index", answer: Answer{QuestionIndex: -1, IsCorrect: true}},
		{name: "past the end", answer: Answer{QuestionIndex: 3, IsCorrect: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProgress(3)
			res, err := p.ApplyAnswer(tt.answer, time.Now())
			require.Error(t, err)
			assert.Equal(t, AnswerIgnored, res)
			assert.Zero(t, p.TotalAttempts)
		})
	}
}

func TestApplyAnswer_CompletedCourseIsNoop(t *testing.T) {
	p := newTestProgress(1)
	now := time.Now()

	res, err := p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)
	require.Equal(t, AnswerCompleted, res)
	assert.True(t, p.IsPerfect())

	res, err = p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: false, FirstAttempt: true}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, AnswerIgnored, res)
	assert.Equal(t, 1, p.TotalAttempts)
	assert.Equal(t, now, *p.CompletedAt)
}

func TestReset(t *testing.T) {
	p := newTestProgress(1)
	now := time.Now()
	_, err := p.ApplyAnswer(Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	p.Reset(later)

	assert.Zero(t, p.QuestionsAnswered)
	assert.Zero(t, p.FirstAttemptCorrect)
	assert.Zero(t, p.TotalAttempts)
	assert.Zero(t, p.CurrentAttempts)
	assert.Nil(t, p.CompletedAt)
	assert.Equal(t, later, p.LastAccessed)
	assert.Equal(t, 1, p.TotalQuestions)
}
