package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/service"
)

func TestPipeline_FourQuestionCourse(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	res := f.answer(t, user, foundations, 0, true, true)
	assert.Equal(t, entities.AnswerRecorded, res.Answer.Result)
	assert.Equal(t, []entities.EventKind{entities.KindAnswerSubmitted}, eventKinds(res.Events))

	res = f.answer(t, user, foundations, 1, false, true)
	assert.Equal(t, 1, res.Answer.Progress.QuestionsAnswered)

	res = f.answer(t, user, foundations, 1, true, false)
	assert.Equal(t, 2, res.Answer.Progress.QuestionsAnswered)

	f.answer(t, user, foundations, 2, true, true)
	res = f.answer(t, user, foundations, 3, true, true)

	p := res.Answer.Progress
	assert.Equal(t, entities.AnswerCompleted, res.Answer.Result)
	assert.Equal(t, 4, p.QuestionsAnswered)
	assert.Equal(t, 3, p.FirstAttemptCorrect)
	assert.Equal(t, 5, p.TotalAttempts)
	require.NotNil(t, p.CompletedAt)
	assert.InDelta(t, 60.0, p.Accuracy(), 0.001)

	assert.Equal(t, []entities.EventKind{
		entities.KindAnswerSubmitted,
		entities.KindCourseCompleted,
		entities.KindStreakUpdated,
		entities.KindTrophyAwarded,
	}, eventKinds(res.Events))
	assert.Equal(t, []string{"first_steps"}, awardedKeys(res.Awards))

	require.NotNil(t, res.Streak)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Equal(t, 1, res.Streak.MaxStreak)

	completed, ok := res.Events[1].(entities.CourseCompleted)
	require.True(t, ok)
	assert.Equal(t, "Foundations", completed.Title)
	assert.Equal(t, "QA Tester", completed.Role)

	assert.Equal(t, []entities.EventKind{
		entities.KindCourseCompleted,
		entities.KindStreakUpdated,
		entities.KindTrophyAwarded,
	}, eventKinds(f.notified.Events()))
}

func TestPipeline_ReplayIsIdempotent(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	f.complete(t, user, foundations, 4)
	notified := len(f.notified.Events())

	res := f.answer(t, user, foundations, 3, true, true)

	assert.Equal(t, entities.AnswerIgnored, res.Answer.Result)
	assert.False(t, res.Answer.NewlyCompleted())
	assert.Empty(t, res.Events)
	assert.Empty(t, res.Awards)
	assert.Equal(t, 4, res.Answer.Progress.TotalAttempts)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Len(t, f.notified.Events(), notified)
}

func TestPipeline_ReplayRepairsSkippedStages(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	// The tracker committed but the later stages never ran.
	for i := 0; i < 4; i++ {
		_, err := f.tracker.SubmitAnswer(f.ctx, entities.AnswerSubmitted{
			UserID: user, CourseID: foundations, QuestionIndex: i, IsCorrect: true, FirstAttempt: true,
		})
		require.NoError(t, err)
	}

	res := f.answer(t, user, foundations, 3, true, true)

	assert.Equal(t, entities.AnswerIgnored, res.Answer.Result)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Equal(t, []string{"first_steps", "flawless"}, awardedKeys(res.Awards))
	assert.Equal(t, []entities.EventKind{
		entities.KindStreakUpdated,
		entities.KindTrophyAwarded,
		entities.KindTrophyAwarded,
	}, eventKinds(res.Events))

	again := f.answer(t, user, foundations, 3, true, true)
	assert.Empty(t, again.Events)
}

func TestPipeline_TrackerErrors(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	_, err := f.pipeline.SubmitAnswer(f.ctx, entities.AnswerSubmitted{
		UserID: user, CourseID: foundations, QuestionIndex: 2, IsCorrect: true, FirstAttempt: true,
	})
	var stageErr *service.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, service.StageTracker, stageErr.Stage)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	res, err := f.pipeline.SubmitAnswer(f.ctx, entities.AnswerSubmitted{
		UserID: user, CourseID: entities.CourseID("QA Tester", "Missing"), QuestionIndex: 0, IsCorrect: true,
	})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPipeline_FirstAttemptOnAnsweredQuestionIsRejected(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	f.answer(t, user, foundations, 0, true, true)

	_, err := f.pipeline.SubmitAnswer(f.ctx, entities.AnswerSubmitted{
		UserID: user, CourseID: foundations, QuestionIndex: 0, IsCorrect: true, FirstAttempt: true,
	})
	require.ErrorIs(t, err, apperr.ErrInvalidState)

	p, err := f.tracker.Visit(f.ctx, user, foundations)
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalAttempts)
	assert.Equal(t, 1, p.FirstAttemptCorrect)
}

func TestPipeline_StreakAcrossDays(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	res := f.complete(t, user, foundations, 4)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Equal(t, []string{"first_steps", "flawless"}, awardedKeys(res.Awards))

	f.clock.Set(day.AddDate(0, 0, 1))
	res = f.complete(t, user, automation, 1)
	assert.Equal(t, 2, res.Streak.CurrentStreak)
	assert.Equal(t, 2, res.Streak.MaxStreak)
	assert.Equal(t, []string{"role_master", "two_days"}, awardedKeys(res.Awards))

	f.clock.Set(day.AddDate(0, 0, 4))
	res = f.complete(t, user, research, 1)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Equal(t, 2, res.Streak.MaxStreak)
	assert.Equal(t, []string{"explorer"}, awardedKeys(res.Awards))
}

func TestPipeline_SecondCompletionSameDayKeepsStreak(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	f.complete(t, user, foundations, 4)

	f.clock.Set(time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))
	res := f.complete(t, user, automation, 1)

	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.NotContains(t, eventKinds(res.Events), entities.KindStreakUpdated)
}

func TestPipeline_TimeOfDayTrophies(t *testing.T) {
	f := newFixture(t)

	f.clock.Set(time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC))
	res := f.complete(t, 1, automation, 1)
	assert.Equal(t, []string{"first_steps", "flawless", "early_bird"}, awardedKeys(res.Awards))

	f.clock.Set(time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC))
	res = f.complete(t, 2, automation, 1)
	assert.Equal(t, []string{"first_steps", "flawless", "night_owl"}, awardedKeys(res.Awards))
}

func TestPipeline_TimeOfDayUsesConfiguredTimezone(t *testing.T) {
	f := newFixtureIn(t, time.FixedZone("UTC+3", 3*60*60))

	// 20:30 UTC is 23:30 local.
	f.clock.Set(time.Date(2025, 3, 10, 20, 30, 0, 0, time.UTC))
	res := f.complete(t, 1, automation, 1)
	assert.Contains(t, awardedKeys(res.Awards), "night_owl")

	// 23:00 UTC on the 10th is already the 11th locally.
	f.clock.Set(time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC))
	res = f.complete(t, 1, research, 1)
	assert.Equal(t, 2, res.Streak.CurrentStreak)
}

func TestPipeline_ConcurrentSubmissionsConverge(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	f.answer(t, user, foundations, 0, true, true)
	f.answer(t, user, foundations, 1, true, true)
	f.answer(t, user, foundations, 2, true, true)

	const workers = 6
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		awards []entities.TrophyAwarded
		done   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.pipeline.SubmitAnswer(f.ctx, entities.AnswerSubmitted{
				UserID: user, CourseID: foundations, QuestionIndex: 3, IsCorrect: true,
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			awards = append(awards, res.Awards...)
			if res.Answer.NewlyCompleted() {
				done++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, done)
	assert.Equal(t, []string{"first_steps"}, awardedKeys(awards))

	p, err := f.tracker.Visit(f.ctx, user, foundations)
	require.NoError(t, err)
	assert.Equal(t, 4, p.QuestionsAnswered)
	assert.Equal(t, 4, p.TotalAttempts)
}

func TestPipeline_Reconcile(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	_, err := f.tracker.SubmitAnswer(f.ctx, entities.AnswerSubmitted{
		UserID: user, CourseID: automation, QuestionIndex: 0, IsCorrect: true, FirstAttempt: true,
	})
	require.NoError(t, err)

	since := f.clock.Now().Add(-time.Hour)

	res, err := f.pipeline.Reconcile(f.ctx, user, since)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak.CurrentStreak)
	assert.Equal(t, []string{"first_steps", "flawless"}, awardedKeys(res.Awards))

	res, err = f.pipeline.Reconcile(f.ctx, user, since)
	require.NoError(t, err)
	assert.Empty(t, res.Events)
}

func TestStageError(t *testing.T) {
	err := &service.StageError{Stage: service.StageTrophy, Err: apperr.StoreUnavailable("award", errors.New("boom"))}

	assert.Equal(t, "trophy stage: award: store unavailable: boom", err.Error())
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
}
