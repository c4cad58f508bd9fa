package service_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

func TestTrophyService_ConcurrentEvaluationAwardsOnce(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	_, err := f.tracker.SubmitAnswer(f.ctx, entities.AnswerSubmitted{
		UserID: user, CourseID: research, QuestionIndex: 0, IsCorrect: true,
	})
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		awards []entities.TrophyAwarded
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.trophies.Evaluate(f.ctx, user, nil)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			awards = append(awards, got...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Research is the only UX Designer course, so it also completes the role.
	assert.ElementsMatch(t, []string{"first_steps", "role_master"}, awardedKeys(awards))

	shelf, err := f.trophies.Shelf(f.ctx, user)
	require.NoError(t, err)
	assert.Len(t, shelf.Earned, 2)
}

func TestTrophyService_TrophiesSurviveReset(t *testing.T) {
	f := newFixture(t)
	const user = int64(1)

	f.complete(t, user, automation, 1)

	_, err := f.tracker.ResetCourse(f.ctx, user, automation)
	require.NoError(t, err)

	awards, err := f.trophies.Evaluate(f.ctx, user, nil)
	require.NoError(t, err)
	assert.Empty(t, awards)

	shelf, err := f.trophies.Shelf(f.ctx, user)
	require.NoError(t, err)

	var earned []string
	for _, e := range shelf.Earned {
		earned = append(earned, e.Trophy.Key)
	}
	assert.Equal(t, []string{"first_steps", "flawless"}, earned)
	assert.Len(t, shelf.Locked, 6)
}

func TestTrophyService_ShelfOrder(t *testing.T) {
	f := newFixture(t)

	shelf, err := f.trophies.Shelf(f.ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, shelf.Earned)
	require.Len(t, shelf.Locked, 8)
	assert.Equal(t, "first_steps", shelf.Locked[0].Key)
	assert.Equal(t, "top_of_the_class", shelf.Locked[7].Key)
}
