package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestProgressRepository_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(openTestDB(t))
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	course := &entities.Course{ID: uuid.New(), TotalQuestions: 2}

	_, err := repo.Get(ctx, 1, course.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	created, err := repo.Create(ctx, entities.NewCourseProgress(1, course, now))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(ctx, entities.NewCourseProgress(1, course, now))
	require.NoError(t, err)
	assert.False(t, created)

	a, err := repo.Get(ctx, 1, course.ID)
	require.NoError(t, err)
	b, err := repo.Get(ctx, 1, course.ID)
	require.NoError(t, err)

	_, err = a.ApplyAnswer(entities.Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, a))
	assert.Equal(t, int64(1), a.Revision)

	// b was read at the old revision.
	_, err = b.ApplyAnswer(entities.Answer{QuestionIndex: 0, IsCorrect: false, FirstAttempt: true}, now)
	require.NoError(t, err)
	require.ErrorIs(t, repo.Update(ctx, b), apperr.ErrConflict)

	_, err = a.ApplyAnswer(entities.Answer{QuestionIndex: 1, IsCorrect: true, FirstAttempt: true}, now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, a))

	stored, err := repo.Get(ctx, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.QuestionsAnswered)
	assert.Equal(t, 2, stored.FirstAttemptCorrect)
	assert.Equal(t, 2, stored.TotalAttempts)
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.CompletedAt.Equal(now.Add(time.Minute)))

	n, err := repo.CountPerfect(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ids, err := repo.UsersCompletedSince(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	ids, err = repo.UsersCompletedSince(ctx, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestProgressRepository_KeepsCurrentAttempts(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(openTestDB(t))
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	course := &entities.Course{ID: uuid.New(), TotalQuestions: 2}

	_, err := repo.Create(ctx, entities.NewCourseProgress(1, course, now))
	require.NoError(t, err)

	p, err := repo.Get(ctx, 1, course.ID)
	require.NoError(t, err)
	_, err = p.ApplyAnswer(entities.Answer{QuestionIndex: 0, IsCorrect: false, FirstAttempt: true}, now)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, p))

	p, err = repo.Get(ctx, 1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CurrentAttempts)

	_, err = p.ApplyAnswer(entities.Answer{QuestionIndex: 0, IsCorrect: true, FirstAttempt: true}, now)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, p))

	p, err = repo.Get(ctx, 1, course.ID)
	require.NoError(t, err)
	assert.Zero(t, p.CurrentAttempts)
	assert.Zero(t, p.FirstAttemptCorrect)
	assert.Equal(t, 1, p.QuestionsAnswered)
}

func TestStreakRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStreakRepository(openTestDB(t))
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := repo.Get(ctx, 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	created, err := repo.Create(ctx, entities.NewStreak(1, now))
	require.NoError(t, err)
	require.True(t, created)

	s, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	stale := *s

	require.True(t, s.RecordActivity(day, now))
	require.NoError(t, repo.Update(ctx, s))
	require.ErrorIs(t, repo.Update(ctx, &stale), apperr.ErrConflict)

	stored, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentStreak)
	require.NotNil(t, stored.LastActivityDate)
	assert.True(t, stored.LastActivityDate.Equal(day))

	active, err := repo.ListLastActiveOn(ctx, day)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].UserID)

	active, err = repo.ListLastActiveOn(ctx, day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestTrophyRepository_AwardOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewTrophyRepository(openTestDB(t))
	trophy := entities.TrophyID("first_steps")
	now := time.Now()

	inserted, err := repo.Award(ctx, 1, trophy, now)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Award(ctx, 1, trophy, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, inserted)

	inserted, err = repo.Award(ctx, 2, trophy, now)
	require.NoError(t, err)
	assert.True(t, inserted)

	earned, err := repo.ListEarned(ctx, 1)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, trophy, earned[0].TrophyID)

	counts, err := repo.CountByUsers(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 0}, counts)
}

func TestUserRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	u := entities.NewUser(1, 10, "Ann", "ann")
	created, err := repo.Save(ctx, u)
	require.NoError(t, err)
	assert.True(t, created)
	code := u.FriendCode

	again := entities.NewUser(1, 11, "Anna", "ann")
	created, err = repo.Save(ctx, again)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, code, again.FriendCode)

	stored, err := repo.GetByFriendCode(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "Anna", stored.FirstName)
	assert.Equal(t, int64(11), stored.ChatID)

	_, err = repo.GetByID(ctx, 2)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFriendshipRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewFriendshipRepository(openTestDB(t))

	added, err := repo.Add(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.Add(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, added)

	ok, err := repo.Exists(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ids, err := repo.ListFriendIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)

	removed, err := repo.Remove(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err = repo.Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
