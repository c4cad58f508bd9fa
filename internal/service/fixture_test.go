package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/content"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/sqlite"
	"github.com/aliskhannn/techquest/internal/service"
)

const testCatalog = `
roles:
  - name: QA Tester
    courses:
      - title: Foundations
        difficulty: easy
        questions:
          - { prompt: One, answer: a, options: [{ id: a, text: yes }, { id: b, text: no }] }
          - { prompt: Two, answer: a, options: [{ id: a, text: yes }, { id: b, text: no }] }
          - { prompt: Three, answer: a, options: [{ id: a, text: yes }, { id: b, text: no }] }
          - { prompt: Four, answer: a, options: [{ id: a, text: yes }, { id: b, text: no }] }
      - title: Automation
        difficulty: medium
        questions:
          - { prompt: One, answer: a, options: [{ id: a, text: yes }, { id: b, text: no }] }
  - name: UX Designer
    courses:
      - title: Research
        difficulty: easy
        questions:
          - { prompt: One, answer: a, options: [{ id: a, text: yes }, { id: b, text: no }] }
trophies:
  - { key: first_steps, name: First Steps, criteria: courses_completed, value: 1 }
  - { key: role_master, name: Role Master, criteria: role_completion_percent, value: 100 }
  - { key: explorer, name: Explorer, criteria: distinct_roles, value: 2 }
  - { key: flawless, name: Flawless, criteria: perfect_courses, value: 1 }
  - { key: early_bird, name: Early Bird, criteria: completed_before_hour, value: 9 }
  - { key: night_owl, name: Night Owl, criteria: completed_from_hour, value: 22 }
  - { key: two_days, name: Two Days, criteria: streak_days, value: 2 }
  - { key: top_of_the_class, name: Top of the Class, criteria: top_of_friends, value: 1 }
`

var (
	foundations = entities.CourseID("QA Tester", "Foundations")
	automation  = entities.CourseID("QA Tester", "Automation")
	research    = entities.CourseID("UX Designer", "Research")
)

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// recorder collects notified events.
type recorder struct {
	mu     sync.Mutex
	events []entities.Event
}

func (r *recorder) Notify(_ context.Context, ev entities.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Events() []entities.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Event(nil), r.events...)
}

type fixture struct {
	ctx      context.Context
	opts     service.Options
	store    service.Store
	clock    *clock
	notified *recorder

	tracker     *service.ProgressService
	streaks     *service.StreakService
	trophies    *service.TrophyService
	pipeline    *service.Pipeline
	users       *service.UserService
	friends     *service.FriendService
	leaderboard *service.LeaderboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureIn(t, time.UTC)
}

// newFixtureIn builds a fixture whose calendar runs in loc.
func newFixtureIn(t *testing.T, loc *time.Location) *fixture {
	t.Helper()

	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })

	store := service.Store{
		Courses:     sqlite.NewCourseRepository(db),
		Progress:    sqlite.NewProgressRepository(db),
		Streaks:     sqlite.NewStreakRepository(db),
		Trophies:    sqlite.NewTrophyRepository(db),
		Catalog:     sqlite.NewCatalogRepository(db),
		Users:       sqlite.NewUserRepository(db),
		Friendships: sqlite.NewFriendshipRepository(db),
		Leaderboard: sqlite.NewLeaderboardRepository(db),
		Advice:      sqlite.NewAdviceRepository(db),
	}

	catalog, err := content.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)

	ctx := context.Background()
	logger := zap.NewNop()
	require.NoError(t, service.NewCatalogService(content.NewProvider(catalog), store.Catalog, logger).Sync(ctx))

	clk := &clock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	opts := service.Options{Location: loc, Now: clk.Now, Logger: logger}
	rec := &recorder{}

	f := &fixture{
		ctx:      ctx,
		opts:     opts,
		store:    store,
		clock:    clk,
		notified: rec,
		tracker:  service.NewProgressService(store.Courses, store.Progress, opts),
		streaks:  service.NewStreakService(store.Streaks, opts),
		trophies: service.NewTrophyService(store, opts),
		users:    service.NewUserService(store.Users, logger),
	}
	f.pipeline = service.NewPipeline(f.tracker, f.streaks, f.trophies, rec, logger)
	f.friends = service.NewFriendService(store, f.pipeline, logger)
	f.leaderboard = service.NewLeaderboardService(store.Leaderboard)
	return f
}

func (f *fixture) answer(t *testing.T, userID int64, course uuid.UUID, idx int, correct, first bool) *service.SubmitResult {
	t.Helper()

	res, err := f.pipeline.SubmitAnswer(f.ctx, entities.AnswerSubmitted{
		UserID:        userID,
		CourseID:      course,
		QuestionIndex: idx,
		IsCorrect:     correct,
		FirstAttempt:  first,
		SubmittedAt:   f.clock.Now(),
	})
	require.NoError(t, err)
	return res
}

// complete answers every question of a course right on the first try.
func (f *fixture) complete(t *testing.T, userID int64, course uuid.UUID, questions int) *service.SubmitResult {
	t.Helper()

	var res *service.SubmitResult
	for i := 0; i < questions; i++ {
		res = f.answer(t, userID, course, i, true, true)
	}
	return res
}

func (f *fixture) register(t *testing.T, userID int64, name string) *entities.User {
	t.Helper()

	u, _, err := f.users.Register(f.ctx, userID, userID, name, "")
	require.NoError(t, err)
	return u
}

func awardedKeys(awards []entities.TrophyAwarded) []string {
	keys := make([]string, 0, len(awards))
	for _, a := range awards {
		keys = append(keys, a.Trophy.Key)
	}
	return keys
}

func eventKinds(events []entities.Event) []entities.EventKind {
	kinds := make([]entities.EventKind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind())
	}
	return kinds
}
