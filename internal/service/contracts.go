package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/techquest/internal/domain/entities"
)

// CourseRepository reads the seeded course catalog.
type CourseRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Course, error)
	ListByRole(ctx context.Context, role string) ([]*entities.Course, error)
	ListRoles(ctx context.Context) ([]string, error)
	CountByRole(ctx context.Context) (map[string]int, error)
}

// ProgressRepository persists course progress rows.
//
// Update is a compare-and-swap on Revision: it fails with apperr.ErrConflict
// when the stored row moved on since it was read.
type ProgressRepository interface {
	Get(ctx context.Context, userID int64, courseID uuid.UUID) (*entities.CourseProgress, error)
	Create(ctx context.Context, p *entities.CourseProgress) (bool, error)
	Update(ctx context.Context, p *entities.CourseProgress) error
	ListByUser(ctx context.Context, userID int64) ([]*entities.CourseProgress, error)
	CountCompleted(ctx context.Context, userID int64) (int, error)
	CountPerfect(ctx context.Context, userID int64) (int, error)
	CompletedByRole(ctx context.Context, userID int64) (map[string]int, error)
	CompletionTimes(ctx context.Context, userID int64, since time.Time) ([]time.Time, error)
	RecentCompletions(ctx context.Context, userID int64, limit int) ([]entities.CompletedCourse, error)
	UsersCompletedSince(ctx context.Context, since time.Time) ([]int64, error)
}

// StreakRepository persists one streak row per user. Update is a compare-and-swap on Revision.
type StreakRepository interface {
	Get(ctx context.Context, userID int64) (*entities.Streak, error)
	Create(ctx context.Context, s *entities.Streak) (bool, error)
	Update(ctx context.Context, s *entities.Streak) error
	ListLastActiveOn(ctx context.Context, day time.Time) ([]*entities.Streak, error)
}

// TrophyRepository reads the trophy catalog and stores awards.
//
// Award must be backed by a uniqueness constraint on (user, trophy) and
// report false, not an error, when the row already exists.
type TrophyRepository interface {
	ListCatalog(ctx context.Context) ([]entities.Trophy, error)
	ListEarned(ctx context.Context, userID int64) ([]entities.UserTrophy, error)
	Award(ctx context.Context, userID int64, trophyID uuid.UUID, earnedAt time.Time) (bool, error)
	CountByUsers(ctx context.Context, userIDs []int64) (map[int64]int, error)
}

// CatalogRepository writes the static catalog atomically.
type CatalogRepository interface {
	SyncCatalog(ctx context.Context, courses []*entities.Course, trophies []entities.Trophy) error
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	GetByFriendCode(ctx context.Context, code string) (*entities.User, error)
}

// FriendshipRepository stores friendships as two directed rows.
type FriendshipRepository interface {
	Add(ctx context.Context, userID, friendID int64) (bool, error)
	Remove(ctx context.Context, userID, friendID int64) (bool, error)
	Exists(ctx context.Context, userID, friendID int64) (bool, error)
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
}

type LeaderboardRepository interface {
	TopByMaxStreak(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
	TopByTrophies(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
	TopByCompletedCourses(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
	CommunityStats(ctx context.Context) (*entities.CommunityStats, error)
}

type AdviceRepository interface {
	SaveBarrierAdvice(ctx context.Context, advice *entities.BarrierAdvice) error
	SavePathMatch(ctx context.Context, match *entities.PathMatch) error
	LatestPathMatch(ctx context.Context, userID int64) (*entities.PathMatch, error)
}

// ContentProvider serves the static question sets.
type ContentProvider interface {
	Courses() []*entities.Course
	Trophies() []entities.Trophy
	Questions(courseID uuid.UUID) ([]entities.Question, error)
	Question(courseID uuid.UUID, index int) (*entities.Question, error)
}

// Notifier receives informational events. Implementations handle their own
// failures; nothing a notifier does may affect the caller.
type Notifier interface {
	Notify(ctx context.Context, event entities.Event)
}

// Advisor generates career advice.
type Advisor interface {
	AnalyzeBarriers(ctx context.Context, background string) (*entities.BarrierAdvice, error)
	MatchPath(ctx context.Context, experience, skills, targetRole string) (*entities.PathMatch, error)
}

// Store groups every repository a backend provides.
type Store struct {
	Courses     CourseRepository
	Progress    ProgressRepository
	Streaks     StreakRepository
	Trophies    TrophyRepository
	Catalog     CatalogRepository
	Users       UserRepository
	Friendships FriendshipRepository
	Leaderboard LeaderboardRepository
	Advice      AdviceRepository
}
