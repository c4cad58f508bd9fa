package telegram

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/service"
)

type UserService interface {
	Register(ctx context.Context, userID, chatID int64, firstName, username string) (*entities.User, bool, error)
	Get(ctx context.Context, userID int64) (*entities.User, error)
}

type CourseService interface {
	Roles(ctx context.Context) ([]string, error)
	ListCourses(ctx context.Context, userID int64, role string) ([]entities.CourseStatus, error)
	Course(ctx context.Context, courseID uuid.UUID) (*entities.Course, error)
	Visit(ctx context.Context, userID int64, courseID uuid.UUID) (*entities.CourseProgress, error)
	ResetCourse(ctx context.Context, userID int64, courseID uuid.UUID) (*entities.CourseProgress, error)
	Summary(ctx context.Context, userID int64) (*entities.ProgressSummary, error)
}

// AnswerPipeline runs submitted answers through progress, streak and trophy evaluation.
type AnswerPipeline interface {
	SubmitAnswer(ctx context.Context, ev entities.AnswerSubmitted) (*service.SubmitResult, error)
}

type StreakService interface {
	Get(ctx context.Context, userID int64) (*entities.Streak, error)
	Today() time.Time
}

type TrophyService interface {
	Shelf(ctx context.Context, userID int64) (*entities.TrophyShelf, error)
}

type FriendService interface {
	AddByCode(ctx context.Context, userID int64, code string) (*entities.User, error)
	RemoveByCode(ctx context.Context, userID int64, code string) (*entities.User, error)
	List(ctx context.Context, userID int64) ([]entities.FriendStats, error)
}

type LeaderboardService interface {
	Top(ctx context.Context, board service.Board, limit int) ([]entities.LeaderboardEntry, error)
	Community(ctx context.Context) (*entities.CommunityStats, error)
}

type AdviceService interface {
	Enabled() bool
	AnalyzeBarriers(ctx context.Context, userID int64, background string) (*entities.BarrierAdvice, error)
	MatchPath(ctx context.Context, userID int64, experience, skills, targetRole string) (*entities.PathMatch, error)
}

// QuestionSource serves question content by course and index.
type QuestionSource interface {
	Question(courseID uuid.UUID, index int) (*entities.Question, error)
}

// Services groups everything the handler calls into.
type Services struct {
	Users       UserService
	Courses     CourseService
	Pipeline    AnswerPipeline
	Streaks     StreakService
	Trophies    TrophyService
	Friends     FriendService
	Leaderboard LeaderboardService
	Advice      AdviceService
	Questions   QuestionSource
}
