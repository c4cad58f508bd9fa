package repository

import (
	"context"

	"github.com/aliskhannn/techquest/internal/apperr"
	"github.com/aliskhannn/techquest/internal/domain/entities"
	"github.com/aliskhannn/techquest/internal/infra/postgres"
)

// LeaderboardRepository serves read-only cross-user rankings.
type LeaderboardRepository struct {
	db postgres.DBTX
}

func NewLeaderboardRepository(db postgres.DBTX) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) TopByMaxStreak(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	query := `
		SELECT s.user_id, COALESCE(u.first_name, ''), COALESCE(u.username, ''), s.max_streak
		FROM user_streaks s
		LEFT JOIN users u ON u.id = s.user_id
		WHERE s.max_streak > 0
		ORDER BY s.max_streak DESC, s.user_id
		LIMIT $1
	`
	return r.rank(ctx, "top by streak", query, limit)
}

func (r *LeaderboardRepository) TopByTrophies(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	query := `
		SELECT t.user_id, COALESCE(u.first_name, ''), COALESCE(u.username, ''), COUNT(*) AS n
		FROM user_trophies t
		LEFT JOIN users u ON u.id = t.user_id
		GROUP BY t.user_id, u.first_name, u.username
		ORDER BY n DESC, t.user_id
		LIMIT $1
	`
	return r.rank(ctx, "top by trophies", query, limit)
}

func (r *LeaderboardRepository) TopByCompletedCourses(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	query := `
		SELECT p.user_id, COALESCE(u.first_name, ''), COALESCE(u.username, ''), COUNT(*) AS n
		FROM user_course_progress p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.completed_at IS NOT NULL
		GROUP BY p.user_id, u.first_name, u.username
		ORDER BY n DESC, p.user_id
		LIMIT $1
	`
	return r.rank(ctx, "top by courses", query, limit)
}

func (r *LeaderboardRepository) rank(ctx context.Context, op, query string, limit int) ([]entities.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, apperr.StoreUnavailable(op, err)
	}
	defer rows.Close()

	var res []entities.LeaderboardEntry
	for rows.Next() {
		var (
			e    entities.LeaderboardEntry
			user entities.User
		)
		if err := rows.Scan(&e.UserID, &user.FirstName, &user.Username, &e.Value); err != nil {
			return nil, apperr.StoreUnavailable(op, err)
		}
		e.Rank = len(res) + 1
		e.DisplayName = user.DisplayName()
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.StoreUnavailable(op, err)
	}
	return res, nil
}

func (r *LeaderboardRepository) CommunityStats(ctx context.Context) (*entities.CommunityStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM user_course_progress WHERE completed_at IS NOT NULL),
			(SELECT COUNT(*) FROM user_trophies),
			(SELECT COALESCE(MAX(max_streak), 0) FROM user_streaks)
	`

	var s entities.CommunityStats
	if err := r.db.QueryRow(ctx, query).Scan(&s.Learners, &s.Completions, &s.TrophiesAwarded, &s.LongestStreak); err != nil {
		return nil, apperr.StoreUnavailable("community stats", err)
	}
	return &s, nil
}
